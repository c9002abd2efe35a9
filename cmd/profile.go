// ABOUTME: Profile commands for the mythic CLI
// ABOUTME: Change email, password and profile picture of the logged in account

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paumaneja/mythic-companions-cli/internal/account"
	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

var (
	currentPassword string
	newPassword     string
	confirmPassword string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your account profile",
}

var setEmailCmd = &cobra.Command{
	Use:   "set-email <email>",
	Short: "Change the account email",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSetEmail(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the account password",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runChangePassword(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a profile picture",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runUploadPicture(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var removePictureCmd = &cobra.Command{
	Use:   "remove-picture",
	Short: "Remove the profile picture",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRemovePicture(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(setEmailCmd, passwordCmd, uploadCmd, removePictureCmd)

	passwordCmd.Flags().StringVar(&currentPassword, "current", "", "Current password")
	passwordCmd.Flags().StringVar(&newPassword, "new", "", "New password")
	passwordCmd.Flags().StringVar(&confirmPassword, "confirm", "", "New password again")
}

// withAccount restores the session and hands an account service to fn
func withAccount(ctx context.Context, w io.Writer, fn func(*account.Service) int) int {
	rt, code := openRuntime(ctx, w)
	if rt == nil {
		return code
	}
	defer rt.Close()

	if code := rt.requireSession(ctx, w); code != exitOK {
		return code
	}
	return fn(account.NewService(rt.client, rt.store.UpdateProfile, rt.logger))
}

func runSetEmail(ctx context.Context, w io.Writer, email string) int {
	if err := account.ValidateEmail(email); err != nil {
		return fail(w, err, "")
	}
	return withAccount(ctx, w, func(svc *account.Service) int {
		p, err := svc.UpdateEmail(ctx, email)
		if err != nil {
			return fail(w, err, account.MsgProfileFailed)
		}
		printProfile(w, account.MsgProfileUpdated, p)
		return exitOK
	})
}

func runChangePassword(ctx context.Context, w io.Writer) int {
	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		fmt.Fprintln(w, "Error: --current, --new and --confirm are required")
		return exitRejected
	}
	if newPassword != confirmPassword {
		return fail(w, account.ErrPasswordMismatch, "")
	}
	return withAccount(ctx, w, func(svc *account.Service) int {
		if err := svc.ChangePassword(ctx, currentPassword, newPassword, confirmPassword); err != nil {
			return fail(w, err, account.MsgPasswordFailed)
		}
		fmt.Fprintln(w, account.MsgPasswordChanged)
		return exitOK
	})
}

func runUploadPicture(ctx context.Context, w io.Writer, path string) int {
	if err := account.CheckPicture(path); err != nil {
		return fail(w, err, "")
	}
	return withAccount(ctx, w, func(svc *account.Service) int {
		p, err := svc.UploadPicture(ctx, path)
		if err != nil {
			return fail(w, err, account.MsgPictureFailed)
		}
		printProfile(w, account.MsgPictureUploaded, p)
		return exitOK
	})
}

func runRemovePicture(ctx context.Context, w io.Writer) int {
	return withAccount(ctx, w, func(svc *account.Service) int {
		p, err := svc.RemovePicture(ctx)
		if err != nil {
			return fail(w, err, account.MsgPictureFailed)
		}
		printProfile(w, account.MsgPictureRemoved, p)
		return exitOK
	})
}

// printProfile reports a successful change
func printProfile(w io.Writer, message string, p *client.UserProfile) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(p, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintln(w, message)
	fmt.Fprintf(w, "Email:   %s\n", p.Email)
	if p.ProfileImagePath != "" {
		fmt.Fprintf(w, "Picture: %s\n", p.ProfileImagePath)
	}
}
