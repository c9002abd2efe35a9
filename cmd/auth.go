// ABOUTME: Login, logout and register commands for the mythic CLI
// ABOUTME: Persist the session the same way the TUI does so both share one login

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paumaneja/mythic-companions-cli/internal/account"
	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/session"
)

var (
	authUsername string
	authPassword string
	authEmail    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session",
	Long: `Log in with a username and password. The session is stored so that later
commands and the TUI start signed in.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRegister(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd)

	loginCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Account username")
	loginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Account password")

	registerCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Account username")
	registerCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Account password")
	registerCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Email address")
}

// runLogin authenticates and stores the session
func runLogin(ctx context.Context, w io.Writer) int {
	username := strings.TrimSpace(authUsername)
	if username == "" || authPassword == "" {
		fmt.Fprintln(w, "Error: --username and --password are required")
		return exitRejected
	}

	rt, code := openRuntime(ctx, w)
	if rt == nil {
		return code
	}
	defer rt.Close()

	resp, err := rt.client.Login(ctx, client.Credentials{Username: username, Password: authPassword})
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrRejected) {
			fmt.Fprintf(w, "Error: %s\n", client.Message(err, "Invalid username or password"))
			return exitRejected
		}
		fmt.Fprintf(w, "Error: %s\n", client.Describe(err, "Login failed."))
		return exitUnavailable
	}

	userID := strconv.FormatInt(resp.UserID, 10)
	if err := rt.store.Login(ctx, resp.Token, userID, resp.Role); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUnavailable
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatLoginJSON(username, resp))
	} else {
		fmt.Fprintf(w, "Logged in as %s (%s)\n", username, resp.Role)
	}
	return exitOK
}

func formatLoginJSON(username string, resp *client.AuthResponse) string {
	output := map[string]interface{}{
		"username": username,
		"user_id":  resp.UserID,
		"role":     resp.Role,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}

// runLogout clears the stored session. There is no server call: the token
// simply stops being sent.
func runLogout(ctx context.Context, w io.Writer) int {
	rt, code := openRuntime(ctx, w)
	if rt == nil {
		return code
	}
	defer rt.Close()

	if _, err := rt.storage.Load(ctx); errors.Is(err, session.ErrNotFound) {
		fmt.Fprintln(w, "Not logged in.")
		return exitOK
	}
	if err := rt.storage.Clear(ctx); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUnavailable
	}
	fmt.Fprintln(w, "Logged out.")
	return exitOK
}

// runRegister creates an account. It does not log in.
func runRegister(ctx context.Context, w io.Writer) int {
	reg := client.Registration{
		Username: strings.TrimSpace(authUsername),
		Email:    strings.TrimSpace(authEmail),
		Password: authPassword,
	}
	if reg.Username == "" || reg.Password == "" || reg.Email == "" {
		fmt.Fprintln(w, "Error: --username, --email and --password are required")
		return exitRejected
	}
	if err := account.ValidateEmail(reg.Email); err != nil {
		return fail(w, err, "")
	}

	rt, code := openRuntime(ctx, w)
	if rt == nil {
		return code
	}
	defer rt.Close()

	if err := rt.client.Register(ctx, reg); err != nil {
		fmt.Fprintf(w, "Error: %s\n", client.Describe(err, "Registration failed."))
		return exitCode(err)
	}
	fmt.Fprintln(w, "Registration successful! Run 'mythic login' to sign in.")
	return exitOK
}
