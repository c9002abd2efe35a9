// ABOUTME: Whoami command for the mythic CLI
// ABOUTME: Shows the stored session, the profile it belongs to and when the token expires

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// whoami is what the command reports
type whoami struct {
	Profile   client.UserProfile
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// runWhoami restores the session and prints the profile
func runWhoami(ctx context.Context, w io.Writer) int {
	rt, code := openRuntime(ctx, w)
	if rt == nil {
		return code
	}
	defer rt.Close()

	if code := rt.requireSession(ctx, w); code != exitOK {
		return code
	}

	info := whoami{UserID: rt.store.UserID(), Role: rt.store.Role()}
	if p := rt.store.Profile(); p != nil {
		info.Profile = *p
	}
	if exp, ok := session.TokenExpiry(rt.store.Token()); ok {
		info.ExpiresAt = exp
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatWhoamiJSON(info))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(info, time.Now()))
	}
	return exitOK
}

// formatWhoamiHuman formats the session for human readability
func formatWhoamiHuman(info whoami, now time.Time) string {
	expires := "unknown"
	if !info.ExpiresAt.IsZero() {
		expires = humanize.RelTime(info.ExpiresAt, now, "ago", "from now")
	}
	picture := info.Profile.ProfileImagePath
	if picture == "" {
		picture = "none"
	}
	return fmt.Sprintf(`Username: %s
Email:    %s
User ID:  %s
Role:     %s
Picture:  %s
Expires:  %s`, info.Profile.Username, info.Profile.Email, info.UserID, info.Role, picture, expires)
}

// formatWhoamiJSON formats the session as JSON
func formatWhoamiJSON(info whoami) string {
	output := map[string]interface{}{
		"username":           info.Profile.Username,
		"email":              info.Profile.Email,
		"user_id":            info.UserID,
		"role":               info.Role,
		"profile_image_path": info.Profile.ProfileImagePath,
	}
	if !info.ExpiresAt.IsZero() {
		output["expires_at"] = info.ExpiresAt.UTC().Format(time.RFC3339)
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
