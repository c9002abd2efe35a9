// ABOUTME: Root command for the mythic CLI
// ABOUTME: Handles global flags and configuration, and launches the TUI when run bare

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paumaneja/mythic-companions-cli/internal/config"
	"github.com/paumaneja/mythic-companions-cli/internal/logger"
	"github.com/paumaneja/mythic-companions-cli/internal/tui"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/pictures"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "mythic",
	Short: "Terminal client for Mythic Companions",
	Long: `mythic is a terminal client for Mythic Companions.

Run it without arguments to open the interactive sanctuary, or use the
subcommands to manage your account from scripts.

Exit codes:
  0 - Success
  1 - Rejected by the server or invalid input
  2 - Error (connectivity, no session, configuration)

Environment Variables:
  MYTHIC_API_URL             Backend API URL (default: http://localhost:8080)
  MYTHIC_CONFIG_DIR          Where the session file and debug.log live
  MYTHIC_SESSION_STORE       file or redis (default: file)
  MYTHIC_REDIS_URL           Redis URL for the redis session store
  MYTHIC_SESSION_PROFILE     Session name inside Redis (default: default)
  MYTHIC_INACTIVITY_TIMEOUT  Idle time before the TUI logs out (default: 5m)
  MYTHIC_HTTP_TIMEOUT        Per-request timeout (default: 30s)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runTUI(ctx, os.Stderr)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides MYTHIC_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// runTUI starts the interactive client. Logs go to debug.log because the
// terminal belongs to the TUI.
func runTUI(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUnavailable
	}

	var logOut io.Writer = io.Discard
	if f, err := logger.OpenFile(cfg.ConfigDir); err == nil {
		defer f.Close()
		logOut = f
	}
	log := logger.Init(logOut, cfg.LogLevel, cfg.LogFormat)

	rt, err := newRuntime(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUnavailable
	}
	defer rt.Close()

	home, _ := os.UserHomeDir()
	err = tui.Run(ctx, tui.Deps{
		Client:      rt.client,
		Session:     rt.store,
		Logger:      log,
		PicturesDir: pictures.FindPicturesDir(home),
	})
	if err != nil {
		log.Error("tui exited", "error", err)
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitRejected
	}
	return exitOK
}
