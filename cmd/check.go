// ABOUTME: Check command for the mythic CLI
// ABOUTME: Exits non-zero when a companion is sick or a stat has dropped below the threshold

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

	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

var minStat int

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether your companions need care",
	Long: `Check every companion's stats and exit non-zero if any needs attention.

Exit codes:
  0 - All companions are fine
  1 - A companion is sick or a stat is below --min-stat
  2 - Error (connectivity, no session, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCheck(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVar(&minStat, "min-stat", 30, "Lowest acceptable value for health, hunger, energy, happiness and hygiene")
}

// checkResult represents the result of a single stat check
type checkResult struct {
	companion string
	name      string
	value     int
	threshold int
	passed    bool
}

// runCheck executes the care checks and returns exit code
func runCheck(ctx context.Context, w io.Writer) int {
	if err := validateThreshold(minStat); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUnavailable
	}

	rt, code := openRuntime(ctx, w)
	if rt == nil {
		return code
	}
	defer rt.Close()

	if code := rt.requireSession(ctx, w); code != exitOK {
		return code
	}

	companions, err := rt.client.CompanionsByOwner(ctx, rt.store.UserID())
	if err != nil {
		fmt.Fprintf(w, "Error: %s\n", client.Describe(err, "Could not load your companions."))
		return exitUnavailable
	}

	results := performChecks(companions, minStat)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	_, failed := countResults(results)
	if failed > 0 {
		return exitRejected
	}
	return exitOK
}

// validateThreshold ensures the threshold is a valid stat value
func validateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return fmt.Errorf("--min-stat must be between 0 and 100")
	}
	return nil
}

// performChecks runs the stat checks for every companion
func performChecks(companions []client.Companion, threshold int) []checkResult {
	var results []checkResult

	for _, c := range companions {
		stats := []struct {
			name  string
			value int
		}{
			{"health", c.Health},
			{"hunger", c.Hunger},
			{"energy", c.Energy},
			{"happiness", c.Happiness},
			{"hygiene", c.Hygiene},
		}
		for _, s := range stats {
			results = append(results, checkResult{
				companion: c.Name,
				name:      s.name,
				value:     s.value,
				threshold: threshold,
				passed:    s.value >= threshold,
			})
		}
		if c.Sick {
			results = append(results, checkResult{companion: c.Name, name: "sick", passed: false})
		}
	}

	return results
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatCheckHuman formats check results for human readability. Only
// failures are listed per stat; a clean run prints a summary.
func formatCheckHuman(results []checkResult) string {
	if len(results) == 0 {
		return "No companions to check."
	}

	var output string
	for _, r := range results {
		if r.passed {
			continue
		}
		if r.name == "sick" {
			output += fmt.Sprintf("✗ %s is sick\n", r.companion)
			continue
		}
		output += fmt.Sprintf("✗ %s: %s %d (minimum: %d)\n", r.companion, r.name, r.value, r.threshold)
	}

	passed, failed := countResults(results)
	if failed > 0 {
		output += fmt.Sprintf("\nFAILED: %d check(s) need attention", failed)
	} else {
		output += fmt.Sprintf("✓ PASSED: All %d check(s) within thresholds", passed)
	}

	return output
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]interface{}, len(results))
	for i, r := range results {
		checks[i] = map[string]interface{}{
			"companion": r.companion,
			"name":      r.name,
			"value":     r.value,
			"threshold": r.threshold,
			"passed":    r.passed,
		}
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]interface{}{
		"status": status,
		"checks": checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
