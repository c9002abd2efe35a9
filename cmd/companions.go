// ABOUTME: Companions command for the mythic CLI
// ABOUTME: Lists the companions owned by the logged in account with their stats

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

var companionsCmd = &cobra.Command{
	Use:   "companions",
	Short: "List your companions",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCompanions(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(companionsCmd)
}

// runCompanions fetches and prints the owned companions
func runCompanions(ctx context.Context, w io.Writer) int {
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
		return exitCode(err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCompanionsJSON(companions))
	} else {
		fmt.Fprintln(w, formatCompanionsHuman(companions))
	}
	return exitOK
}

// formatCompanionsHuman renders companions as an aligned, borderless table
func formatCompanionsHuman(companions []client.Companion) string {
	if len(companions) == 0 {
		return "You don't have any companions yet. Open the sanctuary with 'mythic' to adopt one."
	}

	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(2)
		}).
		Headers("ID", "NAME", "SPECIES", "HEALTH", "HUNGER", "ENERGY", "HAPPINESS", "HYGIENE", "GEAR")

	for _, c := range companions {
		gear := "-"
		if c.EquippedGear != nil {
			gear = c.EquippedGear.Item.Name
		}
		name := c.Name
		if c.Sick {
			name += " (sick)"
		}
		t.Row(
			strconv.FormatInt(c.ID, 10), name, c.SpeciesName,
			strconv.Itoa(c.Health), strconv.Itoa(c.Hunger), strconv.Itoa(c.Energy),
			strconv.Itoa(c.Happiness), strconv.Itoa(c.Hygiene), gear,
		)
	}
	return t.String()
}

// formatCompanionsJSON formats companions as JSON
func formatCompanionsJSON(companions []client.Companion) string {
	if companions == nil {
		companions = []client.Companion{}
	}
	data, _ := json.MarshalIndent(companions, "", "  ")
	return string(data)
}
