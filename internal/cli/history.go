package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claude/repcoach/internal/models"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently logged sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := apiClient().RecentSessions(cmd.Context(), historyDays)
		if err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, magenta("No sessions found."))
			return nil
		}
		for i, s := range sessions {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printSession(out, s)
		}
		return nil
	},
}

func printSession(w io.Writer, s models.SessionLog) {
	name := s.Name
	if name == "" {
		name = "Workout"
	}
	fmt.Fprintf(w, "%s %s\n", boldGreen(s.Date.Local().Format("2006-01-02 15:04")), name)
	for _, ex := range s.Exercises {
		var sets []string
		for _, set := range ex.Sets {
			if set.IsWarmup {
				continue
			}
			weight := formatKg(set.WeightKg)
			if set.IsBodyweightPlus {
				weight = "+" + weight
			}
			sets = append(sets, fmt.Sprintf("%s × %d", weight, set.Reps))
		}
		if len(sets) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", boldCyan(ex.Name), strings.Join(sets, ", "))
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "d", 14, "how many days back to look")
	rootCmd.AddCommand(historyCmd)
}
