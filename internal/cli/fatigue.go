package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/claude/repcoach/internal/models"
)

var (
	fatigueAt  string
	fatigueAll bool
	soreClear  bool
)

var fatigueCmd = &cobra.Command{
	Use:   "fatigue",
	Short: "Show current fatigue per muscle group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var at time.Time
		if fatigueAt != "" {
			t, err := time.Parse(time.RFC3339, fatigueAt)
			if err != nil {
				return fmt.Errorf("invalid --at, expected RFC 3339: %w", err)
			}
			at = t
		}
		report, err := apiClient().Fatigue(cmd.Context(), at)
		if err != nil {
			return fmt.Errorf("failed to load fatigue: %w", err)
		}
		printFatigue(cmd.OutOrStdout(), report, fatigueAll)
		return nil
	},
}

var soreCmd = &cobra.Command{
	Use:   "sore [muscle]",
	Short: "Mark a muscle group as sore, or clear the mark with --clear",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, ok := models.ParseMuscleGroup(args[0])
		if !ok {
			return fmt.Errorf("unknown muscle group %q", args[0])
		}
		change, err := apiClient().SetOverride(cmd.Context(), m, !soreClear, time.Time{})
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", m, err)
		}
		out := cmd.OutOrStdout()
		switch {
		case !change.Changed():
			fmt.Fprintf(out, "%s unchanged\n", m)
		case soreClear:
			fmt.Fprintf(out, "%s Cleared soreness for %s\n", boldGreen("✔"), m)
		default:
			fmt.Fprintf(out, "%s Marked %s as sore\n", boldGreen("✔"), m)
		}
		return nil
	},
}

var windowCmd = &cobra.Command{
	Use:   "window [hours]",
	Short: "Show or change the fatigue window",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiClient()
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			hours, err := client.Window(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load window: %w", err)
			}
			fmt.Fprintf(out, "Fatigue window: %dh\n", hours)
			return nil
		}
		hours, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid hours %q", args[0])
		}
		if err := client.SetWindow(cmd.Context(), hours); err != nil {
			return fmt.Errorf("failed to set window: %w", err)
		}
		fmt.Fprintf(out, "%s Fatigue window set to %dh\n", boldGreen("✔"), hours)
		return nil
	},
}

func init() {
	fatigueCmd.Flags().StringVar(&fatigueAt, "at", "", "evaluate at this RFC 3339 time instead of now")
	fatigueCmd.Flags().BoolVarP(&fatigueAll, "all", "a", false, "include fresh muscle groups")
	soreCmd.Flags().BoolVar(&soreClear, "clear", false, "remove the soreness mark")

	rootCmd.AddCommand(fatigueCmd)
	rootCmd.AddCommand(soreCmd)
	rootCmd.AddCommand(windowCmd)
}
