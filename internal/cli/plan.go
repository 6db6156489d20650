package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/models"
)

const defaultMinutes = 60

var (
	planGoal      string
	planEquipment []string
)

var planCmd = &cobra.Command{
	Use:   "plan [minutes]",
	Short: "Generate a session that fits the available time and current fatigue",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes := defaultMinutes
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid minutes %q", args[0])
			}
			minutes = n
		}
		goal, err := goalArg(planGoal)
		if err != nil {
			return err
		}

		plan, err := apiClient().Generate(cmd.Context(), coach.GenerateRequest{
			Minutes:   minutes,
			Goal:      goal,
			Equipment: equipmentArg(cmd, planEquipment),
		})
		if err != nil {
			return fmt.Errorf("failed to generate plan: %w", err)
		}
		printPlan(cmd.OutOrStdout(), plan)
		return nil
	},
}

var swapCmd = &cobra.Command{
	Use:   "swap [exercise-id]",
	Short: "Suggest a replacement for an exercise in the current plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal, err := goalArg(planGoal)
		if err != nil {
			return err
		}
		slot, err := apiClient().Alternative(cmd.Context(), coach.SwapRequest{
			ExerciseID: args[0],
			Goal:       goal,
			Equipment:  equipmentArg(cmd, planEquipment),
		})
		if err != nil {
			return fmt.Errorf("failed to find alternative: %w", err)
		}
		out := cmd.OutOrStdout()
		if slot == nil {
			fmt.Fprintln(out, "No alternative available right now.")
			return nil
		}
		fmt.Fprintf(out, "%s %s\n", boldGreen("Swap"), args[0])
		printSlot(out, 1, *slot)
		return nil
	},
}

func goalArg(s string) (models.WorkoutGoal, error) {
	if s == "" {
		return "", nil
	}
	return models.ParseWorkoutGoal(s)
}

// equipmentArg returns nil when the flag was not given so the server uses
// its configured equipment. "none" selects bodyweight only.
func equipmentArg(cmd *cobra.Command, values []string) []string {
	if !cmd.Flags().Changed("equipment") {
		return nil
	}
	if len(values) == 1 && values[0] == "none" {
		return []string{}
	}
	return values
}

func init() {
	for _, c := range []*cobra.Command{planCmd, swapCmd} {
		c.Flags().StringVarP(&planGoal, "goal", "g", "", "strength, hypertrophy, endurance or general_fitness")
		c.Flags().StringSliceVarP(&planEquipment, "equipment", "e", nil, "available equipment, or none for bodyweight only")
		rootCmd.AddCommand(c)
	}
}
