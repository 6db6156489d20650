package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/models"
	"github.com/claude/repcoach/internal/upload"
)

var (
	exercisesMuscle string
	exercisesTOML   bool
	progressGoal    string
)

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "List the exercise catalogue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := apiClient().Exercises(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		if exercisesMuscle != "" {
			m, ok := models.ParseMuscleGroup(exercisesMuscle)
			if !ok {
				return fmt.Errorf("unknown muscle group %q", exercisesMuscle)
			}
			exercises = filterByMuscle(exercises, m)
		}
		if exercisesTOML {
			return catalog.Encode(cmd.OutOrStdout(), exercises)
		}
		if len(exercises) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No exercises found.")
			return nil
		}
		printExercises(cmd.OutOrStdout(), exercises)
		return nil
	},
}

// filterByMuscle keeps exercises that train m as primary or secondary muscle.
func filterByMuscle(exercises []models.Exercise, m models.MuscleGroup) []models.Exercise {
	var out []models.Exercise
	for _, ex := range exercises {
		if ex.Primary == m || slices.Contains(ex.Secondary, m) {
			out = append(out, ex)
		}
	}
	return out
}

var progressCmd = &cobra.Command{
	Use:   "progress [exercise-id]",
	Short: "Suggest load and reps for the next session of an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal, err := goalArg(progressGoal)
		if err != nil {
			return err
		}
		target, err := apiClient().Progression(cmd.Context(), args[0], goal)
		if err != nil {
			return fmt.Errorf("failed to load progression: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", boldGreen("Next session:"), args[0])
		if target.LastWeight != nil && target.LastReps != nil {
			fmt.Fprintf(out, "  %s: %s × %d\n", boldCyan("Last"), formatKg(*target.LastWeight), *target.LastReps)
		}
		fmt.Fprintf(out, "  %s: %s\n", boldCyan("Target"), describeTarget(target))
		return nil
	},
}

var importExercisesCmd = &cobra.Command{
	Use:   "import-exercises [file.toml]",
	Short: "Add or update exercises from a TOML catalogue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read catalogue: %w", err)
		}
		res, err := upload.NewClient(serverURL, apiKey).SendCatalogue(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("failed to import catalogue: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Imported %d exercises\n", boldGreen("✔"), res.Imported)
		for _, s := range res.Skipped {
			fmt.Fprintf(out, "  %s %s: %s\n", yellow("skipped"), s.Name, s.Reason)
		}
		return nil
	},
}

func init() {
	exercisesCmd.Flags().BoolVar(&exercisesTOML, "toml", false, "print as a TOML catalogue that import-exercises accepts")
	exercisesCmd.Flags().StringVarP(&exercisesMuscle, "muscle", "m", "", "only exercises training this muscle group")
	progressCmd.Flags().StringVarP(&progressGoal, "goal", "g", "", "goal used for the weight increment")

	rootCmd.AddCommand(exercisesCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(importExercisesCmd)
}
