package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/models"
)

var (
	boldGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow    = color.New(color.FgYellow).SprintFunc()
	magenta   = color.New(color.FgMagenta).SprintFunc()
	red       = color.New(color.FgRed, color.Bold).SprintFunc()
)

func levelColor(l models.FatigueLevel) func(a ...any) string {
	switch {
	case l >= models.FatigueHigh:
		return red
	case l == models.FatigueMedium:
		return yellow
	case l == models.FatigueLow:
		return magenta
	}
	return fmt.Sprint
}

func formatKg(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64) + "kg"
}

// describeTarget renders a progression target on one line.
func describeTarget(t *models.ProgressionTarget) string {
	if t == nil {
		return ""
	}
	switch t.Strategy {
	case models.StrategyFirstTime:
		return fmt.Sprintf("first time, %d reps at a comfortable weight", t.SuggestedReps)
	case models.StrategyAddWeight:
		return fmt.Sprintf("%s × %d (add weight)", formatKg(t.SuggestedWeight), t.SuggestedReps)
	case models.StrategyAddRep:
		return fmt.Sprintf("%s × %d (add a rep)", formatKg(t.SuggestedWeight), t.SuggestedReps)
	}
	return fmt.Sprintf("%s × %d (maintain)", formatKg(t.SuggestedWeight), t.SuggestedReps)
}

func printFatigue(w io.Writer, r *coach.FatigueReport, all bool) {
	fmt.Fprintf(w, "%s %s (window %dh, %d events)\n",
		boldGreen("Fatigue at"), r.At.Local().Format("2006-01-02 15:04"), r.WindowHours, r.Events)
	shown := 0
	for _, m := range r.Muscles {
		if !all && m.Level == models.FatigueNone {
			continue
		}
		shown++
		line := fmt.Sprintf("  %-12s %s", m.Muscle, levelColor(m.Level)(m.Level))
		if m.Blocked {
			line += "  " + red("rest")
		}
		fmt.Fprintln(w, line)
	}
	if shown == 0 {
		fmt.Fprintln(w, "  All muscle groups are fresh.")
	}
}

func printSlot(w io.Writer, i int, s models.WorkoutSlot) {
	fmt.Fprintf(w, "  %d. %s  %d × %d-%d  [%s]\n",
		i, boldCyan(s.Exercise.Name), s.Sets, s.Reps.Lower, s.Reps.Upper, s.Exercise.Primary)
	if t := describeTarget(s.Progression); t != "" {
		fmt.Fprintf(w, "     %s\n", yellow(t))
	}
}

func printPlan(w io.Writer, p *coach.Plan) {
	fmt.Fprintf(w, "%s %s, %d min\n", boldGreen("Plan:"), p.Goal, p.Minutes)
	if len(p.Slots) == 0 {
		fmt.Fprintln(w, "  Nothing to train right now. Rest or pick a longer session.")
		return
	}
	for i, s := range p.Slots {
		printSlot(w, i+1, s)
	}
}

func printExercises(w io.Writer, exercises []models.Exercise) {
	for _, ex := range exercises {
		kind := "isolation"
		if ex.Compound {
			kind = "compound"
		}
		equipment := make([]string, len(ex.Equipment))
		for i, e := range ex.Equipment {
			equipment[i] = string(e)
		}
		if len(equipment) == 0 {
			equipment = []string{"bodyweight"}
		}
		fmt.Fprintf(w, "%-24s %-28s %-12s %-9s %s\n",
			ex.ID, ex.Name, ex.Primary, kind, strings.Join(equipment, ", "))
	}
}
