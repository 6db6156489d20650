package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/claude/repcoach/internal/models"
)

// Line shapes of an Alpha Progression CSV export.
var (
	// "Session Name";"2026-02-19 4:54 h";"1:02 hr"
	sessionLine = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// "1. Exercise Name · Equipment · 8 reps[· modifiers]"[;"warmup info"]
	exerciseLine = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// 1;115;8;1
	setLine = regexp.MustCompile(`^(\d+);(.+);(\d+);(.+)$`)

	// WU1 · 37,5 kg · 9 reps
	warmupEntry = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)
)

const columnHeader = "#;KG;REPS;RIR"

var sessionDateLayouts = []string{"2006-01-02 15:04", "2006-01-02 3:04"}

// parser accumulates sessions line by line. A blank line ends a session.
type parser struct {
	sessions []models.SessionLog
	session  *models.SessionLog
	exercise *models.LoggedExercise
}

func (p *parser) closeExercise() {
	if p.exercise != nil && p.session != nil {
		p.session.Exercises = append(p.session.Exercises, *p.exercise)
	}
	p.exercise = nil
}

func (p *parser) closeSession() {
	p.closeExercise()
	if p.session != nil {
		p.sessions = append(p.sessions, *p.session)
	}
	p.session = nil
}

func (p *parser) line(line string) error {
	switch {
	case line == "":
		p.closeSession()

	case line == columnHeader:

	case sessionLine.MatchString(line):
		m := sessionLine.FindStringSubmatch(line)
		p.closeSession()
		date, err := parseSessionDate(m[2])
		if err != nil {
			return err
		}
		p.session = &models.SessionLog{Name: m[1], Date: date, Duration: m[3]}

	case exerciseLine.MatchString(line):
		if p.session == nil {
			return fmt.Errorf("exercise without session: %q", line)
		}
		m := exerciseLine.FindStringSubmatch(line)
		p.closeExercise()
		target, _ := strconv.Atoi(m[4])
		p.exercise = &models.LoggedExercise{
			Name:       strings.TrimSpace(m[2]),
			Equipment:  strings.TrimSpace(m[3]),
			TargetReps: target,
			Sets:       parseWarmups(m[6]),
		}

	case setLine.MatchString(line):
		if p.exercise == nil {
			return fmt.Errorf("set data without exercise: %q", line)
		}
		m := setLine.FindStringSubmatch(line)
		weight, plus := parseWeight(m[2])
		reps, _ := strconv.Atoi(m[3])
		p.exercise.Sets = append(p.exercise.Sets, models.LoggedSet{
			WeightKg:         weight,
			IsBodyweightPlus: plus,
			Reps:             reps,
			RIR:              parseEuropeanFloat(m[4]),
		})
	}
	// anything else is notes or metadata
	return nil
}

// Parse reads an Alpha Progression CSV export into session logs.
func Parse(r io.Reader) ([]models.SessionLog, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := p.line(strings.TrimSpace(scanner.Text())); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	p.closeSession()
	return p.sessions, nil
}

// parseSessionDate accepts "2026-02-19 4:54" and "2026-02-19 16:54".
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range sessionDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing session date %q", s)
}

// parseWarmups reads "WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps".
func parseWarmups(s string) []models.LoggedSet {
	var sets []models.LoggedSet
	for _, m := range warmupEntry.FindAllStringSubmatch(s, -1) {
		weight, plus := parseWeight(m[2])
		reps, _ := strconv.Atoi(m[3])
		sets = append(sets, models.LoggedSet{
			WeightKg:         weight,
			IsBodyweightPlus: plus,
			Reps:             reps,
			IsWarmup:         true,
		})
	}
	return sets
}

// parseWeight reads "102,5" as 102.5 and "+35" as bodyweight plus 35.
func parseWeight(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		return parseEuropeanFloat(rest), true
	}
	return parseEuropeanFloat(s), false
}

// parseEuropeanFloat reads comma decimals. Malformed input yields 0.
func parseEuropeanFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	return f
}
