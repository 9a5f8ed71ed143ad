// Package wordle scores guesses against a hidden solution.
package wordle

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Verdict is the outcome for a single letter position of a guess.
type Verdict uint8

const (
	Absent Verdict = iota
	Present
	Correct
)

var (
	verdictNames  = [...]string{Absent: "absent", Present: "present", Correct: "correct"}
	verdictGlyphs = [...]string{Absent: "⬛", Present: "🟨", Correct: "🟩"}
)

func (v Verdict) String() string {
	if int(v) < len(verdictNames) {
		return verdictNames[v]
	}
	return fmt.Sprintf("Verdict(%d)", uint8(v))
}

// Glyph returns the square shown to players for v.
func (v Verdict) Glyph() string {
	if int(v) < len(verdictGlyphs) {
		return verdictGlyphs[v]
	}
	return "?"
}

// MarshalText encodes v as its lower-case name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Row holds one verdict per guess position.
type Row []Verdict

// Solved reports whether every position is Correct.
func (r Row) Solved() bool {
	return len(r) > 0 && lo.EveryBy(r, func(v Verdict) bool { return v == Correct })
}

// String renders the row as a line of glyphs.
func (r Row) String() string {
	return strings.Join(lo.Map(r, func(v Verdict, _ int) string { return v.Glyph() }), "")
}

// Evaluate compares guess to solution letter by letter.
//
// Exact matches are resolved first. Remaining positions are then scanned left
// to right and marked Present while unmatched copies of that letter are left
// in the solution, so a letter occurring k times in the solution earns at
// most k non-Absent verdicts.
//
// guess and solution must have the same number of runes.
func Evaluate(guess, solution string) Row {
	g, s := []rune(guess), []rune(solution)
	if len(g) != len(s) {
		panic(fmt.Sprintf("wordle: guess %q has %d letters, solution has %d", guess, len(g), len(s)))
	}

	row := make(Row, len(s))
	resolved := make([]bool, len(s))
	remaining := lo.CountValues(s)

	for i := range s {
		if g[i] == s[i] {
			row[i] = Correct
			resolved[i] = true
			remaining[s[i]]--
		}
	}

	for i, l := range g {
		if resolved[i] {
			continue
		}
		if remaining[l] > 0 {
			row[i] = Present
			remaining[l]--
		} else {
			row[i] = Absent
		}
	}
	return row
}
