// Package grading maps a score total to a letter grade and grade point.
//
// A Scale is built from the administrator configured bands. Totals that no
// configured band contains fall through to the built-in table, so the rule
// works before any band has been configured.
package grading

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MaxCA    = 30
	MaxExam  = 70
	MaxTotal = MaxCA + MaxExam
	MaxPoint = 5
)

// Band is one [MinScore, MaxScore] -> (Grade, GradePoint) row.
type Band struct {
	MinScore   float64 `json:"min_score"`
	MaxScore   float64 `json:"max_score"`
	Grade      string  `json:"grade"`
	GradePoint float64 `json:"grade_point"`
}

// Contains reports whether total falls inside the band, bounds inclusive.
func (b Band) Contains(total float64) bool {
	return total >= b.MinScore && total <= b.MaxScore
}

// Overlaps reports whether two bands share any score.
func (b Band) Overlaps(other Band) bool {
	return b.MinScore <= other.MaxScore && b.MaxScore >= other.MinScore
}

// Outcome is the derived grade for a total.
type Outcome struct {
	Grade      string  `json:"grade"`
	GradePoint float64 `json:"grade_point"`
}

var defaultBands = []Band{
	{MinScore: 70, MaxScore: 100, Grade: "A", GradePoint: 5},
	{MinScore: 60, MaxScore: 69, Grade: "B", GradePoint: 4},
	{MinScore: 50, MaxScore: 59, Grade: "C", GradePoint: 3},
	{MinScore: 45, MaxScore: 49, Grade: "D", GradePoint: 2},
	{MinScore: 40, MaxScore: 44, Grade: "E", GradePoint: 1},
	{MinScore: 0, MaxScore: 39, Grade: "F", GradePoint: 0},
}

// DefaultBands returns a copy of the built-in table.
func DefaultBands() []Band {
	out := make([]Band, len(defaultBands))
	copy(out, defaultBands)
	return out
}

// Scale is an ordered set of bands, highest MinScore first.
type Scale struct {
	bands []Band
}

// NewScale orders bands by MinScore descending. An empty slice yields a scale
// that only uses the built-in table.
func NewScale(bands []Band) Scale {
	ordered := make([]Band, len(bands))
	copy(ordered, bands)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].MinScore > ordered[j].MinScore })
	return Scale{bands: ordered}
}

// Default is the scale made of the built-in table only.
func Default() Scale {
	return Scale{}
}

// Bands returns the configured bands in evaluation order.
func (s Scale) Bands() []Band {
	out := make([]Band, len(s.bands))
	copy(out, s.bands)
	return out
}

// Grade returns the first configured band containing total, scanning from the
// highest MinScore, and otherwise the built-in threshold table.
func (s Scale) Grade(total float64) Outcome {
	for _, band := range s.bands {
		if band.Contains(total) {
			return Outcome{Grade: band.Grade, GradePoint: band.GradePoint}
		}
	}
	return fallback(total)
}

// fallback treats the built-in table as thresholds so fractional totals
// between two integer bands still grade downwards.
func fallback(total float64) Outcome {
	for _, band := range defaultBands {
		if total >= band.MinScore {
			return Outcome{Grade: band.Grade, GradePoint: band.GradePoint}
		}
	}
	last := defaultBands[len(defaultBands)-1]
	return Outcome{Grade: last.Grade, GradePoint: last.GradePoint}
}

// Total adds CA and exam in decimal arithmetic, rounded to two places.
func Total(ca, exam float64) float64 {
	return decimal.NewFromFloat(ca).Add(decimal.NewFromFloat(exam)).Round(2).InexactFloat64()
}

// RoundScore rounds a score component to the two places scores are stored with.
func RoundScore(score float64) float64 {
	return decimal.NewFromFloat(score).Round(2).InexactFloat64()
}

var (
	ErrCAOutOfRange   = fmt.Errorf("CA score must be between 0 and %d", MaxCA)
	ErrExamOutOfRange = fmt.Errorf("exam score must be between 0 and %d", MaxExam)
)

// ValidateCA checks the CA bound. NaN and infinities are out of range.
func ValidateCA(ca float64) error {
	if !within(ca, MaxCA) {
		return ErrCAOutOfRange
	}
	return nil
}

// ValidateExam checks the exam bound. NaN and infinities are out of range.
func ValidateExam(exam float64) error {
	if !within(exam, MaxExam) {
		return ErrExamOutOfRange
	}
	return nil
}

// ValidateScores checks the CA and exam bounds.
func ValidateScores(ca, exam float64) error {
	if err := ValidateCA(ca); err != nil {
		return err
	}
	return ValidateExam(exam)
}

func within(score, max float64) bool {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return false
	}
	return score >= 0 && score <= max
}

// ValidateBand checks a single band's own bounds.
func ValidateBand(b Band) error {
	switch {
	case strings.TrimSpace(b.Grade) == "":
		return errors.New("grade is required")
	case b.MinScore < 0 || b.MaxScore > MaxTotal:
		return fmt.Errorf("band must lie within 0 and %d", MaxTotal)
	case b.MinScore > b.MaxScore:
		return errors.New("minimum score cannot exceed maximum score")
	case b.GradePoint < 0 || b.GradePoint > MaxPoint:
		return fmt.Errorf("grade point must be between 0 and %d", MaxPoint)
	}
	return nil
}

// FirstOverlap returns the first band in existing that overlaps candidate.
func FirstOverlap(candidate Band, existing []Band) (Band, bool) {
	for _, band := range existing {
		if candidate.Overlaps(band) {
			return band, true
		}
	}
	return Band{}, false
}
