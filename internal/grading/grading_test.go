package grading

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScaleBoundaries(t *testing.T) {
	tests := []struct {
		total float64
		grade string
		point float64
	}{
		{100, "A", 5},
		{70, "A", 5},
		{69.5, "B", 4},
		{69, "B", 4},
		{60, "B", 4},
		{59.99, "C", 3},
		{50, "C", 3},
		{49, "D", 2},
		{45, "D", 2},
		{44.5, "E", 1},
		{40, "E", 1},
		{39.99, "F", 0},
		{0, "F", 0},
	}

	scale := Default()
	for _, tt := range tests {
		t.Run(tt.grade, func(t *testing.T) {
			got := scale.Grade(tt.total)
			assert.Equal(t, tt.grade, got.Grade, "total %v", tt.total)
			assert.Equal(t, tt.point, got.GradePoint, "total %v", tt.total)
		})
	}
}

func TestConfiguredScaleMatchesDefaultTable(t *testing.T) {
	configured := NewScale(DefaultBands())
	for total := 0.0; total <= 100; total += 0.25 {
		assert.Equal(t, Default().Grade(total), configured.Grade(total), "total %v", total)
	}
}

func TestGradeIsMonotonic(t *testing.T) {
	scales := map[string]Scale{
		"default": Default(),
		"custom": NewScale([]Band{
			{MinScore: 0, MaxScore: 44, Grade: "F", GradePoint: 0},
			{MinScore: 75, MaxScore: 100, Grade: "A", GradePoint: 5},
			{MinScore: 45, MaxScore: 74, Grade: "C", GradePoint: 3},
		}),
	}
	for name, scale := range scales {
		t.Run(name, func(t *testing.T) {
			prev := scale.Grade(0).GradePoint
			for i := 1; i <= 10000; i++ {
				total := float64(i) / 100
				point := scale.Grade(total).GradePoint
				require.GreaterOrEqual(t, point, prev, "total %v", total)
				prev = point
			}
		})
	}
}

func TestGradeIsPure(t *testing.T) {
	scale := NewScale(DefaultBands())
	for _, total := range []float64{0, 39.5, 44, 63.25, 70, 100} {
		assert.Equal(t, scale.Grade(total), scale.Grade(total))
	}
}

func TestConfiguredBandWinsOverFallback(t *testing.T) {
	scale := NewScale([]Band{{MinScore: 65, MaxScore: 100, Grade: "A", GradePoint: 5}})
	assert.Equal(t, Outcome{Grade: "A", GradePoint: 5}, scale.Grade(66))
	// not covered by any configured band
	assert.Equal(t, Outcome{Grade: "B", GradePoint: 4}, scale.Grade(61))
}

func TestNewScaleOrdersBands(t *testing.T) {
	scale := NewScale([]Band{
		{MinScore: 0, MaxScore: 39, Grade: "F"},
		{MinScore: 70, MaxScore: 100, Grade: "A", GradePoint: 5},
		{MinScore: 40, MaxScore: 69, Grade: "P", GradePoint: 3},
	})
	bands := scale.Bands()
	require.Len(t, bands, 3)
	assert.Equal(t, []string{"A", "P", "F"}, []string{bands[0].Grade, bands[1].Grade, bands[2].Grade})
}

func TestTotal(t *testing.T) {
	assert.Equal(t, 75.0, Total(25, 50))
	assert.Equal(t, 57.4, Total(12.3, 45.1))
	assert.Equal(t, 100.0, Total(MaxCA, MaxExam))
	assert.Equal(t, 0.0, Total(0, 0))
}

func TestValidateScores(t *testing.T) {
	assert.NoError(t, ValidateScores(0, 0))
	assert.NoError(t, ValidateScores(30, 70))
	assert.ErrorIs(t, ValidateScores(30.5, 10), ErrCAOutOfRange)
	assert.ErrorIs(t, ValidateScores(-1, 10), ErrCAOutOfRange)
	assert.ErrorIs(t, ValidateScores(10, 71), ErrExamOutOfRange)
	assert.ErrorIs(t, ValidateScores(math.NaN(), 10), ErrCAOutOfRange)
	assert.ErrorIs(t, ValidateScores(10, math.NaN()), ErrExamOutOfRange)
	assert.ErrorIs(t, ValidateScores(math.Inf(1), 10), ErrCAOutOfRange)
	assert.ErrorIs(t, ValidateExam(math.Inf(-1)), ErrExamOutOfRange)
	assert.NoError(t, ValidateCA(29.99))
}

func TestRoundScoreKeepsTotalConsistent(t *testing.T) {
	assert.Equal(t, 10.01, RoundScore(10.005))
	assert.Equal(t, 50.01, RoundScore(50.005))
	assert.Equal(t, 30.0, RoundScore(29.999))
	assert.Equal(t, 12.3, RoundScore(12.3))

	ca, exam := RoundScore(10.005), RoundScore(50.005)
	assert.Equal(t, 60.02, Total(ca, exam))
}

func TestValidateBand(t *testing.T) {
	assert.NoError(t, ValidateBand(Band{MinScore: 70, MaxScore: 100, Grade: "A", GradePoint: 5}))
	assert.Error(t, ValidateBand(Band{MinScore: 70, MaxScore: 100, Grade: " "}))
	assert.Error(t, ValidateBand(Band{MinScore: 80, MaxScore: 70, Grade: "A"}))
	assert.Error(t, ValidateBand(Band{MinScore: -1, MaxScore: 70, Grade: "A"}))
	assert.Error(t, ValidateBand(Band{MinScore: 0, MaxScore: 101, Grade: "A"}))
	assert.Error(t, ValidateBand(Band{MinScore: 0, MaxScore: 10, Grade: "A", GradePoint: 6}))
}

func TestFirstOverlap(t *testing.T) {
	existing := DefaultBands()

	hit, ok := FirstOverlap(Band{MinScore: 65, MaxScore: 72, Grade: "X"}, existing)
	require.True(t, ok)
	assert.Equal(t, "A", hit.Grade)

	_, ok = FirstOverlap(Band{MinScore: 69.5, MaxScore: 69.9, Grade: "X"}, existing)
	assert.False(t, ok)

	// shared boundary counts as overlap
	_, ok = FirstOverlap(Band{MinScore: 39, MaxScore: 39, Grade: "X"}, existing)
	assert.True(t, ok)
}
