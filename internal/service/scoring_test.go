package service

import (
	"testing"

	"github.com/prepwise/quizmaster-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestGradeAllCorrect(t *testing.T) {
	key := map[int]int{1: 2, 2: 4, 3: 1, 4: 3}
	answers := map[int]int{1: 2, 2: 4, 3: 1, 4: 3}

	correct := Grade(key, answers)
	assert.Equal(t, 4, correct)
	assert.Equal(t, 100.0, Percentage(correct, len(key)))
}

func TestGradeNoneAnswered(t *testing.T) {
	key := map[int]int{1: 2, 2: 4}

	correct := Grade(key, map[int]int{})
	assert.Equal(t, 0, correct)
	assert.Equal(t, 0.0, Percentage(correct, len(key)))
}

func TestGradeNilAnswers(t *testing.T) {
	key := map[int]int{1: 2}
	assert.Equal(t, 0, Grade(key, nil))
}

func TestGradeOutOfRangeOptionCountsWrong(t *testing.T) {
	key := map[int]int{1: 2, 2: 4, 3: 1, 4: 3}
	answers := map[int]int{1: 2, 2: 4, 3: 9, 4: 3}

	correct := Grade(key, answers)
	assert.Equal(t, 3, correct)
	assert.Equal(t, 75.0, Percentage(correct, len(key)))
}

func TestGradeUnansweredCountsWrong(t *testing.T) {
	key := map[int]int{1: 1, 2: 2, 3: 3}
	answers := map[int]int{1: 1, 3: 3}

	assert.Equal(t, 2, Grade(key, answers))
}

func TestGradeIgnoresExtraneousEntries(t *testing.T) {
	// Unknown question IDs are rejected upstream; the pure pass simply
	// never looks at them.
	key := map[int]int{1: 1}
	answers := map[int]int{1: 1, 999: 4}

	assert.Equal(t, 1, Grade(key, answers))
}

func TestPercentageZeroQuestions(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(5, 0))
}

func TestPercentageOneDecimal(t *testing.T) {
	assert.Equal(t, 33.3, Percentage(1, 3))
	assert.Equal(t, 66.7, Percentage(2, 3))
	assert.Equal(t, 16.7, Percentage(1, 6))
	assert.Equal(t, 14.3, Percentage(1, 7))
	assert.Equal(t, 50.0, Percentage(1, 2))
}

func TestPercentageMonotonic(t *testing.T) {
	const total = 9
	prev := -1.0
	for correct := 0; correct <= total; correct++ {
		pct := Percentage(correct, total)
		assert.Greater(t, pct, prev)
		prev = pct
	}
	assert.Equal(t, 100.0, prev)
}

func TestSnapshotNormalizesOutOfRangeOption(t *testing.T) {
	key := map[int]int{1: 1, 2: 2, 3: 3, 4: 4}
	answers := map[int]int{1: 1, 2: 2, 3: 9, 4: 4}

	rows := SnapshotAnswers(key, answers)
	assert.Len(t, rows, 4)

	byQuestion := make(map[int]int, len(rows))
	for _, row := range rows {
		byQuestion[row.QuestionID] = row.SelectedOption
		// Every stored selection must be a real option or unanswered.
		assert.GreaterOrEqual(t, row.SelectedOption, 0)
		assert.LessOrEqual(t, row.SelectedOption, model.OptionCount)
	}
	assert.Equal(t, 0, byQuestion[3])
	assert.Equal(t, 1, byQuestion[1])
}

func TestSnapshotOutOfRangeIsNeverCorrect(t *testing.T) {
	key := map[int]int{7: 2}
	rows := SnapshotAnswers(key, map[int]int{7: 9})

	assert.Len(t, rows, 1)
	assert.False(t, rows[0].IsCorrect)
	assert.Equal(t, 0, rows[0].SelectedOption)
}

func TestSnapshotUnansweredStoredAsZero(t *testing.T) {
	key := map[int]int{1: 1, 2: 2}
	rows := SnapshotAnswers(key, map[int]int{1: 1})

	byQuestion := make(map[int]model.ScoreAnswer, len(rows))
	for _, row := range rows {
		byQuestion[row.QuestionID] = row
	}
	assert.True(t, byQuestion[1].IsCorrect)
	assert.Equal(t, 0, byQuestion[2].SelectedOption)
	assert.False(t, byQuestion[2].IsCorrect)
}
