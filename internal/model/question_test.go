package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestion() Question {
	return Question{
		ID:            7,
		QuizID:        3,
		Statement:     "What is the SI unit of force?",
		Options:       [4]string{"Newton", "Joule", "Watt", "Pascal"},
		CorrectOption: 1,
	}
}

func TestForUserStripsCorrectOption(t *testing.T) {
	q := sampleQuestion()
	forUser := q.ForUser()

	raw, err := json.Marshal(forUser)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.NotContains(t, decoded, "correct_option")
	assert.Equal(t, "Newton", decoded["option1"])
	assert.Equal(t, "Pascal", decoded["option4"])
	assert.Equal(t, "What is the SI unit of force?", decoded["question_statement"])
}

func TestWithAnswerKeepsCorrectOption(t *testing.T) {
	q := sampleQuestion()
	full := q.WithAnswer()

	assert.Equal(t, 1, full.CorrectOption)
	assert.Equal(t, q.ForUser(), full.QuestionForUser)
}

func TestQuestionJSONHidesRawOptions(t *testing.T) {
	// The Options array never serializes directly; only the ForUser and
	// WithAnswer shapes go over the wire.
	raw, err := json.Marshal(sampleQuestion())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "Options")
	assert.NotContains(t, decoded, "option1")
}
