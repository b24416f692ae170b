package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validEvaluationJSON = `{
	"score": 8,
	"confidence": 0.9,
	"is_unknown": false,
	"professional": true,
	"clarity": true,
	"completeness": true,
	"safety": true,
	"relevance": true,
	"feedback": "Good answer."
}`

func TestParseEvaluation_Valid(t *testing.T) {
	eval, err := ParseEvaluation(validEvaluationJSON)
	require.NoError(t, err)
	assert.Equal(t, 8, eval.Score)
	assert.InDelta(t, 0.9, eval.Confidence, 0.001)
	assert.False(t, eval.IsUnknown)
	assert.True(t, eval.Safety)
	assert.Equal(t, "Good answer.", eval.Feedback)
}

func TestParseEvaluation_MarkdownFences(t *testing.T) {
	fenced := "```json\n" + validEvaluationJSON + "\n```"
	eval, err := ParseEvaluation(fenced)
	require.NoError(t, err)
	assert.Equal(t, 8, eval.Score)
}

func TestParseEvaluation_Rejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "I think the answer is fine"},
		{"empty", ""},
		{"score out of range", `{"score": 15, "confidence": 0.5, "is_unknown": false, "professional": true, "clarity": true, "completeness": true, "safety": true, "relevance": true, "feedback": "x"}`},
		{"confidence out of range", `{"score": 5, "confidence": 1.5, "is_unknown": false, "professional": true, "clarity": true, "completeness": true, "safety": true, "relevance": true, "feedback": "x"}`},
		{"missing feedback", `{"score": 5, "confidence": 0.5, "is_unknown": false, "professional": true, "clarity": true, "completeness": true, "safety": true, "relevance": true}`},
		{"wrong type", `{"score": "five", "confidence": 0.5, "is_unknown": false, "professional": true, "clarity": true, "completeness": true, "safety": true, "relevance": true, "feedback": "x"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseEvaluation(tc.raw)
			assert.Error(t, err)
		})
	}
}

func TestFallbackEvaluation(t *testing.T) {
	eval := FallbackEvaluation("capability unavailable")

	assert.Equal(t, 0, eval.Score)
	assert.Equal(t, 0.0, eval.Confidence)
	assert.True(t, eval.IsUnknown)
	assert.False(t, eval.Professional)
	assert.False(t, eval.Clarity)
	assert.False(t, eval.Completeness)
	assert.False(t, eval.Safety)
	assert.False(t, eval.Relevance)
	assert.Contains(t, eval.Feedback, "capability unavailable")
}
