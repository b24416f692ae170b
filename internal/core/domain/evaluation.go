package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Evaluation is the judge model's structured verdict on a candidate reply.
// Created fresh per refinement attempt; never mutated, only superseded.
type Evaluation struct {
	Score        int     `json:"score"`      // 0-10
	Confidence   float64 `json:"confidence"` // 0.0-1.0
	IsUnknown    bool    `json:"is_unknown"`
	Professional bool    `json:"professional"`
	Clarity      bool    `json:"clarity"`
	Completeness bool    `json:"completeness"`
	Safety       bool    `json:"safety"`
	Relevance    bool    `json:"relevance"`
	Feedback     string  `json:"feedback"`
}

// evaluationSchema is the contract the judge's JSON output must satisfy.
// Any shape mismatch is a capability fault, never a crash.
const evaluationSchema = `{
	"type": "object",
	"properties": {
		"score":        {"type": "integer", "minimum": 0, "maximum": 10},
		"confidence":   {"type": "number", "minimum": 0, "maximum": 1},
		"is_unknown":   {"type": "boolean"},
		"professional": {"type": "boolean"},
		"clarity":      {"type": "boolean"},
		"completeness": {"type": "boolean"},
		"safety":       {"type": "boolean"},
		"relevance":    {"type": "boolean"},
		"feedback":     {"type": "string"}
	},
	"required": ["score", "confidence", "is_unknown", "professional", "clarity", "completeness", "safety", "relevance", "feedback"]
}`

// ParseEvaluation validates raw judge output against the Evaluation schema
// and unmarshals it. Models occasionally wrap JSON in markdown fences; those
// are stripped before validation.
func ParseEvaluation(raw string) (Evaluation, error) {
	cleaned := stripJSONFences(raw)

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(evaluationSchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluation output is not valid JSON: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			issues = append(issues, e.String())
		}
		return Evaluation{}, fmt.Errorf("evaluation output failed schema validation: %s", strings.Join(issues, "; "))
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(cleaned), &eval); err != nil {
		return Evaluation{}, fmt.Errorf("failed to unmarshal evaluation: %w", err)
	}
	return eval, nil
}

// FallbackEvaluation is the safe default used when the judgment capability
// fails or returns unparseable output. It guarantees the refinement loop
// always has a usable verdict to act on.
func FallbackEvaluation(reason string) Evaluation {
	return Evaluation{
		Score:      0,
		Confidence: 0.0,
		IsUnknown:  true,
		Feedback:   "Error during evaluation: " + reason,
	}
}

func stripJSONFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
