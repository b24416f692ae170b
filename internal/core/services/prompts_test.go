package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
)

func TestBuildPersonaPrompt(t *testing.T) {
	p := domain.Profile{
		Name:      "Ada Example",
		Summary:   "Backend engineer with Java and Spring Boot.",
		Narrative: "Worked on payment systems.",
	}

	prompt := BuildPersonaPrompt(p)

	assert.Contains(t, prompt, "You are acting as Ada Example.")
	assert.Contains(t, prompt, "## Summary:\nBackend engineer with Java and Spring Boot.")
	assert.Contains(t, prompt, "## LinkedIn Profile:\nWorked on payment systems.")
	assert.Contains(t, prompt, "CRITICAL ACCURACY RULES")
	assert.Contains(t, prompt, "CRITICAL TOOL RULES")
	assert.Contains(t, prompt, "record_user_details")
	assert.Contains(t, prompt, "ask a clarifying question before answering")
}

func TestBuildEvaluatorPrompt(t *testing.T) {
	p := domain.Profile{
		Name:                "Ada Example",
		Summary:             "sum",
		Narrative:           "narr",
		AllowedTechnologies: []string{"Java", "Spring Boot", "SQL"},
	}

	prompt := BuildEvaluatorPrompt(p)

	assert.Contains(t, prompt, "You are an evaluator that rates the quality of a response")
	assert.Contains(t, prompt, "HALLUCINATION DETECTION")
	assert.Contains(t, prompt, "Java, Spring Boot, SQL")
	assert.Contains(t, prompt, "set is_unknown=true")
	assert.Contains(t, prompt, `"score": <integer from 0 to 10>`)
	assert.Contains(t, prompt, "Return ONLY valid JSON")
}

func TestBuildEvaluatorUserPrompt(t *testing.T) {
	history := []domain.Message{
		{Role: domain.RoleUser, Content: "What do you do?"},
		{Role: domain.RoleAssistant, Content: "I build backend systems."},
	}

	prompt := BuildEvaluatorUserPrompt("A candidate reply.", "Do you know SQL?", history)

	assert.Contains(t, prompt, "User: What do you do?")
	assert.Contains(t, prompt, "Agent: I build backend systems.")
	assert.Contains(t, prompt, "Here's the latest message from the User: \n\nDo you know SQL?")
	assert.Contains(t, prompt, "Here's the latest response from the Agent: \n\nA candidate reply.")
	assert.True(t, strings.HasSuffix(prompt, "return ONLY the required JSON object."))
}

func TestBuildEvaluatorUserPrompt_EmptyHistory(t *testing.T) {
	prompt := BuildEvaluatorUserPrompt("reply", "message", nil)
	assert.Contains(t, prompt, "(no prior conversation)")
}
