package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/ports"
)

const notProvided = "not provided"

// recordedOK is the acknowledgement payload both recording tools return.
func recordedOK() map[string]interface{} {
	return map[string]interface{}{"recorded": "ok"}
}

// NewRecordUserDetailsTool creates the tool the model calls when a visitor
// shares their contact details. The lead is persisted and a notification is
// pushed; persistence or delivery failure never fails the tool, so the
// conversation continues.
func NewRecordUserDetailsTool(logger *slog.Logger, notifier ports.Notifier, repo ports.Repository) *domain.Tool {
	return &domain.Tool{
		Name:        "record_user_details",
		Description: "Record the VISITOR's or EMPLOYER's contact details when THEY share their email in the conversation. You MUST call this tool whenever a visitor provides their email address. NEVER use this tool with your own (the agent's) email address.",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"email": map[string]interface{}{
					"type":        "string",
					"description": "The email address of this user",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The user's name, if they provided it",
				},
				"notes": map[string]interface{}{
					"type":        "string",
					"description": "Any additional information about the conversation that's worth recording to give context",
				},
			},
			Required: []string{"email"},
		},
		Execute: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			email, ok := params["email"].(string)
			if !ok || strings.TrimSpace(email) == "" {
				return nil, fmt.Errorf("email is required and must be a non-empty string")
			}

			name := stringParam(params, "name", notProvided)
			notes := stringParam(params, "notes", notProvided)

			if repo != nil {
				lead := domain.Lead{
					ID:        uuid.NewString(),
					Email:     email,
					Name:      name,
					Notes:     notes,
					CreatedAt: time.Now(),
				}
				if err := repo.SaveLead(ctx, lead); err != nil {
					logger.Error("failed to persist lead", "email", email, "error", err)
				}
			}

			if err := notifier.Notify(ctx, fmt.Sprintf("Recording interest from %s with email %s and notes %s", name, email, notes)); err != nil {
				logger.Warn("lead notification delivery failed", "error", err)
			}

			return recordedOK(), nil
		},
	}
}

// NewRecordUnknownQuestionTool creates the tool the model calls for questions
// outside its documented expertise.
func NewRecordUnknownQuestionTool(logger *slog.Logger, notifier ports.Notifier, repo ports.Repository) *domain.Tool {
	return &domain.Tool{
		Name:        "record_unknown_question",
		Description: "Use this tool to record any question that you cannot answer because it is outside your expertise or not covered in your profile context. Call this when the question is about topics you have no knowledge of.",
		Parameters: domain.ToolParameters{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question that couldn't be answered",
				},
			},
			Required: []string{"question"},
		},
		Execute: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			question, ok := params["question"].(string)
			if !ok || strings.TrimSpace(question) == "" {
				return nil, fmt.Errorf("question is required and must be a non-empty string")
			}

			if repo != nil {
				record := domain.UnknownQuestion{
					ID:        uuid.NewString(),
					Question:  question,
					CreatedAt: time.Now(),
				}
				if err := repo.SaveUnknownQuestion(ctx, record); err != nil {
					logger.Error("failed to persist unknown question", "error", err)
				}
			}

			if err := notifier.Notify(ctx, fmt.Sprintf("Recording unknown question: %s", question)); err != nil {
				logger.Warn("unknown question notification delivery failed", "error", err)
			}

			return recordedOK(), nil
		},
	}
}

func stringParam(params map[string]interface{}, key, fallback string) string {
	v, ok := params[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
