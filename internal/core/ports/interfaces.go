package ports

import (
	"context"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
)

// LLMProvider abstracts the text-completion capability (OpenAI-compatible
// chat completions with function calling and JSON response mode).
type LLMProvider interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (*domain.CompletionResult, error)
}

// Notifier is the best-effort outbound alert channel. Delivery failure must
// not abort the conversation; callers log the error and move on.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Repository abstracts the persistent storage (DuckDB) for data captured by
// the agent's tools.
type Repository interface {
	SaveLead(ctx context.Context, lead domain.Lead) error
	ListLeads(ctx context.Context) ([]domain.Lead, error)

	SaveUnknownQuestion(ctx context.Context, q domain.UnknownQuestion) error
	ListUnknownQuestions(ctx context.Context) ([]domain.UnknownQuestion, error)

	Close() error
}
