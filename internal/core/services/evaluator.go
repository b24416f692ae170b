package services

import (
	"context"
	"log/slog"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/ports"
)

// Evaluator scores candidate replies against the rubric via a second model
// call. It never fails: any capability fault or unparseable output degrades
// to the safe default Evaluation so the refinement loop always has a usable
// judgment to act on.
type Evaluator struct {
	logger       *slog.Logger
	llm          ports.LLMProvider
	model        string
	systemPrompt string
}

func NewEvaluator(logger *slog.Logger, llm ports.LLMProvider, model string, profile domain.Profile) *Evaluator {
	return &Evaluator{
		logger:       logger,
		llm:          llm,
		model:        model,
		systemPrompt: BuildEvaluatorPrompt(profile),
	}
}

// Evaluate produces a structured multi-criterion judgment of a candidate reply.
func (e *Evaluator) Evaluate(ctx context.Context, reply, message string, history []domain.Message) domain.Evaluation {
	req := domain.CompletionRequest{
		Model: e.model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: e.systemPrompt},
			{Role: domain.RoleUser, Content: BuildEvaluatorUserPrompt(reply, message, history)},
		},
		JSONOnly: true,
	}

	result, err := e.llm.Complete(ctx, req)
	if err != nil {
		e.logger.Error("evaluation call failed", "error", err)
		return domain.FallbackEvaluation("judgment capability unavailable")
	}

	eval, err := domain.ParseEvaluation(result.Content)
	if err != nil {
		e.logger.Error("evaluation output rejected", "error", err)
		return domain.FallbackEvaluation("malformed evaluation output")
	}

	return eval
}
