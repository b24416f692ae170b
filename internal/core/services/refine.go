package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/ports"
)

const (
	// acceptScore is the minimum score for a candidate to ship as-is.
	acceptScore = 7
	// minConfidence is the floor below which a reply is escalated to a human.
	minConfidence = 0.5

	// declineMessage is returned for out-of-scope questions and exhausted attempts.
	declineMessage = "I'm not entirely sure about this question, so I'll get back to you as soon as possible. " +
		"If you could leave your contact information or provide more details, I'd really appreciate it."

	// escalationMessage is returned when the evaluator's confidence is too low.
	escalationMessage = "I'm not confident enough on this topic to give you accurate information right now. " +
		"I'll get back to you personally as soon as possible. Please leave your contact details."

	// fallthroughMessage is a safety net for the unreachable loop exit.
	fallthroughMessage = "Sorry there is a technical issue."
)

// RefineLoop orchestrates candidate generation, evaluation, and the decision
// policy across a bounded number of attempts. Tool calls requested by the
// generation model are dispatched through the registry in an inner sub-loop
// that is independent of the outer attempt bound.
type RefineLoop struct {
	logger        *slog.Logger
	llm           ports.LLMProvider
	model         string
	tools         *domain.ToolRegistry
	evaluator     *Evaluator
	notifier      ports.Notifier
	personaPrompt string
	maxAttempts   int
}

func NewRefineLoop(
	logger *slog.Logger,
	llm ports.LLMProvider,
	model string,
	tools *domain.ToolRegistry,
	evaluator *Evaluator,
	notifier ports.Notifier,
	profile domain.Profile,
	maxAttempts int,
) *RefineLoop {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RefineLoop{
		logger:        logger,
		llm:           llm,
		model:         model,
		tools:         tools,
		evaluator:     evaluator,
		notifier:      notifier,
		personaPrompt: BuildPersonaPrompt(profile),
		maxAttempts:   maxAttempts,
	}
}

// Refine produces a final reply and its evaluation for a user message.
// The caller's history is never mutated; revision notes go to a working copy.
// A generation fault is not locally recoverable and propagates to the caller.
func (l *RefineLoop) Refine(ctx context.Context, message string, history []domain.Message) (string, domain.Evaluation, error) {
	working := append([]domain.Message(nil), history...)

	var lastEval domain.Evaluation
	for attempt := 0; attempt < l.maxAttempts; attempt++ {
		reply, err := l.generate(ctx, working, message)
		if err != nil {
			return "", domain.Evaluation{}, fmt.Errorf("generate candidate: %w", err)
		}

		eval := l.evaluator.Evaluate(ctx, reply, message, working)
		lastEval = eval
		l.logger.Info("refinement attempt evaluated",
			"attempt", attempt,
			"score", eval.Score,
			"confidence", eval.Confidence,
			"unknown", eval.IsUnknown,
			"feedback", eval.Feedback,
		)

		// Decision policy, checked in strict order. The is_unknown check
		// deliberately precedes low-confidence and exhaustion: out-of-scope
		// exits immediately even on the last attempt.
		if eval.Score >= acceptScore && !eval.IsUnknown {
			l.notify(ctx, fmt.Sprintf("Response approved (score: %d/10) for: %s", eval.Score, truncate(message, 80)))
			return reply, eval, nil
		}

		if eval.IsUnknown {
			l.logger.Info("question outside expertise, declining", "attempt", attempt)
			l.notify(ctx, fmt.Sprintf("Failed to answer question: %s | Last feedback: %s", message, eval.Feedback))
			final := domain.Evaluation{
				Score:        eval.Score,
				Confidence:   eval.Confidence,
				IsUnknown:    true,
				Professional: true,
				Clarity:      true,
				Completeness: false,
				Safety:       true,
				Relevance:    false,
				Feedback:     "Question outside expertise. Declined gracefully. Original: " + eval.Feedback,
			}
			return declineMessage, final, nil
		}

		if eval.Confidence < minConfidence {
			l.logger.Info("low confidence, escalating to human", "confidence", eval.Confidence)
			l.notify(ctx, fmt.Sprintf("Low confidence (%.0f%%) for: %s | Feedback: %s", eval.Confidence*100, truncate(message, 80), eval.Feedback))
			final := domain.Evaluation{
				Score:        eval.Score,
				Confidence:   eval.Confidence,
				IsUnknown:    false,
				Professional: true,
				Clarity:      true,
				Completeness: false,
				Safety:       true,
				Relevance:    eval.Relevance,
				Feedback:     fmt.Sprintf("Low confidence (%.0f%%). Flagged for human review. Original: %s", eval.Confidence*100, eval.Feedback),
			}
			return escalationMessage, final, nil
		}

		if attempt == l.maxAttempts-1 {
			l.logger.Info("max refinement attempts reached")
			l.notify(ctx, fmt.Sprintf("Failed to answer question: %s | Last feedback: %s", message, eval.Feedback))
			final := domain.Evaluation{
				Score:        eval.Score,
				Confidence:   eval.Confidence,
				IsUnknown:    eval.IsUnknown,
				Professional: true,
				Clarity:      true,
				Completeness: false,
				Safety:       true,
				Relevance:    false,
				Feedback:     "Max attempts reached. Last: " + eval.Feedback,
			}
			return declineMessage, final, nil
		}

		// Retry: record the draft and the structured feedback on the working
		// copy only, then re-attempt with the same original user message.
		working = append(working,
			domain.Message{Role: domain.RoleAssistant, Content: reply},
			domain.Message{Role: domain.RoleSystem, Content: revisionNote(attempt, reply, eval)},
		)
	}

	// Unreachable when the policy above is exhaustive.
	return fallthroughMessage, lastEval, nil
}

// generate runs one candidate generation, dispatching tool calls until the
// model terminates with plain text. The sub-loop is bounded only by the
// model's own termination.
func (l *RefineLoop) generate(ctx context.Context, working []domain.Message, message string) (string, error) {
	msgs := make([]domain.Message, 0, len(working)+2)
	msgs = append(msgs, domain.Message{Role: domain.RoleSystem, Content: l.personaPrompt})
	msgs = append(msgs, working...)
	msgs = append(msgs, domain.Message{Role: domain.RoleUser, Content: message})

	for {
		result, err := l.llm.Complete(ctx, domain.CompletionRequest{
			Model:    l.model,
			Messages: msgs,
			Tools:    l.tools.ListTools(),
		})
		if err != nil {
			return "", err
		}

		if !result.NeedsTools() {
			return result.Content, nil
		}

		l.logger.Info("dispatching tool calls", "count", len(result.ToolCalls))
		results := l.tools.Dispatch(ctx, result.ToolCalls)

		msgs = append(msgs, domain.Message{
			Role:      domain.RoleAssistant,
			Content:   result.Content,
			ToolCalls: result.ToolCalls,
		})
		for _, r := range results {
			payload, err := json.Marshal(r.Payload)
			if err != nil {
				payload = []byte(`{"error": "unencodable tool result"}`)
			}
			msgs = append(msgs, domain.Message{
				Role:       domain.RoleTool,
				Content:    string(payload),
				ToolCallID: r.CallID,
			})
		}
	}
}

func (l *RefineLoop) notify(ctx context.Context, message string) {
	if err := l.notifier.Notify(ctx, message); err != nil {
		l.logger.Warn("notification delivery failed", "error", err)
	}
}

func revisionNote(attempt int, reply string, eval domain.Evaluation) string {
	return fmt.Sprintf(
		"[Internal revision note - attempt %d]\nPrevious draft:\n%s\n\nEvaluation feedback:\n%s\nScore was %d. Please improve the response according to this feedback. Stay professional, accurate and in character.",
		attempt, reply, eval.Feedback, eval.Score,
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
