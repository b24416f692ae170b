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

// technicalIssueMessage is the only text a visitor ever sees for an
// unexpected fault. Raw diagnostics stay in the process logs.
const technicalIssueMessage = "I'm currently experiencing a technical issue. Please try again in a few minutes."

// Session is the chat entry point: it normalizes incoming history, drives the
// refinement loop, appends an audit record, and formats the score-annotated
// reply. Every fault in this path is converted to a fixed user-facing message.
type Session struct {
	logger   *slog.Logger
	refine   *RefineLoop
	audit    *AuditLog
	notifier ports.Notifier
	bus      *EventBus
}

func NewSession(logger *slog.Logger, refine *RefineLoop, audit *AuditLog, notifier ports.Notifier, bus *EventBus) *Session {
	return &Session{
		logger:   logger,
		refine:   refine,
		audit:    audit,
		notifier: notifier,
		bus:      bus,
	}
}

// Handle processes one visitor message with its prior turns and returns the
// display text: the final reply plus an appended score card.
func (s *Session) Handle(ctx context.Context, message string, rawHistory []domain.Message) (display string) {
	// Nothing below may surface a raw fault to the visitor.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in chat handler", "panic", r)
			display = technicalIssueMessage
		}
	}()

	if err := s.notifier.Notify(ctx, fmt.Sprintf("New employer message: %s", truncate(message, 100))); err != nil {
		s.logger.Warn("new message notification failed", "error", err)
	}

	history := domain.NormalizeHistory(rawHistory)

	reply, eval, err := s.refine.Refine(ctx, message, history)
	if err != nil {
		s.logger.Error("refinement failed", "error", err)
		return technicalIssueMessage
	}

	entry := AuditEntry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		User:       message,
		Assistant:  reply,
		Evaluation: eval,
	}
	if err := s.audit.Append(entry); err != nil {
		s.logger.Error("audit log persistence failed", "error", err)
		return technicalIssueMessage
	}

	if s.bus != nil {
		s.bus.Publish(Event{
			Topic:     BroadcastTopic,
			Type:      EventTypeReply,
			Data:      reply,
			Timestamp: time.Now().UnixMilli(),
		})
	}

	return reply + ScoreCard(eval)
}

// ScoreCard renders an evaluation as a deterministic human-readable summary:
// a filled/empty bar proportional to score out of 10, confidence as a
// percentage, the unknown flag, and pass/fail per quality criterion.
func ScoreCard(eval domain.Evaluation) string {
	score := eval.Score
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	bar := strings.Repeat("#", score) + strings.Repeat("-", 10-score)

	unknown := "No"
	if eval.IsUnknown {
		unknown = "Yes"
	}

	checks := []struct {
		label string
		pass  bool
	}{
		{"Professional", eval.Professional},
		{"Clarity", eval.Clarity},
		{"Completeness", eval.Completeness},
		{"Safety", eval.Safety},
		{"Relevance", eval.Relevance},
	}
	parts := make([]string, 0, len(checks))
	for _, c := range checks {
		verdict := "FAIL"
		if c.pass {
			verdict = "PASS"
		}
		parts = append(parts, verdict+" "+c.label)
	}

	return fmt.Sprintf(
		"\n\n---\n**Score:** %s %d/10 | **Confidence:** %d%% | **Unknown:** %s\n\n%s",
		bar, score, int(eval.Confidence*100), unknown, strings.Join(parts, " | "),
	)
}
