package services

import (
	"context"
	"time"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/ports"
)

// FanoutNotifier forwards every notification to the outbound sink and mirrors
// it on the event bus broadcast topic so SSE clients see the same alerts.
type FanoutNotifier struct {
	sink ports.Notifier
	bus  *EventBus
}

func NewFanoutNotifier(sink ports.Notifier, bus *EventBus) *FanoutNotifier {
	return &FanoutNotifier{sink: sink, bus: bus}
}

// Notify publishes to the bus first (never blocks, never fails) and then
// delegates to the outbound sink. The sink's error is returned so callers
// can log it; delivery stays best-effort either way.
func (n *FanoutNotifier) Notify(ctx context.Context, message string) error {
	if n.bus != nil {
		n.bus.Publish(Event{
			Topic:     BroadcastTopic,
			Type:      EventTypeNotice,
			Data:      message,
			Timestamp: time.Now().UnixMilli(),
		})
	}

	if n.sink == nil {
		return nil
	}
	return n.sink.Notify(ctx, message)
}
