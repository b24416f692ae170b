package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanoutNotifier_MirrorsOnBus(t *testing.T) {
	bus := NewEventBus(testLogger())
	sink := &captureNotifier{}
	n := NewFanoutNotifier(sink, bus)

	events, unsub := bus.Subscribe(BroadcastTopic)
	defer unsub()

	require.NoError(t, n.Notify(context.Background(), "Recording interest from Alice"))

	assert.Equal(t, []string{"Recording interest from Alice"}, sink.all())

	select {
	case ev := <-events:
		assert.Equal(t, EventTypeNotice, ev.Type)
		assert.Equal(t, "Recording interest from Alice", ev.Data)
	default:
		t.Fatal("expected a notice event on the bus")
	}
}

func TestFanoutNotifier_SinkErrorPropagates(t *testing.T) {
	sink := &captureNotifier{err: errors.New("unreachable")}
	n := NewFanoutNotifier(sink, nil)

	err := n.Notify(context.Background(), "msg")
	assert.Error(t, err)
}

func TestFanoutNotifier_NilSink(t *testing.T) {
	n := NewFanoutNotifier(nil, NewEventBus(testLogger()))
	assert.NoError(t, n.Notify(context.Background(), "msg"))
}
