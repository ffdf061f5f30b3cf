package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusFanOut(t *testing.T) {
	bus := newEventBus()
	a := bus.subscribe()
	b := bus.subscribe()

	ev := RunEvent{Stage: StageWeights, Message: "computing", At: time.Now()}
	bus.publish(ev)

	got := <-a
	assert.Equal(t, StageWeights, got.Stage)
	got = <-b
	assert.Equal(t, "computing", got.Message)

	bus.unsubscribe(a)
	bus.unsubscribe(b)
}

func TestEventBusUnsubscribeCloses(t *testing.T) {
	bus := newEventBus()
	ch := bus.subscribe()
	bus.unsubscribe(ch)

	_, open := <-ch
	require.False(t, open)

	// Double unsubscribe is a no-op.
	bus.unsubscribe(ch)
}

func TestEventBusSlowSubscriberDropsEvents(t *testing.T) {
	bus := newEventBus()
	ch := bus.subscribe()
	defer bus.unsubscribe(ch)

	for i := 0; i < 100; i++ {
		bus.publish(RunEvent{Stage: StageStats})
	}

	// Buffer holds 64; the rest were dropped without blocking.
	assert.Equal(t, 64, len(ch))
}
