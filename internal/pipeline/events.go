package pipeline

import (
	"sync"
	"time"
)

// Stage names one step of a strategy run.
type Stage string

const (
	StageUniverse     Stage = "universe"
	StageMarket       Stage = "market"
	StageFundamentals Stage = "fundamentals"
	StageWeights      Stage = "weights"
	StageFallback     Stage = "fallback"
	StageClean        Stage = "clean"
	StageCheck        Stage = "check"
	StageStats        Stage = "stats"
	StagePersist      Stage = "persist"
)

// RunEvent reports progress of one pipeline stage.
type RunEvent struct {
	Stage   Stage     `json:"stage"`
	Message string    `json:"message"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// eventBus fans run events out to subscribers. Slow subscribers lose
// events instead of blocking the pipeline.
type eventBus struct {
	mu   sync.Mutex
	subs map[chan RunEvent]struct{}
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[chan RunEvent]struct{})}
}

func (b *eventBus) subscribe() chan RunEvent {
	ch := make(chan RunEvent, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *eventBus) unsubscribe(ch chan RunEvent) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *eventBus) publish(ev RunEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
