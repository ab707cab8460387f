// Package memory implements an in-process eventbus.Bus, grounded on the
// two-level-map-with-mutex pattern used throughout the teacher's registry
// package for per-key state (here, per-run event logs and subscribers).
package memory

import (
	"context"
	"sync"
	"time"

	"modcraft/internal/eventbus"
)

const defaultSubscriberBuffer = 64

type runLog struct {
	mu          sync.Mutex
	events      []eventbus.Event
	subscribers map[int]chan eventbus.Event
	nextSubID   int
}

// Bus is an in-process, single-node eventbus.Bus. It holds the full event
// log for every run in memory for the life of the Bus; it has no retention
// period and no way to remove a run's log.
type Bus struct {
	mu             sync.RWMutex
	runs           map[string]*runLog
	subscriberSize int
}

type Option func(*Bus)

// WithSubscriberBuffer overrides the per-subscriber channel buffer size
// used beyond the replayed backlog.
func WithSubscriberBuffer(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.subscriberSize = n
		}
	}
}

func New(opts ...Option) *Bus {
	b := &Bus{
		runs:           map[string]*runLog{},
		subscriberSize: defaultSubscriberBuffer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) logFor(runID string) *runLog {
	b.mu.RLock()
	l, ok := b.runs[runID]
	b.mu.RUnlock()
	if ok {
		return l
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if l, ok := b.runs[runID]; ok {
		return l
	}
	l = &runLog{subscribers: map[int]chan eventbus.Event{}}
	b.runs[runID] = l
	return l
}

func (b *Bus) Publish(runID, eventType string, payload map[string]any) {
	l := b.logFor(runID)
	l.mu.Lock()
	defer l.mu.Unlock()

	ev := eventbus.Event{
		Seq:       len(l.events) + 1,
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	l.events = append(l.events, ev)

	for id, ch := range l.subscribers {
		select {
		case ch <- ev:
		default:
			close(ch)
			delete(l.subscribers, id)
		}
	}
}

func (b *Bus) Subscribe(ctx context.Context, runID string, since int) (<-chan eventbus.Event, error) {
	l := b.logFor(runID)

	l.mu.Lock()
	var backlog []eventbus.Event
	for _, ev := range l.events {
		if ev.Seq > since {
			backlog = append(backlog, ev)
		}
	}

	ch := make(chan eventbus.Event, len(backlog)+b.subscriberSize)
	for _, ev := range backlog {
		ch <- ev
	}

	id := l.nextSubID
	l.nextSubID++
	l.subscribers[id] = ch
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		defer l.mu.Unlock()
		if existing, ok := l.subscribers[id]; ok {
			close(existing)
			delete(l.subscribers, id)
		}
	}()

	return ch, nil
}
