package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeFromZeroReplaysEverything(t *testing.T) {
	b := New()
	b.Publish("run-1", "run.status", map[string]any{"status": "running"})
	b.Publish("run-1", "run.status", map[string]any{"status": "succeeded"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, "run-1", 0)
	require.NoError(t, err)

	first := <-ch
	second := <-ch
	assert.Equal(t, 1, first.Seq)
	assert.Equal(t, 2, second.Seq)
}

func TestSubscribeSinceSkipsEarlierEvents(t *testing.T) {
	b := New()
	b.Publish("run-1", "run.status", map[string]any{"status": "running"})
	b.Publish("run-1", "run.progress", map[string]any{"progress": 50})
	b.Publish("run-1", "run.status", map[string]any{"status": "succeeded"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, "run-1", 1)
	require.NoError(t, err)

	ev := <-ch
	assert.Equal(t, 2, ev.Seq)
	ev = <-ch
	assert.Equal(t, 3, ev.Seq)
}

func TestSubscribeReceivesLiveEventsAfterBacklog(t *testing.T) {
	b := New()
	b.Publish("run-1", "run.status", map[string]any{"status": "running"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, "run-1", 0)
	require.NoError(t, err)
	require.Equal(t, 1, (<-ch).Seq)

	b.Publish("run-1", "run.status", map[string]any{"status": "succeeded"})
	select {
	case ev := <-ch:
		assert.Equal(t, 2, ev.Seq)
	case <-time.After(time.Second):
		t.Fatal("expected live event delivery")
	}
}

func TestUnsubscribeOnContextCancelClosesChannel(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx, "run-1", 0)
	require.NoError(t, err)

	cancel()
	_, ok := <-ch
	for ok {
		_, ok = <-ch
	}
	assert.False(t, ok)
}

func TestSlowSubscriberIsDisconnectedNotBlocked(t *testing.T) {
	b := New(WithSubscriberBuffer(1))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, "run-1", 0)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			b.Publish("run-1", "log.append", map[string]any{"message": "tick"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish must never block on a slow subscriber")
	}

	// Buffer size 1: the first event fills the buffer, the second publish
	// finds it full and drops the subscriber, closing the channel.
	<-ch
	_, ok := <-ch
	assert.False(t, ok, "slow subscriber must be disconnected")
}

func TestIndependentRunsHaveIndependentSequences(t *testing.T) {
	b := New()
	b.Publish("run-1", "run.status", map[string]any{"status": "running"})
	b.Publish("run-2", "run.status", map[string]any{"status": "running"})
	b.Publish("run-1", "run.status", map[string]any{"status": "succeeded"})

	ctx := context.Background()
	ch1, err := b.Subscribe(ctx, "run-1", 0)
	require.NoError(t, err)
	ch2, err := b.Subscribe(ctx, "run-2", 0)
	require.NoError(t, err)

	assert.Equal(t, 1, (<-ch1).Seq)
	assert.Equal(t, 2, (<-ch1).Seq)
	assert.Equal(t, 1, (<-ch2).Seq)
}
