// Package redisbus implements eventbus.Bus on Redis Streams, so multiple
// modcraftd instances can share one run's event log and subscribers can
// reconnect to a different instance after a restart (grounded on the
// teacher's registry/result_stream.go: Redis-key-per-entity naming,
// context-scoped Redis calls, TTL-based retention, redis.Nil handling).
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"modcraft/internal/eventbus"
)

const defaultRetention = 24 * time.Hour

type streamRecord struct {
	Seq       int            `json:"seq"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// Bus is a Redis Streams-backed eventbus.Bus.
type Bus struct {
	rdb       *redis.Client
	retention time.Duration
}

type Option func(*Bus)

// WithRetention overrides the default 24h TTL applied to a run's stream
// key after every publish, giving disconnected subscribers a grace
// period to reconnect and replay.
func WithRetention(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.retention = d
		}
	}
}

func New(rdb *redis.Client, opts ...Option) *Bus {
	b := &Bus{rdb: rdb, retention: defaultRetention}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func streamKey(runID string) string {
	return fmt.Sprintf("modcraft:run:%s:events", runID)
}

func seqKey(runID string) string {
	return fmt.Sprintf("modcraft:run:%s:seq", runID)
}

func (b *Bus) Publish(runID, eventType string, payload map[string]any) {
	ctx := context.Background()

	seq, err := b.rdb.Incr(ctx, seqKey(runID)).Result()
	if err != nil {
		return
	}

	rec := streamRecord{Seq: int(seq), Type: eventType, Payload: payload, Timestamp: time.Now()}
	body, err := json.Marshal(rec)
	if err != nil {
		return
	}

	key := streamKey(runID)
	_ = b.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: key,
		Values: map[string]any{"record": body},
	}).Err()
	_ = b.rdb.Expire(ctx, key, b.retention).Err()
	_ = b.rdb.Expire(ctx, seqKey(runID), b.retention).Err()
}

func (b *Bus) Subscribe(ctx context.Context, runID string, since int) (<-chan eventbus.Event, error) {
	key := streamKey(runID)

	backlog, lastID, err := b.readRange(ctx, key, "-", "+", since)
	if err != nil {
		return nil, fmt.Errorf("redisbus: replay %s: %w", runID, err)
	}

	ch := make(chan eventbus.Event, len(backlog)+32)
	for _, ev := range backlog {
		ch <- ev
	}

	go b.tail(ctx, key, lastID, ch)

	return ch, nil
}

func (b *Bus) readRange(ctx context.Context, key, start, end string, since int) ([]eventbus.Event, string, error) {
	results, err := b.rdb.XRange(ctx, key, start, end).Result()
	if err != nil && err != redis.Nil {
		return nil, "0", err
	}

	lastID := "0"
	var events []eventbus.Event
	for _, msg := range results {
		lastID = msg.ID
		rec, err := decodeRecord(msg)
		if err != nil {
			continue
		}
		if rec.Seq > since {
			events = append(events, eventbus.Event{Seq: rec.Seq, Type: rec.Type, Payload: rec.Payload, Timestamp: rec.Timestamp})
		}
	}
	return events, lastID, nil
}

func decodeRecord(msg redis.XMessage) (streamRecord, error) {
	var rec streamRecord
	raw, ok := msg.Values["record"].(string)
	if !ok {
		return rec, fmt.Errorf("redisbus: malformed stream entry %s", msg.ID)
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// tail blocks on XREAD from lastID forward, delivering newly published
// events to ch until ctx is canceled.
func (b *Bus) tail(ctx context.Context, key, lastID string, ch chan<- eventbus.Event) {
	defer close(ch)

	for {
		if ctx.Err() != nil {
			return
		}

		res, err := b.rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{key, lastID},
			Block:   5 * time.Second,
			Count:   100,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			return
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				rec, err := decodeRecord(msg)
				if err != nil {
					continue
				}
				ev := eventbus.Event{Seq: rec.Seq, Type: rec.Type, Payload: rec.Payload, Timestamp: rec.Timestamp}
				select {
				case ch <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
