package memory

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSubscribeDeliversExactlyEventsAfterSinceProperty verifies invariant
// 4: for all runs and subscribers attaching with since=k, the delivered
// sequence is exactly the events with seq>k, in order, with no gaps and
// no duplicates.
func TestSubscribeDeliversExactlyEventsAfterSinceProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("subscribe(since=k) replays exactly seq>k in order", prop.ForAll(
		func(total, since int) bool {
			if since > total {
				since = total
			}
			b := New()
			for i := 0; i < total; i++ {
				b.Publish("run-1", "log.append", map[string]any{"i": i})
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			ch, err := b.Subscribe(ctx, "run-1", since)
			if err != nil {
				return false
			}

			want := since + 1
			for want <= total {
				select {
				case ev := <-ch:
					if ev.Seq != want {
						return false
					}
					want++
				case <-time.After(200 * time.Millisecond):
					return false
				}
			}

			select {
			case ev, ok := <-ch:
				if ok {
					return false // unexpected extra event
				}
				_ = ev
			default:
			}

			return true
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
