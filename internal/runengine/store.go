package runengine

import "context"

// Store persists Run records. Implementations must let Get observe the
// effects of any Save that happened-before it (spec.md §5 ordering
// guarantees do not name the run store directly, but the controller relies
// on this for its own correctness).
type Store interface {
	Save(ctx context.Context, run Run) error
	Get(ctx context.Context, runID string) (Run, error)
}
