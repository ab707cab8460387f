// Package executor runs a planner.TaskDAG to completion: it computes the
// READY set, sorts by priority, dispatches parallelizable tasks up to a
// bounded fan-out (non-parallelizable tasks run alone), binds parameters,
// invokes the bound tool handler, and fails fast on the first task error.
package executor

import (
	"context"
	"sort"
	"sync"
	"time"

	"modcraft/internal/planner"
)

// Sink receives per-task lifecycle events. internal/eventbus provides the
// concrete implementation; the Executor only depends on this narrow
// interface so it never needs to know about subscribers or replay.
type Sink interface {
	Publish(runID, eventType string, payload map[string]any)
}

const defaultFanOut = 4

var defaultTimeouts = map[string]time.Duration{
	planner.KindBuild: 10 * time.Minute,
	planner.KindGenerateTexture: 90 * time.Second,
}

const defaultTaskTimeout = 30 * time.Second

type Option func(*Executor)

// WithFanOut overrides the default bounded fan-out (4) for parallelizable
// task dispatch.
func WithFanOut(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.fanOut = n
		}
	}
}

// WithTimeout overrides the default timeout for a specific task kind.
func WithTimeout(kind string, d time.Duration) Option {
	return func(e *Executor) {
		e.timeouts[kind] = d
	}
}

// Executor drives one DAG to completion per Run call; it holds no
// run-scoped state between calls and is safe to reuse across runs.
type Executor struct {
	registry *Registry
	sink     Sink
	fanOut   int
	timeouts map[string]time.Duration
}

func New(registry *Registry, sink Sink, opts ...Option) *Executor {
	e := &Executor{
		registry: registry,
		sink:     sink,
		fanOut:   defaultFanOut,
		timeouts: map[string]time.Duration{},
	}
	for kind, d := range defaultTimeouts {
		e.timeouts[kind] = d
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProgressFunc is invoked after each task completes with the count of
// tasks that have reached a terminal status and the DAG's total task
// count, letting the run controller interpolate progress across a phase.
type ProgressFunc func(completed, total int)

// Run executes dag to completion, returning the first task error
// encountered (fail-fast) or ctx.Err() if canceled. outputs, keyed by task
// id, accumulates each handler's return value for downstream parameter
// binding.
func (e *Executor) Run(ctx context.Context, runID string, dag *planner.TaskDAG, onProgress ProgressFunc) error {
	outputs := map[string]map[string]any{}
	var outputsMu sync.Mutex

	var firstErrMu sync.Mutex
	var firstErr error
	setFirstErr := func(err error) {
		firstErrMu.Lock()
		defer firstErrMu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}
	getFirstErr := func() error {
		firstErrMu.Lock()
		defer firstErrMu.Unlock()
		return firstErr
	}

	total := len(dag.Tasks)
	var completed int
	var completedMu sync.Mutex
	markCompleted := func() {
		completedMu.Lock()
		completed++
		n := completed
		completedMu.Unlock()
		if onProgress != nil {
			onProgress(n, total)
		}
	}

	for dag.Pending() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if getFirstErr() != nil {
			break
		}

		ready := dag.Ready()
		if len(ready) == 0 {
			var pendingIDs []string
			for id, t := range dag.Tasks {
				if t.Status == planner.TaskPending {
					pendingIDs = append(pendingIDs, id)
				}
			}
			return &ExecutionDeadlockError{PendingTaskIDs: pendingIDs}
		}

		sort.SliceStable(ready, func(i, j int) bool { return ready[i].Priority > ready[j].Priority })
		batch := e.selectBatch(ready)

		var wg sync.WaitGroup
		for _, t := range batch {
			t.Status = planner.TaskRunning
			e.sink.Publish(runID, "task.started", map[string]any{"task_id": t.ID, "kind": t.Kind})

			wg.Add(1)
			go func(t *planner.Task) {
				defer wg.Done()
				start := time.Now()
				out, err := e.runTask(ctx, runID, t, dag, &outputs, &outputsMu)
				duration := time.Since(start)

				outputsMu.Lock()
				if err == nil {
					outputs[t.ID] = out
				}
				outputsMu.Unlock()

				if err != nil {
					t.Status = planner.TaskFailed
					setFirstErr(err)
				} else {
					t.Status = planner.TaskSucceeded
				}
				e.sink.Publish(runID, "task.finished", map[string]any{
					"task_id":     t.ID,
					"kind":        t.Kind,
					"duration_ms": duration.Milliseconds(),
				})
				markCompleted()
			}(t)
		}
		wg.Wait()
	}

	if err := getFirstErr(); err != nil {
		return err
	}
	return ctx.Err()
}

// selectBatch respects the non-parallelizable exclusivity rule: a
// non-parallelizable task at the head of the priority-sorted READY set
// dispatches alone; otherwise as many leading parallelizable tasks as fit
// in the fan-out are dispatched together.
func (e *Executor) selectBatch(ready []*planner.Task) []*planner.Task {
	if !ready[0].Parallelizable {
		return ready[:1]
	}
	var batch []*planner.Task
	for _, t := range ready {
		if !t.Parallelizable {
			continue
		}
		batch = append(batch, t)
		if len(batch) == e.fanOut {
			break
		}
	}
	return batch
}

func (e *Executor) runTask(ctx context.Context, runID string, t *planner.Task, dag *planner.TaskDAG, outputs *map[string]map[string]any, outputsMu *sync.Mutex) (map[string]any, error) {
	handler, err := e.registry.Lookup(t.Kind)
	if err != nil {
		return nil, &ToolFailureError{TaskID: t.ID, Cause: err}
	}

	params, err := e.bindParameters(t, handler, outputs, outputsMu)
	if err != nil {
		return nil, err
	}

	timeout := e.timeouts[t.Kind]
	if timeout == 0 {
		timeout = defaultTaskTimeout
	}
	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := handler.Invoke(taskCtx, params)
	if err != nil {
		if taskCtx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{TaskID: t.ID, Timeout: timeout}
		}
		return nil, &ToolFailureError{TaskID: t.ID, Cause: err}
	}
	return out, nil
}

// bindParameters computes tool-declared parameters ∩ (task inputs ∪
// dispatched IR context), where the dispatched IR context is the union of
// every dependency task's recorded output.
func (e *Executor) bindParameters(t *planner.Task, handler Handler, outputs *map[string]map[string]any, outputsMu *sync.Mutex) (map[string]any, error) {
	available := map[string]any{}
	for k, v := range t.Inputs {
		available[k] = v
	}

	outputsMu.Lock()
	for _, dep := range t.DependsOn {
		for k, v := range (*outputs)[dep] {
			available[k] = v
		}
	}
	outputsMu.Unlock()

	bound := map[string]any{}
	for _, p := range handler.Parameters() {
		v, ok := available[p.Name]
		if !ok {
			if p.Required {
				return nil, &MissingParameterError{TaskID: t.ID, Parameter: p.Name}
			}
			continue
		}
		bound[p.Name] = v
	}
	return bound, nil
}
