package runengine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"modcraft/internal/compiler"
	"modcraft/internal/eventbus"
	"modcraft/internal/executor"
	"modcraft/internal/orchestrator"
	"modcraft/internal/specstore"
	"modcraft/internal/workspace"
)

// Controller owns the run state machine: it wraps Orchestrator calls,
// Spec Store writes, and the Compiler/Planner/Executor pipeline behind
// approval gates and event emission (spec.md §4.5).
type Controller struct {
	runs         Store
	specs        specstore.Store
	orchestrator orchestrator.Client
	bus          eventbus.Bus
	executor     *executor.Executor
	layout       workspace.Layout
	compat       compiler.CompatibilityConfig

	mu          sync.Mutex
	activeRun   map[string]string                 // workspace id -> run id, for the one-non-terminal-run invariant
	cancelFuncs map[string]context.CancelFunc      // run id -> cancel, for in-flight RUNNING runs
}

// Options configures a Controller's collaborators.
type Options struct {
	Runs         Store
	Specs        specstore.Store
	Orchestrator orchestrator.Client
	Bus          eventbus.Bus
	Executor     *executor.Executor
	Layout       workspace.Layout
	Compat       compiler.CompatibilityConfig
}

func New(opts Options) *Controller {
	return &Controller{
		runs:         opts.Runs,
		specs:        opts.Specs,
		orchestrator: opts.Orchestrator,
		bus:          opts.Bus,
		executor:     opts.Executor,
		layout:       opts.Layout,
		compat:       opts.Compat,
		activeRun:    map[string]string{},
		cancelFuncs:  map[string]context.CancelFunc{},
	}
}

// TriggerGenerate starts a generate run for workspaceID: it asks the
// Orchestrator to turn prompt into spec deltas (or clarifying questions)
// and runs asynchronously, returning the new run's id immediately.
func (c *Controller) TriggerGenerate(ctx context.Context, workspaceID, prompt string) (string, error) {
	run := Run{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Type:        TypeGenerate,
		Status:      StatusQueued,
		Prompt:      prompt,
		StartedAt:   time.Now(),
	}
	if err := c.claimWorkspace(workspaceID, run.ID); err != nil {
		return "", err
	}
	if err := c.runs.Save(ctx, run); err != nil {
		c.releaseWorkspace(workspaceID)
		return "", err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.cancelFuncs[run.ID] = cancel
	c.mu.Unlock()

	go c.runGenerate(runCtx, run)
	return run.ID, nil
}

// TriggerBuild starts a build run for workspaceID against its current
// spec, returning the new run's id immediately.
func (c *Controller) TriggerBuild(ctx context.Context, workspaceID string) (string, error) {
	run := Run{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Type:        TypeBuild,
		Status:      StatusQueued,
		StartedAt:   time.Now(),
	}
	if err := c.claimWorkspace(workspaceID, run.ID); err != nil {
		return "", err
	}
	if err := c.runs.Save(ctx, run); err != nil {
		c.releaseWorkspace(workspaceID)
		return "", err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.cancelFuncs[run.ID] = cancel
	c.mu.Unlock()

	go c.runBuild(runCtx, run)
	return run.ID, nil
}

// Approve applies a run's pending deltas (or modifiedDeltas, if supplied)
// to the Spec Store and transitions the run to SUCCEEDED.
func (c *Controller) Approve(ctx context.Context, runID string, modifiedDeltas []specstore.SpecDelta) error {
	run, err := c.runs.Get(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status != StatusAwaitingApproval {
		return &InvalidTransitionError{RunID: runID, Status: run.Status, Command: "approve"}
	}

	deltas := run.PendingDeltas
	if modifiedDeltas != nil {
		deltas = modifiedDeltas
	}

	var spec specstore.ModSpec
	var version int
	for _, delta := range deltas {
		spec, version, err = c.specs.ApplyDelta(ctx, run.WorkspaceID, delta)
		if err != nil {
			run.Status = StatusFailed
			run.FailureReason = err.Error()
			run.FinishedAt = time.Now()
			c.runs.Save(ctx, run)
			c.releaseWorkspace(run.WorkspaceID)
			c.bus.Publish(run.ID, eventbus.TypeError, map[string]any{"message": err.Error(), "phase": "apply_deltas"})
			return err
		}
	}

	c.bus.Publish(run.ID, eventbus.TypeSpecSaved, map[string]any{
		"spec_version": version,
		"items_count":  len(spec.Items),
		"blocks_count": len(spec.Blocks),
		"tools_count":  len(spec.Tools),
	})

	run.Status = StatusSucceeded
	run.FinishedAt = time.Now()
	run.Progress = 100
	if err := c.runs.Save(ctx, run); err != nil {
		return err
	}
	c.releaseWorkspace(run.WorkspaceID)
	c.bus.Publish(run.ID, eventbus.TypeRunStatus, map[string]any{"status": string(run.Status)})
	return nil
}

// Reject discards a run's pending deltas and transitions it to REJECTED.
func (c *Controller) Reject(ctx context.Context, runID, reason string) error {
	run, err := c.runs.Get(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status != StatusAwaitingApproval {
		return &InvalidTransitionError{RunID: runID, Status: run.Status, Command: "reject"}
	}

	run.Status = StatusRejected
	run.RejectReason = reason
	run.FinishedAt = time.Now()
	if err := c.runs.Save(ctx, run); err != nil {
		return err
	}
	c.releaseWorkspace(run.WorkspaceID)
	c.bus.Publish(run.ID, eventbus.TypeRunStatus, map[string]any{"status": string(run.Status)})
	return nil
}

// Cancel signals a RUNNING run's context. The run transitions to CANCELED
// only once its in-flight work actually returns (spec.md §5).
func (c *Controller) Cancel(ctx context.Context, runID string) error {
	run, err := c.runs.Get(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status != StatusRunning {
		return &InvalidTransitionError{RunID: runID, Status: run.Status, Command: "cancel"}
	}

	c.mu.Lock()
	cancel, ok := c.cancelFuncs[runID]
	c.mu.Unlock()
	if ok {
		cancel()
	}
	return nil
}

// Snapshot returns the retained status/progress/log-tail view for runID.
func (c *Controller) Snapshot(ctx context.Context, runID string) (Snapshot, error) {
	run, err := c.runs.Get(ctx, runID)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshotOf(run), nil
}

// claimWorkspace enforces spec.md §4.5's at-most-one-non-terminal-run
// invariant.
func (c *Controller) claimWorkspace(workspaceID, runID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.activeRun[workspaceID]; ok {
		return &RunInProgressError{WorkspaceID: workspaceID, ActiveRunID: existing}
	}
	c.activeRun[workspaceID] = runID
	return nil
}

// releaseWorkspace frees workspaceID for a new trigger. Called when a run
// leaves every blocking state: the four terminal states, and
// AWAITING_INPUT (spec.md §4.5 treats a reply to AWAITING_INPUT as
// spawning a brand new run, so the workspace must already be free to
// accept it).
func (c *Controller) releaseWorkspace(workspaceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.activeRun, workspaceID)
}

func (c *Controller) clearCancelFunc(runID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cancelFuncs, runID)
}

func (c *Controller) appendLog(ctx context.Context, run *Run, phase, level, message string) {
	run.Logs = append(run.Logs, LogEntry{Timestamp: time.Now(), Phase: phase, Level: level, Message: message})
	c.runs.Save(ctx, *run)
	c.bus.Publish(run.ID, eventbus.TypeLogAppend, map[string]any{"message": message, "level": level, "phase": phase})
}

func (c *Controller) setProgress(ctx context.Context, run *Run, progress int) {
	run.Progress = progress
	c.runs.Save(ctx, *run)
	c.bus.Publish(run.ID, eventbus.TypeRunProgress, map[string]any{"progress": progress})
}

func (c *Controller) setStatus(ctx context.Context, run *Run, status Status) {
	run.Status = status
	c.runs.Save(ctx, *run)
	c.bus.Publish(run.ID, eventbus.TypeRunStatus, map[string]any{"status": string(status)})
}
