package runengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modcraft/internal/eventbus"
	"modcraft/internal/specstore"
)

// runGenerate implements the generate-run algorithm (spec.md §4.5 steps
// 1-4): call the Orchestrator, then either park on clarifying questions
// or present the proposed deltas for approval.
func (c *Controller) runGenerate(ctx context.Context, run Run) {
	defer c.clearCancelFunc(run.ID)

	c.setStatus(ctx, &run, StatusRunning)
	c.appendLog(ctx, &run, "generate", "info", "calling orchestrator")

	var currentSpec *specstore.ModSpec
	if spec, _, err := c.specs.GetCurrent(ctx, run.WorkspaceID); err == nil {
		currentSpec = &spec
	} else if !errors.Is(err, specstore.NoCurrentSpec) {
		c.failRun(ctx, &run, "generate", err)
		return
	}

	result, err := c.orchestrator.Generate(ctx, run.Prompt, currentSpec)
	if ctx.Err() != nil {
		run.Status = StatusCanceled
		run.FinishedAt = time.Now()
		c.runs.Save(ctx, run)
		c.releaseWorkspace(run.WorkspaceID)
		c.bus.Publish(run.ID, eventbus.TypeRunStatus, map[string]any{"status": string(StatusCanceled)})
		return
	}
	if err != nil {
		c.failRun(ctx, &run, "generate", err)
		return
	}

	if len(result.ClarifyingQuestions) > 0 {
		run.ClarifyingQuestions = result.ClarifyingQuestions
		run.Reasoning = result.Reasoning
		c.bus.Publish(run.ID, eventbus.TypeRunAwaitingInput, map[string]any{
			"clarifying_questions": result.ClarifyingQuestions,
			"reasoning":            result.Reasoning,
		})
		run.Status = StatusAwaitingInput
		c.runs.Save(ctx, run)
		// A reply to an AWAITING_INPUT run spawns a brand new run
		// (spec.md §4.5), so the workspace is free again immediately.
		c.releaseWorkspace(run.WorkspaceID)
		return
	}

	run.PendingDeltas = result.Deltas
	run.Reasoning = result.Reasoning
	for i, delta := range result.Deltas {
		c.bus.Publish(run.ID, eventbus.TypeSpecPreview, map[string]any{
			"delta":        delta,
			"delta_index":  i,
			"total_deltas": len(result.Deltas),
		})
	}
	c.bus.Publish(run.ID, eventbus.TypeRunAwaitingApproval, map[string]any{
		"pending_deltas": result.Deltas,
		"deltas_count":   len(result.Deltas),
	})
	run.Status = StatusAwaitingApproval
	c.runs.Save(ctx, run)
}

func (c *Controller) failRun(ctx context.Context, run *Run, phase string, err error) {
	run.Status = StatusFailed
	run.FailureReason = err.Error()
	c.runs.Save(ctx, *run)
	c.releaseWorkspace(run.WorkspaceID)
	c.bus.Publish(run.ID, eventbus.TypeError, map[string]any{
		"message": err.Error(),
		"phase":   phase,
		"cause":   fmt.Sprintf("%v", err),
	})
	c.bus.Publish(run.ID, eventbus.TypeRunStatus, map[string]any{"status": string(StatusFailed)})
}
