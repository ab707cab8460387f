package runengine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"modcraft/internal/compiler"
	"modcraft/internal/eventbus"
	"modcraft/internal/planner"
)

// progressFloor and progressCeiling bound the slice of [0,100] progress
// the Executor's task-completion interpolation fills (spec.md §4.5 step
// 4: "progress interpolated over tasks completed / total_tasks scaled to
// [30, 95]").
const (
	progressFloor   = 30
	progressCeiling = 95
)

// runBuild implements the build-run algorithm (spec.md §4.5 steps 1-6).
func (c *Controller) runBuild(ctx context.Context, run Run) {
	defer c.clearCancelFunc(run.ID)

	c.setStatus(ctx, &run, StatusRunning)

	c.appendLog(ctx, &run, "load_spec", "info", "loading current spec")
	spec, version, err := c.specs.GetCurrent(ctx, run.WorkspaceID)
	if err != nil {
		c.failRun(ctx, &run, "load_spec", err)
		return
	}

	c.appendLog(ctx, &run, "compile", "info", "compiling spec to IR")
	ir, err := compiler.Compile(spec, c.compat, version, time.Now())
	if err != nil {
		c.failRun(ctx, &run, "compile", err)
		return
	}
	c.setProgress(ctx, &run, 20)

	c.appendLog(ctx, &run, "plan", "info", "planning task graph")
	dag, err := planner.Plan(ir)
	if err != nil {
		c.failRun(ctx, &run, "plan", err)
		return
	}
	c.setProgress(ctx, &run, 30)

	for _, t := range dag.Tasks {
		t.Inputs["run_id"] = run.ID
	}

	c.appendLog(ctx, &run, "execute", "info", "executing task graph")
	onProgress := func(completed, total int) {
		if total == 0 {
			return
		}
		span := progressCeiling - progressFloor
		progress := progressFloor + (completed*span)/total
		c.setProgress(ctx, &run, progress)
	}
	if err := c.executor.Run(ctx, run.ID, &dag, onProgress); err != nil {
		if ctx.Err() != nil {
			run.Status = StatusCanceled
			run.FinishedAt = time.Now()
			c.runs.Save(ctx, run)
			c.releaseWorkspace(run.WorkspaceID)
			c.bus.Publish(run.ID, eventbus.TypeRunStatus, map[string]any{"status": string(StatusCanceled)})
			return
		}
		c.failRun(ctx, &run, "execute", err)
		return
	}

	artifacts, err := c.collectArtifacts(run.ID)
	if err != nil {
		c.failRun(ctx, &run, "execute", err)
		return
	}
	run.Artifacts = artifacts
	for _, a := range artifacts {
		c.bus.Publish(run.ID, eventbus.TypeArtifactCreated, map[string]any{
			"artifact_id":   a.ID,
			"file_name":     a.FileName,
			"artifact_type": a.ArtifactType,
			"file_size":     a.FileSize,
		})
	}

	run.FinishedAt = time.Now()
	c.setProgress(ctx, &run, 100)
	c.setStatus(ctx, &run, StatusSucceeded)
	c.runs.Save(ctx, run)
	c.releaseWorkspace(run.WorkspaceID)
}

// collectArtifacts lists every JAR under the run's conventional build
// output directory and registers it as an artifact.
func (c *Controller) collectArtifacts(runID string) ([]Artifact, error) {
	dir := c.layout.RunBuildLibsDir(runID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("runengine: list artifacts: %w", err)
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jar") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("runengine: stat artifact %s: %w", entry.Name(), err)
		}
		artifacts = append(artifacts, Artifact{
			ID:           uuid.NewString(),
			FileName:     entry.Name(),
			ArtifactType: "jar",
			FileSize:     info.Size(),
			Path:         filepath.Join(dir, entry.Name()),
		})
	}
	return artifacts, nil
}
