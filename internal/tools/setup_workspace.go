package tools

import (
	"context"
	"fmt"
	"os"

	"modcraft/internal/executor"
	"modcraft/internal/planner"
	"modcraft/internal/workspace"
)

// SetupWorkspace implements the setup_workspace task kind: it creates the
// run's directory tree so every downstream task has somewhere to write.
type SetupWorkspace struct {
	Layout workspace.Layout
}

func (SetupWorkspace) Kind() string { return planner.KindSetupWorkspace }

func (SetupWorkspace) Parameters() []executor.ParamSpec {
	return []executor.ParamSpec{{Name: "run_id", Required: true}}
}

func (h SetupWorkspace) Invoke(ctx context.Context, params map[string]any) (map[string]any, error) {
	runID, ok := params["run_id"].(string)
	if !ok || runID == "" {
		return nil, fmt.Errorf("tools: setup_workspace requires run_id")
	}

	for _, dir := range []string{
		h.Layout.RunDir(runID),
		h.Layout.RunSourceDir(runID),
		h.Layout.RunAssetsDir(runID),
		h.Layout.RunBuildLibsDir(runID),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("tools: setup_workspace: %w", err)
		}
	}
	return map[string]any{"run_dir": h.Layout.RunDir(runID)}, nil
}
