package tools

import (
	"context"
	"fmt"

	"modcraft/internal/builder"
	"modcraft/internal/executor"
	"modcraft/internal/planner"
	"modcraft/internal/workspace"
)

// modVersion is the fixed version stamped on every generated mod, matching
// the literal "1.0.0" the fabric.mod.json template renders and the
// mod_version gradle.properties generate_build_files writes.
const modVersion = "1.0.0"

// Build implements the build task kind: it invokes the configured build
// command in the run's workspace and locates the resulting JAR.
type Build struct {
	Layout  workspace.Layout
	Builder *builder.Builder
}

func (Build) Kind() string { return planner.KindBuild }

func (Build) Parameters() []executor.ParamSpec {
	return []executor.ParamSpec{
		{Name: "run_id", Required: true},
		{Name: "mod_id", Required: true},
	}
}

func (h Build) Invoke(ctx context.Context, params map[string]any) (map[string]any, error) {
	runID := params["run_id"].(string)
	modID := params["mod_id"].(string)

	result, err := h.Builder.Build(ctx, h.Layout.RunDir(runID), h.Layout.RunBuildLibsDir(runID))
	if err != nil {
		return nil, fmt.Errorf("tools: build %s: %w", modID, err)
	}
	return map[string]any{"jar_path": result.JarPath}, nil
}
