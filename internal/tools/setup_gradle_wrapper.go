package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"modcraft/internal/executor"
	"modcraft/internal/planner"
	"modcraft/internal/workspace"
)

// SetupGradleWrapper implements the setup_gradle_wrapper task kind: it
// writes the gradle-wrapper.properties file the build command's gradlew
// entrypoint reads to resolve its Gradle distribution.
type SetupGradleWrapper struct {
	Layout workspace.Layout
}

func (SetupGradleWrapper) Kind() string { return planner.KindSetupGradleWrapper }

func (SetupGradleWrapper) Parameters() []executor.ParamSpec {
	return []executor.ParamSpec{{Name: "run_id", Required: true}}
}

func (h SetupGradleWrapper) Invoke(ctx context.Context, params map[string]any) (map[string]any, error) {
	runID := params["run_id"].(string)

	body, err := render("gradle-wrapper.properties.tpl", nil)
	if err != nil {
		return nil, err
	}

	wrapperDir := filepath.Join(h.Layout.RunDir(runID), "gradle", "wrapper")
	if err := os.MkdirAll(wrapperDir, 0o755); err != nil {
		return nil, fmt.Errorf("tools: setup_gradle_wrapper: %w", err)
	}
	if err := os.WriteFile(filepath.Join(wrapperDir, "gradle-wrapper.properties"), body, 0o644); err != nil {
		return nil, fmt.Errorf("tools: setup_gradle_wrapper: %w", err)
	}
	return map[string]any{}, nil
}
