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

// GenerateMixins implements the generate_mixins task kind: it renders the
// mixin configuration file Fabric Loader loads alongside fabric.mod.json.
// The mod's IR carries no mixin definitions yet (spec.md scopes mixin
// authoring out), so this emits an empty but valid configuration.
type GenerateMixins struct {
	Layout workspace.Layout
}

func (GenerateMixins) Kind() string { return planner.KindGenerateMixins }

func (GenerateMixins) Parameters() []executor.ParamSpec {
	return []executor.ParamSpec{
		{Name: "run_id", Required: true},
		{Name: "mod_id", Required: true},
		{Name: "base_package", Required: true},
	}
}

func (h GenerateMixins) Invoke(ctx context.Context, params map[string]any) (map[string]any, error) {
	runID := params["run_id"].(string)
	modID := params["mod_id"].(string)

	body, err := render("mixins.json.tpl", map[string]any{"BasePackage": params["base_package"]})
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(h.Layout.RunDir(runID), "src", "main", "resources", modID+".mixins.json")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("tools: generate_mixins: %w", err)
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return nil, fmt.Errorf("tools: generate_mixins: %w", err)
	}
	return map[string]any{}, nil
}
