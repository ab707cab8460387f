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

// GenerateFabricMetadata implements the generate_fabric_metadata task
// kind: it renders the fabric.mod.json descriptor Fabric Loader reads to
// discover the mod's entrypoint.
type GenerateFabricMetadata struct {
	Layout workspace.Layout
}

func (GenerateFabricMetadata) Kind() string { return planner.KindGenerateFabricMeta }

func (GenerateFabricMetadata) Parameters() []executor.ParamSpec {
	return []executor.ParamSpec{
		{Name: "run_id", Required: true},
		{Name: "mod_id", Required: true},
		{Name: "base_package", Required: true},
		{Name: "main_class_name", Required: true},
	}
}

func (h GenerateFabricMetadata) Invoke(ctx context.Context, params map[string]any) (map[string]any, error) {
	runID := params["run_id"].(string)

	body, err := render("fabric.mod.json.tpl", map[string]any{
		"ModID":         params["mod_id"],
		"BasePackage":   params["base_package"],
		"MainClassName": params["main_class_name"],
	})
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(h.Layout.RunDir(runID), "src", "main", "resources", "fabric.mod.json")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("tools: generate_fabric_metadata: %w", err)
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return nil, fmt.Errorf("tools: generate_fabric_metadata: %w", err)
	}
	return map[string]any{}, nil
}
