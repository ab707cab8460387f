package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"modcraft/internal/compiler"
	"modcraft/internal/executor"
	"modcraft/internal/planner"
	"modcraft/internal/workspace"
)

// GenerateAssets implements the generate_assets task kind: it writes every
// non-texture asset descriptor's JSON payload under the run's assets
// directory. Texture assets were already materialized by generate_texture;
// this task only handles models, blockstates, loot tables, and lang files.
type GenerateAssets struct {
	Layout workspace.Layout
}

func (GenerateAssets) Kind() string { return planner.KindGenerateAssets }

func (GenerateAssets) Parameters() []executor.ParamSpec {
	return []executor.ParamSpec{
		{Name: "run_id", Required: true},
		{Name: "assets", Required: false},
	}
}

func (h GenerateAssets) Invoke(ctx context.Context, params map[string]any) (map[string]any, error) {
	runID := params["run_id"].(string)
	assets, _ := params["assets"].([]compiler.IRAsset)

	written := 0
	for _, asset := range assets {
		if asset.Kind == compiler.AssetKindTexture {
			continue
		}
		body, err := json.MarshalIndent(asset.Payload, "", "\t")
		if err != nil {
			return nil, fmt.Errorf("tools: generate_assets %s: %w", asset.RelativePath, err)
		}
		dest := filepath.Join(h.Layout.RunAssetsDir(runID), asset.RelativePath)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, fmt.Errorf("tools: generate_assets %s: %w", asset.RelativePath, err)
		}
		if err := os.WriteFile(dest, body, 0o644); err != nil {
			return nil, fmt.Errorf("tools: generate_assets %s: %w", asset.RelativePath, err)
		}
		written++
	}
	return map[string]any{"assets_written": written}, nil
}
