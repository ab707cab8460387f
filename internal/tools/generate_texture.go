package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"modcraft/internal/executor"
	"modcraft/internal/planner"
	"modcraft/internal/texturegen"
	"modcraft/internal/workspace"
)

// GenerateTexture implements the generate_texture task kind: it asks the
// configured texturegen.Client for one texture variant and writes it under
// the run's assets directory at the asset's canonical path.
type GenerateTexture struct {
	Layout    workspace.Layout
	Generator texturegen.Client
}

func (GenerateTexture) Kind() string { return planner.KindGenerateTexture }

func (GenerateTexture) Parameters() []executor.ParamSpec {
	return []executor.ParamSpec{
		{Name: "run_id", Required: true},
		{Name: "relative_path", Required: true},
		{Name: "texture_prompt", Required: true},
		{Name: "reference_texture_ids", Required: false},
	}
}

func (h GenerateTexture) Invoke(ctx context.Context, params map[string]any) (map[string]any, error) {
	runID := params["run_id"].(string)
	relativePath := params["relative_path"].(string)
	prompt := params["texture_prompt"].(string)

	var refs []string
	if raw, ok := params["reference_texture_ids"]; ok {
		refs, _ = raw.([]string)
	}

	variants, err := h.Generator.Generate(ctx, prompt, refs, 1)
	if err != nil {
		return nil, fmt.Errorf("tools: generate_texture %s: %w", relativePath, err)
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("tools: generate_texture %s: no variants returned", relativePath)
	}

	dest := filepath.Join(h.Layout.RunAssetsDir(runID), relativePath)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("tools: generate_texture %s: %w", relativePath, err)
	}
	if err := os.WriteFile(dest, variants[0], 0o644); err != nil {
		return nil, fmt.Errorf("tools: generate_texture %s: %w", relativePath, err)
	}
	return map[string]any{"texture_path:" + relativePath: dest}, nil
}
