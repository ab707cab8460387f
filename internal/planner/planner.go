package planner

import (
	"fmt"

	"modcraft/internal/compiler"
)

// Plan converts a compiled ModIR into a TaskDAG following the fixed
// seven-phase table (spec.md §4.3): setup_workspace fans out into one
// generate_texture task per textured asset, a single generate_code task,
// a single generate_assets task gated on every texture, three parallel
// metadata-generation tasks, setup_gradle_wrapper, and a terminal build
// task depending on everything before it.
func Plan(ir compiler.ModIR) (TaskDAG, error) {
	dag := TaskDAG{Tasks: map[string]*Task{}}

	setup := &Task{
		ID:       "setup_workspace",
		Kind:     KindSetupWorkspace,
		Priority: PrioritySetup,
		Status:   TaskPending,
		Inputs: map[string]any{
			"mod_id": ir.ModID,
		},
	}
	dag.Tasks[setup.ID] = setup
	dag.Entry = []string{setup.ID}

	var textureIDs []string
	for _, asset := range ir.Assets {
		if asset.Kind != compiler.AssetKindTexture {
			continue
		}
		id := fmt.Sprintf("generate_texture:%s", asset.RelativePath)
		dag.Tasks[id] = &Task{
			ID:             id,
			Kind:           KindGenerateTexture,
			Priority:       PriorityTexture,
			Status:         TaskPending,
			Parallelizable: true,
			DependsOn:      []string{setup.ID},
			Inputs: map[string]any{
				"relative_path":        asset.RelativePath,
				"texture_prompt":       asset.TexturePrompt,
				"reference_texture_ids": asset.ReferenceTextureIDs,
				"owner_element_id":     asset.OwnerElementID,
			},
		}
		textureIDs = append(textureIDs, id)
	}

	code := &Task{
		ID:        "generate_code",
		Kind:      KindGenerateCode,
		Priority:  PriorityCodeGen,
		Status:    TaskPending,
		DependsOn: []string{setup.ID},
		Inputs: map[string]any{
			"mod_id":         ir.ModID,
			"base_package":   ir.BasePackage,
			"main_class_name": ir.MainClassName,
			"items":          ir.Items,
			"blocks":         ir.Blocks,
			"tools":          ir.Tools,
		},
	}
	dag.Tasks[code.ID] = code

	assetsDeps := append([]string{setup.ID}, textureIDs...)
	assets := &Task{
		ID:        "generate_assets",
		Kind:      KindGenerateAssets,
		Priority:  PriorityAssets,
		Status:    TaskPending,
		DependsOn: assetsDeps,
		Inputs: map[string]any{
			"mod_id": ir.ModID,
			"assets": ir.Assets,
		},
	}
	dag.Tasks[assets.ID] = assets

	buildFiles := &Task{
		ID:             "generate_build_files",
		Kind:           KindGenerateBuildFiles,
		Priority:       PriorityBuildGen,
		Status:         TaskPending,
		Parallelizable: true,
		DependsOn:      []string{setup.ID},
		Inputs: map[string]any{
			"mod_id":            ir.ModID,
			"base_package":      ir.BasePackage,
			"minecraft_version": ir.MinecraftVersion,
			"loader_version":    ir.LoaderVersion,
			"mapping_version":   ir.MappingVersion,
		},
	}
	dag.Tasks[buildFiles.ID] = buildFiles

	fabricMeta := &Task{
		ID:             "generate_fabric_metadata",
		Kind:           KindGenerateFabricMeta,
		Priority:       PriorityBuildGen,
		Status:         TaskPending,
		Parallelizable: true,
		DependsOn:      []string{setup.ID},
		Inputs: map[string]any{
			"mod_id":          ir.ModID,
			"base_package":    ir.BasePackage,
			"main_class_name": ir.MainClassName,
		},
	}
	dag.Tasks[fabricMeta.ID] = fabricMeta

	mixins := &Task{
		ID:             "generate_mixins",
		Kind:           KindGenerateMixins,
		Priority:       PriorityBuildGen,
		Status:         TaskPending,
		Parallelizable: true,
		DependsOn:      []string{setup.ID},
		Inputs: map[string]any{
			"mod_id":       ir.ModID,
			"base_package": ir.BasePackage,
		},
	}
	dag.Tasks[mixins.ID] = mixins

	gradle := &Task{
		ID:        "setup_gradle_wrapper",
		Kind:      KindSetupGradleWrapper,
		Priority:  PriorityBuildGen,
		Status:    TaskPending,
		DependsOn: []string{setup.ID},
		Inputs:    map[string]any{},
	}
	dag.Tasks[gradle.ID] = gradle

	buildDeps := []string{code.ID, assets.ID, buildFiles.ID, fabricMeta.ID, mixins.ID, gradle.ID}
	build := &Task{
		ID:        "build",
		Kind:      KindBuild,
		Priority:  PriorityBuild,
		Status:    TaskPending,
		DependsOn: buildDeps,
		Inputs: map[string]any{
			"mod_id":           ir.ModID,
			"source_spec_version": ir.SourceSpecVersion,
		},
	}
	dag.Tasks[build.ID] = build
	dag.Terminal = []string{build.ID}

	if err := validateAcyclic(dag); err != nil {
		return TaskDAG{}, err
	}

	return dag, nil
}

// validateAcyclic walks the dependency graph with a three-color DFS,
// failing on any back-edge. Plan's fixed phase structure cannot actually
// produce a cycle, but this guards against future phase additions that
// might.
func validateAcyclic(dag TaskDAG) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(dag.Tasks))

	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case gray:
			return fmt.Errorf("planner: cycle detected at task %q", id)
		case black:
			return nil
		}
		color[id] = gray
		for _, dep := range dag.Tasks[id].DependsOn {
			if _, ok := dag.Tasks[dep]; !ok {
				return fmt.Errorf("planner: task %q depends on unknown task %q", id, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}

	for id := range dag.Tasks {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
