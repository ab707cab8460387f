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

// GenerateBuildFiles implements the generate_build_files task kind: it
// renders build.gradle, settings.gradle, and gradle.properties into the
// run's workspace root. gradle.properties defines the mod_version and
// maven_group extra-properties build.gradle.tpl reads via
// project.mod_version/project.maven_group.
type GenerateBuildFiles struct {
	Layout workspace.Layout
}

func (GenerateBuildFiles) Kind() string { return planner.KindGenerateBuildFiles }

func (GenerateBuildFiles) Parameters() []executor.ParamSpec {
	return []executor.ParamSpec{
		{Name: "run_id", Required: true},
		{Name: "mod_id", Required: true},
		{Name: "base_package", Required: true},
		{Name: "minecraft_version", Required: true},
		{Name: "loader_version", Required: true},
		{Name: "mapping_version", Required: true},
	}
}

func (h GenerateBuildFiles) Invoke(ctx context.Context, params map[string]any) (map[string]any, error) {
	runID := params["run_id"].(string)
	runDir := h.Layout.RunDir(runID)

	data := map[string]any{
		"ModID":            params["mod_id"],
		"BasePackage":      params["base_package"],
		"MinecraftVersion": params["minecraft_version"],
		"LoaderVersion":    params["loader_version"],
		"MappingVersion":   params["mapping_version"],
		"ModVersion":       modVersion,
	}

	buildGradle, err := render("build.gradle.tpl", data)
	if err != nil {
		return nil, err
	}
	settingsGradle, err := render("settings.gradle.tpl", data)
	if err != nil {
		return nil, err
	}
	gradleProperties, err := render("gradle.properties.tpl", data)
	if err != nil {
		return nil, err
	}

	for name, body := range map[string][]byte{
		"build.gradle":      buildGradle,
		"settings.gradle":   settingsGradle,
		"gradle.properties": gradleProperties,
	} {
		if err := os.WriteFile(filepath.Join(runDir, name), body, 0o644); err != nil {
			return nil, fmt.Errorf("tools: generate_build_files: %w", err)
		}
	}
	return map[string]any{}, nil
}
