package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modcraft/internal/compiler"
	"modcraft/internal/executor"
	"modcraft/internal/planner"
	"modcraft/internal/workspace"
)

// GenerateCode implements the generate_code task kind: it renders every
// Java source file for the mod's items, blocks, and tools, plus the main
// mod class that registers them.
type GenerateCode struct {
	Layout workspace.Layout
}

func (GenerateCode) Kind() string { return planner.KindGenerateCode }

func (GenerateCode) Parameters() []executor.ParamSpec {
	return []executor.ParamSpec{
		{Name: "run_id", Required: true},
		{Name: "mod_id", Required: true},
		{Name: "base_package", Required: true},
		{Name: "main_class_name", Required: true},
		{Name: "items", Required: false},
		{Name: "blocks", Required: false},
		{Name: "tools", Required: false},
	}
}

func (h GenerateCode) Invoke(ctx context.Context, params map[string]any) (map[string]any, error) {
	runID := params["run_id"].(string)
	basePackage := params["base_package"].(string)

	items, _ := params["items"].([]compiler.IRItem)
	blocks, _ := params["blocks"].([]compiler.IRBlock)
	toolList, _ := params["tools"].([]compiler.IRTool)

	srcRoot := filepath.Join(h.Layout.RunSourceDir(runID), strings.ReplaceAll(basePackage, ".", string(filepath.Separator)))

	for _, item := range items {
		body, err := render("item.java.tpl", map[string]any{"BasePackage": basePackage, "Item": item})
		if err != nil {
			return nil, err
		}
		if err := writeSource(srcRoot, "item", item.JavaClassName, body); err != nil {
			return nil, err
		}
	}

	for _, block := range blocks {
		body, err := render("block.java.tpl", map[string]any{"BasePackage": basePackage, "Block": block})
		if err != nil {
			return nil, err
		}
		if err := writeSource(srcRoot, "block", block.JavaClassName, body); err != nil {
			return nil, err
		}
	}

	for _, tool := range toolList {
		body, err := render("tool.java.tpl", map[string]any{
			"BasePackage": basePackage,
			"Tool":        tool,
			"JavaKind":    compiler.ToolJavaSuffix(tool.ToolKind),
		})
		if err != nil {
			return nil, err
		}
		if err := writeSource(srcRoot, "item", tool.JavaClassName, body); err != nil {
			return nil, err
		}
	}

	main, err := render("main_class.java.tpl", map[string]any{
		"BasePackage":   basePackage,
		"ModID":         params["mod_id"],
		"MainClassName": params["main_class_name"],
		"Items":         items,
		"Blocks":        blocks,
		"Tools":         toolList,
	})
	if err != nil {
		return nil, err
	}
	mainClassName, _ := params["main_class_name"].(string)
	if err := writeSource(srcRoot, "", mainClassName, main); err != nil {
		return nil, err
	}

	return map[string]any{"source_root": srcRoot}, nil
}

func writeSource(srcRoot, subpackage, className string, body []byte) error {
	dir := srcRoot
	if subpackage != "" {
		dir = filepath.Join(srcRoot, subpackage)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("tools: generate_code: %w", err)
	}
	path := filepath.Join(dir, className+".java")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("tools: generate_code: %w", err)
	}
	return nil
}
