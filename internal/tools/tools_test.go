package tools

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modcraft/internal/builder"
	"modcraft/internal/compiler"
	"modcraft/internal/workspace"
)

type fakeTextureClient struct {
	variants [][]byte
	err      error
}

func (f *fakeTextureClient) Generate(ctx context.Context, prompt string, referenceIDs []string, variantCount int) ([][]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.variants, nil
}

func TestSetupWorkspaceCreatesDirectoryTree(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	h := SetupWorkspace{Layout: layout}

	_, err := h.Invoke(context.Background(), map[string]any{"run_id": "run-1"})
	require.NoError(t, err)

	for _, dir := range []string{
		layout.RunSourceDir("run-1"),
		layout.RunAssetsDir("run-1"),
		layout.RunBuildLibsDir("run-1"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSetupWorkspaceRequiresRunID(t *testing.T) {
	h := SetupWorkspace{Layout: workspace.NewLayout(t.TempDir())}
	_, err := h.Invoke(context.Background(), map[string]any{})
	require.Error(t, err)
}

func TestGenerateTextureWritesFirstVariant(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	require.NoError(t, os.MkdirAll(layout.RunAssetsDir("run-1"), 0o755))

	h := GenerateTexture{Layout: layout, Generator: &fakeTextureClient{variants: [][]byte{{0xAB, 0xCD}}}}
	out, err := h.Invoke(context.Background(), map[string]any{
		"run_id":         "run-1",
		"relative_path":  "textures/item/ruby_sword.png",
		"texture_prompt": "a glowing ruby sword",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	data, err := os.ReadFile(filepath.Join(layout.RunAssetsDir("run-1"), "textures/item/ruby_sword.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xCD}, data)
}

func TestGenerateTextureFailsWhenGeneratorErrors(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	h := GenerateTexture{Layout: layout, Generator: &fakeTextureClient{err: assert.AnError}}
	_, err := h.Invoke(context.Background(), map[string]any{
		"run_id":         "run-1",
		"relative_path":  "textures/item/x.png",
		"texture_prompt": "x",
	})
	require.Error(t, err)
}

func sampleItem() compiler.IRItem {
	return compiler.IRItem{
		ElementID:            "item-1",
		ItemName:             "Ruby Sword",
		Description:          "A glowing ruby sword.",
		Rarity:               "COMMON",
		CreativeTab:          "MISC",
		MaxStackSize:         1,
		Fireproof:            true,
		RegistryID:           "rubymod:ruby_sword",
		JavaClassName:        "RubySwordItem",
		RegistrationConstant: "RUBY_SWORD",
	}
}

func sampleTool() compiler.IRTool {
	return compiler.IRTool{
		ElementID:            "tool-1",
		ToolName:             "Ruby Pickaxe",
		Description:          "Mines stone quickly.",
		ToolKind:             "pickaxe",
		MaterialTier:         "IRON",
		Durability:           250,
		MiningSpeed:          6,
		AttackDamage:         3,
		Rarity:               "COMMON",
		RegistryID:           "rubymod:ruby_pickaxe",
		JavaClassName:        "RubyPickaxePickaxeItem",
		RegistrationConstant: "RUBY_PICKAXE",
	}
}

func TestGenerateCodeWritesItemBlockToolAndMainClass(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	h := GenerateCode{Layout: layout}

	out, err := h.Invoke(context.Background(), map[string]any{
		"run_id":          "run-1",
		"mod_id":          "rubymod",
		"base_package":    "com.example.rubymod",
		"main_class_name": "RubymodMod",
		"items":           []compiler.IRItem{sampleItem()},
		"tools":           []compiler.IRTool{sampleTool()},
	})
	require.NoError(t, err)
	srcRoot := out["source_root"].(string)

	itemSrc, err := os.ReadFile(filepath.Join(srcRoot, "item", "RubySwordItem.java"))
	require.NoError(t, err)
	assert.Contains(t, string(itemSrc), "RUBY_SWORD")
	assert.Contains(t, string(itemSrc), "fireproof()")

	toolSrc, err := os.ReadFile(filepath.Join(srcRoot, "item", "RubyPickaxePickaxeItem.java"))
	require.NoError(t, err)
	assert.Contains(t, string(toolSrc), "new PickaxeItem(")

	mainSrc, err := os.ReadFile(filepath.Join(srcRoot, "RubymodMod.java"))
	require.NoError(t, err)
	assert.Contains(t, string(mainSrc), "RUBY_SWORD.register()")
	assert.Contains(t, string(mainSrc), "RUBY_PICKAXE.register()")
}

func TestGenerateAssetsSkipsTexturesAndWritesJSON(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	h := GenerateAssets{Layout: layout}

	assets := []compiler.IRAsset{
		{Kind: compiler.AssetKindTexture, RelativePath: "textures/item/x.png"},
		{Kind: compiler.AssetKindLang, RelativePath: "lang/en_us.json", Payload: map[string]any{"item.rubymod.ruby_sword": "Ruby Sword"}},
	}

	out, err := h.Invoke(context.Background(), map[string]any{"run_id": "run-1", "assets": assets})
	require.NoError(t, err)
	assert.Equal(t, 1, out["assets_written"])

	_, err = os.Stat(filepath.Join(layout.RunAssetsDir("run-1"), "textures/item/x.png"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(layout.RunAssetsDir("run-1"), "lang/en_us.json"))
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Ruby Sword", decoded["item.rubymod.ruby_sword"])
}

func TestGenerateBuildFilesRendersGradleFiles(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	h := GenerateBuildFiles{Layout: layout}

	_, err := h.Invoke(context.Background(), map[string]any{
		"run_id":            "run-1",
		"mod_id":            "rubymod",
		"base_package":      "com.example.rubymod",
		"minecraft_version": "1.21",
		"loader_version":    "0.16.0",
		"mapping_version":   "1.21+build.1",
	})
	require.NoError(t, err)

	build, err := os.ReadFile(filepath.Join(layout.RunDir("run-1"), "build.gradle"))
	require.NoError(t, err)
	assert.Contains(t, string(build), `"com.mojang:minecraft:1.21"`)

	settings, err := os.ReadFile(filepath.Join(layout.RunDir("run-1"), "settings.gradle"))
	require.NoError(t, err)
	assert.Contains(t, string(settings), `rootProject.name = "rubymod"`)

	properties, err := os.ReadFile(filepath.Join(layout.RunDir("run-1"), "gradle.properties"))
	require.NoError(t, err)
	assert.Contains(t, string(properties), "mod_version=1.0.0")
	assert.Contains(t, string(properties), "maven_group=com.example.rubymod")
}

func TestGenerateFabricMetadataRendersModJSON(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	h := GenerateFabricMetadata{Layout: layout}

	_, err := h.Invoke(context.Background(), map[string]any{
		"run_id":          "run-1",
		"mod_id":          "rubymod",
		"base_package":    "com.example.rubymod",
		"main_class_name": "RubymodMod",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(layout.RunDir("run-1"), "src", "main", "resources", "fabric.mod.json"))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "rubymod", decoded["id"])
}

func TestGenerateMixinsRendersConfig(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	h := GenerateMixins{Layout: layout}

	_, err := h.Invoke(context.Background(), map[string]any{
		"run_id":       "run-1",
		"mod_id":       "rubymod",
		"base_package": "com.example.rubymod",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(layout.RunDir("run-1"), "src", "main", "resources", "rubymod.mixins.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "com.example.rubymod.mixin")
}

func TestSetupGradleWrapperWritesProperties(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	h := SetupGradleWrapper{Layout: layout}

	_, err := h.Invoke(context.Background(), map[string]any{"run_id": "run-1"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(layout.RunDir("run-1"), "gradle", "wrapper", "gradle-wrapper.properties"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "distributionUrl")
}

func TestBuildHandlerFindsJar(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	libsDir := layout.RunBuildLibsDir("run-1")
	require.NoError(t, os.MkdirAll(libsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(libsDir, "rubymod-1.0.0.jar"), []byte("jar"), 0o644))
	require.NoError(t, os.MkdirAll(layout.RunDir("run-1"), 0o755))

	b, err := builder.New(builder.Options{Runner: noopRunner{}, Command: "./gradlew", Args: []string{"build"}})
	require.NoError(t, err)

	h := Build{Layout: layout, Builder: b}
	out, err := h.Invoke(context.Background(), map[string]any{"run_id": "run-1", "mod_id": "rubymod"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(libsDir, "rubymod-1.0.0.jar"), out["jar_path"])
}

type noopRunner struct{}

func (noopRunner) Run(ctx context.Context, dir string, w io.Writer, name string, args ...string) (int, error) {
	return 0, nil
}

func TestNewRegistryRegistersEveryTaskKind(t *testing.T) {
	layout := workspace.NewLayout(t.TempDir())
	b, err := builder.New(builder.Options{Runner: noopRunner{}, Command: "./gradlew"})
	require.NoError(t, err)

	reg := NewRegistry(layout, &fakeTextureClient{}, b)
	for _, kind := range []string{
		"setup_workspace", "generate_texture", "generate_code", "generate_assets",
		"generate_build_files", "generate_fabric_metadata", "generate_mixins",
		"setup_gradle_wrapper", "build",
	} {
		_, err := reg.Lookup(kind)
		assert.NoError(t, err, kind)
	}
}
