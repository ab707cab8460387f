package compiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modcraft/internal/specstore"
)

func sampleSpec() specstore.ModSpec {
	stack := 16
	return specstore.ModSpec{
		ModName: "Ruby Mod",
		Items: []specstore.ItemSpec{
			{ItemName: "Ruby Sword", Rarity: "COMMON", MaxStackSize: &stack},
		},
		Tools: []specstore.ToolSpec{
			{ToolName: "Ruby Pickaxe", ToolKind: "PICKAXE", MaterialTier: "DIAMOND"},
		},
	}
}

func TestCompileProducesDerivedIdentifiers(t *testing.T) {
	ir, err := Compile(sampleSpec(), DefaultCompatibilityConfig(), 1, time.Unix(0, 0))
	require.NoError(t, err)

	assert.Equal(t, "ruby_mod", ir.ModID)
	assert.Equal(t, "com.example.ruby_mod", ir.BasePackage)
	require.Len(t, ir.Items, 1)
	assert.Equal(t, "ruby_mod:ruby_sword", ir.Items[0].RegistryID)
	assert.Equal(t, 16, ir.Items[0].MaxStackSize)
}

func TestCompileFillsToolTierDefaults(t *testing.T) {
	ir, err := Compile(sampleSpec(), DefaultCompatibilityConfig(), 1, time.Unix(0, 0))
	require.NoError(t, err)

	require.Len(t, ir.Tools, 1)
	assert.Equal(t, toolTierDefaults["DIAMOND"].Durability, ir.Tools[0].Durability)
}

func TestCompileSynthesizesOneRecipePerTool(t *testing.T) {
	ir, err := Compile(sampleSpec(), DefaultCompatibilityConfig(), 1, time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, ir.Recipes, 1)
	assert.Equal(t, "minecraft:diamond", ir.Recipes[0].Ingredients["M"])
}

func TestCompileFailsOnUnknownMaterialTier(t *testing.T) {
	spec := sampleSpec()
	spec.Tools[0].MaterialTier = "PLASTIC"
	_, err := Compile(spec, DefaultCompatibilityConfig(), 1, time.Unix(0, 0))
	require.Error(t, err)
	var compErr *CompilationError
	require.ErrorAs(t, err, &compErr)
}

func TestCompileFailsOnDuplicateRegistryID(t *testing.T) {
	spec := sampleSpec()
	spec.Items = append(spec.Items, specstore.ItemSpec{ItemName: "Ruby Sword"})
	_, err := Compile(spec, DefaultCompatibilityConfig(), 1, time.Unix(0, 0))
	require.Error(t, err)
	var compErr *CompilationError
	require.ErrorAs(t, err, &compErr)
}

func TestCompileEmptySpecDerivesFallbackModID(t *testing.T) {
	spec := specstore.ModSpec{ModName: "X"}
	ir, err := Compile(spec, DefaultCompatibilityConfig(), 1, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "x", ir.ModID)
	assert.Empty(t, ir.Items)
}
