// Package compiler implements the pure Spec → IR transformation: it fills
// defaults, derives identifiers, synthesizes assets and recipes, and
// validates the result. No I/O beyond reading the embedded JSON Schema and
// compatibility configuration.
package compiler

import "time"

type (
	// ModIR is the fully-determined mod blueprint produced by Compile.
	// Every field is present; no further ambiguity remains for the
	// Planner to resolve.
	ModIR struct {
		ModID              string
		BasePackage        string
		MainClassName      string
		MinecraftVersion   string
		LoaderVersion      string
		MappingVersion     string
		Items              []IRItem
		Blocks             []IRBlock
		Tools              []IRTool
		Recipes            []IRRecipe
		Assets             []IRAsset
		CompiledAt         time.Time
		SourceSpecVersion  int
	}

	// IRItem is a fully-resolved item: every optional ModSpec field has
	// a concrete value.
	IRItem struct {
		ElementID             string
		ItemName              string
		Description           string
		Rarity                string
		CreativeTab           string
		MaxStackSize          int
		Fireproof             bool
		RegistryID            string
		JavaClassName         string
		RegistrationConstant  string
	}

	// IRBlock is a fully-resolved block.
	IRBlock struct {
		ElementID             string
		BlockName             string
		Description           string
		Rarity                string
		CreativeTab           string
		Hardness              float64
		Resistance            float64
		Luminance             int
		RequiresTool          bool
		SoundGroup            string
		RegistryID            string
		JavaClassName         string
		RegistrationConstant  string
	}

	// IRTool is a fully-resolved tool, including its material-tier
	// default stats.
	IRTool struct {
		ElementID             string
		ToolName              string
		Description           string
		ToolKind              string
		MaterialTier          string
		Durability            int
		MiningSpeed           float64
		AttackDamage          float64
		Rarity                string
		RegistryID            string
		JavaClassName         string
		RegistrationConstant  string
	}

	// IRRecipe is a synthesized shaped crafting recipe for a tool.
	IRRecipe struct {
		RecipeID   string
		ResultID   string // RegistryID of the IRTool this recipe produces
		Pattern    [3]string
		Ingredients map[string]string // pattern key -> ingredient registry id
	}

	// AssetKind enumerates the kinds of asset descriptors the Compiler
	// synthesizes (§3 Data Model).
	AssetKind string

	// IRAsset is a synthesized asset descriptor: a texture (carries a
	// generation prompt) or a JSON document (carries a payload). The two
	// are mutually exclusive.
	IRAsset struct {
		Kind             AssetKind
		RelativePath     string
		Payload          map[string]any
		TexturePrompt    string
		ReferenceTextureIDs []string
		OwnerElementID   string
	}
)

const (
	AssetKindTexture    AssetKind = "texture"
	AssetKindModel      AssetKind = "model"
	AssetKindBlockstate AssetKind = "blockstate"
	AssetKindItemModel  AssetKind = "item_model"
	AssetKindLootTable  AssetKind = "loot_table"
	AssetKindLang       AssetKind = "lang"
)
