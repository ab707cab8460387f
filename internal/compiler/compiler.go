package compiler

import (
	"fmt"
	"strconv"
	"time"

	"modcraft/internal/specstore"
)

// Compile is the pure function ModSpec × CompatibilityConfig → ModIR.
// It never performs I/O beyond reading the embedded JSON Schema (schema.go)
// and fails loudly — via CompilationError — on any ambiguity it cannot
// resolve from defaults. compiledAt is supplied by the caller (the Run
// controller) rather than read from the clock here, so Compile stays a
// pure function per spec.md §4.2 and invariant 2 (byte-equal IR modulo
// the provenance timestamp) is straightforward to test.
func Compile(spec specstore.ModSpec, cfg CompatibilityConfig, specVersion int, compiledAt time.Time) (ModIR, error) {
	if err := validateAgainstSchema(spec); err != nil {
		return ModIR{}, err
	}

	modID := spec.ModID
	if modID == "" {
		modID = deriveModID(spec.ModName)
	}
	if modID == "" {
		return ModIR{}, &CompilationError{Reason: "mod_id is empty after derivation from mod_name"}
	}
	basePackage := deriveBasePackage(modID)

	ir := ModIR{
		ModID:             modID,
		BasePackage:       basePackage,
		MainClassName:     deriveMainClassName(modID),
		MinecraftVersion:  cfg.MinecraftVersion,
		LoaderVersion:     cfg.LoaderVersion,
		MappingVersion:    cfg.MappingVersion,
		CompiledAt:        compiledAt,
		SourceSpecVersion: specVersion,
	}

	for i, item := range spec.Items {
		ir.Items = append(ir.Items, compileItem(modID, i, item))
	}
	for i, block := range spec.Blocks {
		ir.Blocks = append(ir.Blocks, compileBlock(modID, i, block))
	}
	for i, tool := range spec.Tools {
		compiled, err := compileTool(modID, i, tool)
		if err != nil {
			return ModIR{}, err
		}
		ir.Tools = append(ir.Tools, compiled)
	}

	ir.Assets = synthesizeAssets(modID, ir)
	ir.Recipes = synthesizeRecipes(modID, ir.Tools)

	if err := validateIR(ir); err != nil {
		return ModIR{}, err
	}
	return ir, nil
}

func compileItem(modID string, index int, item specstore.ItemSpec) IRItem {
	name := item.ItemName
	if name == "" {
		name = "item_" + strconv.Itoa(index)
	}
	maxStack := defaultMaxStackSize
	if item.MaxStackSize != nil {
		maxStack = *item.MaxStackSize
	}
	fireproof := false
	if item.Fireproof != nil {
		fireproof = *item.Fireproof
	}
	rarity := item.Rarity
	if rarity == "" {
		rarity = defaultRarity
	}
	tab := item.CreativeTab
	if tab == "" {
		tab = defaultCreativeTab
	}

	return IRItem{
		ElementID:            elementID("item", index),
		ItemName:             name,
		Description:          item.Description,
		Rarity:               rarity,
		CreativeTab:          tab,
		MaxStackSize:         maxStack,
		Fireproof:            fireproof,
		RegistryID:           deriveRegistryID(modID, name),
		JavaClassName:        deriveJavaClassName(name, "Item"),
		RegistrationConstant: deriveRegistrationConstant(name),
	}
}

func compileBlock(modID string, index int, block specstore.BlockSpec) IRBlock {
	name := block.BlockName
	if name == "" {
		name = "block_" + strconv.Itoa(index)
	}
	hardness := defaultHardness
	if block.Hardness != nil {
		hardness = *block.Hardness
	}
	resistance := defaultResistance
	if block.Resistance != nil {
		resistance = *block.Resistance
	}
	luminance := defaultLuminance
	if block.Luminance != nil {
		luminance = *block.Luminance
	}
	requiresTool := true
	if block.RequiresTool != nil {
		requiresTool = *block.RequiresTool
	}
	soundGroup := block.SoundGroup
	if soundGroup == "" {
		soundGroup = defaultSoundGroup
	}
	rarity := block.Rarity
	if rarity == "" {
		rarity = defaultRarity
	}
	tab := block.CreativeTab
	if tab == "" {
		tab = defaultCreativeTab
	}

	return IRBlock{
		ElementID:            elementID("block", index),
		BlockName:            name,
		Description:          block.Description,
		Rarity:               rarity,
		CreativeTab:          tab,
		Hardness:             hardness,
		Resistance:           resistance,
		Luminance:            luminance,
		RequiresTool:         requiresTool,
		SoundGroup:           soundGroup,
		RegistryID:           deriveRegistryID(modID, name),
		JavaClassName:        deriveJavaClassName(name, "Block"),
		RegistrationConstant: deriveRegistrationConstant(name),
	}
}

func compileTool(modID string, index int, tool specstore.ToolSpec) (IRTool, error) {
	name := tool.ToolName
	if name == "" {
		name = "tool_" + strconv.Itoa(index)
	}
	tier := tool.MaterialTier
	if tier == "" {
		tier = "IRON"
	}
	tierDefaults, ok := toolTierDefaults[tier]
	if !ok {
		return IRTool{}, &CompilationError{Reason: fmt.Sprintf("tool %q: unknown material tier %q", name, tier)}
	}
	kind := tool.ToolKind
	if kind == "" {
		kind = "PICKAXE"
	}

	durability := tierDefaults.Durability
	if tool.Durability != nil {
		durability = *tool.Durability
	}
	miningSpeed := tierDefaults.MiningSpeed
	if tool.MiningSpeed != nil {
		miningSpeed = *tool.MiningSpeed
	}
	attackDamage := tierDefaults.AttackDamage
	if tool.AttackDamage != nil {
		attackDamage = *tool.AttackDamage
	}
	rarity := tool.Rarity
	if rarity == "" {
		rarity = defaultRarity
	}

	return IRTool{
		ElementID:            elementID("tool", index),
		ToolName:             name,
		Description:          tool.Description,
		ToolKind:             kind,
		MaterialTier:         tier,
		Durability:           durability,
		MiningSpeed:          miningSpeed,
		AttackDamage:         attackDamage,
		Rarity:               rarity,
		RegistryID:           deriveRegistryID(modID, name),
		JavaClassName:        deriveJavaClassName(name, ToolJavaSuffix(kind)),
		RegistrationConstant: deriveRegistrationConstant(name),
	}, nil
}

func elementID(kind string, index int) string {
	return kind + "-" + strconv.Itoa(index)
}
