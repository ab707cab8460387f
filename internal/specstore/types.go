package specstore

import "time"

type (
	// ModSpec is the human-authored, partially-specified mod blueprint for
	// a workspace. All leaf fields are optional; the Compiler fills
	// defaults. Elements are positionally identified by (kind, index).
	ModSpec struct {
		ModName string      `json:"mod_name" bson:"mod_name"`
		ModID   string      `json:"mod_id,omitempty" bson:"mod_id,omitempty"`
		Version string      `json:"version,omitempty" bson:"version,omitempty"`
		Author  string      `json:"author,omitempty" bson:"author,omitempty"`
		Items   []ItemSpec  `json:"items" bson:"items"`
		Blocks  []BlockSpec `json:"blocks" bson:"blocks"`
		Tools   []ToolSpec  `json:"tools" bson:"tools"`
	}

	// ItemSpec describes a single craftable or decorative item.
	ItemSpec struct {
		ItemName      string `json:"item_name,omitempty" bson:"item_name,omitempty"`
		Description   string `json:"description,omitempty" bson:"description,omitempty"`
		Rarity        string `json:"rarity,omitempty" bson:"rarity,omitempty"`
		CreativeTab   string `json:"creative_tab,omitempty" bson:"creative_tab,omitempty"`
		MaxStackSize  *int   `json:"max_stack_size,omitempty" bson:"max_stack_size,omitempty"`
		Fireproof     *bool  `json:"fireproof,omitempty" bson:"fireproof,omitempty"`
		StyleHint     string `json:"style_hint,omitempty" bson:"style_hint,omitempty"`
	}

	// BlockSpec describes a single placeable block.
	BlockSpec struct {
		BlockName    string   `json:"block_name,omitempty" bson:"block_name,omitempty"`
		Description  string   `json:"description,omitempty" bson:"description,omitempty"`
		Rarity       string   `json:"rarity,omitempty" bson:"rarity,omitempty"`
		CreativeTab  string   `json:"creative_tab,omitempty" bson:"creative_tab,omitempty"`
		Hardness     *float64 `json:"hardness,omitempty" bson:"hardness,omitempty"`
		Resistance   *float64 `json:"resistance,omitempty" bson:"resistance,omitempty"`
		Luminance    *int     `json:"luminance,omitempty" bson:"luminance,omitempty"`
		RequiresTool *bool    `json:"requires_tool,omitempty" bson:"requires_tool,omitempty"`
		SoundGroup   string   `json:"sound_group,omitempty" bson:"sound_group,omitempty"`
		StyleHint    string   `json:"style_hint,omitempty" bson:"style_hint,omitempty"`
	}

	// ToolSpec describes a tool (pickaxe/axe/sword/shovel/hoe) crafted
	// from a material tier.
	ToolSpec struct {
		ToolName      string  `json:"tool_name,omitempty" bson:"tool_name,omitempty"`
		Description   string  `json:"description,omitempty" bson:"description,omitempty"`
		ToolKind      string  `json:"tool_kind,omitempty" bson:"tool_kind,omitempty"`
		MaterialTier  string  `json:"material_tier,omitempty" bson:"material_tier,omitempty"`
		Durability    *int    `json:"durability,omitempty" bson:"durability,omitempty"`
		MiningSpeed   *float64 `json:"mining_speed,omitempty" bson:"mining_speed,omitempty"`
		AttackDamage  *float64 `json:"attack_damage,omitempty" bson:"attack_damage,omitempty"`
		Rarity        string  `json:"rarity,omitempty" bson:"rarity,omitempty"`
		StyleHint     string  `json:"style_hint,omitempty" bson:"style_hint,omitempty"`
	}

	// DeltaOp enumerates the path-based delta operations (§4.1).
	DeltaOp string

	// SpecDelta is a single typed edit to a spec, addressed by a JSON-like
	// dotted path. Value is absent for remove.
	SpecDelta struct {
		Operation DeltaOp `json:"operation" bson:"operation"`
		Path      string  `json:"path" bson:"path"`
		Value     any     `json:"value,omitempty" bson:"value,omitempty"`
	}

	// SpecVersion is one append-only entry in a workspace's version log.
	SpecVersion struct {
		WorkspaceID string    `json:"workspace_id" bson:"workspace_id"`
		Version     int       `json:"version" bson:"version"`
		Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
		ContentHash string    `json:"content_hash" bson:"content_hash"`
		Delta       *SpecDelta `json:"delta,omitempty" bson:"delta,omitempty"`
		Notes       string    `json:"notes,omitempty" bson:"notes,omitempty"`
		Spec        ModSpec   `json:"spec" bson:"spec"`
	}

	// BatchDelta is the legacy, pre-path-algebra delta schema: a
	// batch of adds and removes against whole elements rather than
	// individual fields. Accepted as sugar (spec.md §9) by translating
	// into a sequence of path-based SpecDelta values.
	BatchDelta struct {
		AddItems     []ItemSpec  `json:"add_items,omitempty"`
		AddBlocks    []BlockSpec `json:"add_blocks,omitempty"`
		AddTools     []ToolSpec  `json:"add_tools,omitempty"`
		RemoveItems  []int       `json:"remove_items,omitempty"`
		RemoveBlocks []int       `json:"remove_blocks,omitempty"`
		RemoveTools  []int       `json:"remove_tools,omitempty"`
	}
)

const (
	OpAdd    DeltaOp = "add"
	OpUpdate DeltaOp = "update"
	OpRemove DeltaOp = "remove"
)
