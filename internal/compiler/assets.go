package compiler

import "fmt"

// synthesizeAssets builds the texture/model/blockstate/lang asset
// descriptors for every item/block/tool, per spec.md §4.2. Canonical
// paths follow the `assets/<mod_id>/…` and `data/<mod_id>/…` layout.
func synthesizeAssets(modID string, ir ModIR) []IRAsset {
	var assets []IRAsset

	for _, item := range ir.Items {
		assets = append(assets, textureAsset(modID, "item", item.ElementID, item.ItemName, item.Description, ""))
		assets = append(assets, itemModelAsset(modID, item.ElementID))
		assets = append(assets, langAsset(modID, item.RegistryID, item.ItemName))
	}

	for _, block := range ir.Blocks {
		assets = append(assets, textureAsset(modID, "block", block.ElementID, block.BlockName, block.Description, ""))
		assets = append(assets, blockModelAsset(modID, block.ElementID))
		assets = append(assets, itemModelAsset(modID, block.ElementID))
		assets = append(assets, blockstateAsset(modID, block.ElementID))
		assets = append(assets, blockLootTableAsset(modID, block.RegistryID, block.ElementID))
		assets = append(assets, langAsset(modID, block.RegistryID, block.BlockName))
	}

	for _, tool := range ir.Tools {
		// Tool texture prompts carry no style hint; the material tier
		// instead selects the vanilla reference texture (see
		// referenceTexturesForTier) so upgraded tiers render consistently
		// with their vanilla counterparts.
		assets = append(assets, toolTextureAsset(modID, tool))
		assets = append(assets, itemModelAsset(modID, tool.ElementID))
		assets = append(assets, langAsset(modID, tool.RegistryID, tool.ToolName))
	}

	return assets
}

func textureAsset(modID, category, elementID, name, description, styleHint string) IRAsset {
	return IRAsset{
		Kind:          AssetKindTexture,
		RelativePath:  fmt.Sprintf("assets/%s/textures/%s/%s.png", modID, category, elementID),
		TexturePrompt: texturePrompt(name, description, styleHint),
		OwnerElementID: elementID,
	}
}

func toolTextureAsset(modID string, tool IRTool) IRAsset {
	return IRAsset{
		Kind:                AssetKindTexture,
		RelativePath:        fmt.Sprintf("assets/%s/textures/item/%s.png", modID, tool.ElementID),
		TexturePrompt:       texturePrompt(tool.ToolName, tool.Description, ""),
		ReferenceTextureIDs: referenceTexturesForTier(tool.ToolKind, tool.MaterialTier),
		OwnerElementID:      tool.ElementID,
	}
}

// referenceTexturesForTier returns the vanilla texture identifiers the
// Texture Generator should use as style references for a tool of the
// given kind and material tier, so a NETHERITE pickaxe's generated
// texture draws on the vanilla netherite pickaxe rather than the wooden
// one. Derived from IRAsset's reference-texture-identifiers field
// (spec.md §4.2/§9); no original_source/ evidence exists for this spec
// to refine it further.
func referenceTexturesForTier(toolKind, tier string) []string {
	kind := toolKindFileToken(toolKind)
	return []string{fmt.Sprintf("minecraft:item/%s_%s", tierFileToken(tier), kind)}
}

func toolKindFileToken(kind string) string {
	switch kind {
	case "PICKAXE":
		return "pickaxe"
	case "AXE":
		return "axe"
	case "SWORD":
		return "sword"
	case "SHOVEL":
		return "shovel"
	case "HOE":
		return "hoe"
	default:
		return "pickaxe"
	}
}

func tierFileToken(tier string) string {
	switch tier {
	case "WOOD":
		return "wooden"
	case "STONE":
		return "stone"
	case "IRON":
		return "iron"
	case "DIAMOND":
		return "diamond"
	case "NETHERITE":
		return "netherite"
	default:
		return "iron"
	}
}

func texturePrompt(name, description, styleHint string) string {
	prompt := fmt.Sprintf("Minecraft item texture, 16x16 pixel art, for %q", name)
	if description != "" {
		prompt += ": " + description
	}
	if styleHint != "" {
		prompt += " (style: " + styleHint + ")"
	}
	return prompt
}

func itemModelAsset(modID, elementID string) IRAsset {
	return IRAsset{
		Kind:         AssetKindItemModel,
		RelativePath: fmt.Sprintf("assets/%s/models/item/%s.json", modID, elementID),
		OwnerElementID: elementID,
		Payload: map[string]any{
			"parent": "item/generated",
			"textures": map[string]any{
				"layer0": fmt.Sprintf("%s:item/%s", modID, elementID),
			},
		},
	}
}

func blockModelAsset(modID, elementID string) IRAsset {
	return IRAsset{
		Kind:         AssetKindModel,
		RelativePath: fmt.Sprintf("assets/%s/models/block/%s.json", modID, elementID),
		OwnerElementID: elementID,
		Payload: map[string]any{
			"parent": "block/cube_all",
			"textures": map[string]any{
				"all": fmt.Sprintf("%s:block/%s", modID, elementID),
			},
		},
	}
}

func blockstateAsset(modID, elementID string) IRAsset {
	return IRAsset{
		Kind:         AssetKindBlockstate,
		RelativePath: fmt.Sprintf("assets/%s/blockstates/%s.json", modID, elementID),
		OwnerElementID: elementID,
		Payload: map[string]any{
			"variants": map[string]any{
				"": map[string]any{"model": fmt.Sprintf("%s:block/%s", modID, elementID)},
			},
		},
	}
}

// blockLootTableAsset synthesizes a minimal drops-self loot table marked
// survives-explosion, per spec.md §4.2.
func blockLootTableAsset(modID, registryID, elementID string) IRAsset {
	return IRAsset{
		Kind:         AssetKindLootTable,
		RelativePath: fmt.Sprintf("data/%s/loot_table/blocks/%s.json", modID, elementID),
		OwnerElementID: elementID,
		Payload: map[string]any{
			"type": "minecraft:block",
			"pools": []any{
				map[string]any{
					"rolls": 1,
					"entries": []any{
						map[string]any{"type": "minecraft:item", "name": registryID},
					},
					"conditions": []any{
						map[string]any{"condition": "minecraft:survives_explosion"},
					},
				},
			},
		},
	}
}

func langAsset(modID, registryID, displayName string) IRAsset {
	return IRAsset{
		Kind:         AssetKindLang,
		RelativePath: fmt.Sprintf("assets/%s/lang/en_us.json", modID),
		Payload: map[string]any{
			"item." + registryID: displayName,
		},
	}
}
