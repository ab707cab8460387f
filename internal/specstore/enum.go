package specstore

import "strings"

// enumField maps the terminal field name of a delta path to its canonical
// enum value set plus legacy aliases. Only the terminal path segment is
// matched, so "items[0].rarity" and "blocks[2].rarity" share the same
// table entry.
type enumField struct {
	canonical map[string]bool
	aliases   map[string]string // legacy alias -> canonical
}

var enumFields = map[string]enumField{
	"rarity": {
		canonical: setOf("COMMON", "UNCOMMON", "RARE", "EPIC"),
		aliases: map[string]string{
			"NORMAL":     "COMMON",
			"UNUSUAL":    "UNCOMMON",
			"LEGENDARY":  "EPIC",
			"MYTHIC":     "EPIC",
		},
	},
	"creative_tab": {
		canonical: setOf("MISC", "COMBAT", "BUILDING_BLOCKS", "TOOLS", "FOOD_AND_DRINKS"),
		aliases: map[string]string{
			"GENERAL":    "MISC",
			"WEAPONS":    "COMBAT",
			"BLOCKS":     "BUILDING_BLOCKS",
		},
	},
	"material_tier": {
		canonical: setOf("WOOD", "STONE", "IRON", "DIAMOND", "NETHERITE"),
		aliases: map[string]string{
			"WOODEN": "WOOD",
			"GOLD":   "IRON",
			"GOLDEN": "IRON",
		},
	},
	"sound_group": {
		canonical: setOf("STONE", "WOOD", "METAL", "GLASS", "GRAVEL", "SAND"),
		aliases: map[string]string{
			"ROCK":  "STONE",
			"WOODY": "WOOD",
		},
	},
	"tool_kind": {
		canonical: setOf("PICKAXE", "AXE", "SWORD", "SHOVEL", "HOE"),
	},
}

func setOf(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// normalizeEnumValue rewrites value to its canonical enum form if path
// terminates in a recognized enum field and value is a string. Unknown
// enum values (not canonical and not a known alias) fail with
// InvalidEnum. Non-enum fields and non-string values pass through
// unchanged.
func normalizeEnumValue(path string, value any) (any, error) {
	field, ok := enumFields[terminalField(path)]
	if !ok {
		return value, nil
	}
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	upper := strings.ToUpper(s)
	if field.canonical[upper] {
		return upper, nil
	}
	if canon, ok := field.aliases[upper]; ok {
		return canon, nil
	}
	return nil, newError(ErrInvalidEnum, path, "unrecognized enum value: "+s)
}

// terminalField returns the last dotted segment of path, stripping any
// trailing array index ("items[0].rarity" -> "rarity").
func terminalField(path string) string {
	idx := strings.LastIndexByte(path, '.')
	field := path
	if idx >= 0 {
		field = path[idx+1:]
	}
	if br := strings.IndexByte(field, '['); br >= 0 {
		field = field[:br]
	}
	return field
}
