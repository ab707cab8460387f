package specstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEnumValueCanonical(t *testing.T) {
	v, err := normalizeEnumValue("items[0].rarity", "rare")
	require.NoError(t, err)
	assert.Equal(t, "RARE", v)
}

func TestNormalizeEnumValueLegacyAlias(t *testing.T) {
	v, err := normalizeEnumValue("tools[0].material_tier", "golden")
	require.NoError(t, err)
	assert.Equal(t, "IRON", v)
}

func TestNormalizeEnumValueUnknownFails(t *testing.T) {
	_, err := normalizeEnumValue("items[0].rarity", "platinum")
	require.Error(t, err)
	assert.ErrorIs(t, err, InvalidEnum)
}

func TestNormalizeEnumValueNonEnumFieldPassesThrough(t *testing.T) {
	v, err := normalizeEnumValue("items[0].item_name", "Ruby Sword")
	require.NoError(t, err)
	assert.Equal(t, "Ruby Sword", v)
}

func TestTerminalField(t *testing.T) {
	assert.Equal(t, "rarity", terminalField("items[0].rarity"))
	assert.Equal(t, "mod_name", terminalField("mod_name"))
}
