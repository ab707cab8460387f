package specstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDeltaAddItem(t *testing.T) {
	spec := ModSpec{ModName: "Ruby Mod"}
	next, err := ApplyDelta(spec, SpecDelta{
		Operation: OpAdd,
		Path:      "items[0]",
		Value:     map[string]any{"item_name": "Ruby Sword", "rarity": "COMMON"},
	})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.Equal(t, "Ruby Sword", next.Items[0].ItemName)
	assert.Equal(t, "COMMON", next.Items[0].Rarity)
}

func TestApplyDeltaNormalizesLegacyEnumAlias(t *testing.T) {
	spec := ModSpec{Items: []ItemSpec{{ItemName: "Sword"}}}
	next, err := ApplyDelta(spec, SpecDelta{
		Operation: OpUpdate,
		Path:      "items[0].rarity",
		Value:     "legendary",
	})
	require.NoError(t, err)
	assert.Equal(t, "EPIC", next.Items[0].Rarity)
}

func TestApplyDeltaUnknownEnumFails(t *testing.T) {
	spec := ModSpec{Items: []ItemSpec{{ItemName: "Sword"}}}
	_, err := ApplyDelta(spec, SpecDelta{
		Operation: OpUpdate,
		Path:      "items[0].rarity",
		Value:     "nonsense",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, InvalidEnum)
}

func TestApplyDeltaRemoveTool(t *testing.T) {
	spec := ModSpec{Tools: []ToolSpec{{ToolName: "A"}, {ToolName: "B"}}}
	next, err := ApplyDelta(spec, SpecDelta{Operation: OpRemove, Path: "tools[0]"})
	require.NoError(t, err)
	require.Len(t, next.Tools, 1)
	assert.Equal(t, "B", next.Tools[0].ToolName)
}

func TestTranslateBatchOrdersAddsThenDescendingRemoves(t *testing.T) {
	spec := ModSpec{Items: []ItemSpec{{ItemName: "A"}, {ItemName: "B"}, {ItemName: "C"}}}
	batch := BatchDelta{
		AddItems:    []ItemSpec{{ItemName: "D"}},
		RemoveItems: []int{0, 2},
	}
	deltas := TranslateBatch(spec, batch)
	require.Len(t, deltas, 3)
	assert.Equal(t, OpAdd, deltas[0].Operation)
	assert.Equal(t, "items[3]", deltas[0].Path)
	assert.Equal(t, "items[2]", deltas[1].Path)
	assert.Equal(t, "items[0]", deltas[2].Path)
}

func TestTranslateBatchAppliesCleanly(t *testing.T) {
	spec := ModSpec{Items: []ItemSpec{{ItemName: "A"}, {ItemName: "B"}}}
	deltas := TranslateBatch(spec, BatchDelta{RemoveItems: []int{0}})

	current := spec
	for _, d := range deltas {
		next, err := ApplyDelta(current, d)
		require.NoError(t, err)
		current = next
	}
	require.Len(t, current.Items, 1)
	assert.Equal(t, "B", current.Items[0].ItemName)
}
