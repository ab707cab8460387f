package specstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizePath(t *testing.T) {
	tokens, err := tokenizePath("items[0].rarity")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, "items", tokens[0].Key)
	assert.True(t, tokens[1].IsIndex)
	assert.Equal(t, 0, tokens[1].Index)
	assert.Equal(t, "rarity", tokens[2].Key)
}

func TestTokenizePathEmpty(t *testing.T) {
	_, err := tokenizePath("")
	require.Error(t, err)
}

func TestApplyAddAppend(t *testing.T) {
	var root any = map[string]any{"items": []any{}}
	err := applyAdd(&root, "items[0]", map[string]any{"item_name": "Ruby Sword"})
	require.NoError(t, err)

	v, err := getAt(root, "items[0].item_name")
	require.NoError(t, err)
	assert.Equal(t, "Ruby Sword", v)
}

func TestApplyAddBeyondLengthFails(t *testing.T) {
	var root any = map[string]any{"items": []any{}}
	err := applyAdd(&root, "items[1]", map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, PathNotFound)
}

func TestApplyAddCreatesIntermediateContainers(t *testing.T) {
	var root any = map[string]any{}
	err := applyAdd(&root, "items[0].tags[0]", "glowing")
	require.NoError(t, err)

	v, err := getAt(root, "items[0].tags[0]")
	require.NoError(t, err)
	assert.Equal(t, "glowing", v)
}

func TestApplyUpdateRequiresExistingPath(t *testing.T) {
	var root any = map[string]any{"items": []any{map[string]any{"item_name": "Sword"}}}
	err := applyUpdate(&root, "items[0].missing_field", "value")
	require.Error(t, err)
	assert.ErrorIs(t, err, PathNotFound)
}

func TestApplyUpdateOverwritesScalar(t *testing.T) {
	var root any = map[string]any{"items": []any{map[string]any{"item_name": "Sword"}}}
	err := applyUpdate(&root, "items[0].item_name", "Ruby Sword")
	require.NoError(t, err)

	v, err := getAt(root, "items[0].item_name")
	require.NoError(t, err)
	assert.Equal(t, "Ruby Sword", v)
}

func TestApplyRemoveShiftsIndices(t *testing.T) {
	var root any = map[string]any{"items": []any{
		map[string]any{"item_name": "A"},
		map[string]any{"item_name": "B"},
	}}
	err := applyRemove(&root, "items[0]")
	require.NoError(t, err)

	v, err := getAt(root, "items[0].item_name")
	require.NoError(t, err)
	assert.Equal(t, "B", v)
}

func TestApplyRemoveUnknownPathFails(t *testing.T) {
	var root any = map[string]any{"items": []any{}}
	err := applyRemove(&root, "items[0]")
	require.Error(t, err)
	assert.ErrorIs(t, err, PathNotFound)
}
