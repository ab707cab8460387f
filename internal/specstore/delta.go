package specstore

import (
	"encoding/json"
	"strconv"
)

// ApplyDelta applies delta to spec and returns the resulting spec. It never
// mutates spec in place: the input is marshaled to a generic document tree,
// the operation is applied to the tree, and the tree is unmarshaled back
// into a ModSpec. This keeps the path algebra (path.go) independent of
// ModSpec's concrete Go shape, matching the heterogeneous-document model
// spec.md §9 describes.
func ApplyDelta(spec ModSpec, delta SpecDelta) (ModSpec, error) {
	raw, err := json.Marshal(spec)
	if err != nil {
		return ModSpec{}, err
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return ModSpec{}, err
	}

	if err := applyDeltaToTree(&tree, delta); err != nil {
		return ModSpec{}, err
	}

	out, err := json.Marshal(tree)
	if err != nil {
		return ModSpec{}, err
	}
	var result ModSpec
	if err := json.Unmarshal(out, &result); err != nil {
		return ModSpec{}, err
	}
	return result, nil
}

// applyDeltaToTree applies delta to a generic JSON document tree in place.
func applyDeltaToTree(root *any, delta SpecDelta) error {
	value, err := normalizeEnumValue(delta.Path, delta.Value)
	if err != nil {
		return err
	}

	switch delta.Operation {
	case OpAdd:
		return applyAdd(root, delta.Path, value)
	case OpUpdate:
		return applyUpdate(root, delta.Path, value)
	case OpRemove:
		return applyRemove(root, delta.Path)
	default:
		return newError(ErrPathTypeMismatch, delta.Path, "unknown operation: "+string(delta.Operation))
	}
}

func applyAdd(root *any, path string, value any) error {
	tokens, err := tokenizePath(path)
	if err != nil {
		return err
	}
	parent, term, err := walk(root, path, tokens, true)
	if err != nil {
		return err
	}

	if term.IsIndex {
		arr, ok := parent.Get().([]any)
		if !ok {
			if parent.Get() == nil {
				arr = []any{}
			} else {
				return newError(ErrPathTypeMismatch, path, "expected array")
			}
		}
		switch {
		case term.Index == len(arr):
			parent.SetLeaf(append(arr, value))
		case term.Index >= 0 && term.Index < len(arr):
			arr[term.Index] = value
			parent.SetLeaf(arr)
		default:
			return newError(ErrPathNotFound, path, "array index out of range")
		}
		return nil
	}

	obj, ok := parent.Get().(map[string]any)
	if !ok {
		if parent.Get() == nil {
			obj = map[string]any{}
		} else {
			return newError(ErrPathTypeMismatch, path, "expected object")
		}
	}
	obj[term.Key] = value
	parent.SetLeaf(obj)
	return nil
}

func applyUpdate(root *any, path string, value any) error {
	tokens, err := tokenizePath(path)
	if err != nil {
		return err
	}
	parent, term, err := walk(root, path, tokens, false)
	if err != nil {
		return err
	}

	if term.IsIndex {
		arr, ok := parent.Get().([]any)
		if !ok {
			return newError(ErrPathTypeMismatch, path, "expected array")
		}
		if term.Index < 0 || term.Index >= len(arr) {
			return newError(ErrPathNotFound, path, "array index out of range")
		}
		arr[term.Index] = value
		parent.SetLeaf(arr)
		return nil
	}

	obj, ok := parent.Get().(map[string]any)
	if !ok {
		return newError(ErrPathTypeMismatch, path, "expected object")
	}
	if _, exists := obj[term.Key]; !exists {
		return newError(ErrPathNotFound, path, "key not found: "+term.Key)
	}
	obj[term.Key] = value
	parent.SetLeaf(obj)
	return nil
}

func applyRemove(root *any, path string) error {
	tokens, err := tokenizePath(path)
	if err != nil {
		return err
	}
	parent, term, err := walk(root, path, tokens, false)
	if err != nil {
		return err
	}

	if term.IsIndex {
		arr, ok := parent.Get().([]any)
		if !ok {
			return newError(ErrPathTypeMismatch, path, "expected array")
		}
		if term.Index < 0 || term.Index >= len(arr) {
			return newError(ErrPathNotFound, path, "array index out of range")
		}
		// Shift subsequent indices down (spec.md §4.1): callers must
		// re-address any pending path-indexed deltas after this.
		arr = append(arr[:term.Index], arr[term.Index+1:]...)
		parent.SetLeaf(arr)
		return nil
	}

	obj, ok := parent.Get().(map[string]any)
	if !ok {
		return newError(ErrPathTypeMismatch, path, "expected object")
	}
	if _, exists := obj[term.Key]; !exists {
		return newError(ErrPathNotFound, path, "key not found: "+term.Key)
	}
	delete(obj, term.Key)
	parent.SetLeaf(obj)
	return nil
}

// TranslateBatch converts a legacy BatchDelta into the equivalent sequence
// of path-based SpecDelta values, accepted as sugar per spec.md §9. The
// semantic contract remains the path-based one: translated deltas are
// applied one at a time via ApplyDelta, in the same order produced here.
func TranslateBatch(spec ModSpec, batch BatchDelta) []SpecDelta {
	var deltas []SpecDelta

	nextItem := len(spec.Items)
	for _, item := range batch.AddItems {
		deltas = append(deltas, SpecDelta{Operation: OpAdd, Path: indexPath("items", nextItem), Value: item})
		nextItem++
	}
	nextBlock := len(spec.Blocks)
	for _, block := range batch.AddBlocks {
		deltas = append(deltas, SpecDelta{Operation: OpAdd, Path: indexPath("blocks", nextBlock), Value: block})
		nextBlock++
	}
	nextTool := len(spec.Tools)
	for _, tool := range batch.AddTools {
		deltas = append(deltas, SpecDelta{Operation: OpAdd, Path: indexPath("tools", nextTool), Value: tool})
		nextTool++
	}

	// Removals are translated in descending index order so that an
	// earlier removal in the sequence never invalidates a later one
	// within the same batch (spec.md §4.1's index-shift warning).
	deltas = append(deltas, removalDeltas("items", batch.RemoveItems)...)
	deltas = append(deltas, removalDeltas("blocks", batch.RemoveBlocks)...)
	deltas = append(deltas, removalDeltas("tools", batch.RemoveTools)...)

	return deltas
}

func removalDeltas(field string, indices []int) []SpecDelta {
	sorted := append([]int(nil), indices...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	deltas := make([]SpecDelta, 0, len(sorted))
	for _, idx := range sorted {
		deltas = append(deltas, SpecDelta{Operation: OpRemove, Path: indexPath(field, idx)})
	}
	return deltas
}

func indexPath(field string, idx int) string {
	return field + "[" + strconv.Itoa(idx) + "]"
}
