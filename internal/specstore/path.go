package specstore

import (
	"strconv"
	"strings"
)

// pathToken is one segment of a tokenized delta path: either an object key
// or an array index. Representing the two kinds explicitly (rather than
// relying on reflection to discover key vs. index at each step) is the
// tagged-union discipline spec.md §9 calls for.
type pathToken struct {
	Key     string
	Index   int
	IsIndex bool
}

// tokenizePath splits a dotted path with bracketed indices
// ("items[0].rarity") into a token sequence. Brackets are rewritten to dots
// before splitting: "items[0].rarity" -> "items.0.rarity".
func tokenizePath(path string) ([]pathToken, error) {
	rewritten := strings.NewReplacer("[", ".", "]", "").Replace(path)
	parts := strings.Split(rewritten, ".")

	tokens := make([]pathToken, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if idx, err := strconv.Atoi(p); err == nil {
			tokens = append(tokens, pathToken{Index: idx, IsIndex: true})
			continue
		}
		tokens = append(tokens, pathToken{Key: p})
	}
	if len(tokens) == 0 {
		return nil, newError(ErrPathNotFound, path, "empty path")
	}
	return tokens, nil
}

// cursor is a mutable reference into a node of a heterogeneous document
// tree (map[string]any for objects, []any for arrays, or a scalar/nil
// leaf). get/set closures let Descend hand back a cursor into a map value
// or a slice element without requiring the node itself to be addressable
// the way a raw pointer would.
type cursor struct {
	get func() any
	set func(any)
}

// newRootCursor returns a cursor over root, a pointer to the tree's root
// node so SetLeaf at the top level is observable by the caller.
func newRootCursor(root *any) *cursor {
	return &cursor{
		get: func() any { return *root },
		set: func(v any) { *root = v },
	}
}

// Get returns the node this cursor currently points at.
func (c *cursor) Get() any { return c.get() }

// SetLeaf overwrites the node this cursor points at.
func (c *cursor) SetLeaf(v any) { c.set(v) }

// Descend moves the cursor one token deeper. When create is true, missing
// intermediate containers are created; the container kind for a newly
// created node is chosen by looking at whether tok addresses an array
// (childIsArray describes the *next* token, per spec.md §4.1's
// look-ahead-one-token rule).
func (c *cursor) Descend(path string, tok pathToken, create, childIsArray bool) (*cursor, error) {
	cur := c.get()

	if tok.IsIndex {
		arr, ok := cur.([]any)
		if !ok {
			if cur == nil && create {
				arr = []any{}
			} else {
				return nil, newError(ErrPathTypeMismatch, path, "expected array")
			}
		}
		switch {
		case tok.Index < 0 || tok.Index > len(arr):
			return nil, newError(ErrPathNotFound, path, "array index out of range")
		case tok.Index == len(arr):
			if !create {
				return nil, newError(ErrPathNotFound, path, "array index out of range")
			}
			arr = append(arr, zeroContainer(childIsArray))
			c.set(arr)
		}
		captured := arr
		idx := tok.Index
		return &cursor{
			get: func() any { return captured[idx] },
			set: func(v any) { captured[idx] = v },
		}, nil
	}

	obj, ok := cur.(map[string]any)
	if !ok {
		if cur == nil && create {
			obj = map[string]any{}
			c.set(obj)
		} else {
			return nil, newError(ErrPathTypeMismatch, path, "expected object")
		}
	}
	if _, exists := obj[tok.Key]; !exists {
		if !create {
			return nil, newError(ErrPathNotFound, path, "key not found: "+tok.Key)
		}
		obj[tok.Key] = zeroContainer(childIsArray)
	}
	key := tok.Key
	return &cursor{
		get: func() any { return obj[key] },
		set: func(v any) { obj[key] = v },
	}, nil
}

func zeroContainer(isArray bool) any {
	if isArray {
		return []any{}
	}
	return map[string]any{}
}

// walk descends through all but the last token of tokens, returning a
// cursor at the parent of the terminal node plus the terminal token. create
// controls whether missing intermediate containers are created along the
// way (true for add, false for update/remove/get).
func walk(root *any, path string, tokens []pathToken, create bool) (*cursor, pathToken, error) {
	c := newRootCursor(root)
	for i := 0; i < len(tokens)-1; i++ {
		childIsArray := tokens[i+1].IsIndex
		next, err := c.Descend(path, tokens[i], create, childIsArray)
		if err != nil {
			return nil, pathToken{}, err
		}
		c = next
	}
	return c, tokens[len(tokens)-1], nil
}

// getAt returns the value at path within root, or PathNotFound.
func getAt(root any, path string) (any, error) {
	tokens, err := tokenizePath(path)
	if err != nil {
		return nil, err
	}
	parent, term, err := walk(&root, path, tokens, false)
	if err != nil {
		return nil, err
	}
	if term.IsIndex {
		arr, ok := parent.Get().([]any)
		if !ok {
			return nil, newError(ErrPathTypeMismatch, path, "expected array")
		}
		if term.Index < 0 || term.Index >= len(arr) {
			return nil, newError(ErrPathNotFound, path, "array index out of range")
		}
		return arr[term.Index], nil
	}
	obj, ok := parent.Get().(map[string]any)
	if !ok {
		return nil, newError(ErrPathTypeMismatch, path, "expected object")
	}
	v, exists := obj[term.Key]
	if !exists {
		return nil, newError(ErrPathNotFound, path, "key not found: "+term.Key)
	}
	return v, nil
}
