// Package specstore owns the canonical mod specification for each
// workspace: a tree of items/blocks/tools with optional fields, a
// path-addressed delta algebra for mutating it, and an immutable
// per-workspace version log.
package specstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Store holds exactly one current ModSpec per workspace plus its
// immutable history. Implementations must serialize writes for a given
// workspace (spec.md §5): Apply, Rollback, and Initialize for the same
// workspace id must not interleave.
type Store interface {
	// Initialize establishes version 1 for workspace. Fails with
	// SpecExists if a spec already exists.
	Initialize(ctx context.Context, workspaceID string, seed ModSpec) (int, error)

	// ApplyDelta parses delta's path, validates the operation, applies
	// it to the current spec, persists the result, and appends a new
	// version entry.
	ApplyDelta(ctx context.Context, workspaceID string, delta SpecDelta) (ModSpec, int, error)

	// GetCurrent returns the workspace's current spec and version
	// number. Fails with NoCurrentSpec if Initialize was never called.
	GetCurrent(ctx context.Context, workspaceID string) (ModSpec, int, error)

	// GetVersion returns the spec recorded at version n. Fails with
	// VersionNotFound if no such version exists.
	GetVersion(ctx context.Context, workspaceID string, n int) (ModSpec, error)

	// Rollback loads the spec recorded at version n and writes it as a
	// new version; history is never deleted or rewritten.
	Rollback(ctx context.Context, workspaceID string, n int) (int, error)
}

// ContentHash computes a deterministic content hash over spec's canonical
// JSON serialization. Go's encoding/json marshals struct fields in
// declaration order, which is stable across calls, so no extra key
// sorting is required for ModSpec's fixed shape.
func ContentHash(spec ModSpec) (string, error) {
	raw, err := json.Marshal(spec)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
