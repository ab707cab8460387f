package compiler

import "fmt"

// CompilationError reports a fatal, human-readable Compiler failure
// (spec.md §4.2: duplicate registry id, missing required field, unknown
// material tier, ...). Always fatal for the run; never retried.
type CompilationError struct {
	Reason string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation error: %s", e.Reason)
}

// validateIR checks the invariants spec.md §4.2 requires of a compiled
// IR: non-empty mod_id/base_package, and globally-unique registry ids
// across items, blocks, and tools.
func validateIR(ir ModIR) error {
	if ir.ModID == "" {
		return &CompilationError{Reason: "mod_id is empty"}
	}
	if ir.BasePackage == "" {
		return &CompilationError{Reason: "base_package is empty"}
	}

	seen := make(map[string]string, len(ir.Items)+len(ir.Blocks)+len(ir.Tools))
	check := func(kind, registryID string) error {
		if existing, ok := seen[registryID]; ok {
			return &CompilationError{Reason: fmt.Sprintf(
				"duplicate registry id %q (%s and %s)", registryID, existing, kind)}
		}
		seen[registryID] = kind
		return nil
	}

	for _, item := range ir.Items {
		if err := check("item:"+item.ElementID, item.RegistryID); err != nil {
			return err
		}
	}
	for _, block := range ir.Blocks {
		if err := check("block:"+block.ElementID, block.RegistryID); err != nil {
			return err
		}
	}
	for _, tool := range ir.Tools {
		if err := check("tool:"+tool.ElementID, tool.RegistryID); err != nil {
			return err
		}
	}
	return nil
}
