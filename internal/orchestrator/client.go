// Package orchestrator defines the consumed interface to the natural
// -language spec-authoring service (spec.md §6): given a prompt and the
// current spec, it proposes path-addressed deltas or asks clarifying
// questions.
package orchestrator

import (
	"context"

	"modcraft/internal/specstore"
)

// Result is the Orchestrator's response to one Generate call. A non-empty
// ClarifyingQuestions implies RequiresUserInput and empty Deltas (spec.md
// §6).
type Result struct {
	Deltas              []specstore.SpecDelta
	ClarifyingQuestions []string
	Reasoning           string
	RequiresUserInput   bool
}

// Client proposes spec deltas from a natural-language prompt. currentSpec
// is nil for a brand-new workspace.
type Client interface {
	Generate(ctx context.Context, prompt string, currentSpec *specstore.ModSpec) (Result, error)
}
