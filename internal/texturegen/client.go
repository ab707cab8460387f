// Package texturegen defines the consumed Texture Generator interface
// (spec.md §6): invoked by the generate_texture tool to produce PNG
// variants for one element's texture prompt.
package texturegen

import "context"

// Client generates variantCount PNG-encoded texture variants for prompt,
// optionally steered by referenceIDs (prior textures to match style
// against). The core treats the first returned variant as selected in
// non-interactive mode; variant selection beyond that is an external
// concern.
type Client interface {
	Generate(ctx context.Context, prompt string, referenceIDs []string, variantCount int) ([][]byte, error)
}
