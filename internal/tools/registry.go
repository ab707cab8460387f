package tools

import (
	"modcraft/internal/builder"
	"modcraft/internal/executor"
	"modcraft/internal/texturegen"
	"modcraft/internal/workspace"
)

// NewRegistry builds an executor.Registry with every task kind's handler
// bound to the given collaborators.
func NewRegistry(layout workspace.Layout, generator texturegen.Client, b *builder.Builder) *executor.Registry {
	reg := executor.NewRegistry()
	reg.Register(SetupWorkspace{Layout: layout})
	reg.Register(GenerateTexture{Layout: layout, Generator: generator})
	reg.Register(GenerateCode{Layout: layout})
	reg.Register(GenerateAssets{Layout: layout})
	reg.Register(GenerateBuildFiles{Layout: layout})
	reg.Register(GenerateFabricMetadata{Layout: layout})
	reg.Register(GenerateMixins{Layout: layout})
	reg.Register(SetupGradleWrapper{Layout: layout})
	reg.Register(Build{Layout: layout, Builder: b})
	return reg
}
