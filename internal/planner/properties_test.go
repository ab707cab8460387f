package planner

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"modcraft/internal/compiler"
	"modcraft/internal/specstore"
)

// TestPlanProducesAcyclicSingleEntrySingleTerminalProperty verifies
// invariant 3: for all IRs I, Plan(I) produces an acyclic graph with
// exactly one entry (setup_workspace) and exactly one terminal (build),
// and every task is reachable from the entry.
func TestPlanProducesAcyclicSingleEntrySingleTerminalProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Plan always yields one entry, one terminal, full reachability", prop.ForAll(
		func(itemCount, blockCount, toolCount int) bool {
			spec := specstore.ModSpec{ModName: "Prop Mod"}
			for i := 0; i < itemCount; i++ {
				spec.Items = append(spec.Items, specstore.ItemSpec{ItemName: alpha(i, "item")})
			}
			for i := 0; i < blockCount; i++ {
				spec.Blocks = append(spec.Blocks, specstore.BlockSpec{BlockName: alpha(i, "block")})
			}
			for i := 0; i < toolCount; i++ {
				spec.Tools = append(spec.Tools, specstore.ToolSpec{
					ToolName:     alpha(i, "tool"),
					ToolKind:     "PICKAXE",
					MaterialTier: "IRON",
				})
			}

			ir, err := compiler.Compile(spec, compiler.DefaultCompatibilityConfig(), 1, time.Unix(0, 0))
			if err != nil {
				return false
			}

			dag, err := Plan(ir)
			if err != nil {
				return false
			}

			if len(dag.Entry) != 1 || dag.Entry[0] != "setup_workspace" {
				return false
			}
			if len(dag.Terminal) != 1 || dag.Terminal[0] != "build" {
				return false
			}

			reached := reachableFrom(dag, dag.Entry[0])
			for id := range dag.Tasks {
				if !reached[id] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 5),
		gen.IntRange(0, 5),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}

func alpha(i int, prefix string) string {
	suffixes := []string{"a", "b", "c", "d", "e", "f"}
	return prefix + "_" + suffixes[i%len(suffixes)] + string(rune('A'+i))
}
