package compiler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"modcraft/internal/specstore"
)

// TestCompileIsDeterministicProperty verifies invariant 2: for all specs S,
// Compile(S) is deterministic — equal inputs and configuration yield
// byte-equal IR serializations modulo the provenance timestamp.
func TestCompileIsDeterministicProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("compiling the same spec twice yields byte-equal IR modulo timestamp", prop.ForAll(
		func(itemName, toolTier string) bool {
			spec := specstore.ModSpec{
				ModName: "Prop Mod",
				Items:   []specstore.ItemSpec{{ItemName: itemName}},
				Tools:   []specstore.ToolSpec{{ToolName: "T", MaterialTier: toolTier}},
			}
			cfg := DefaultCompatibilityConfig()

			irA, err := Compile(spec, cfg, 3, time.Unix(1000, 0))
			if err != nil {
				return false
			}
			irB, err := Compile(spec, cfg, 3, time.Unix(2000, 0))
			if err != nil {
				return false
			}

			irA.CompiledAt = time.Time{}
			irB.CompiledAt = time.Time{}

			jsonA, errA := json.Marshal(irA)
			jsonB, errB := json.Marshal(irB)
			if errA != nil || errB != nil {
				return false
			}
			return string(jsonA) == string(jsonB)
		},
		gen.Identifier(),
		genToolTier(),
	))

	properties.TestingRun(t)
}

func genToolTier() gopter.Gen {
	return gen.OneConstOf("WOOD", "STONE", "IRON", "DIAMOND", "NETHERITE")
}
