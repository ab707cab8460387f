package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modcraft/internal/compiler"
	"modcraft/internal/specstore"
)

func sampleIR(t *testing.T) compiler.ModIR {
	t.Helper()
	spec := specstore.ModSpec{
		ModName: "Ruby Mod",
		Items:   []specstore.ItemSpec{{ItemName: "Ruby Sword"}},
		Blocks:  []specstore.BlockSpec{{BlockName: "Ruby Ore"}},
		Tools:   []specstore.ToolSpec{{ToolName: "Ruby Pickaxe", ToolKind: "PICKAXE", MaterialTier: "DIAMOND"}},
	}
	ir, err := compiler.Compile(spec, compiler.DefaultCompatibilityConfig(), 1, time.Unix(0, 0))
	require.NoError(t, err)
	return ir
}

func TestPlanHasSingleEntryAndTerminal(t *testing.T) {
	dag, err := Plan(sampleIR(t))
	require.NoError(t, err)

	require.Len(t, dag.Entry, 1)
	assert.Equal(t, "setup_workspace", dag.Entry[0])
	require.Len(t, dag.Terminal, 1)
	assert.Equal(t, "build", dag.Terminal[0])
}

func TestPlanTexturesDependOnlyOnSetup(t *testing.T) {
	dag, err := Plan(sampleIR(t))
	require.NoError(t, err)

	found := false
	for id, task := range dag.Tasks {
		if task.Kind != KindGenerateTexture {
			continue
		}
		found = true
		assert.Equal(t, []string{"setup_workspace"}, task.DependsOn, "texture task %s", id)
		assert.True(t, task.Parallelizable)
	}
	assert.True(t, found, "expected at least one generate_texture task")
}

func TestPlanAssetsDependsOnAllTextures(t *testing.T) {
	dag, err := Plan(sampleIR(t))
	require.NoError(t, err)

	assets := dag.Tasks["generate_assets"]
	require.NotNil(t, assets)
	assert.Contains(t, assets.DependsOn, "setup_workspace")

	for id, task := range dag.Tasks {
		if task.Kind == KindGenerateTexture {
			assert.Contains(t, assets.DependsOn, id)
		}
	}
}

func TestPlanBuildDependsOnEveryOtherPhase(t *testing.T) {
	dag, err := Plan(sampleIR(t))
	require.NoError(t, err)

	build := dag.Tasks["build"]
	require.NotNil(t, build)
	for _, id := range []string{"generate_code", "generate_assets", "generate_build_files", "generate_fabric_metadata", "generate_mixins", "setup_gradle_wrapper"} {
		assert.Contains(t, build.DependsOn, id)
	}
}

func TestPlanEveryTaskReachableFromEntry(t *testing.T) {
	dag, err := Plan(sampleIR(t))
	require.NoError(t, err)

	reachable := reachableFrom(dag, dag.Entry[0])
	for id := range dag.Tasks {
		assert.True(t, reachable[id], "task %s not reachable from entry", id)
	}
}

func TestPlanEmptyIRStillProducesFixedPhases(t *testing.T) {
	ir, err := compiler.Compile(specstore.ModSpec{ModName: "Empty"}, compiler.DefaultCompatibilityConfig(), 1, time.Unix(0, 0))
	require.NoError(t, err)

	dag, err := Plan(ir)
	require.NoError(t, err)

	assert.Contains(t, dag.Tasks, "setup_workspace")
	assert.Contains(t, dag.Tasks, "build")
	for id, task := range dag.Tasks {
		if task.Kind == KindGenerateTexture {
			t.Fatalf("expected no texture tasks for an empty spec, found %s", id)
		}
	}
}

// reachableFrom walks dependents (the forward edges) starting at entry,
// since DependsOn records backward edges.
func reachableFrom(dag TaskDAG, entry string) map[string]bool {
	forward := map[string][]string{}
	for id, task := range dag.Tasks {
		for _, dep := range task.DependsOn {
			forward[dep] = append(forward[dep], id)
		}
	}

	visited := map[string]bool{entry: true}
	queue := []string{entry}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range forward[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}
