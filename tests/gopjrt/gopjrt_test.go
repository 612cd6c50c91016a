// Package gopjrt runs plans lowered to StableHLO with PJRT, and checks the results against the reference backend.
package gopjrt

import (
	"flag"
	"fmt"
	"iter"
	"strings"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/pjrt"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/einops"
	"github.com/gomlx/einops/backends/reference"
	"github.com/gomlx/einops/stablehlo"
	"github.com/gomlx/einops/types/shapes"
)

var flagPluginNames = flag.String("plugins", "cpu", "List (|-separated) of PJRT plugin names or full paths. E.g. \"cpu|cuda\"")

// withLines prefix each line of text with a "%04d: " of the line number.
func withLines(text []byte) string {
	var result strings.Builder
	lines := strings.Split(string(text), "\n")
	for i, line := range lines {
		fmt.Fprintf(&result, "%04d: %s\n", i+1, line)
	}
	return result.String()
}

func getPluginNames() []string {
	var names []string
	for _, name := range strings.Split(*flagPluginNames, "|") {
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		panic("no XLA plugin names defined with -plugins")
	}
	return names
}

// pjrtClientsIterator yields one client per plugin. Plugins that are not installed are skipped.
func pjrtClientsIterator(t *testing.T) iter.Seq2[string, *pjrt.Client] {
	return func(yield func(string, *pjrt.Client) bool) {
		for _, pluginName := range getPluginNames() {
			plugin, err := pjrt.GetPlugin(pluginName)
			if err != nil {
				t.Logf("skipping PJRT plugin %q: %v", pluginName, err)
				continue
			}
			client, err := plugin.NewClient(nil)
			require.NoError(t, err, "failed to create client for plugin %q", pluginName)
			done := !yield(pluginName, client)
			require.NoError(t, client.Destroy())
			if done {
				return
			}
		}
	}
}

// execute the plan lowered to StableHLO with PJRT, and returns the flat output values and dimensions.
func execute(t *testing.T, client *pjrt.Client, plan *einops.Plan, inputs []*reference.Tensor) ([]float32, []int) {
	program, err := stablehlo.FromPlan(plan)
	require.NoError(t, err)
	fmt.Printf("%s program:\n%s", t.Name(), withLines(program))

	loadedExec, err := client.Compile().WithStableHLO(program).Done()
	require.NoErrorf(t, err, "failed to compile program: \n%s", program)
	defer func() {
		if err := loadedExec.Destroy(); err != nil {
			t.Errorf("failed to destroy loaded exec: %+v", err)
		}
	}()

	buffers := make([]*pjrt.Buffer, len(inputs))
	for i, input := range inputs {
		flat := must.M1(reference.Flat[float32](input))
		buffers[i] = must.M1(client.BufferFromHost().FromFlatDataWithDimensions(flat, input.Shape().Dimensions).Done())
	}
	outputs, err := loadedExec.Execute(buffers...).DonateAll().Done()
	require.NoErrorf(t, err, "failed to execute program: \n%s", program)
	require.Len(t, outputs, 1)
	defer func() {
		if err := outputs[0].Destroy(); err != nil {
			t.Errorf("failed to destroy buffer: %+v", err)
		}
	}()
	flat, dims, err := outputs[0].ToFlatDataAndDimensions()
	require.NoError(t, err)
	return flat.([]float32), dims
}

func TestPlans(t *testing.T) {
	f32 := func(dimensions ...int) *reference.Tensor { return reference.Iota(dtypes.Float32, dimensions...) }
	testCases := []struct {
		name    string
		pattern string
		inputs  []*reference.Tensor
		options []einops.Option
	}{
		{"permute", "a b c -> c a b", []*reference.Tensor{f32(2, 3, 4)}, nil},
		{"split", "(a b) c -> c a b", []*reference.Tensor{f32(6, 4)}, []einops.Option{einops.WithAxisSize("a", 2)}},
		{"merge", "b h w c -> b (h w) c", []*reference.Tensor{f32(2, 3, 4, 5)}, nil},
		{"space-to-depth", "b (h h2) (w w2) c -> b h w (c h2 w2)", []*reference.Tensor{f32(1, 4, 6, 3)},
			[]einops.Option{einops.WithAxisSizes(map[string]int{"h2": 2, "w2": 2})}},
		{"reductions", "sum(a) b max(c) -> b", []*reference.Tensor{f32(2, 3, 4)}, nil},
		{"mean-and-min", "mean(a) min(b) .. -> ..", []*reference.Tensor{f32(2, 3, 4, 2)}, nil},
		{"repeat", "a b -> 2 b a c:3", []*reference.Tensor{f32(2, 3)}, nil},
		{"join", "a, b -> b a", []*reference.Tensor{f32(2), f32(3)}, nil},
		{"join-and-sum", "a sum(c), sum(d) b -> b a", []*reference.Tensor{f32(2, 3), f32(4, 5)}, nil},
	}
	for pluginName, client := range pjrtClientsIterator(t) {
		t.Run(pluginName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					inputShapes := make([]shapes.Shape, len(tc.inputs))
					for i, input := range tc.inputs {
						inputShapes[i] = input.Shape()
					}
					plan := must.M1(einops.Compile(tc.pattern, inputShapes, tc.options...))
					want := must.M1(einops.Apply(reference.New(), plan, tc.inputs...))
					gotFlat, gotDims := execute(t, client, plan, tc.inputs)
					require.Equal(t, want.Shape().Dimensions, gotDims)
					require.InDeltaSlice(t, must.M1(reference.Flat[float32](want)), gotFlat, 1e-3)
				})
			}
		})
	}
}
