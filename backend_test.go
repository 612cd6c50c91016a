package einops_test

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/gomlx/einops"
	"github.com/gomlx/einops/backends/reference"
	"github.com/gomlx/einops/types"
	"github.com/gomlx/einops/types/shapes"
)

func apply(t *testing.T, patternText string, inputs []*reference.Tensor, options ...einops.Option) *reference.Tensor {
	t.Helper()
	output, err := einops.Execute(reference.New(), patternText, inputs, options...)
	require.NoError(t, err, "pattern %q", patternText)
	return output
}

func TestApplyPermutationRoundTrip(t *testing.T) {
	x := reference.Iota(F32, 2, 3, 4)
	y := apply(t, "a b c -> c a b", []*reference.Tensor{x})
	require.Equal(t, []int{4, 2, 3}, y.Shape().Dimensions)
	for a := range 2 {
		for b := range 3 {
			for c := range 4 {
				require.Equal(t, x.At(a, b, c), y.At(c, a, b))
			}
		}
	}
	z := apply(t, "c a b -> a b c", []*reference.Tensor{y})
	assert.True(t, x.Equal(z), "round trip changed the tensor: %s != %s", x, z)
}

func TestApplyBroadcast(t *testing.T) {
	x := reference.Iota(F32, 2, 3)
	y := apply(t, "a b -> a b c:5", []*reference.Tensor{x})
	require.Equal(t, []int{2, 3, 5}, y.Shape().Dimensions)
	for c := range 5 {
		for a := range 2 {
			for b := range 3 {
				require.Equal(t, x.At(a, b), y.At(a, b, c))
			}
		}
	}

	// New axis first, given as an integer.
	y = apply(t, "a b -> 2 b a", []*reference.Tensor{x})
	require.Equal(t, []int{2, 3, 2}, y.Shape().Dimensions)
	assert.Equal(t, x.At(1, 2), y.At(0, 2, 1))
	assert.Equal(t, x.At(1, 2), y.At(1, 2, 1))
}

func TestApplySplitAndMerge(t *testing.T) {
	// End-to-end scenario: x[r, c] = 4*r + c, with r = 3*a + b.
	x := reference.Iota(F32, 6, 4)
	y := apply(t, "(a b) c -> c a b", []*reference.Tensor{x}, einops.WithAxisSize("a", 2))
	require.Equal(t, []int{4, 2, 3}, y.Shape().Dimensions)
	assert.Equal(t, 21.0, y.At(1, 1, 2))

	// Space to depth and back.
	img := reference.Iota(F32, 1, 4, 6, 3)
	depth := apply(t, "b (h h2) (w w2) c -> b h w (c h2 w2)", []*reference.Tensor{img},
		einops.WithAxisSizes(map[string]int{"h2": 2, "w2": 2}))
	require.Equal(t, []int{1, 2, 3, 12}, depth.Shape().Dimensions)
	back := apply(t, "b h w (c h2 w2) -> b (h h2) (w w2) c", []*reference.Tensor{depth},
		einops.WithAxisSizes(map[string]int{"h2": 2, "w2": 2}))
	assert.True(t, img.Equal(back))

	// Flatten the batch axes.
	flat := apply(t, "b .. -> b (..)", []*reference.Tensor{reference.Iota(I32, 2, 3, 4)})
	assert.Equal(t, []int{2, 12}, flat.Shape().Dimensions)
	assert.Equal(t, []int32{0, 1, 2, 3}, must.M1(reference.Flat[int32](flat))[:4])
}

func TestApplyReductions(t *testing.T) {
	// x[a, b, c] = 12*a + 4*b + c.
	x := reference.Iota(F32, 2, 3, 4)
	y := apply(t, "sum(a) b max(c) -> b", []*reference.Tensor{x})
	assert.Equal(t, []float32{18, 26, 34}, must.M1(reference.Flat[float32](y)))

	y = apply(t, "a mean(b) c -> c a", []*reference.Tensor{x})
	require.Equal(t, []int{4, 2}, y.Shape().Dimensions)
	assert.Equal(t, 4.0+1, y.At(1, 0))
	assert.Equal(t, 12.0+4+3, y.At(3, 1))

	y = apply(t, "min(a) .. -> ..", []*reference.Tensor{x})
	assert.True(t, reference.Iota(F32, 3, 4).Equal(y))

	p := must.M1(reference.FromValue([][]float64{{1, 2}, {3, 4}}))
	y = apply(t, "prod(a) b -> b", []*reference.Tensor{p})
	assert.Equal(t, []float64{3, 8}, must.M1(reference.Flat[float64](y)))
}

func TestApplyJoin(t *testing.T) {
	x := must.M1(reference.FromValue([]float64{1, 2}))
	y := must.M1(reference.FromValue([]float64{1, 10, 100}))
	z := apply(t, "a, b -> b a", []*reference.Tensor{x, y})
	require.Equal(t, []int{3, 2}, z.Shape().Dimensions)
	assert.Equal(t, []float64{1, 2, 10, 20, 100, 200}, must.M1(reference.Flat[float64](z)))

	// Dot product: join and sum the shared axis.
	v := must.M1(reference.FromValue([]float64{3, 4}))
	w := must.M1(reference.FromValue([][]float64{{1, 1}}))
	dot := apply(t, "a, b sum(c) -> b a", []*reference.Tensor{v, w})
	assert.Equal(t, []float64{6, 8}, must.M1(reference.Flat[float64](dot)))
}

// failingBackend fails (or panics) on Transpose.
type failingBackend struct {
	*reference.Backend
	panics bool
}

var errTranspose = errors.New("transpose not available")

func (b *failingBackend) Transpose(x *reference.Tensor, permutation ...int) (*reference.Tensor, error) {
	if b.panics {
		panic(errTranspose)
	}
	return nil, errTranspose
}

func TestApplyBackendFailure(t *testing.T) {
	x := reference.Iota(F32, 2, 3)
	plan := must.M1(einops.Compile("a b -> b a", []shapes.Shape{x.Shape()}))
	for _, panics := range []bool{false, true} {
		backend := &failingBackend{Backend: reference.New(), panics: panics}
		_, err := einops.Apply[*reference.Tensor](backend, plan, x)
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.BackendFailure), "got %v", err)
		assert.ErrorIs(t, err, errTranspose)
	}
}

func TestConcurrentCompile(t *testing.T) {
	var g errgroup.Group
	for i := range 32 {
		g.Go(func() error {
			size := 1 + i%4
			x := reference.Iota(F32, size, 6)
			y, err := einops.Execute(reference.New(), "a (b c) -> c b a", []*reference.Tensor{x}, einops.WithAxisSize("b", 2))
			if err != nil {
				return err
			}
			if got := y.Shape().Dimensions; len(got) != 3 || got[0] != 3 || got[1] != 2 || got[2] != size {
				return errors.Errorf("goroutine %d: unexpected output shape %v", i, got)
			}
			if y.At(2, 1, size-1) != float64(6*(size-1)+5) {
				return errors.Errorf("goroutine %d: unexpected value %g", i, y.At(2, 1, size-1))
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
