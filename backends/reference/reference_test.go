package reference

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/gomlx/einops/types"
)

func TestTensor(t *testing.T) {
	x := must.M1(FromValue([][]float32{{1, 2, 3}, {4, 5, 6}}))
	assert.Equal(t, "(Float32)[2 3]", x.Shape().String())
	assert.Equal(t, 6.0, x.At(1, 2))
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, must.M1(Flat[float32](x)))
	_, err := Flat[float64](x)
	assert.Error(t, err)

	y := must.M1(FromFlat([]float32{1, 2, 3, 4, 5, 6}, 2, 3))
	assert.True(t, x.Equal(y))

	_, err = FromFlat([]int32{1, 2, 3}, 2, 2)
	assert.Error(t, err)
	_, err = FromValue([][]int{{1}, {2, 3}})
	assert.Error(t, err)

	scalar := must.M1(FromValue(int32(7)))
	assert.True(t, scalar.Shape().IsScalar())
	assert.Equal(t, []int32{7}, must.M1(Flat[int32](scalar)))

	half := must.M1(FromFlat([]float16.Float16{float16.Fromfloat32(1.5), float16.Fromfloat32(-2)}, 2))
	assert.Equal(t, dtypes.Float16, half.Shape().DType)
	assert.Equal(t, -2.0, half.At(1))

	iota := Iota(dtypes.Int64, 2, 2)
	assert.Equal(t, []int64{0, 1, 2, 3}, must.M1(Flat[int64](iota)))
}

func TestReshape(t *testing.T) {
	b := New()
	x := Iota(dtypes.Float32, 2, 3)
	y, err := b.Reshape(x, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, y.Shape().Dimensions)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5}, must.M1(Flat[float32](y)))
	_, err = b.Reshape(x, 4)
	assert.Error(t, err)
}

func TestTranspose(t *testing.T) {
	b := New()
	x := Iota(dtypes.Int32, 2, 3, 4)
	y, err := b.Transpose(x, 2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 3}, y.Shape().Dimensions)
	for i := range 2 {
		for j := range 3 {
			for k := range 4 {
				assert.Equal(t, x.At(i, j, k), y.At(k, i, j))
			}
		}
	}

	// Matrix transpose.
	m := must.M1(FromValue([][]int32{{1, 2, 3}, {4, 5, 6}}))
	mt := must.M1(b.Transpose(m, 1, 0))
	assert.Equal(t, []int32{1, 4, 2, 5, 3, 6}, must.M1(Flat[int32](mt)))

	_, err = b.Transpose(x, 0, 1)
	assert.Error(t, err)
}

func TestReduce(t *testing.T) {
	b := New()
	x := must.M1(FromValue([][]float32{{1, 2, 3}, {4, 5, 6}}))
	for _, tc := range []struct {
		axis     int
		op       types.ReduceOp
		expected []float32
	}{
		{0, types.ReduceSum, []float32{5, 7, 9}},
		{1, types.ReduceSum, []float32{6, 15}},
		{1, types.ReduceMean, []float32{2, 5}},
		{0, types.ReduceMin, []float32{1, 2, 3}},
		{-1, types.ReduceMax, []float32{3, 6}},
		{1, types.ReduceProd, []float32{6, 120}},
	} {
		y, err := b.Reduce(x, tc.axis, tc.op)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, must.M1(Flat[float32](y)), "Reduce(axis=%d, %s)", tc.axis, tc.op)
	}

	// Integer mean truncates.
	ints := must.M1(FromValue([]int32{1, 2}))
	assert.Equal(t, []int32{1}, must.M1(Flat[int32](must.M1(b.Reduce(ints, 0, types.ReduceMean)))))

	_, err := b.Reduce(must.M1(FromValue([]bool{true, false})), 0, types.ReduceSum)
	assert.Error(t, err)
	anyTrue := must.M1(b.Reduce(must.M1(FromValue([]bool{true, false})), 0, types.ReduceMax))
	assert.Equal(t, []bool{true}, must.M1(Flat[bool](anyTrue)))
}

func TestRepeat(t *testing.T) {
	b := New()
	x := must.M1(FromValue([][]int32{{1, 2}, {3, 4}}))
	y := must.M1(b.Repeat(x, 1, 3))
	assert.Equal(t, []int{2, 3, 2}, y.Shape().Dimensions)
	assert.Equal(t, []int32{1, 2, 1, 2, 1, 2, 3, 4, 3, 4, 3, 4}, must.M1(Flat[int32](y)))

	y = must.M1(b.Repeat(x, 2, 2))
	assert.Equal(t, []int32{1, 1, 2, 2, 3, 3, 4, 4}, must.M1(Flat[int32](y)))

	y = must.M1(b.Repeat(x, 0, 2))
	assert.Equal(t, []int32{1, 2, 3, 4, 1, 2, 3, 4}, must.M1(Flat[int32](y)))

	_, err := b.Repeat(x, 3, 2)
	assert.Error(t, err)
}

func TestJoin(t *testing.T) {
	b := New()
	x := must.M1(FromValue([]float64{1, 2}))
	y := must.M1(FromValue([]float64{10, 20, 30}))
	z := must.M1(b.Join(x, y))
	assert.Equal(t, []int{2, 3}, z.Shape().Dimensions)
	assert.Equal(t, []float64{10, 20, 30, 20, 40, 60}, must.M1(Flat[float64](z)))

	// A single input is returned unchanged.
	assert.True(t, x.Equal(must.M1(b.Join(x))))

	_, err := b.Join(x, must.M1(FromValue([]float32{1})))
	assert.Error(t, err)
}
