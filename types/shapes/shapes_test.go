package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	assert.False(t, Invalid().Ok())

	scalar := Make(dtypes.Float64)
	assert.True(t, scalar.Ok())
	assert.True(t, scalar.IsScalar())
	assert.Equal(t, 0, scalar.Rank())
	assert.Equal(t, 1, scalar.Size())
	assert.Equal(t, uintptr(8), scalar.Memory())
	assert.Equal(t, "(Float64)", scalar.String())

	shape := Make(dtypes.Float32, 4, 3, 2)
	assert.False(t, shape.IsScalar())
	assert.Equal(t, 3, shape.Rank())
	assert.Equal(t, 24, shape.Size())
	assert.Equal(t, uintptr(4*24), shape.Memory())
	assert.Equal(t, "(Float32)[4 3 2]", shape.String())

	assert.True(t, shape.Equal(Make(dtypes.Float32, 4, 3, 2)))
	assert.False(t, shape.Equal(Make(dtypes.Float64, 4, 3, 2)))
	assert.True(t, shape.EqualDimensions(Make(dtypes.Float64, 4, 3, 2)))
	assert.True(t, shape.WithDimensions(2, 12).Equal(Make(dtypes.Float32, 2, 12)))

	clone := shape.Clone()
	clone.Dimensions[0] = 1
	assert.Equal(t, 4, shape.Dimensions[0])

	require.NoError(t, shape.Check(dtypes.Float32, 4, 3, 2))
	require.Error(t, shape.Check(dtypes.Float32, 4, 3))
	require.Error(t, shape.Check(dtypes.Int32, 4, 3, 2))

	assert.Panics(t, func() { _ = Make(dtypes.Float32, 2, 0) })
}

func TestDim(t *testing.T) {
	shape := Make(dtypes.Float32, 4, 3, 2)
	assert.Equal(t, 4, shape.Dim(0))
	assert.Equal(t, 2, shape.Dim(2))
	assert.Equal(t, 4, shape.Dim(-3))
	assert.Equal(t, 2, shape.Dim(-1))
	assert.Panics(t, func() { _ = shape.Dim(3) })
	assert.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestToStableHLO(t *testing.T) {
	assert.Equal(t, "tensor<1x10xf32>", Make(dtypes.Float32, 1, 10).ToStableHLO())
	assert.Equal(t, "tensor<i32>", Make(dtypes.Int32).ToStableHLO())
}

func TestFromAnyValue(t *testing.T) {
	shape, err := FromAnyValue([]int32{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, shape.Check(dtypes.Int32, 3))

	shape, err = FromAnyValue([][][]float64{{{1, 2, -3}, {3, 4, -7}}})
	require.NoError(t, err)
	require.NoError(t, shape.Check(dtypes.Float64, 1, 2, 3))

	shape, err = FromAnyValue(float32(7))
	require.NoError(t, err)
	assert.True(t, shape.IsScalar())

	_, err = FromAnyValue([][]float32{{1, 2, 3}, {4, 5}})
	require.Error(t, err)

	_, err = FromAnyValue([][]float32{})
	require.Error(t, err)

	_, err = FromAnyValue(nil)
	require.Error(t, err)
}
