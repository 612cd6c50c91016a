package shapeinference

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/einops/types"
	"github.com/gomlx/einops/types/shapes"
)

// Aliases
var (
	Bool = dtypes.Bool
	I32  = dtypes.Int32
	F32  = dtypes.Float32
	F64  = dtypes.Float64

	S = shapes.Make
)

// must1 panics if there is an error.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func TestAdjustAxisToRank(t *testing.T) {
	assert.Equal(t, 2, must1(AdjustAxisToRank(-1, 3)))
	assert.Equal(t, 0, must1(AdjustAxisToRank(0, 3)))
	_, err := AdjustAxisToRank(3, 3)
	assert.Error(t, err)
	_, err = AdjustAxisToRank(-4, 3)
	assert.Error(t, err)
}

func TestReshape(t *testing.T) {
	output, err := Reshape(S(F32, 6, 4), []int{2, 3, 4})
	require.NoError(t, err)
	assert.True(t, S(F32, 2, 3, 4).Equal(output), "got %s", output)

	// To and from scalars.
	output = must1(Reshape(S(I32, 1, 1), nil))
	assert.True(t, S(I32).Equal(output), "got %s", output)
	output = must1(Reshape(S(I32), []int{1}))
	assert.True(t, S(I32, 1).Equal(output), "got %s", output)

	_, err = Reshape(S(F32, 6, 4), []int{5, 5})
	assert.Error(t, err)
	_, err = Reshape(S(F32, 6), []int{-2, -3})
	assert.Error(t, err)
	_, err = Reshape(shapes.Invalid(), []int{1})
	assert.Error(t, err)
}

func TestJoin(t *testing.T) {
	output, err := Join([]shapes.Shape{S(F32, 2), S(F32, 3, 4), S(F32)})
	require.NoError(t, err)
	assert.True(t, S(F32, 2, 3, 4).Equal(output), "got %s", output)

	_, err = Join(nil)
	assert.Error(t, err)
	_, err = Join([]shapes.Shape{S(F32, 2), S(F64, 3)})
	assert.Error(t, err)
}

func TestReduce(t *testing.T) {
	for _, tc := range []struct {
		operand  shapes.Shape
		axis     int
		op       types.ReduceOp
		expected shapes.Shape
	}{
		{S(F32, 2, 3, 4), 1, types.ReduceSum, S(F32, 2, 4)},
		{S(F32, 2, 3, 4), -1, types.ReduceMean, S(F32, 2, 3)},
		{S(I32, 5), 0, types.ReduceProd, S(I32)},
		{S(Bool, 5, 2), 0, types.ReduceMax, S(Bool, 2)},
		{S(Bool, 5, 2), 1, types.ReduceMin, S(Bool, 5)},
	} {
		output, err := Reduce(tc.operand, tc.axis, tc.op)
		require.NoError(t, err, "Reduce(%s, %d, %s)", tc.operand, tc.axis, tc.op)
		assert.True(t, tc.expected.Equal(output), "Reduce(%s, %d, %s): expected %s, got %s",
			tc.operand, tc.axis, tc.op, tc.expected, output)
	}

	_, err := Reduce(S(F32, 2), 1, types.ReduceSum)
	assert.Error(t, err)
	_, err = Reduce(S(F32, 2), 0, types.ReduceNone)
	assert.Error(t, err)
	_, err = Reduce(S(Bool, 2), 0, types.ReduceSum)
	assert.Error(t, err)
	_, err = Reduce(S(F32), 0, types.ReduceMax)
	assert.Error(t, err)
}

func TestTranspose(t *testing.T) {
	output, err := Transpose(S(F32, 2, 3, 4), []int{2, 0, 1})
	require.NoError(t, err)
	assert.True(t, S(F32, 4, 2, 3).Equal(output), "got %s", output)

	_, err = Transpose(S(F32, 2, 3), []int{0})
	assert.Error(t, err)
	_, err = Transpose(S(F32, 2, 3), []int{0, 0})
	assert.Error(t, err)
	_, err = Transpose(S(F32, 2, 3), []int{0, 2})
	assert.Error(t, err)

	assert.True(t, IsIdentityPermutation([]int{0, 1, 2}))
	assert.True(t, IsIdentityPermutation(nil))
	assert.False(t, IsIdentityPermutation([]int{1, 0}))
}

func TestRepeat(t *testing.T) {
	output, err := Repeat(S(F32, 2, 3), 2, 5)
	require.NoError(t, err)
	assert.True(t, S(F32, 2, 3, 5).Equal(output), "got %s", output)
	output = must1(Repeat(S(F32, 2, 3), 0, 7))
	assert.True(t, S(F32, 7, 2, 3).Equal(output), "got %s", output)
	output = must1(Repeat(S(F32), 0, 1))
	assert.True(t, S(F32, 1).Equal(output), "got %s", output)

	_, err = Repeat(S(F32, 2, 3), 3, 5)
	assert.Error(t, err)
	_, err = Repeat(S(F32, 2, 3), -1, 5)
	assert.Error(t, err)
	_, err = Repeat(S(F32, 2, 3), 1, 0)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	output, err := Merge(S(F32, 2, 3, 4, 5), [][2]int{{0, 2}, {2, 3}, {3, 3}, {3, 4}})
	require.NoError(t, err)
	assert.True(t, S(F32, 6, 4, 1, 5).Equal(output), "got %s", output)

	output = must1(Merge(S(F32, 2, 3), [][2]int{{0, 2}}))
	assert.True(t, S(F32, 6).Equal(output), "got %s", output)

	// Gaps, overlaps and uncovered axes.
	_, err = Merge(S(F32, 2, 3, 4), [][2]int{{0, 1}, {2, 3}})
	assert.Error(t, err)
	_, err = Merge(S(F32, 2, 3, 4), [][2]int{{0, 2}, {1, 3}})
	assert.Error(t, err)
	_, err = Merge(S(F32, 2, 3, 4), [][2]int{{0, 2}})
	assert.Error(t, err)
	_, err = Merge(S(F32, 2, 3, 4), [][2]int{{0, 4}})
	assert.Error(t, err)
}
