package stablehlo

import (
	"fmt"
	"math"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/gomlx/einops/types/shapes"
)

func TestBuilder(t *testing.T) {
	t.Run("transpose", func(t *testing.T) {
		b := New(t.Name())
		fn := b.Main()
		x := fn.Input(shapes.Make(dtypes.Float32, 2, 3))
		y := must.M1(TransposeOp(x, 1, 0))
		require.NoError(t, fn.Return(y))
		program := string(must.M1(b.Build()))
		fmt.Printf("%s program:\n%s", t.Name(), program)
		assert.Equal(t, `module @TestBuilder_transpose {
  func.func @main(%arg0: tensor<2x3xf32>) -> tensor<3x2xf32> {
    %0 = "stablehlo.transpose"(%arg0){permutation = array<i64: 1, 0>} : (tensor<2x3xf32>) -> tensor<3x2xf32>
    "func.return"(%0) : (tensor<3x2xf32>) -> ()
  }
}
`, program)
	})

	t.Run("reduce", func(t *testing.T) {
		b := New("reduce")
		fn := b.Main()
		x := fn.NamedInput("x", shapes.Make(dtypes.Int32, 4, 5))
		scalar := shapes.Make(dtypes.Int32)
		zero := must.M1(SplatConstant(fn, scalar, 0))
		sumFn := fn.Closure()
		lhs, rhs := sumFn.NamedInput("lhs", scalar), sumFn.NamedInput("rhs", scalar)
		require.NoError(t, sumFn.Return(must.M1(BinaryOp(Add, lhs, rhs))))
		y := must.M1(ReduceOp(x, zero, sumFn, -1))
		require.NoError(t, fn.Return(y))
		program := string(must.M1(b.Build()))
		fmt.Printf("%s program:\n%s", t.Name(), program)
		assert.Contains(t, program,
			`    %0 = "stablehlo.constant"(){value = dense<0> : tensor<i32>} : () -> tensor<i32>
    %2 = "stablehlo.reduce"(%x, %0) ({
      ^bb0(%lhs: tensor<i32>, %rhs: tensor<i32>):
        %1 = "stablehlo.add"(%lhs, %rhs) : (tensor<i32>, tensor<i32>) -> tensor<i32>
        "stablehlo.return"(%1) : (tensor<i32>) -> ()
    }) {dimensions = array<i64: 1>} : (tensor<4x5xi32>, tensor<i32>) -> tensor<4xi32>
    "func.return"(%2) : (tensor<4xi32>) -> ()`)
	})
}

func TestBuilderErrors(t *testing.T) {
	t.Run("no main", func(t *testing.T) {
		b := New("test_program")
		fn := b.NewFunction("not_main")
		c := must.M1(SplatConstant(fn, shapes.Make(dtypes.Float64), 1.0))
		require.NoError(t, fn.Return(c))
		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "program must have a main function")
	})

	t.Run("no return", func(t *testing.T) {
		b := New("test_program")
		fn := b.Main()
		_ = fn.Input(shapes.Make(dtypes.Float32, 3))
		_, err := b.Build()
		require.Error(t, err)
	})

	t.Run("after return", func(t *testing.T) {
		b := New("test_program")
		fn := b.Main()
		x := fn.Input(shapes.Make(dtypes.Float32, 3))
		require.NoError(t, fn.Return(x))
		_, err := ReshapeOp(x, 3, 1)
		assert.Error(t, err)
		assert.Error(t, fn.Return(x))
	})

	t.Run("foreign operand", func(t *testing.T) {
		b := New("test_program")
		fn, other := b.Main(), b.NewFunction("other")
		x := fn.Input(shapes.Make(dtypes.Float32, 3))
		y := other.Input(shapes.Make(dtypes.Float32, 3))
		_, err := BinaryOp(Add, x, y)
		assert.Error(t, err)
		_, err = BinaryOp(Transpose, x, x)
		assert.Error(t, err)
	})

	t.Run("invalid broadcast", func(t *testing.T) {
		b := New("test_program")
		fn := b.Main()
		x := fn.Input(shapes.Make(dtypes.Float32, 3))
		_, err := BroadcastInDimOp(x, shapes.Make(dtypes.Float32, 4, 2), []int{0})
		assert.Error(t, err)
		_, err = BroadcastInDimOp(x, shapes.Make(dtypes.Float32, 2, 3), []int{0, 1})
		assert.Error(t, err)
		_, err = BroadcastInDimOp(x, shapes.Make(dtypes.Int32, 2, 3), []int{1})
		assert.Error(t, err)
		_ = must.M1(BroadcastInDimOp(x, shapes.Make(dtypes.Float32, 2, 3), []int{1}))
	})
}

func TestScalarLiteral(t *testing.T) {
	for _, tc := range []struct {
		dtype    dtypes.DType
		value    any
		expected string
	}{
		{dtypes.Float32, 0, "0.0"},
		{dtypes.Float32, 1.5, "1.5"},
		{dtypes.Float64, 3, "3.0"},
		{dtypes.Float32, float32(math.Inf(-1)), "0xFF800000"},
		{dtypes.Float32, float32(math.Inf(1)), "0x7F800000"},
		{dtypes.Float64, math.Inf(-1), "0xFFF0000000000000"},
		{dtypes.Float16, float16.Inf(1), "0x7C00"},
		{dtypes.Int32, int32(math.MinInt32), "-2147483648"},
		{dtypes.Int64, int64(math.MaxInt64), "9223372036854775807"},
		{dtypes.Uint64, uint64(math.MaxUint64), "18446744073709551615"},
		{dtypes.Int8, 7, "7"},
		{dtypes.Bool, true, "true"},
		{dtypes.Bool, 0, "false"},
	} {
		got, err := scalarLiteral(tc.dtype, tc.value)
		require.NoError(t, err, "scalarLiteral(%s, %v)", tc.dtype, tc.value)
		assert.Equal(t, tc.expected, got, "scalarLiteral(%s, %v)", tc.dtype, tc.value)
	}

	_, err := scalarLiteral(dtypes.Float32, true)
	assert.Error(t, err)
	_, err = scalarLiteral(dtypes.Float32, "1")
	assert.Error(t, err)
}
