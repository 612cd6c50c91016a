package stablehlo

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/gomlx/einops/shapeinference"
	"github.com/gomlx/einops/types/shapes"
)

// OpType enumerates the StableHLO operations a plan is lowered to.
type OpType int

const (
	InvalidOp OpType = iota
	Constant
	Reshape
	Transpose
	BroadcastInDim
	Reduce
	Add
	Multiply
	Divide
	Minimum
	Maximum
	And
	Or
	Return
	FuncReturn
)

var opNames = map[OpType]string{
	Constant:       "stablehlo.constant",
	Reshape:        "stablehlo.reshape",
	Transpose:      "stablehlo.transpose",
	BroadcastInDim: "stablehlo.broadcast_in_dim",
	Reduce:         "stablehlo.reduce",
	Add:            "stablehlo.add",
	Multiply:       "stablehlo.multiply",
	Divide:         "stablehlo.divide",
	Minimum:        "stablehlo.minimum",
	Maximum:        "stablehlo.maximum",
	And:            "stablehlo.and",
	Or:             "stablehlo.or",
	Return:         "stablehlo.return",
	FuncReturn:     "func.return",
}

// ToStableHLO returns the name of the operation in StableHLO, e.g. "stablehlo.reshape".
func (op OpType) ToStableHLO() string {
	if name, found := opNames[op]; found {
		return name
	}
	return fmt.Sprintf("unknown_op<%d>", int(op))
}

// String implements fmt.Stringer.
func (op OpType) String() string {
	return op.ToStableHLO()
}

// scalarLiteral renders a Go scalar as an element of a dense attribute of the given dtype.
// Infinities are rendered with their hexadecimal bit pattern, the only form the StableHLO parser accepts.
func scalarLiteral(dtype dtypes.DType, value any) (string, error) {
	var f float64
	switch v := value.(type) {
	case bool:
		if dtype != dtypes.Bool {
			return "", errors.Errorf("boolean constant for dtype %s", dtype)
		}
		return strconv.FormatBool(v), nil
	case float16.Float16:
		f = float64(v.Float32())
	case float32:
		f = float64(v)
	case float64:
		f = v
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		if dtype.IsInt() {
			return strconv.FormatInt(v, 10), nil
		}
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		if dtype.IsUnsigned() {
			return strconv.FormatUint(v, 10), nil
		}
		f = float64(v)
	default:
		return "", errors.Errorf("unsupported constant value type %T", value)
	}

	switch {
	case dtype == dtypes.Bool:
		return strconv.FormatBool(f != 0), nil
	case dtype.IsInt() || dtype.IsUnsigned():
		return strconv.FormatInt(int64(f), 10), nil
	case !math.IsInf(f, 0):
		if f == math.Trunc(f) {
			return fmt.Sprintf("%.1f", f), nil
		}
		return fmt.Sprintf("%g", f), nil
	}
	switch dtype {
	case dtypes.Float16:
		return fmt.Sprintf("0x%04X", float16.Fromfloat32(float32(f)).Bits()), nil
	case dtypes.Float32:
		return fmt.Sprintf("0x%08X", math.Float32bits(float32(f))), nil
	case dtypes.Float64:
		return fmt.Sprintf("0x%016X", math.Float64bits(f)), nil
	}
	return "", errors.Errorf("no infinity constant for dtype %s", dtype)
}

// SplatConstant adds a constant of the given shape with all elements set to value.
func SplatConstant(fn *Function, shape shapes.Shape, value any) (*Value, error) {
	op := Constant
	if err := fn.checkOpen(op); err != nil {
		return nil, err
	}
	element, err := scalarLiteral(shape.DType, value)
	if err != nil {
		return nil, errors.WithMessagef(err, "SplatConstant(%s)", shape)
	}
	stmt := fn.addOp(op, shape)
	stmt.Attributes = map[string]literal{"value": literalF("dense<%s> : %s", element, shape.ToStableHLO())}
	return stmt.Outputs[0], nil
}

// ReshapeOp the operand to the given dimensions. The total size must be preserved.
func ReshapeOp(operand *Value, dimensions ...int) (*Value, error) {
	op := Reshape
	fn := operand.fn
	if err := fn.checkOpen(op, operand); err != nil {
		return nil, err
	}
	output, err := shapeinference.Reshape(operand.shape, dimensions)
	if err != nil {
		return nil, err
	}
	return fn.addOp(op, output, operand).Outputs[0], nil
}

// TransposeOp permutes the axes of the operand: output axis i is the operand axis permutation[i].
func TransposeOp(operand *Value, permutation ...int) (*Value, error) {
	op := Transpose
	fn := operand.fn
	if err := fn.checkOpen(op, operand); err != nil {
		return nil, err
	}
	output, err := shapeinference.Transpose(operand.shape, permutation)
	if err != nil {
		return nil, err
	}
	stmt := fn.addOp(op, output, operand)
	stmt.Attributes = map[string]literal{"permutation": intsLiteral(permutation)}
	return stmt.Outputs[0], nil
}

// BroadcastInDimOp broadcasts the operand to the target shape.
//
// The axesMapping has one value per operand axis, the axis of the target it maps to, in increasing order.
// Target axes not mapped are new axes, and the data is repeated along them.
func BroadcastInDimOp(operand *Value, target shapes.Shape, axesMapping []int) (*Value, error) {
	op := BroadcastInDim
	fn := operand.fn
	if err := fn.checkOpen(op, operand); err != nil {
		return nil, err
	}
	if len(axesMapping) != operand.shape.Rank() {
		return nil, errors.Errorf("BroadcastInDim() requires one axis mapping per operand axis, got %v for operand %s",
			axesMapping, operand.shape)
	}
	if operand.shape.DType != target.DType {
		return nil, errors.Errorf("BroadcastInDim() cannot change the dtype, got operand %s and target %s",
			operand.shape, target)
	}
	for i, targetAxis := range axesMapping {
		if targetAxis < 0 || targetAxis >= target.Rank() || (i > 0 && targetAxis <= axesMapping[i-1]) {
			return nil, errors.Errorf("BroadcastInDim() invalid axes mapping %v for target %s", axesMapping, target)
		}
		if dim := operand.shape.Dimensions[i]; dim != 1 && dim != target.Dimensions[targetAxis] {
			return nil, errors.Errorf("BroadcastInDim() operand axis %d (dimension %d) can't be broadcast to target axis %d of %s",
				i, dim, targetAxis, target)
		}
	}
	stmt := fn.addOp(op, target, operand)
	stmt.Attributes = map[string]literal{"broadcast_dimensions": intsLiteral(axesMapping)}
	return stmt.Outputs[0], nil
}

// binaryOp adds an element-wise binary operation over operands of the same shape.
func binaryOp(op OpType, lhs, rhs *Value) (*Value, error) {
	fn := lhs.fn
	if err := fn.checkOpen(op, lhs, rhs); err != nil {
		return nil, err
	}
	if !lhs.shape.Equal(rhs.shape) {
		return nil, errors.Errorf("%s requires operands of the same shape, got %s and %s", op, lhs.shape, rhs.shape)
	}
	return fn.addOp(op, lhs.shape, lhs, rhs).Outputs[0], nil
}

// BinaryOp adds the element-wise operation op (Add, Multiply, Divide, Minimum, Maximum, And or Or).
func BinaryOp(op OpType, lhs, rhs *Value) (*Value, error) {
	switch op {
	case Add, Multiply, Divide, Minimum, Maximum, And, Or:
		return binaryOp(op, lhs, rhs)
	}
	return nil, errors.Errorf("%s is not a binary operation", op)
}

// ReduceOp reduces the axis of x, starting with initialValue and combining the values with reductionFn.
//
// The reductionFn must be a closure of the function of x (see Function.Closure), taking two scalars
// of the dtype of x and returning one.
func ReduceOp(x, initialValue *Value, reductionFn *Function, axis int) (*Value, error) {
	op := Reduce
	fn := x.fn
	if err := fn.checkOpen(op, x, initialValue); err != nil {
		return nil, err
	}
	if reductionFn.Parent != fn {
		return nil, errors.Errorf("cannot add operation %s because reductionFn is not a closure of %q", op, fn.Name)
	}
	scalar := shapes.Make(x.shape.DType)
	if !initialValue.shape.Equal(scalar) {
		return nil, errors.Errorf("%s initial value must be a %s scalar, got %s", op, x.shape.DType, initialValue.shape)
	}
	if len(reductionFn.Inputs) != 2 || len(reductionFn.Outputs) != 1 || !reductionFn.Outputs[0].Equal(scalar) ||
		slices.ContainsFunc(reductionFn.Inputs, func(v *Value) bool { return !v.shape.Equal(scalar) }) {
		return nil, errors.Errorf("%s reductionFn must take two %s scalars and return one", op, scalar)
	}
	adjustedAxis, err := shapeinference.AdjustAxisToRank(axis, x.shape.Rank())
	if err != nil {
		return nil, err
	}
	output := x.shape.Clone()
	output.Dimensions = slices.Delete(output.Dimensions, adjustedAxis, adjustedAxis+1)
	stmt := fn.addOp(op, output, x, initialValue)
	stmt.Regions = []*Function{reductionFn}
	stmt.Attributes = map[string]literal{"dimensions": intsLiteral([]int{adjustedAxis})}
	return stmt.Outputs[0], nil
}
