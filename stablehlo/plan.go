package stablehlo

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/einops"
	"github.com/gomlx/einops/internal/optypes"
	"github.com/gomlx/einops/types"
	"github.com/gomlx/einops/types/shapes"
)

// FromPlan returns the StableHLO program that executes the plan.
//
// The program is a module named after the plan, with a "main" function taking one parameter
// per plan input and returning the plan output.
func FromPlan(plan *einops.Plan) ([]byte, error) {
	b := New(plan.Name)
	fn := b.Main()
	values := make([]*Value, len(plan.Inputs))
	for i, input := range plan.Inputs {
		values[i] = fn.Input(input)
	}
	for i, step := range plan.Steps {
		var err error
		values, err = lowerStep(fn, step, values)
		if err != nil {
			return nil, errors.WithMessagef(err, "lowering step #%d %s of %q to StableHLO", i, step, plan.Pattern)
		}
	}
	if len(values) != 1 || !values[0].shape.Equal(plan.Output) {
		return nil, errors.Errorf("lowering %q to StableHLO ended with %d values, expected one with shape %s",
			plan.Pattern, len(values), plan.Output)
	}
	if err := fn.Return(values[0]); err != nil {
		return nil, err
	}
	program, err := b.Build()
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("einops: %q lowered to StableHLO:\n%s", plan.Pattern, program)
	return program, nil
}

// lowerStep adds the operations of one plan step, returning the new values.
func lowerStep(fn *Function, step *einops.Step, values []*Value) ([]*Value, error) {
	var (
		x   *Value
		err error
	)
	switch step.OpType {
	case optypes.ReshapeSplit:
		x, err = ReshapeOp(values[step.Input], step.Dimensions...)
		if err != nil {
			return nil, err
		}
		values[step.Input] = x
		return values, nil
	case optypes.Join:
		x, err = lowerJoin(fn, step, values)
	case optypes.Reduce:
		x, err = lowerReduce(fn, step, values[0])
	case optypes.Permute:
		x, err = TransposeOp(values[0], step.Permutation...)
	case optypes.Repeat:
		mapping := make([]int, 0, values[0].shape.Rank())
		for axis := range values[0].shape.Rank() {
			if axis >= step.Axis {
				axis++
			}
			mapping = append(mapping, axis)
		}
		x, err = BroadcastInDimOp(values[0], step.Output, mapping)
	case optypes.ReshapeMerge:
		x, err = ReshapeOp(values[0], step.Dimensions...)
	default:
		return nil, errors.Errorf("unknown step type %s", step.OpType)
	}
	if err != nil {
		return nil, err
	}
	return []*Value{x}, nil
}

// lowerJoin broadcasts each value to the joined shape and multiplies them, which is their outer product.
func lowerJoin(fn *Function, step *einops.Step, values []*Value) (*Value, error) {
	var product *Value
	offset := 0
	for _, value := range values {
		mapping := make([]int, value.shape.Rank())
		for i := range mapping {
			mapping[i] = offset + i
		}
		offset += len(mapping)
		broadcast, err := BroadcastInDimOp(value, step.Output, mapping)
		if err != nil {
			return nil, err
		}
		if product == nil {
			product = broadcast
			continue
		}
		product, err = BinaryOp(Multiply, product, broadcast)
		if err != nil {
			return nil, err
		}
	}
	if product == nil {
		return nil, errors.New("join of no values")
	}
	return product, nil
}

// reduction returns the initial value and the combining operation of a reduction for the dtype.
func reduction(dtype dtypes.DType, op types.ReduceOp) (initialValue any, combine OpType, err error) {
	isBool := dtype == dtypes.Bool
	switch op {
	case types.ReduceSum, types.ReduceMean:
		initialValue, combine = 0, Add
	case types.ReduceProd:
		initialValue, combine = 1, Multiply
	case types.ReduceMax:
		initialValue, combine = dtype.LowestValue(), Maximum
		if isBool {
			combine = Or
		}
		return
	case types.ReduceMin:
		initialValue, combine = dtype.HighestValue(), Minimum
		if isBool {
			combine = And
		}
		return
	default:
		err = errors.Errorf("invalid reduction %s", op)
		return
	}
	if isBool {
		err = errors.Errorf("reduction %q not supported for dtype %s", op.Keyword(), dtype)
	}
	return
}

// lowerReduce adds a reduce of one axis, with its reduction function, and the division of a mean.
func lowerReduce(fn *Function, step *einops.Step, x *Value) (*Value, error) {
	dtype := x.shape.DType
	initialValue, combine, err := reduction(dtype, step.ReduceOp)
	if err != nil {
		return nil, err
	}
	scalar := shapes.Make(dtype)
	initValue, err := SplatConstant(fn, scalar, initialValue)
	if err != nil {
		return nil, err
	}

	reductionFn := fn.Closure()
	lhs := reductionFn.NamedInput("lhs", scalar)
	rhs := reductionFn.NamedInput("rhs", scalar)
	combined, err := BinaryOp(combine, lhs, rhs)
	if err != nil {
		return nil, err
	}
	if err = reductionFn.Return(combined); err != nil {
		return nil, err
	}

	reduced, err := ReduceOp(x, initValue, reductionFn, step.Axis)
	if err != nil {
		return nil, err
	}
	if step.ReduceOp != types.ReduceMean {
		return reduced, nil
	}
	count, err := SplatConstant(fn, reduced.shape, x.shape.Dim(step.Axis))
	if err != nil {
		return nil, err
	}
	return BinaryOp(Divide, reduced, count)
}
