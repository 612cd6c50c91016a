package einops

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/einops/internal/optypes"
	"github.com/gomlx/einops/types"
	"github.com/gomlx/einops/types/shapes"
)

// Backend executes the primitive operations of a plan over its native array type T.
//
// Failures, including operations not supported for the array dtype, must be returned as errors
// (or panics with an error), never silently ignored.
type Backend[T any] interface {
	// Shape returns the shape of the array.
	Shape(x T) shapes.Shape

	// Reshape returns the array with the same elements, in the same row-major order, with the given dimensions.
	Reshape(x T, dimensions ...int) (T, error)

	// Transpose returns the array with its axes permuted: output axis i is the input axis permutation[i].
	Transpose(x T, permutation ...int) (T, error)

	// Reduce collapses the given axis with the reduction op.
	Reduce(x T, axis int, op types.ReduceOp) (T, error)

	// Repeat inserts a new axis at the given position (which may be equal to the rank),
	// with the data repeated count times along it.
	Repeat(x T, axis, count int) (T, error)

	// Join returns the outer product of the arrays: output[i..., j..., ...] = x0[i...] * x1[j...] * ...
	Join(xs ...T) (T, error)
}

// Apply executes the plan over the inputs with the given backend.
//
// The inputs must match the shapes the plan was compiled for. Backend errors (and panics) are returned as
// types.BackendFailure errors, wrapping the original error.
func Apply[T any](backend Backend[T], plan *Plan, inputs ...T) (output T, err error) {
	if len(inputs) != len(plan.Inputs) {
		err = types.Errorf(types.ArityMismatch, plan.Pattern, -1, "plan was compiled for %d input(s), but %d were given",
			len(plan.Inputs), len(inputs))
		return
	}
	for i, input := range inputs {
		shape := backend.Shape(input)
		if shape.Equal(plan.Inputs[i]) {
			continue
		}
		kind := types.SizeMismatch
		if shape.DType != plan.Inputs[i].DType {
			kind = types.DTypeMismatch
		} else if shape.Rank() != plan.Inputs[i].Rank() {
			kind = types.RankMismatch
		}
		err = types.Errorf(kind, plan.Pattern, -1, "input #%d has shape %s, but the plan was compiled for %s",
			i, shape, plan.Inputs[i])
		return
	}

	values := make([]T, len(inputs))
	copy(values, inputs)
	for i, step := range plan.Steps {
		klog.V(2).Infof("einops: %q step #%d: %s", plan.Pattern, i, step)
		var stepErr error
		panicErr := exceptions.TryCatch[error](func() {
			values, stepErr = applyStep(backend, step, values)
		})
		if panicErr != nil {
			stepErr = panicErr
		}
		if stepErr != nil {
			err = types.Wrapf(stepErr, types.BackendFailure, plan.Pattern, "step #%d %s failed", i, step)
			return
		}
	}
	if len(values) != 1 {
		err = types.Errorf(types.PlanInconsistent, plan.Pattern, -1, "plan ended with %d arrays", len(values))
		return
	}
	output = values[0]
	if shape := backend.Shape(output); !shape.Equal(plan.Output) {
		err = types.Errorf(types.BackendFailure, plan.Pattern, -1, "backend returned output with shape %s, but plan expects %s",
			shape, plan.Output)
	}
	return
}

// applyStep executes one step over the current values, returning the new values.
func applyStep[T any](backend Backend[T], step *Step, values []T) ([]T, error) {
	var (
		x   T
		err error
	)
	switch step.OpType {
	case optypes.ReshapeSplit:
		x, err = backend.Reshape(values[step.Input], step.Dimensions...)
		if err != nil {
			return nil, err
		}
		values[step.Input] = x
		return values, nil
	case optypes.Join:
		x, err = backend.Join(values...)
	case optypes.Reduce:
		x, err = backend.Reduce(values[0], step.Axis, step.ReduceOp)
	case optypes.Permute:
		x, err = backend.Transpose(values[0], step.Permutation...)
	case optypes.Repeat:
		x, err = backend.Repeat(values[0], step.Axis, step.Count)
	case optypes.ReshapeMerge:
		x, err = backend.Reshape(values[0], step.Dimensions...)
	default:
		return nil, errors.Errorf("unknown step type %s", step.OpType)
	}
	if err != nil {
		return nil, err
	}
	return []T{x}, nil
}

// Execute compiles the pattern for the shapes of the inputs, using a default Cache, and applies it with the backend.
//
// It is the equivalent of einops' rearrange, reduce and repeat functions, which all accept the same patterns.
func Execute[T any](backend Backend[T], patternText string, inputs []T, options ...Option) (output T, err error) {
	inputShapes := make([]shapes.Shape, len(inputs))
	for i, input := range inputs {
		inputShapes[i] = backend.Shape(input)
	}
	var plan *Plan
	plan, err = defaultCache.Compile(patternText, inputShapes, options...)
	if err != nil {
		return
	}
	return Apply(backend, plan, inputs...)
}
