// Package shapeinference calculates the shape resulting from the primitive operations of a plan
// and validates their inputs.
//
// The plan assembler replays every step of a plan through these functions before returning it,
// and the reference backend uses them to validate its inputs.
package shapeinference

import (
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"

	"github.com/gomlx/einops/internal/utils"
	"github.com/gomlx/einops/types"
	"github.com/gomlx/einops/types/shapes"
)

var (
	// NumberReductions need arithmetic and won't work on booleans.
	NumberReductions = utils.SetWith(
		types.ReduceSum,
		types.ReduceMean,
		types.ReduceProd,
	)

	// OrderReductions only need an ordering of the values, and work on booleans too (false < true).
	OrderReductions = utils.SetWith(
		types.ReduceMin,
		types.ReduceMax,
	)
)

// AdjustAxisToRank returns a positive axis, adjusting negative numbers to the correct rank.
func AdjustAxisToRank(axis, rank int) (int, error) {
	if axis < -rank || axis >= rank {
		return -1, errors.Errorf("axis %d is out of range for the rank %d", axis, rank)
	}
	if axis < 0 {
		axis += rank
	}
	return axis, nil
}

// Reshape returns the operand with the given dimensions.
// The number of elements must be preserved, and all dimensions must be positive.
func Reshape(operand shapes.Shape, dimensions []int) (output shapes.Shape, err error) {
	if !operand.Ok() {
		err = errors.Errorf("Reshape() requires a valid operand, got %s", operand)
		return
	}
	size := 1
	for axis, dim := range dimensions {
		if dim <= 0 {
			err = errors.Errorf("Reshape(%s, %v) got invalid dimension %d for axis %d, it must be positive",
				operand, dimensions, dim, axis)
			return
		}
		size *= dim
	}
	if size != operand.Size() {
		err = errors.Errorf("Reshape(%s, %v) must preserve the number of elements, but %d != %d",
			operand, dimensions, operand.Size(), size)
		return
	}
	output = operand.WithDimensions(dimensions...)
	return
}

// Join returns the shape of the outer product of the operands: the dimensions of the output are
// the concatenation of the dimensions of all operands, in order.
// All operands must have the same dtype.
func Join(operands []shapes.Shape) (output shapes.Shape, err error) {
	if len(operands) == 0 {
		err = errors.New("Join() requires at least one operand")
		return
	}
	dtype := operands[0].DType
	var dimensions []int
	for ii, operand := range operands {
		if !operand.Ok() {
			err = errors.Errorf("Join() got an invalid shape for operand #%d", ii)
			return
		}
		if operand.DType != dtype {
			err = errors.Errorf("Join() requires all operands to have the same dtype, got %s for operand #0 and %s for operand #%d",
				dtype, operand.DType, ii)
			return
		}
		dimensions = append(dimensions, operand.Dimensions...)
	}
	output = shapes.Make(dtype, dimensions...)
	return
}

// Reduce returns the operand with the given axis collapsed by the reduction op.
// Negative axes are counted from the end.
func Reduce(operand shapes.Shape, axis int, op types.ReduceOp) (output shapes.Shape, err error) {
	if !NumberReductions.Has(op) && !OrderReductions.Has(op) {
		err = errors.Errorf("Reduce() requires a reduction operation, got %s", op)
		return
	}
	if operand.DType == dtypes.Bool && NumberReductions.Has(op) {
		err = errors.Errorf("Reduce(%s) is not defined for booleans (operand %s)", op, operand)
		return
	}
	var adjustedAxis int
	adjustedAxis, err = AdjustAxisToRank(axis, operand.Rank())
	if err != nil {
		err = errors.WithMessagef(err, "invalid axis for Reduce(%s, %d)", operand, axis)
		return
	}
	dimensions := slices.Delete(slices.Clone(operand.Dimensions), adjustedAxis, adjustedAxis+1)
	output = operand.WithDimensions(dimensions...)
	return
}

// Transpose all axes of the operand.
// There must be one value in permutations for each axis in the operand.
// The output will have: output.Shape.Dimension[ii] = operand.Shape.Dimension[permutations[i]].
func Transpose(operand shapes.Shape, permutation []int) (output shapes.Shape, err error) {
	rank := operand.Rank()
	if len(permutation) != rank {
		err = errors.Errorf("Transpose() requires all axes permutation to be defined, operand has shape %s, but %d permutation were given",
			operand, len(permutation))
		return
	}
	if rank == 0 {
		return operand, nil
	}

	// Check permutation axes are within range and unique.
	axesSet := slices.Clone(permutation)
	slices.Sort(axesSet)
	for ii, srcAxis := range axesSet {
		if srcAxis < 0 || srcAxis >= rank {
			err = errors.Errorf("invalid permutation axis %d given to Transpose(%s), it must be within the range of its rank",
				srcAxis, operand)
			return
		}
		if ii > 0 && srcAxis == axesSet[ii-1] {
			err = errors.Errorf("invalid permutation given to Transpose(%s, %v), there cannot be any repeated axis, each must appear exactly once",
				operand, permutation)
			return
		}
	}

	output = operand.Clone()
	for axis := range output.Dimensions {
		srcAxis := permutation[axis]
		output.Dimensions[axis] = operand.Dimensions[srcAxis]
	}
	return
}

// IsIdentityPermutation returns whether the permutation leaves every axis in place.
func IsIdentityPermutation(permutation []int) bool {
	for axis, srcAxis := range permutation {
		if axis != srcAxis {
			return false
		}
	}
	return true
}

// Repeat returns the operand with a new axis of dimension count inserted at the given position.
// The axis can be equal to the rank of the operand, to append the new axis at the end.
func Repeat(operand shapes.Shape, axis, count int) (output shapes.Shape, err error) {
	rank := operand.Rank()
	if axis < 0 || axis > rank {
		err = errors.Errorf("Repeat(%s) got axis %d, it must be in the range [0, %d]", operand, axis, rank)
		return
	}
	if count <= 0 {
		err = errors.Errorf("Repeat(%s) got count %d, it must be positive", operand, count)
		return
	}
	dimensions := slices.Insert(slices.Clone(operand.Dimensions), axis, count)
	output = operand.WithDimensions(dimensions...)
	return
}

// Merge returns the shape with each group of axes merged into one axis.
//
// Groups are half-open ranges [start, end) of axes: they must be in order and cover all the axes
// of the operand without gaps. An empty group (start == end) creates an axis of dimension 1.
func Merge(operand shapes.Shape, groups [][2]int) (output shapes.Shape, err error) {
	next := 0
	dimensions := make([]int, 0, len(groups))
	for ii, group := range groups {
		start, end := group[0], group[1]
		if start != next || end < start || end > operand.Rank() {
			err = errors.Errorf("Merge(%s) got invalid group #%d %v: groups must be contiguous ranges covering all axes in order",
				operand, ii, group)
			return
		}
		dim := 1
		for _, d := range operand.Dimensions[start:end] {
			dim *= d
		}
		dimensions = append(dimensions, dim)
		next = end
	}
	if next != operand.Rank() {
		err = errors.Errorf("Merge(%s, %v) must cover all axes, but axes from %d are left out", operand, groups, next)
		return
	}
	output = operand.WithDimensions(dimensions...)
	return
}
