// Package reference implements einops.Backend for a simple dense Tensor in pure Go.
//
// It favors simplicity over speed, and it's used to verify plans end to end.
package reference

import (
	"math"

	"github.com/pkg/errors"

	"github.com/gomlx/einops"
	"github.com/gomlx/einops/shapeinference"
	"github.com/gomlx/einops/types"
	"github.com/gomlx/einops/types/shapes"
)

// Backend implements einops.Backend[*Tensor].
type Backend struct{}

// Compile-time check.
var _ einops.Backend[*Tensor] = (*Backend)(nil)

// New returns a new reference Backend.
func New() *Backend {
	return &Backend{}
}

// Shape implements einops.Backend.
func (b *Backend) Shape(x *Tensor) shapes.Shape {
	return x.shape
}

// Reshape implements einops.Backend. The returned tensor shares the values with x.
func (b *Backend) Reshape(x *Tensor, dimensions ...int) (*Tensor, error) {
	shape, err := shapeinference.Reshape(x.shape, dimensions)
	if err != nil {
		return nil, err
	}
	return &Tensor{shape: shape, flat: x.flat}, nil
}

// strides returns the row-major strides of the dimensions.
func strides(dimensions []int) []int {
	s := make([]int, len(dimensions))
	stride := 1
	for axis := len(dimensions) - 1; axis >= 0; axis-- {
		s[axis] = stride
		stride *= dimensions[axis]
	}
	return s
}

// Transpose implements einops.Backend.
func (b *Backend) Transpose(x *Tensor, permutation ...int) (*Tensor, error) {
	shape, err := shapeinference.Transpose(x.shape, permutation)
	if err != nil {
		return nil, err
	}
	inputStrides := strides(x.shape.Dimensions)
	rank := shape.Rank()
	output := &Tensor{shape: shape, flat: make([]float64, len(x.flat))}

	// Iterate over the output in row-major order, keeping the input offset in sync.
	indices := make([]int, rank)
	inputOffset := 0
	for outputOffset := range output.flat {
		output.flat[outputOffset] = x.flat[inputOffset]
		for axis := rank - 1; axis >= 0; axis-- {
			indices[axis]++
			inputOffset += inputStrides[permutation[axis]]
			if indices[axis] < shape.Dimensions[axis] {
				break
			}
			inputOffset -= indices[axis] * inputStrides[permutation[axis]]
			indices[axis] = 0
		}
	}
	return output, nil
}

// Reduce implements einops.Backend.
func (b *Backend) Reduce(x *Tensor, axis int, op types.ReduceOp) (*Tensor, error) {
	shape, err := shapeinference.Reduce(x.shape, axis, op)
	if err != nil {
		return nil, err
	}
	axis, _ = shapeinference.AdjustAxisToRank(axis, x.shape.Rank())
	outer, n, inner := 1, x.shape.Dimensions[axis], 1
	for _, dim := range x.shape.Dimensions[:axis] {
		outer *= dim
	}
	for _, dim := range x.shape.Dimensions[axis+1:] {
		inner *= dim
	}
	output := &Tensor{shape: shape, flat: make([]float64, outer*inner)}
	for o := range outer {
		for i := range inner {
			var acc float64
			switch op {
			case types.ReduceMin:
				acc = math.Inf(1)
			case types.ReduceMax:
				acc = math.Inf(-1)
			case types.ReduceProd:
				acc = 1
			}
			for k := range n {
				v := x.flat[(o*n+k)*inner+i]
				switch op {
				case types.ReduceMin:
					acc = min(acc, v)
				case types.ReduceMax:
					acc = max(acc, v)
				case types.ReduceSum, types.ReduceMean:
					acc += v
				case types.ReduceProd:
					acc *= v
				}
			}
			if op == types.ReduceMean {
				acc /= float64(n)
			}
			output.flat[o*inner+i] = normalize(shape.DType, acc)
		}
	}
	return output, nil
}

// Repeat implements einops.Backend.
func (b *Backend) Repeat(x *Tensor, axis, count int) (*Tensor, error) {
	shape, err := shapeinference.Repeat(x.shape, axis, count)
	if err != nil {
		return nil, err
	}
	outer, inner := 1, 1
	for _, dim := range x.shape.Dimensions[:axis] {
		outer *= dim
	}
	for _, dim := range x.shape.Dimensions[axis:] {
		inner *= dim
	}
	output := &Tensor{shape: shape, flat: make([]float64, 0, shape.Size())}
	for o := range outer {
		block := x.flat[o*inner : (o+1)*inner]
		for range count {
			output.flat = append(output.flat, block...)
		}
	}
	return output, nil
}

// Join implements einops.Backend: the outer product of the tensors.
func (b *Backend) Join(xs ...*Tensor) (*Tensor, error) {
	inputShapes := make([]shapes.Shape, len(xs))
	for i, x := range xs {
		inputShapes[i] = x.shape
	}
	shape, err := shapeinference.Join(inputShapes)
	if err != nil {
		return nil, err
	}
	flat := []float64{1}
	for _, x := range xs {
		product := make([]float64, 0, len(flat)*len(x.flat))
		for _, lhs := range flat {
			for _, rhs := range x.flat {
				product = append(product, normalize(shape.DType, lhs*rhs))
			}
		}
		flat = product
	}
	if len(flat) != shape.Size() {
		return nil, errors.Errorf("Join(): got %d values for shape %s", len(flat), shape)
	}
	return &Tensor{shape: shape, flat: flat}, nil
}
