package reference

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/gomlx/einops/types/shapes"
)

// Element is the constraint of the Go types that can be stored in a Tensor.
type Element interface {
	bool | float16.Float16 | float32 | float64 |
		int | int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64
}

// Tensor is an immutable dense array in row-major order.
//
// Values are stored as float64 regardless of the dtype, and rounded to the dtype after every operation.
type Tensor struct {
	shape shapes.Shape
	flat  []float64
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape {
	return t.shape
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("%s%v", t.shape, t.flat)
}

// FromFlat creates a tensor from a flat slice of values in row-major order and its dimensions.
func FromFlat[T Element](flat []T, dimensions ...int) (*Tensor, error) {
	var zero T
	dtype := dtypes.FromAny(zero)
	size := 1
	for _, dim := range dimensions {
		if dim <= 0 {
			return nil, errors.Errorf("FromFlat(): invalid dimensions %v", dimensions)
		}
		size *= dim
	}
	if size != len(flat) {
		return nil, errors.Errorf("FromFlat(): %d values given for dimensions %v (size %d)", len(flat), dimensions, size)
	}
	t := &Tensor{shape: shapes.Make(dtype, dimensions...), flat: make([]float64, len(flat))}
	for i, v := range flat {
		t.flat[i] = toFloat64(v)
	}
	return t, nil
}

// FromValue creates a tensor from a scalar or a (possibly nested) slice of a supported type.
//
// Example:
//
//	t, err := reference.FromValue([][]float32{{1, 2, 3}, {4, 5, 6}})
func FromValue(value any) (*Tensor, error) {
	shape, err := shapes.FromAnyValue(value)
	if err != nil {
		return nil, errors.WithMessage(err, "reference.FromValue()")
	}
	t := &Tensor{shape: shape, flat: make([]float64, 0, shape.Size())}
	var collect func(v reflect.Value) error
	collect = func(v reflect.Value) error {
		if v.Kind() == reflect.Slice {
			for i := range v.Len() {
				if err := collect(v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		}
		f, err := anyToFloat64(v.Interface())
		if err != nil {
			return err
		}
		t.flat = append(t.flat, f)
		return nil
	}
	if err = collect(reflect.ValueOf(value)); err != nil {
		return nil, errors.WithMessage(err, "reference.FromValue()")
	}
	return t, nil
}

// Iota returns a tensor of the given shape with the values 0, 1, 2, ... in row-major order.
func Iota(dtype dtypes.DType, dimensions ...int) *Tensor {
	t := &Tensor{shape: shapes.Make(dtype, dimensions...)}
	t.flat = make([]float64, t.shape.Size())
	for i := range t.flat {
		t.flat[i] = normalize(dtype, float64(i))
	}
	return t
}

// Flat returns a copy of the values of the tensor in row-major order.
// T must match the dtype of the tensor.
func Flat[T Element](t *Tensor) ([]T, error) {
	var zero T
	if dtype := dtypes.FromAny(zero); dtype != t.shape.DType {
		return nil, errors.Errorf("Flat[%T]() called for tensor of dtype %s, expected %s", zero, t.shape.DType, dtype)
	}
	flat := make([]T, len(t.flat))
	for i, v := range t.flat {
		flat[i] = fromFloat64[T](v)
	}
	return flat, nil
}

// At returns the value at the given indices, converted to float64.
func (t *Tensor) At(indices ...int) float64 {
	if len(indices) != t.shape.Rank() {
		panic(errors.Errorf("Tensor.At(%v) for tensor of shape %s", indices, t.shape))
	}
	offset := 0
	for axis, idx := range indices {
		offset = offset*t.shape.Dimensions[axis] + idx
	}
	return t.flat[offset]
}

// Equal returns whether both tensors have the same shape and values.
func (t *Tensor) Equal(other *Tensor) bool {
	return t.shape.Equal(other.shape) && slices.Equal(t.flat, other.flat)
}

// normalize rounds v to a value representable by dtype.
func normalize(dtype dtypes.DType, v float64) float64 {
	switch {
	case dtype == dtypes.Bool:
		if v != 0 {
			return 1
		}
		return 0
	case dtype.IsInt() || dtype.IsUnsigned():
		return math.Trunc(v)
	case dtype == dtypes.Float32:
		return float64(float32(v))
	case dtype == dtypes.Float16:
		return float64(float16.Fromfloat32(float32(v)).Float32())
	}
	return v
}

func toFloat64[T Element](v T) float64 {
	f, _ := anyToFloat64(v)
	return f
}

func anyToFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float16.Float16:
		return float64(x.Float32()), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	return 0, errors.Errorf("unsupported value type %T", v)
}

func fromFloat64[T Element](v float64) T {
	var zero T
	var result any
	switch any(zero).(type) {
	case bool:
		result = v != 0
	case float16.Float16:
		result = float16.Fromfloat32(float32(v))
	case float32:
		result = float32(v)
	case float64:
		result = v
	case int:
		result = int(v)
	case int8:
		result = int8(v)
	case int16:
		result = int16(v)
	case int32:
		result = int32(v)
	case int64:
		result = int64(v)
	case uint8:
		result = uint8(v)
	case uint16:
		result = uint16(v)
	case uint32:
		result = uint32(v)
	case uint64:
		result = uint64(v)
	}
	return result.(T)
}
