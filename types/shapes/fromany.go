package shapes

import (
	"reflect"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// FromAnyValue returns the shape of a Go value: a scalar of a supported type, or (possibly nested)
// slices of it. Nested slices must be regular: all sub-slices at one level with the same length.
//
// Example:
//
//	shape, err := shapes.FromAnyValue([][]float64{{0, 0}}) // Returns shape (Float64)[1 2]
func FromAnyValue(v any) (Shape, error) {
	var shape Shape
	if v == nil {
		return Invalid(), errors.New("cannot infer the shape of a nil value")
	}
	if err := shapeOfValue(&shape, reflect.ValueOf(v), 0); err != nil {
		return Invalid(), err
	}
	return shape, nil
}

// shapeOfValue walks the value, appending a dimension per slice level the first time the
// level is seen, and checking later sub-slices against it.
func shapeOfValue(shape *Shape, v reflect.Value, level int) error {
	if v.Kind() != reflect.Slice {
		dtype := dtypes.FromGoType(v.Type())
		if dtype == dtypes.InvalidDType {
			return errors.Errorf("cannot convert type %q to a shape (maybe type not supported yet?)", v.Type())
		}
		if level != len(shape.Dimensions) {
			return errors.Errorf("irregular nesting of slices: found a %s at depth %d, expected depth %d",
				v.Type(), level, len(shape.Dimensions))
		}
		shape.DType = dtype
		return nil
	}
	if v.Len() == 0 {
		return errors.Errorf("empty slice of type %s not valid for shape conversion: inner dimensions cannot be inferred", v.Type())
	}
	if level == len(shape.Dimensions) {
		shape.Dimensions = append(shape.Dimensions, v.Len())
	} else if level > len(shape.Dimensions) || shape.Dimensions[level] != v.Len() {
		return errors.Errorf("sub-slices have irregular shapes: length %d at depth %d, expected %v",
			v.Len(), level, shape.Dimensions)
	}
	for i := range v.Len() {
		if err := shapeOfValue(shape, v.Index(i), level+1); err != nil {
			return err
		}
	}
	return nil
}
