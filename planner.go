package einops

import (
	"maps"
	"slices"

	"github.com/gomlx/gopjrt/dtypes"

	"github.com/gomlx/einops/internal/optypes"
	"github.com/gomlx/einops/internal/utils"
	"github.com/gomlx/einops/pattern"
	"github.com/gomlx/einops/shapeinference"
	"github.com/gomlx/einops/types"
	"github.com/gomlx/einops/types/shapes"
)

// assembler turns a parsed pattern and the input shapes into a Plan.
type assembler struct {
	expr  *pattern.Expression
	plan  *Plan
	dtype dtypes.DType

	// width is the number of axes matched by the ellipsis.
	width int

	// dims of the array being transformed, after the inputs are joined.
	dims []int
}

func assemble(expr *pattern.Expression, inputs []shapes.Shape, cfg *config) (*Plan, error) {
	name := cfg.name
	if name == "" {
		name = DefaultName
	}
	a := &assembler{
		expr: expr,
		plan: &Plan{
			Name:      name,
			Pattern:   expr.Pattern,
			Inputs:    make([]shapes.Shape, len(inputs)),
			AxisSizes: make(map[string]int),
		},
	}
	for i, input := range inputs {
		a.plan.Inputs[i] = input.Clone()
	}
	if err := a.checkDTypes(); err != nil {
		return nil, err
	}
	for i := range inputs {
		if err := a.split(i); err != nil {
			return nil, err
		}
	}
	if err := a.checkOutputSizes(); err != nil {
		return nil, err
	}
	a.join()
	if err := a.reduce(); err != nil {
		return nil, err
	}
	if err := a.permute(); err != nil {
		return nil, err
	}
	if err := a.repeat(); err != nil {
		return nil, err
	}
	if err := a.merge(); err != nil {
		return nil, err
	}
	a.plan.Output = shapes.Make(a.dtype, a.dims...)
	if err := a.verify(); err != nil {
		return nil, err
	}
	return a.plan, nil
}

func (a *assembler) errorf(kind types.ErrorKind, pos int, format string, args ...any) error {
	return types.Errorf(kind, a.expr.Pattern, pos, format, args...)
}

func (a *assembler) checkDTypes() error {
	for i, input := range a.plan.Inputs {
		if !input.Ok() {
			return a.errorf(types.DTypeMismatch, -1, "input #%d has an invalid shape", i)
		}
		if i == 0 {
			a.dtype = input.DType
			continue
		}
		if input.DType != a.dtype {
			return a.errorf(types.DTypeMismatch, -1, "all inputs must have the same dtype, input #0 is %s and input #%d is %s",
				a.dtype, i, input.DType)
		}
	}
	return nil
}

// split resolves the sizes of the axes of input #i against its shape, and emits a ReshapeSplit if the
// input has parenthesized groups.
func (a *assembler) split(i int) error {
	d := &a.expr.Inputs[i]
	shape := a.plan.Inputs[i]
	if d.HasEllipsis() {
		a.width = shape.Rank() - (len(d.Dims) - 1)
		if a.width < 0 {
			return a.errorf(types.RankMismatch, -1, "input #%d has shape %s, but the pattern needs at least %d axes",
				i, shape, len(d.Dims)-1)
		}
	} else if shape.Rank() != len(d.Dims) {
		return a.errorf(types.RankMismatch, -1, "input #%d has shape %s, but the pattern describes %d axes",
			i, shape, len(d.Dims))
	}

	var splitDims []int
	inputAxis := 0
	for _, dim := range d.Dims {
		if dim.Ellipsis {
			a.plan.EllipsisDims = slices.Clone(shape.Dimensions[inputAxis : inputAxis+a.width])
			splitDims = append(splitDims, a.plan.EllipsisDims...)
			inputAxis += a.width
			continue
		}
		inputDim := shape.Dimensions[inputAxis]
		inputAxis++
		members := d.DimAxes(dim)
		if !dim.Parenthesized {
			axis := members[0]
			if axis.Size > 0 && axis.Size != inputDim {
				return a.errorf(types.SizeMismatch, axis.Pos, "axis %q declared with size %d, but input #%d has dimension %d",
					axis.Name, axis.Size, i, inputDim)
			}
			a.plan.AxisSizes[axis.Name] = inputDim
			splitDims = append(splitDims, inputDim)
			continue
		}

		groupSize := 1
		for _, axis := range members {
			if axis.Kind == pattern.Derived {
				if axis.SiblingsSize <= 0 {
					return a.errorf(types.InvalidSize, axis.Pos, "can't derive size of axis %q from siblings of size %d",
						axis.Name, axis.SiblingsSize)
				}
				if inputDim%axis.SiblingsSize != 0 {
					return a.errorf(types.ShapeNotDivisible, axis.Pos,
						"can't derive size of axis %q: dimension %d of input #%d is not divisible by %d",
						axis.Name, inputDim, i, axis.SiblingsSize)
				}
				a.plan.AxisSizes[axis.Name] = inputDim / axis.SiblingsSize
			} else {
				a.plan.AxisSizes[axis.Name] = axis.Size
			}
			var ok bool
			if groupSize, ok = utils.CheckedMul(groupSize, a.plan.AxisSizes[axis.Name]); !ok {
				return a.errorf(types.InvalidSize, axis.Pos, "sizes of the group of axis %q overflow", axis.Name)
			}
			splitDims = append(splitDims, a.plan.AxisSizes[axis.Name])
		}
		if groupSize != inputDim {
			pos := -1
			if len(members) > 0 {
				pos = members[0].Pos
			}
			return a.errorf(types.SizeMismatch, pos, "group of axes with total size %d doesn't match dimension %d of input #%d",
				groupSize, inputDim, i)
		}
	}

	if d.HasGroups() {
		a.plan.Steps = append(a.plan.Steps, &Step{
			OpType:     optypes.ReshapeSplit,
			Input:      i,
			Dimensions: splitDims,
			Output:     shape.WithDimensions(splitDims...),
		})
	}
	a.dims = append(a.dims, splitDims...)
	return nil
}

// checkOutputSizes verifies sizes declared on the right side for axes of the inputs.
func (a *assembler) checkOutputSizes() error {
	for _, name := range slices.Sorted(maps.Keys(a.expr.OutputSizes)) {
		size := a.expr.OutputSizes[name]
		if a.plan.AxisSizes[name] != size {
			return a.errorf(types.SizeMismatch, -1, "axis %q declared with size %d on the right side, but it has size %d",
				name, size, a.plan.AxisSizes[name])
		}
	}
	return nil
}

func (a *assembler) join() {
	if len(a.plan.Inputs) <= 1 {
		return
	}
	a.plan.Steps = append(a.plan.Steps, &Step{
		OpType: optypes.Join,
		Output: shapes.Make(a.dtype, a.dims...),
	})
}

// reduce emits the reductions from the last axis to the first, so each reduction leaves
// the positions of the remaining ones unchanged.
func (a *assembler) reduce() error {
	reductions := slices.Clone(a.expr.Reductions)
	slices.SortStableFunc(reductions, func(x, y pattern.Reduction) int {
		return y.Index.Compare(x.Index)
	})
	for _, r := range reductions {
		if a.dtype == dtypes.Bool && shapeinference.NumberReductions.Has(r.Op) {
			return a.errorf(types.DTypeMismatch, -1, "%s(%s) is not defined for arrays of %s", r.Op.Keyword(), r.Name, a.dtype)
		}
		axis := r.Index.Resolve(a.width)
		a.dims = slices.Delete(a.dims, axis, axis+1)
		a.plan.Steps = append(a.plan.Steps, &Step{
			OpType:   optypes.Reduce,
			Axis:     axis,
			ReduceOp: r.Op,
			Output:   shapes.Make(a.dtype, a.dims...),
		})
	}
	return nil
}

// span is the number of axes an index stands for.
func (a *assembler) span(idx pattern.Index) int {
	if idx.Kind == pattern.Range {
		return a.width
	}
	return 1
}

func (a *assembler) permute() error {
	permutation := make([]int, 0, len(a.dims))
	for _, idx := range a.expr.Permutation {
		first := idx.Resolve(a.width)
		for axis := first; axis < first+a.span(idx); axis++ {
			permutation = append(permutation, axis)
		}
	}
	if len(permutation) != len(a.dims) {
		return a.errorf(types.PlanInconsistent, -1, "output uses %d axes of the inputs, but %d are left after reductions",
			len(permutation), len(a.dims))
	}
	if shapeinference.IsIdentityPermutation(permutation) {
		return nil
	}
	dims := make([]int, len(a.dims))
	for axis, srcAxis := range permutation {
		dims[axis] = a.dims[srcAxis]
	}
	a.dims = dims
	a.plan.Steps = append(a.plan.Steps, &Step{
		OpType:      optypes.Permute,
		Permutation: permutation,
		Output:      shapes.Make(a.dtype, a.dims...),
	})
	return nil
}

// repeat inserts the new axes one at a time, in output order, so each lands at its final position.
func (a *assembler) repeat() error {
	for _, b := range a.expr.Broadcasts {
		axis := b.Index.Resolve(a.width)
		if axis > len(a.dims) {
			return a.errorf(types.PlanInconsistent, -1, "new axis at position %d, but the output has only %d axes so far",
				axis, len(a.dims))
		}
		if b.Name != "" {
			a.plan.AxisSizes[b.Name] = b.Size
		}
		a.dims = slices.Insert(a.dims, axis, b.Size)
		if _, ok := numElements(a.dims); !ok {
			return a.errorf(types.InvalidSize, -1, "repeating %d times overflows the number of elements of the output", b.Size)
		}
		a.plan.Steps = append(a.plan.Steps, &Step{
			OpType: optypes.Repeat,
			Axis:   axis,
			Count:  b.Size,
			Output: shapes.Make(a.dtype, a.dims...),
		})
	}
	return nil
}

// merge emits a ReshapeMerge if the output has parenthesized groups.
func (a *assembler) merge() error {
	hasGroups := slices.ContainsFunc(a.expr.Output, func(c pattern.Composition) bool {
		return c.Kind == pattern.Combined
	})
	if !hasGroups {
		return nil
	}
	var groups [][2]int
	start := 0
	for _, c := range a.expr.Output {
		if c.Kind == pattern.Individual {
			// An ellipsis not in a group keeps each of its axes.
			for range a.span(c.Index) {
				groups = append(groups, [2]int{start, start + 1})
				start++
			}
			continue
		}
		length := 0
		for _, member := range c.Members {
			length += a.span(member)
		}
		groups = append(groups, [2]int{start, start + length})
		start += length
	}
	if start != len(a.dims) {
		return a.errorf(types.PlanInconsistent, -1, "output groups cover %d axes, but there are %d", start, len(a.dims))
	}
	dims := make([]int, len(groups))
	for i, group := range groups {
		dims[i] = 1
		for _, dim := range a.dims[group[0]:group[1]] {
			dims[i] *= dim
		}
	}
	a.dims = dims
	a.plan.Steps = append(a.plan.Steps, &Step{
		OpType:     optypes.ReshapeMerge,
		Groups:     groups,
		Dimensions: dims,
		Output:     shapes.Make(a.dtype, a.dims...),
	})
	return nil
}

// verify replays the plan through shape inference, and checks the output rank and size against the pattern.
func (a *assembler) verify() error {
	current := slices.Clone(a.plan.Inputs)
	for i, step := range a.plan.Steps {
		var (
			output shapes.Shape
			err    error
		)
		switch step.OpType {
		case optypes.ReshapeSplit:
			output, err = shapeinference.Reshape(current[step.Input], step.Dimensions)
		case optypes.Join:
			output, err = shapeinference.Join(current)
		case optypes.Reduce:
			output, err = shapeinference.Reduce(current[0], step.Axis, step.ReduceOp)
		case optypes.Permute:
			output, err = shapeinference.Transpose(current[0], step.Permutation)
		case optypes.Repeat:
			output, err = shapeinference.Repeat(current[0], step.Axis, step.Count)
		case optypes.ReshapeMerge:
			output, err = shapeinference.Merge(current[0], step.Groups)
		default:
			return a.errorf(types.PlanInconsistent, -1, "step #%d has invalid type %s", i, step.OpType)
		}
		if err != nil {
			return types.Wrapf(err, types.PlanInconsistent, a.expr.Pattern, "step #%d %s", i, step)
		}
		if !output.Equal(step.Output) {
			return a.errorf(types.PlanInconsistent, -1, "step #%d %s outputs %s, but the plan expects %s",
				i, step, output, step.Output)
		}
		if step.OpType == optypes.ReshapeSplit {
			current[step.Input] = output
		} else {
			current = []shapes.Shape{output}
		}
	}
	if len(current) != 1 || !current[0].Equal(a.plan.Output) {
		return a.errorf(types.PlanInconsistent, -1, "steps produce %v, but the plan output is %s", current, a.plan.Output)
	}

	// One axis per output slot, except a bare ellipsis that keeps all its axes.
	rank := 0
	for _, c := range a.expr.Output {
		if c.Kind == pattern.Individual {
			rank += a.span(c.Index)
		} else {
			rank++
		}
	}
	if rank != a.plan.Output.Rank() {
		return a.errorf(types.PlanInconsistent, -1, "output %s should have rank %d", a.plan.Output, rank)
	}

	// The elements kept from the inputs, repeated along the new axes.
	var dims []int
	for _, name := range a.expr.Names.Names() {
		if name == pattern.EllipsisName {
			dims = append(dims, a.plan.EllipsisDims...)
			continue
		}
		dims = append(dims, a.plan.AxisSizes[name])
	}
	for _, b := range a.expr.Broadcasts {
		dims = append(dims, b.Size)
	}
	size, ok := numElements(dims)
	if !ok {
		return a.errorf(types.PlanInconsistent, -1, "number of elements of output %s overflows", a.plan.Output)
	}
	if size != a.plan.Output.Size() {
		return a.errorf(types.PlanInconsistent, -1, "output %s should have %d elements", a.plan.Output, size)
	}
	return nil
}

// numElements returns the product of dims, and false if it overflows an int.
func numElements(dims []int) (int, bool) {
	size := 1
	for _, dim := range dims {
		var ok bool
		if size, ok = utils.CheckedMul(size, dim); !ok {
			return 0, false
		}
	}
	return size, true
}
