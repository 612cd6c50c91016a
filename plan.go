package einops

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/gomlx/einops/internal/optypes"
	"github.com/gomlx/einops/types"
	"github.com/gomlx/einops/types/shapes"
)

// Step is one primitive array operation of a Plan.
//
// Before the Join step (or when there is a single input) a plan works on the inputs individually;
// after it, every step works on the single joined array.
type Step struct {
	OpType optypes.OpType

	// Input is the input array split by a ReshapeSplit.
	Input int

	// Dimensions of the output of a ReshapeSplit or a ReshapeMerge.
	Dimensions []int

	// Axis reduced by Reduce, or inserted by Repeat.
	Axis int

	// ReduceOp used by Reduce.
	ReduceOp types.ReduceOp

	// Permutation used by Permute: output axis i is input axis Permutation[i].
	Permutation []int

	// Count is the size of the axis inserted by Repeat.
	Count int

	// Groups merged by ReshapeMerge, as [start, end) ranges of axes. An empty range creates an axis of size 1.
	Groups [][2]int

	// Output shape of the step.
	Output shapes.Shape
}

// String implements fmt.Stringer.
func (s *Step) String() string {
	switch s.OpType {
	case optypes.ReshapeSplit:
		return fmt.Sprintf("%s(input=%d, dims=%v)", s.OpType, s.Input, s.Dimensions)
	case optypes.Join:
		return fmt.Sprintf("%s()", s.OpType)
	case optypes.Reduce:
		return fmt.Sprintf("%s(axis=%d, op=%s)", s.OpType, s.Axis, s.ReduceOp.Keyword())
	case optypes.Permute:
		return fmt.Sprintf("%s(%v)", s.OpType, s.Permutation)
	case optypes.Repeat:
		return fmt.Sprintf("%s(axis=%d, count=%d)", s.OpType, s.Axis, s.Count)
	case optypes.ReshapeMerge:
		return fmt.Sprintf("%s(groups=%v, dims=%v)", s.OpType, s.Groups, s.Dimensions)
	}
	return s.OpType.String()
}

// attributes returns the attributes of the step rendered by Plan.Write.
func (s *Step) attributes() string {
	switch s.OpType {
	case optypes.ReshapeSplit:
		return fmt.Sprintf("{dims = %v}", s.Dimensions)
	case optypes.ReshapeMerge:
		return fmt.Sprintf("{groups = %v, dims = %v}", s.Groups, s.Dimensions)
	case optypes.Reduce:
		return fmt.Sprintf("{axis = %d, op = %q}", s.Axis, s.ReduceOp.Keyword())
	case optypes.Permute:
		return fmt.Sprintf("{permutation = %v}", s.Permutation)
	case optypes.Repeat:
		return fmt.Sprintf("{axis = %d, count = %d}", s.Axis, s.Count)
	}
	return ""
}

// Plan is the compiled form of a pattern for a given set of input shapes: the ordered list of primitive
// operations that turns the inputs into the output.
//
// A Plan is immutable once returned by Compile, and can be used concurrently.
type Plan struct {
	// Name of the plan, see WithName.
	Name string

	// Pattern compiled.
	Pattern string

	// Inputs are the shapes of the input arrays the plan was compiled for.
	Inputs []shapes.Shape

	// Output shape.
	Output shapes.Shape

	// Steps to apply, strictly in order.
	Steps []*Step

	// AxisSizes holds the size of every named axis, including reduced, derived and new axes.
	AxisSizes map[string]int

	// EllipsisDims are the dimensions matched by the ellipsis, empty if the pattern has none.
	EllipsisDims []int
}

// StepsOf returns the steps of the given type, in order.
func (p *Plan) StepsOf(opType optypes.OpType) []*Step {
	var steps []*Step
	for _, step := range p.Steps {
		if step.OpType == opType {
			steps = append(steps, step)
		}
	}
	return steps
}

// OpTypes returns the type of each step, in order.
func (p *Plan) OpTypes() []optypes.OpType {
	ops := make([]optypes.OpType, len(p.Steps))
	for i, step := range p.Steps {
		ops[i] = step.OpType
	}
	return ops
}

// Write the plan in a human-readable form, one step per line, in the same style as StableHLO code.
// Input arrays are named %arg0, %arg1, ..., and step outputs %0, %1, ...
func (p *Plan) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}

	w("// %s: %q\n", p.Name, p.Pattern)
	values := make([]string, len(p.Inputs))
	valueShapes := slices.Clone(p.Inputs)
	for i := range values {
		values[i] = fmt.Sprintf("%%arg%d", i)
	}
	for i, step := range p.Steps {
		output := fmt.Sprintf("%%%d", i)
		var inputs []string
		var inputShapes []shapes.Shape
		switch step.OpType {
		case optypes.ReshapeSplit:
			inputs, inputShapes = values[step.Input:step.Input+1], valueShapes[step.Input:step.Input+1]
		case optypes.Join:
			inputs, inputShapes = values, valueShapes
		default:
			inputs, inputShapes = values[:1], valueShapes[:1]
		}
		w("%s = %q(", output, step.OpType.ToEinops())
		for j, input := range inputs {
			if j > 0 {
				w(", ")
			}
			w("%s", input)
		}
		w(")%s : (", step.attributes())
		for j, shape := range inputShapes {
			if j > 0 {
				w(", ")
			}
			w("%s", shape.ToStableHLO())
		}
		w(") -> %s\n", step.Output.ToStableHLO())

		switch step.OpType {
		case optypes.ReshapeSplit:
			values[step.Input], valueShapes[step.Input] = output, step.Output
		default:
			values, valueShapes = []string{output}, []shapes.Shape{step.Output}
		}
	}
	if len(values) == 1 {
		w("return %s : %s\n", values[0], valueShapes[0].ToStableHLO())
	}
	return err
}

// String implements fmt.Stringer, see Plan.Write.
func (p *Plan) String() string {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return fmt.Sprintf("Plan(%q): failed to write: %v", p.Pattern, err)
	}
	return buf.String()
}
