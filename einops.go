// Package einops compiles einops-style patterns, like "b (h w) c -> b c h w", into plans of primitive
// array operations.
//
// A pattern describes the axes of each input on the left side of "->" (inputs separated by commas), and the
// axes of the output on the right side. Axes can be:
//
//   - Named, optionally with a size: "h" or "h:4".
//   - Grouped with parentheses: "(h w)" splits one input axis, or merges output axes.
//   - Reduced on the left side: "sum(b)", "mean(b)", "min(b)", "max(b)" or "prod(b)".
//   - An ellipsis "..", standing for any number of axes not named.
//   - New on the right side: "c:3", or an integer like "3", repeating the data along a new axis.
//
// Compile checks the pattern against the shapes of the inputs and returns a Plan: an ordered list of
// Steps (ReshapeSplit, Join, Reduce, Permute, Repeat, ReshapeMerge) that a Backend executes with Apply.
// The plan can also be lowered to a StableHLO program with the stablehlo sub-package.
//
// Example:
//
//	plan, err := einops.Compile("b (h w) c -> b c h w", []shapes.Shape{shapes.Make(dtypes.Float32, 8, 12, 3)},
//		einops.WithAxisSize("h", 4))
//
// All errors returned are *types.Error with a types.ErrorKind that can be checked with types.IsKind.
package einops

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/einops/pattern"
	"github.com/gomlx/einops/types/shapes"
)

// DefaultName of plans, if not set with WithName.
const DefaultName = "einops"

// Compile the pattern for the given input shapes, one per input on the left side of the pattern.
//
// It returns an error (a *types.Error) if the pattern is invalid or doesn't match the inputs.
// It's safe to call concurrently. See also Cache to reuse compiled plans.
func Compile(patternText string, inputs []shapes.Shape, options ...Option) (*Plan, error) {
	cfg := newConfig(options)
	expr, err := pattern.Parse(patternText, len(inputs), cfg.axisSizes)
	if err != nil {
		return nil, err
	}
	plan, err := assemble(expr, inputs, cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "einops.Compile(%q, %v)", patternText, inputs)
	}
	klog.V(1).Infof("einops: compiled %q for %v into %d steps, output %s", patternText, inputs, len(plan.Steps), plan.Output)
	return plan, nil
}

// MustCompile is like Compile, but panics on error.
// Useful for patterns known to be valid, e.g. in tests or package-level variables.
func MustCompile(patternText string, inputs []shapes.Shape, options ...Option) *Plan {
	plan, err := Compile(patternText, inputs, options...)
	if err != nil {
		panic(err)
	}
	return plan
}
