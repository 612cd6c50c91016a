// Package optypes defines OpType and lists the primitive operations a Plan is made of.
package optypes

import (
	"fmt"

	"github.com/gomlx/einops/internal/utils"
)

// OpType is an enum of the primitive array operations emitted by the plan assembler.
type OpType int

//go:generate go tool enumer -type=OpType -output=gen_optype_enumer.go optypes.go

const (
	Invalid OpType = iota

	// ReshapeSplit splits the parenthesized groups of one input into their member axes.
	ReshapeSplit

	// Join combines all inputs into one array whose axes are the concatenation of the inputs' axes.
	Join

	// Reduce collapses one axis with a reduction operation.
	Reduce

	// Permute transposes all axes.
	Permute

	// Repeat inserts a new axis and repeats the data along it.
	Repeat

	// ReshapeMerge merges contiguous runs of axes into single output axes.
	ReshapeMerge

	// Last should always be kept the last, it is used as a counter/marker.
	Last
)

// ToEinops returns the name used when rendering a plan step, e.g. "einops.reshape_split".
func (op OpType) ToEinops() string {
	return fmt.Sprintf("einops.%s", utils.ToSnakeCase(op.String()))
}
