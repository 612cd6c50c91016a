package pattern

import (
	"cmp"
	"fmt"

	"github.com/gomlx/einops/types"
)

// IndexKind tells how an Index position relates to the ellipsis.
type IndexKind int

const (
	// Known positions come before any ellipsis: they are the concrete axis.
	Known IndexKind = iota

	// Unknown positions come after the ellipsis: the concrete axis depends on the ellipsis width.
	Unknown

	// Range is the ellipsis slot itself.
	Range
)

// String implements fmt.Stringer.
func (k IndexKind) String() string {
	switch k {
	case Known:
		return "Known"
	case Unknown:
		return "Unknown"
	case Range:
		return "Range"
	}
	return fmt.Sprintf("IndexKind(%d)", int(k))
}

// Index is the position of an axis where the ellipsis counts as a single slot.
//
// Comparison and equality only look at Pos, never at Kind.
type Index struct {
	Pos  int
	Kind IndexKind
}

// Equal compares only the positions.
func (idx Index) Equal(other Index) bool {
	return idx.Pos == other.Pos
}

// Compare returns -1, 0 or +1 comparing only the positions.
func (idx Index) Compare(other Index) int {
	return cmp.Compare(idx.Pos, other.Pos)
}

// Resolve returns the concrete axis, given the number of axes the ellipsis expands to.
// For a Range it returns the first axis of the ellipsis run.
func (idx Index) Resolve(ellipsisWidth int) int {
	if idx.Kind == Unknown {
		return idx.Pos + ellipsisWidth - 1
	}
	return idx.Pos
}

// String implements fmt.Stringer.
func (idx Index) String() string {
	return fmt.Sprintf("%s(%d)", idx.Kind, idx.Pos)
}

// positions numbers axes in two regimes: Known until an ellipsis is taken, Unknown afterwards.
type positions struct {
	next         int
	pastEllipsis bool
}

func (p *positions) take() Index {
	idx := Index{Pos: p.next, Kind: Known}
	if p.pastEllipsis {
		idx.Kind = Unknown
	}
	p.next++
	return idx
}

func (p *positions) takeRange() Index {
	idx := Index{Pos: p.next, Kind: Range}
	p.next++
	p.pastEllipsis = true
	return idx
}

// AxisKind distinguishes the axes of a decomposition.
type AxisKind int

const (
	// Named axis, with optionally declared size and reduction.
	Named AxisKind = iota

	// Derived axis: the single member of a parenthesized group without a size.
	Derived

	// Ellipsis stands for zero or more unnamed axes.
	Ellipsis
)

// EllipsisName is the name under which the ellipsis is registered in the NameTable.
const EllipsisName = ".."

// Axis is one axis of an input decomposition.
type Axis struct {
	Kind AxisKind

	// Name of the axis, EllipsisName for the ellipsis.
	Name string

	// Size declared in the pattern (or through options), 0 if not declared.
	Size int

	// SiblingsSize is, for Derived axes, the product of the declared sizes of the other
	// members of the group. The derived size is the input dimension divided by it.
	SiblingsSize int

	// Reduce is the reduction applied to this axis, types.ReduceNone if it is kept.
	Reduce types.ReduceOp

	// Index of the axis in the (joined) input, before reductions.
	Index Index

	// Pos is the byte offset of the axis in the pattern.
	Pos int
}

// IsReduced returns whether the axis is collapsed by a reduction.
func (a Axis) IsReduced() bool {
	return a.Reduce != types.ReduceNone
}

// Dim maps one dimension of an input (or the ellipsis run) to its axes.
type Dim struct {
	// First axis and number of axes, in Decomposition.Axes.
	First, Count int

	// Parenthesized is set for groups, like `(h w)`. A parenthesized group may have 0 axes.
	Parenthesized bool

	// Ellipsis is set if the dimension is the ellipsis run.
	Ellipsis bool
}

// Decomposition is the ordered list of axes of one input.
type Decomposition struct {
	// Input is the position of the input in the pattern.
	Input int

	// Axes after splitting groups, the ellipsis counting as one axis.
	Axes []Axis

	// Dims holds one entry per input dimension consumed, in order.
	Dims []Dim
}

// HasEllipsis returns whether the input has an ellipsis.
func (d *Decomposition) HasEllipsis() bool {
	for _, dim := range d.Dims {
		if dim.Ellipsis {
			return true
		}
	}
	return false
}

// HasGroups returns whether any dimension is parenthesized, which requires a split of the input.
func (d *Decomposition) HasGroups() bool {
	for _, dim := range d.Dims {
		if dim.Parenthesized {
			return true
		}
	}
	return false
}

// DimAxes returns the axes of the given dimension.
func (d *Decomposition) DimAxes(dim Dim) []Axis {
	return d.Axes[dim.First : dim.First+dim.Count]
}

// CompositionKind distinguishes the output slots.
type CompositionKind int

const (
	// Individual output axis.
	Individual CompositionKind = iota

	// Combined output axis: the product of a parenthesized group of axes.
	Combined
)

// Composition is one output slot.
type Composition struct {
	Kind CompositionKind

	// Index of an Individual slot.
	Index Index

	// From and To are the first and last member of a Combined slot. Both are zero for an empty group.
	From, To Index

	// Members of a Combined slot. The merged run has exactly len(Members) positions.
	Members []Index

	// Pos is the byte offset in the pattern.
	Pos int
}

// Indices returns the positions the slot covers before merging: the Index for Individual slots,
// the Members for Combined slots.
func (c Composition) Indices() []Index {
	if c.Kind == Individual {
		return []Index{c.Index}
	}
	return c.Members
}

// Reduction of one axis, to be applied after all inputs are joined and before the permutation.
type Reduction struct {
	// Index of the axis before any reduction.
	Index Index
	Op    types.ReduceOp
	Name  string
}

// Broadcast is a new output axis, materialized by repeating the data.
type Broadcast struct {
	// Index of the new axis in the output, before merging groups.
	Index Index
	Size  int

	// Name of the axis, empty for integer literals.
	Name string
}
