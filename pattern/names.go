package pattern

import (
	"github.com/gomlx/einops/internal/utils"
	"github.com/gomlx/einops/types"
)

// NameTable maps the names of the axes left after the reductions to their positions.
// It is read-only once built.
type NameTable struct {
	indices map[string]Index
	names   []string
	reduced utils.Set[string]
}

// BuildNameTable registers every non-reduced axis of the decompositions, including the ellipsis
// under EllipsisName.
//
// Positions are renumbered skipping the reduced axes, so they are positions in the array after
// the reductions are applied. Any name used twice on the left side, reduced or not, is a DuplicateAxisName error.
func BuildNameTable(pattern string, decompositions []Decomposition) (*NameTable, error) {
	t := &NameTable{
		indices: make(map[string]Index),
		reduced: utils.MakeSet[string](),
	}
	seen := make(map[string]Axis)
	var pos positions
	for _, d := range decompositions {
		for _, axis := range d.Axes {
			if first, found := seen[axis.Name]; found {
				return nil, types.Errorf(types.DuplicateAxisName, pattern, axis.Pos,
					"axis %q used twice on the left side (first at offset %d)", axis.Name, first.Pos)
			}
			seen[axis.Name] = axis
			if axis.IsReduced() {
				t.reduced.Insert(axis.Name)
				continue
			}
			if axis.Kind == Ellipsis {
				t.indices[axis.Name] = pos.takeRange()
			} else {
				t.indices[axis.Name] = pos.take()
			}
			t.names = append(t.names, axis.Name)
		}
	}
	return t, nil
}

// Lookup returns the position of a non-reduced axis.
func (t *NameTable) Lookup(name string) (Index, bool) {
	idx, found := t.indices[name]
	return idx, found
}

// IsReduced returns whether name is an axis removed by a reduction.
func (t *NameTable) IsReduced(name string) bool {
	return t.reduced.Has(name)
}

// Names returns the non-reduced axis names in position order.
func (t *NameTable) Names() []string {
	return t.names
}

// Len returns the number of positions, with the ellipsis counting as one.
func (t *NameTable) Len() int {
	return len(t.names)
}

// HasEllipsis returns whether the left side had an ellipsis.
func (t *NameTable) HasEllipsis() bool {
	_, found := t.indices[EllipsisName]
	return found
}
