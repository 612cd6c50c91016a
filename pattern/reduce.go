package pattern

// ExtractReductions collects, in left-to-right and input-major order, the axes marked with a reduction.
//
// The indices are those of the joined inputs before any reduction is applied.
func ExtractReductions(decompositions []Decomposition) []Reduction {
	var reductions []Reduction
	for _, d := range decompositions {
		for _, axis := range d.Axes {
			if !axis.IsReduced() {
				continue
			}
			reductions = append(reductions, Reduction{Index: axis.Index, Op: axis.Reduce, Name: axis.Name})
		}
	}
	return reductions
}
