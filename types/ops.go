// Package types defines the enums and the error taxonomy shared by the pattern parser,
// the plan assembler and the backends.
package types

import (
	"strings"
)

// ReduceOp is the operation used to collapse an axis marked for reduction, e.g. `sum(b)`.
type ReduceOp int

//go:generate go tool enumer -type=ReduceOp -trimprefix=Reduce -output=gen_reduceop_enumer.go ops.go

const (
	// ReduceNone marks an axis that is not reduced.
	ReduceNone ReduceOp = iota
	ReduceMin
	ReduceMax
	ReduceSum
	ReduceMean
	ReduceProd
)

// Keyword returns the pattern keyword for the operation, e.g. "sum".
func (op ReduceOp) Keyword() string {
	return strings.ToLower(op.String())
}

// ReduceOpFromKeyword returns the reduction for one of the keywords "min", "max", "sum", "mean" or "prod".
func ReduceOpFromKeyword(keyword string) (ReduceOp, bool) {
	switch keyword {
	case "min":
		return ReduceMin, true
	case "max":
		return ReduceMax, true
	case "sum":
		return ReduceSum, true
	case "mean":
		return ReduceMean, true
	case "prod":
		return ReduceProd, true
	}
	return ReduceNone, false
}
