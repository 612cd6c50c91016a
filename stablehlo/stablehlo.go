// Package stablehlo lowers an einops Plan to a StableHLO program (text format), that can then be
// JIT-compiled and executed by PJRT (github.com/gomlx/gopjrt/pjrt).
//
// FromPlan is the entry point. The Builder, Function and Statement types are a small subset of a
// StableHLO builder, with only the operations needed by plans:
//
//   - ReshapeSplit and ReshapeMerge become "stablehlo.reshape".
//   - Permute becomes "stablehlo.transpose".
//   - Reduce becomes a "stablehlo.reduce" with an inline reduction function, followed by a "stablehlo.divide" for mean.
//   - Repeat becomes a "stablehlo.broadcast_in_dim".
//   - Join broadcasts every input to the joined shape and multiplies them.
//
// See StableHLO documentation and specifications in https://openxla.org/stablehlo/spec
package stablehlo

import "github.com/gomlx/einops/internal/utils"

// NormalizeIdentifier converts the name of an identifier (function name or function input parameter
// name, etc.) to a valid one: only letters, digits, and underscores are allowed.
//
// Invalid characters are replaced with underscores.
// If the name starts with a digit, it is prefixed with an underscore.
func NormalizeIdentifier(name string) string {
	return utils.NormalizeIdentifier(name)
}
