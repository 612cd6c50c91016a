package stablehlo

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Statement represents a single operation line in StableHLO.
type Statement struct {
	// OpType is the type of the operation.
	OpType OpType

	// Inputs to the operation.
	Inputs []*Value

	// Attributes of the operation, written sorted by name.
	Attributes map[string]literal

	// Regions are closures taken by the operation, e.g. the reduction function of Reduce.
	Regions []*Function

	// Outputs of the operation. It is nil for the return operations.
	Outputs []*Value
}

// literal is an attribute value already rendered in StableHLO text.
type literal string

func literalF(format string, args ...any) literal {
	return literal(fmt.Sprintf(format, args...))
}

// intsLiteral renders a list of ints as a StableHLO `array<i64: ...>` attribute.
func intsLiteral(values []int) literal {
	if len(values) == 0 {
		return "array<i64>"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return literalF("array<i64: %s>", strings.Join(parts, ", "))
}

// Write writes a string representation of the statement to the given writer.
func (s *Statement) Write(writer io.Writer, indentation string) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}
	we := func(e elementWriter, indentation string) {
		if err != nil {
			return
		}
		err = e.Write(writer, indentation)
	}

	// Output values are written first:
	w("%s", indentation)
	if len(s.Outputs) > 0 {
		for i, output := range s.Outputs {
			if i > 0 {
				w(", ")
			}
			we(output, indentation)
		}
		w(" = ")
	}

	// Op name and arguments:
	w("%q(", s.OpType.ToStableHLO())
	for i, input := range s.Inputs {
		if i > 0 {
			w(", ")
		}
		we(input, indentation)
	}
	w(")")

	// Regions:
	if len(s.Regions) > 0 {
		w(" (")
		for i, region := range s.Regions {
			if i > 0 {
				w(", ")
			}
			w("{\n")
			we(region, indentation+IndentationStep)
			w("%s}", indentation)
		}
		w(")")
	}

	// Attributes, sorted so the program text is deterministic:
	if len(s.Attributes) > 0 {
		if len(s.Regions) > 0 {
			w(" ")
		}
		w("{")
		for i, key := range slices.Sorted(maps.Keys(s.Attributes)) {
			if i > 0 {
				w(", ")
			}
			w("%s = %s", key, s.Attributes[key])
		}
		w("}")
	}

	// Signature:
	w(" : (")
	for i, input := range s.Inputs {
		if i > 0 {
			w(", ")
		}
		w("%s", input.shape.ToStableHLO())
	}
	w(") -> ")
	if len(s.Outputs) == 0 {
		w("()")
	} else {
		if len(s.Outputs) > 1 {
			w("(")
		}
		for i, output := range s.Outputs {
			if i > 0 {
				w(", ")
			}
			w("%s", output.shape.ToStableHLO())
		}
		if len(s.Outputs) > 1 {
			w(")")
		}
	}
	return err
}
