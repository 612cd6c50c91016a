package stablehlo

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/gomlx/einops/types/shapes"
)

// Function represents a `func.func` in StableHLO, or a closure (a region) passed to an operation like Reduce.
type Function struct {
	Builder *Builder

	// Name of the function. It should not include the "@" prefix.
	Name string

	// Inputs to the function.
	Inputs []*Value

	// Outputs types of the function, set by Return.
	Outputs []shapes.Shape

	// Statements in the function body.
	Statements []*Statement

	// Parent of a closure function. It is only set if the function is a closure, and it's the function that created it.
	Parent *Function

	// nextArgID is the next ID to be assigned to new input arguments.
	nextArgID int

	// nextTmpID is the next ID to be assigned to new intermediary values.
	nextTmpID int

	// nextClosureID is the next ID to be assigned to new closures.
	nextClosureID int

	// Returned indicates if the function has a return statement, so it can no longer be changed.
	Returned bool
}

// findRootFn returns the root function of a function tree.
func (fn *Function) findRootFn() *Function {
	rootFn := fn
	for rootFn.Parent != nil {
		rootFn = rootFn.Parent
	}
	return rootFn
}

// newValue creates a new value with the given shape and assigns it to the next available id.
// Ids are shared with the closures of the function, since they are written inline.
func (fn *Function) newValue(shape shapes.Shape) *Value {
	rootFn := fn.findRootFn()
	v := &Value{
		fn:    fn,
		name:  strconv.Itoa(rootFn.nextTmpID),
		shape: shape,
	}
	rootFn.nextTmpID++
	return v
}

// Input creates a new input parameter for the function, named "arg0", "arg1", etc.
//
// The order matters: the compiled program takes its parameters in the order they were created.
func (fn *Function) Input(shape shapes.Shape) *Value {
	value := fn.NamedInput(fmt.Sprintf("arg%d", fn.nextArgID), shape)
	fn.nextArgID++
	return value
}

// NamedInput creates a new input parameter for a function with the given name, which must be unique.
//
// The name is passed through NormalizeIdentifier.
func (fn *Function) NamedInput(name string, shape shapes.Shape) *Value {
	value := &Value{
		fn:    fn,
		name:  NormalizeIdentifier(name),
		shape: shape,
	}
	fn.Inputs = append(fn.Inputs, value)
	return value
}

// Closure creates an unnamed closure function, used as the reduction function of Reduce.
func (fn *Function) Closure() *Function {
	rootFn := fn.findRootFn()
	name := fmt.Sprintf("closure%d", rootFn.nextClosureID)
	rootFn.nextClosureID++
	closureFn := fn.Builder.NewFunction(name)
	closureFn.Parent = fn
	return closureFn
}

// checkOpen returns an error if no more operations can be added to the function.
func (fn *Function) checkOpen(op OpType, operands ...*Value) error {
	if fn.Returned {
		return errors.Errorf("cannot add operation %s after returning, in function %q", op, fn.Name)
	}
	for i, operand := range operands {
		if operand.fn != fn {
			return errors.Errorf("cannot add operation %s to function %q, because operand #%d is not part of the function",
				op, fn.Name, i)
		}
	}
	return nil
}

// addOp adds a new operation to the function.
func (fn *Function) addOp(opType OpType, outputShape shapes.Shape, inputs ...*Value) *Statement {
	stmt := &Statement{
		OpType:  opType,
		Inputs:  inputs,
		Outputs: []*Value{fn.newValue(outputShape)},
	}
	fn.Statements = append(fn.Statements, stmt)
	return stmt
}

// Return adds the return statement to the function.
//
// There can be only one return statement from a Function, and it must be the last
// operation of a function.
func (fn *Function) Return(values ...*Value) error {
	op := FuncReturn
	if fn.Parent != nil {
		op = Return
	}
	if len(values) == 0 {
		return errors.Errorf("Function.Return requires at least one value, in function %q", fn.Name)
	}
	if err := fn.checkOpen(op, values...); err != nil {
		return err
	}
	fn.Returned = true
	fn.Outputs = make([]shapes.Shape, len(values))
	for i, value := range values {
		fn.Outputs[i] = value.shape
	}
	fn.Statements = append(fn.Statements, &Statement{
		OpType: op,
		Inputs: values,
	})
	return nil
}

// Write the function as StableHLO code, with the given indentation.
func (fn *Function) Write(writer io.Writer, indentation string) error {
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
	nextIndent := indentation + IndentationStep

	isClosure := fn.Parent != nil
	if isClosure {
		// Closures are written as the block of a region.
		w("%s^bb0(", indentation)
	} else {
		w("%sfunc.func @%s(", indentation, NormalizeIdentifier(fn.Name))
	}
	for i, input := range fn.Inputs {
		if i > 0 {
			w(", ")
		}
		we(input, nextIndent)
		w(": %s", input.shape.ToStableHLO())
	}
	if isClosure {
		w("):\n")
	} else {
		w(") -> ")
		if len(fn.Outputs) > 1 {
			w("(")
		}
		for i, output := range fn.Outputs {
			if i > 0 {
				w(", ")
			}
			w("%s", output.ToStableHLO())
		}
		if len(fn.Outputs) > 1 {
			w(")")
		}
		w(" {\n")
	}

	for _, stmt := range fn.Statements {
		we(stmt, nextIndent)
		w("\n")
	}

	if !isClosure {
		w("%s}", indentation)
	}
	return err
}
