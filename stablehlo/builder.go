package stablehlo

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Builder is used to construct a StableHLO program (or "Module").
// See details in New.
type Builder struct {
	name string

	// functions holds all the functions created in the builder's scope, closures included.
	functions []*Function
}

// New creates a new Builder object holding a program in construction.
//
// You have to define the "main" function of the program with Builder.Main (or Builder.NewFunction("main")),
// add the inputs and operations to it and then call Builder.Build to get the program text.
func New(name string) *Builder {
	return &Builder{
		name: name,
	}
}

// elementWriter represents elements of the program that know how to write themselves.
type elementWriter interface {
	Write(w io.Writer, indentation string) error
}

// NewFunction creates a new function and adds it to the program.
//
// The function name must be unique in the program. Inputs are added with Function.Input.
func (b *Builder) NewFunction(name string) *Function {
	fn := &Function{
		Builder: b,
		Name:    name,
	}
	b.functions = append(b.functions, fn)
	return fn
}

const MainFunctionName = "main"

// Main creates the main function of the program.
// It is an alias to Builder.NewFunction("main").
func (b *Builder) Main() *Function {
	return b.NewFunction(MainFunctionName)
}

const IndentationStep = "  "

// Write the StableHLO program (a readable string) to the given writer.
//
// It will write incomplete programs (without a main function or empty statements) without an error
// to help debugging.
//
// See Builder.Build to check and output the program.
func (b *Builder) Write(writer io.Writer) error {
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

	w("module @%s {\n", NormalizeIdentifier(b.name))
	var count int
	for _, fn := range b.functions {
		if fn.Parent != nil {
			// Closures are written by the statements using them.
			continue
		}
		if count > 0 {
			w("\n\n")
		}
		we(fn, IndentationStep)
		count++
	}
	w("\n}\n")
	return err
}

// Build checks the validity and builds the StableHLO program.
//
// If you want the output of an incomplete program (without the checking), use Builder.Write instead.
func (b *Builder) Build() ([]byte, error) {
	hasMain := false
	for _, fn := range b.functions {
		if fn.Name == MainFunctionName && fn.Parent == nil {
			hasMain = true
		}
		if !fn.Returned {
			return nil, errors.Errorf("function %q has no return statement", fn.Name)
		}
	}
	if !hasMain {
		return nil, errors.New("program must have a main function")
	}

	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
