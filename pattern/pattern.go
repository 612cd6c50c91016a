// Package pattern compiles the text of an einops pattern, like "b (h w) c -> b c h w", into an Expression:
// the per-input axis decompositions, the reductions, the name table and the output composition.
//
// The grammar is:
//
//	pattern   := left '->' right
//	left      := group (',' group)*          // one group per input array
//	group     := (axis | reduction | '..' | '(' (axis | reduction)* ')')*
//	reduction := ('min' | 'max' | 'sum' | 'mean' | 'prod') '(' axis ')'
//	axis      := identifier (':' integer)?
//	right     := (axis | integer | '..' | '(' (axis | integer | '..')* ')')*
//
// Shapes are not known at this stage: checks that need them (derived sizes, ranks) are done
// by the plan assembler in package einops.
package pattern

import (
	"github.com/gomlx/einops/types"
)

// Expression is the validated intermediate representation of a pattern.
type Expression struct {
	Pattern string

	// Inputs holds one decomposition per input array.
	Inputs []Decomposition

	// Reductions in left-to-right, input-major order.
	Reductions []Reduction

	// Names maps the axes that survive the reductions to their position.
	Names *NameTable

	// Output slots.
	Output []Composition

	// Permutation lists, in output order, the NameTable positions of the axes taken from the inputs.
	Permutation []Index

	// Broadcasts are the new output axes, in output order.
	Broadcasts []Broadcast

	// OutputSizes holds sizes declared on the right side for axes that come from the inputs:
	// they must match the sizes of the inputs.
	OutputSizes map[string]int
}

// HasEllipsis returns whether the pattern uses an ellipsis (and hence on both sides).
func (e *Expression) HasEllipsis() bool {
	return e.Names.HasEllipsis()
}

// Parse compiles the pattern for the given number of input arrays.
//
// axisSizes optionally provides the sizes of axes not declared in the pattern itself (it can be nil).
func Parse(text string, numInputs int, axisSizes map[string]int) (*Expression, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{pattern: text, tokens: tokens, axisSizes: axisSizes}
	expr := &Expression{Pattern: text}
	expr.Inputs, err = p.parseLeft(numInputs)
	if err != nil {
		return nil, err
	}
	expr.Reductions = ExtractReductions(expr.Inputs)
	expr.Names, err = BuildNameTable(text, expr.Inputs)
	if err != nil {
		return nil, err
	}
	if err = p.parseRight(expr); err != nil {
		return nil, err
	}
	return expr, nil
}

// parser holds the cursor over the tokens of a pattern.
type parser struct {
	pattern   string
	tokens    []Token
	cursor    int
	axisSizes map[string]int
}

func (p *parser) peek() Token {
	return p.tokens[p.cursor]
}

// next returns the current token and advances, except at the end of the pattern.
func (p *parser) next() Token {
	tok := p.tokens[p.cursor]
	if tok.Kind != TokenEOF {
		p.cursor++
	}
	return tok
}

func (p *parser) errorf(kind types.ErrorKind, tok Token, format string, args ...any) error {
	return types.Errorf(kind, p.pattern, tok.Pos, format, args...)
}

// expect consumes a token of the given kind. A missing ')' is reported as an unbalanced group.
func (p *parser) expect(kind TokenKind, context string) (Token, error) {
	tok := p.next()
	if tok.Kind == kind {
		return tok, nil
	}
	if kind == TokenRParen {
		return tok, p.errorf(types.UnbalancedGroup, tok, "missing ')' %s, got %s", context, tok.Kind)
	}
	return tok, p.errorf(types.UnexpectedToken, tok, "expected %s %s, got %s", kind, context, tok.Kind)
}

// parseAxisName parses `identifier (':' integer)?`, the identifier already consumed.
// The size is 0 if neither the pattern nor the axis sizes given to Parse define it.
func (p *parser) parseAxisName(ident Token) (name string, size int, err error) {
	name = ident.Text
	if p.peek().Kind == TokenColon {
		p.next()
		var sizeTok Token
		sizeTok, err = p.expect(TokenInt, "for the size of axis "+name)
		if err != nil {
			return
		}
		if sizeTok.Value <= 0 {
			err = p.errorf(types.InvalidSize, sizeTok, "size of axis %q must be positive, got %d", name, sizeTok.Value)
			return
		}
		size = sizeTok.Value
	}
	if given, found := p.axisSizes[name]; found {
		if given <= 0 {
			err = p.errorf(types.InvalidSize, ident, "size of axis %q must be positive, got %d", name, given)
			return
		}
		if size != 0 && size != given {
			err = p.errorf(types.SizeMismatch, ident, "axis %q declared with size %d in the pattern and %d in the options",
				name, size, given)
			return
		}
		size = given
	}
	return
}
