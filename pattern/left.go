package pattern

import (
	"github.com/gomlx/einops/internal/utils"
	"github.com/gomlx/einops/types"
)

// parseLeft parses the input side of the pattern, up to and including the '->'.
func (p *parser) parseLeft(numInputs int) ([]Decomposition, error) {
	var (
		decompositions []Decomposition
		pos            positions
	)
	for {
		decomposition, err := p.parseLeftGroup(len(decompositions), &pos)
		if err != nil {
			return nil, err
		}
		decompositions = append(decompositions, decomposition)
		tok := p.next()
		if tok.Kind == TokenComma {
			continue
		}
		if tok.Kind == TokenArrow {
			break
		}
		// parseLeftGroup only stops at ',', '->' or the end of the pattern.
		return nil, p.errorf(types.MissingArrow, tok, "pattern has no '->' separating inputs from the output")
	}
	if len(decompositions) != numInputs {
		return nil, types.Errorf(types.ArityMismatch, p.pattern, -1,
			"pattern describes %d input(s), but %d array(s) were given", len(decompositions), numInputs)
	}
	return decompositions, nil
}

// parseLeftGroup parses the axes of one input, stopping before ',', '->' or the end of the pattern.
func (p *parser) parseLeftGroup(input int, pos *positions) (Decomposition, error) {
	d := Decomposition{Input: input}
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenComma, TokenArrow, TokenEOF:
			return d, nil

		case TokenIdent, TokenKeyword:
			axis, err := p.parseLeftAxis()
			if err != nil {
				return d, err
			}
			axis.Index = pos.take()
			d.Dims = append(d.Dims, Dim{First: len(d.Axes), Count: 1})
			d.Axes = append(d.Axes, axis)

		case TokenEllipsis:
			p.next()
			d.Dims = append(d.Dims, Dim{First: len(d.Axes), Count: 1, Ellipsis: true})
			d.Axes = append(d.Axes, Axis{Kind: Ellipsis, Name: EllipsisName, Index: pos.takeRange(), Pos: tok.Pos})

		case TokenLParen:
			if err := p.parseLeftParenthesized(&d, pos); err != nil {
				return d, err
			}

		case TokenInt:
			return d, p.errorf(types.AnonymousSizeNotAllowed, tok,
				"integer %d not allowed on the left side: sizes are declared as name:size", tok.Value)

		case TokenRParen:
			return d, p.errorf(types.UnbalancedGroup, tok, "unmatched ')'")

		default:
			return d, p.errorf(types.UnexpectedToken, tok, "unexpected %s on the left side", tok.Kind)
		}
	}
}

// parseLeftAxis parses a named axis or a reduction, like `b`, `b:3` or `sum(b)`.
func (p *parser) parseLeftAxis() (Axis, error) {
	tok := p.next()
	axis := Axis{Kind: Named, Pos: tok.Pos}
	var err error
	if tok.Kind == TokenKeyword {
		axis.Reduce = tok.Op
		if _, err = p.expect(TokenLParen, "after reduction "+tok.Text); err != nil {
			return axis, err
		}
		var ident Token
		if ident, err = p.expect(TokenIdent, "inside reduction "+tok.Text); err != nil {
			return axis, err
		}
		if axis.Name, axis.Size, err = p.parseAxisName(ident); err != nil {
			return axis, err
		}
		_, err = p.expect(TokenRParen, "closing reduction "+tok.Text)
		return axis, err
	}
	axis.Name, axis.Size, err = p.parseAxisName(tok)
	return axis, err
}

// parseLeftParenthesized parses a group like `(h w:4)`, appending its members to d as one dimension.
// At most one member may have an unknown size: it becomes Derived.
func (p *parser) parseLeftParenthesized(d *Decomposition, pos *positions) error {
	open := p.next()
	dim := Dim{First: len(d.Axes), Parenthesized: true}
	derived := -1
	siblingsSize := 1
	// Size errors are only reported once the group is known to be closed.
	var sizeErr error
	for {
		tok := p.peek()
		if tok.Kind == TokenRParen {
			p.next()
			break
		}
		switch tok.Kind {
		case TokenIdent, TokenKeyword:
			// Handled below.
		case TokenEllipsis:
			return p.errorf(types.EllipsisInGroupNotAllowed, tok, "'..' is not allowed inside parentheses on the left side")
		case TokenInt:
			return p.errorf(types.AnonymousSizeNotAllowed, tok,
				"integer %d not allowed inside parentheses on the left side: sizes are declared as name:size", tok.Value)
		case TokenLParen:
			return p.errorf(types.UnexpectedToken, tok, "nested parentheses are not allowed")
		case TokenComma, TokenArrow, TokenEOF:
			return p.errorf(types.UnbalancedGroup, open, "'(' is never closed")
		default:
			return p.errorf(types.UnexpectedToken, tok, "unexpected %s inside parentheses", tok.Kind)
		}
		axis, err := p.parseLeftAxis()
		if err != nil {
			return err
		}
		axis.Index = pos.take()
		switch {
		case axis.Size == 0 && derived < 0:
			derived = len(d.Axes)
			axis.Kind = Derived
		case axis.Size == 0:
			if sizeErr == nil {
				sizeErr = p.errorf(types.AmbiguousDerivedSize, tok,
					"axes %q and %q in the same group have no size: at most one can be derived",
					d.Axes[derived].Name, axis.Name)
			}
		default:
			product, ok := utils.CheckedMul(siblingsSize, axis.Size)
			if !ok && sizeErr == nil {
				sizeErr = p.errorf(types.InvalidSize, tok, "product of the sizes in the group overflows")
			}
			siblingsSize = product
		}
		d.Axes = append(d.Axes, axis)
	}
	if sizeErr != nil {
		return sizeErr
	}
	if derived >= 0 {
		d.Axes[derived].SiblingsSize = siblingsSize
	}
	dim.Count = len(d.Axes) - dim.First
	d.Dims = append(d.Dims, dim)
	return nil
}
