package pattern

import (
	"github.com/gomlx/einops/internal/utils"
	"github.com/gomlx/einops/types"
)

// rightState is the state of the right-side composer.
type rightState struct {
	expr *Expression
	pos  positions
	used utils.Set[string]
}

// parseRight parses the output side of the pattern, after the '->', filling the Output, Permutation,
// Broadcasts and OutputSizes of expr.
func (p *parser) parseRight(expr *Expression) error {
	s := &rightState{expr: expr, used: utils.MakeSet[string]()}
	expr.OutputSizes = make(map[string]int)
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenEOF:
			return p.checkAllUsed(s)

		case TokenLParen:
			composition, err := p.parseRightParenthesized(s)
			if err != nil {
				return err
			}
			expr.Output = append(expr.Output, composition)

		case TokenRParen:
			return p.errorf(types.UnbalancedGroup, tok, "unmatched ')'")

		case TokenIdent, TokenInt, TokenEllipsis:
			idx, err := p.parseRightMember(s)
			if err != nil {
				return err
			}
			expr.Output = append(expr.Output, Composition{Kind: Individual, Index: idx, Pos: tok.Pos})

		case TokenKeyword:
			return p.errorf(types.UnexpectedToken, tok, "reduction %q not allowed on the right side", tok.Text)

		case TokenComma:
			return p.errorf(types.UnexpectedToken, tok, "the output side describes a single array, ',' not allowed")

		default:
			return p.errorf(types.UnexpectedToken, tok, "unexpected %s on the right side", tok.Kind)
		}
	}
}

// parseRightMember parses an axis name, an integer or the ellipsis, and returns its output position.
func (p *parser) parseRightMember(s *rightState) (Index, error) {
	tok := p.next()
	switch tok.Kind {
	case TokenEllipsis:
		leftIdx, found := s.expr.Names.Lookup(EllipsisName)
		if !found {
			return Index{}, p.errorf(types.EllipsisSideMismatch, tok, "'..' on the right side but not on the left side")
		}
		if s.used.Has(EllipsisName) {
			return Index{}, p.errorf(types.DuplicateAxisName, tok, "'..' used twice on the right side")
		}
		s.used.Insert(EllipsisName)
		s.expr.Permutation = append(s.expr.Permutation, leftIdx)
		return s.pos.takeRange(), nil

	case TokenInt:
		if tok.Value <= 0 {
			return Index{}, p.errorf(types.InvalidSize, tok, "new axis size must be positive, got %d", tok.Value)
		}
		idx := s.pos.take()
		s.expr.Broadcasts = append(s.expr.Broadcasts, Broadcast{Index: idx, Size: tok.Value})
		return idx, nil

	case TokenIdent:
		name, size, err := p.parseAxisName(tok)
		if err != nil {
			return Index{}, err
		}
		if s.expr.Names.IsReduced(name) {
			return Index{}, p.errorf(types.ReferenceToReducedAxis, tok,
				"axis %q is reduced on the left side and can't be used on the right side", name)
		}
		if s.used.Has(name) {
			return Index{}, p.errorf(types.DuplicateAxisName, tok, "axis %q used twice on the right side", name)
		}
		s.used.Insert(name)
		if leftIdx, found := s.expr.Names.Lookup(name); found {
			if size > 0 {
				s.expr.OutputSizes[name] = size
			}
			s.expr.Permutation = append(s.expr.Permutation, leftIdx)
			return s.pos.take(), nil
		}
		if size == 0 {
			return Index{}, p.errorf(types.UnresolvedAxisNeedsSize, tok,
				"new axis %q is not on the left side and has no size: declare it as %s:<size>", name, name)
		}
		idx := s.pos.take()
		s.expr.Broadcasts = append(s.expr.Broadcasts, Broadcast{Index: idx, Size: size, Name: name})
		return idx, nil
	}
	return Index{}, p.errorf(types.UnexpectedToken, tok, "unexpected %s on the right side", tok.Kind)
}

// parseRightParenthesized parses a group like `(h w)` into a Combined composition.
// An empty group `()` yields an axis of size 1.
func (p *parser) parseRightParenthesized(s *rightState) (Composition, error) {
	open := p.next()
	c := Composition{Kind: Combined, Pos: open.Pos}
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenRParen:
			p.next()
			if len(c.Members) > 0 {
				c.From = c.Members[0]
				c.To = c.Members[len(c.Members)-1]
			}
			return c, nil
		case TokenIdent, TokenInt, TokenEllipsis:
			idx, err := p.parseRightMember(s)
			if err != nil {
				return c, err
			}
			c.Members = append(c.Members, idx)
		case TokenLParen:
			return c, p.errorf(types.UnexpectedToken, tok, "nested parentheses are not allowed")
		case TokenKeyword:
			return c, p.errorf(types.UnexpectedToken, tok, "reduction %q not allowed on the right side", tok.Text)
		case TokenEOF, TokenComma, TokenArrow:
			return c, p.errorf(types.UnbalancedGroup, open, "'(' is never closed")
		default:
			return c, p.errorf(types.UnexpectedToken, tok, "unexpected %s inside parentheses", tok.Kind)
		}
	}
}

// checkAllUsed verifies every axis left after the reductions has a place in the output.
func (p *parser) checkAllUsed(s *rightState) error {
	end := p.peek()
	if s.expr.Names.HasEllipsis() && !s.used.Has(EllipsisName) {
		return p.errorf(types.EllipsisSideMismatch, end, "'..' on the left side but not on the right side")
	}
	for _, name := range s.expr.Names.Names() {
		if s.used.Has(name) {
			continue
		}
		return p.errorf(types.AxisNotInOutput, end,
			"axis %q is not used on the right side: reduce it (e.g. sum(%s)) or add it to the output", name, name)
	}
	return nil
}
