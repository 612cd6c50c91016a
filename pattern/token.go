package pattern

import (
	"fmt"
	"strconv"

	"github.com/gomlx/einops/internal/utils"
	"github.com/gomlx/einops/types"
)

// TokenKind enumerates the lexical elements of a pattern.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenInt
	TokenEllipsis
	TokenKeyword // One of the reduction keywords: min, max, sum, mean, prod.
	TokenComma
	TokenArrow
	TokenColon
	TokenLParen
	TokenRParen
)

// String implements fmt.Stringer.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of pattern"
	case TokenIdent:
		return "identifier"
	case TokenInt:
		return "integer"
	case TokenEllipsis:
		return "'..'"
	case TokenKeyword:
		return "reduction keyword"
	case TokenComma:
		return "','"
	case TokenArrow:
		return "'->'"
	case TokenColon:
		return "':'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical element of a pattern.
type Token struct {
	Kind TokenKind

	// Text is the verbatim source of the token.
	Text string

	// Pos is the byte offset of the token in the pattern.
	Pos int

	// Value of a TokenInt.
	Value int

	// Op of a TokenKeyword.
	Op types.ReduceOp
}

// Tokenize splits a pattern into tokens. The returned slice always ends with a TokenEOF.
func Tokenize(text string) ([]Token, error) {
	var tokens []Token
	emit := func(kind TokenKind, start, end int) {
		tokens = append(tokens, Token{Kind: kind, Text: text[start:end], Pos: start})
	}
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == ',':
			emit(TokenComma, i, i+1)
			i++
		case c == ':':
			emit(TokenColon, i, i+1)
			i++
		case c == '(':
			emit(TokenLParen, i, i+1)
			i++
		case c == ')':
			emit(TokenRParen, i, i+1)
			i++
		case c == '-':
			if i+1 >= len(text) || text[i+1] != '>' {
				return nil, types.Errorf(types.UnexpectedToken, text, i, "expected '->', got a lone '-'")
			}
			emit(TokenArrow, i, i+2)
			i += 2
		case c == '.':
			if i+1 >= len(text) || text[i+1] != '.' {
				return nil, types.Errorf(types.UnexpectedToken, text, i, "expected '..', got a lone '.'")
			}
			end := i + 2
			if end < len(text) && text[end] == '.' {
				// "..." is accepted as an alias.
				end++
			}
			emit(TokenEllipsis, i, end)
			i = end
		case utils.IsDigit(c):
			start := i
			for i < len(text) && utils.IsDigit(text[i]) {
				i++
			}
			value, err := strconv.Atoi(text[start:i])
			if err != nil {
				return nil, types.Errorf(types.InvalidSize, text, start, "invalid integer %q: %v", text[start:i], err)
			}
			emit(TokenInt, start, i)
			tokens[len(tokens)-1].Value = value
		case utils.IsIdentifierStart(c):
			start := i
			for i < len(text) && utils.IsIdentifierPart(text[i]) {
				i++
			}
			kind := TokenIdent
			op, isKeyword := types.ReduceOpFromKeyword(text[start:i])
			if isKeyword {
				kind = TokenKeyword
			}
			emit(kind, start, i)
			tokens[len(tokens)-1].Op = op
		default:
			return nil, types.Errorf(types.UnexpectedToken, text, i, "unexpected character %q", c)
		}
	}
	tokens = append(tokens, Token{Kind: TokenEOF, Pos: len(text)})
	return tokens, nil
}
