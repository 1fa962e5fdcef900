package condition

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenNumber
	tokenBool
	tokenEq     // ==
	tokenNeq    // !=
	tokenAnd    // and / &&
	tokenOr     // or / ||
	tokenNot    // not / !
	tokenLParen // (
	tokenRParen // )
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of expression"
	case tokenIdent:
		return "identifier"
	case tokenString:
		return "string"
	case tokenNumber:
		return "number"
	case tokenBool:
		return "boolean"
	case tokenEq:
		return "=="
	case tokenNeq:
		return "!="
	case tokenAnd:
		return "and"
	case tokenOr:
		return "or"
	case tokenNot:
		return "not"
	case tokenLParen:
		return "("
	case tokenRParen:
		return ")"
	}
	return "unknown"
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits a condition expression into tokens. The grammar is closed:
// anything outside it is a lex error, never something to execute.
func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(':
			tokens = append(tokens, token{tokenLParen, "(", i})
			i++

		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")", i})
			i++

		case c == '=':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenEq, "==", i})
				i += 2
			} else {
				return nil, &ParseError{Pos: i, Message: "expected '==' (single '=' is not assignment here)"}
			}

		case c == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenNeq, "!=", i})
				i += 2
			} else {
				tokens = append(tokens, token{tokenNot, "!", i})
				i++
			}

		case c == '&':
			if i+1 < len(input) && input[i+1] == '&' {
				tokens = append(tokens, token{tokenAnd, "&&", i})
				i += 2
			} else {
				return nil, &ParseError{Pos: i, Message: "expected '&&'"}
			}

		case c == '|':
			if i+1 < len(input) && input[i+1] == '|' {
				tokens = append(tokens, token{tokenOr, "||", i})
				i += 2
			} else {
				return nil, &ParseError{Pos: i, Message: "expected '||'"}
			}

		case c == '\'' || c == '"':
			lit, next, err := lexString(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{tokenString, lit, i})
			i = next

		case c >= '0' && c <= '9' || c == '-' && i+1 < len(input) && input[i+1] >= '0' && input[i+1] <= '9':
			start := i
			i++
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokenNumber, input[start:i], start})

		case isIdentStart(rune(c)):
			start := i
			for i < len(input) && isIdentPart(rune(input[i])) {
				i++
			}
			word := input[start:i]
			switch strings.ToLower(word) {
			case "and":
				tokens = append(tokens, token{tokenAnd, word, start})
			case "or":
				tokens = append(tokens, token{tokenOr, word, start})
			case "not":
				tokens = append(tokens, token{tokenNot, word, start})
			case "true", "false":
				tokens = append(tokens, token{tokenBool, strings.ToLower(word), start})
			default:
				tokens = append(tokens, token{tokenIdent, word, start})
			}

		default:
			return nil, &ParseError{Pos: i, Message: fmt.Sprintf("unexpected character %q", c)}
		}
	}

	tokens = append(tokens, token{tokenEOF, "", len(input)})
	return tokens, nil
}

func lexString(input string, start int) (string, int, error) {
	quote := input[start]
	i := start + 1
	var sb strings.Builder
	for i < len(input) {
		c := input[i]
		if c == quote {
			return sb.String(), i + 1, nil
		}
		if c == '\\' && i+1 < len(input) {
			i++
			c = input[i]
		}
		sb.WriteByte(c)
		i++
	}
	return "", 0, &ParseError{Pos: start, Message: "unterminated string literal"}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
