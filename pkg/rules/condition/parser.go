package condition

import "fmt"

// Expr is a parsed condition. Evaluation only ever consults the supplied
// variable map; the grammar has no way to reach anything else.
type Expr interface {
	Eval(vars map[string]string) (bool, error)
}

// Parse compiles a condition expression.
//
// Grammar (lowest precedence first):
//
//	expr    := orExpr
//	orExpr  := andExpr (("or" | "||") andExpr)*
//	andExpr := notExpr (("and" | "&&") notExpr)*
//	notExpr := ("not" | "!") notExpr | compare
//	compare := primary (("==" | "!=") primary)?
//	primary := "(" expr ")" | string | number | bool | variable
func Parse(input string) (Expr, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenEOF {
		return nil, &ParseError{Pos: p.peek().pos,
			Message: fmt.Sprintf("unexpected %s after expression", p.peek().kind)}
	}
	return expr, nil
}

// Evaluate parses and evaluates input against vars in one step.
func Evaluate(input string, vars map[string]string) (bool, error) {
	expr, err := Parse(input)
	if err != nil {
		return false, err
	}
	return expr.Eval(vars)
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orExpr{left, right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &andExpr{left, right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.peek().kind == tokenNot {
		p.next()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notExpr{inner}, nil
	}
	return p.parseCompare()
}

func (p *parser) parseCompare() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	switch p.peek().kind {
	case tokenEq:
		p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &compareExpr{left: left, right: right, negate: false}, nil
	case tokenNeq:
		p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &compareExpr{left: left, right: right, negate: true}, nil
	}

	return &truthyExpr{left}, nil
}

func (p *parser) parsePrimary() (operand, error) {
	t := p.next()
	switch t.kind {
	case tokenLParen:
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, &ParseError{Pos: closing.pos, Message: "expected ')'"}
		}
		return &groupOperand{expr}, nil
	case tokenString:
		return &literal{value{kind: kindString, str: t.text}}, nil
	case tokenNumber:
		return &literal{value{kind: kindNumber, str: t.text}}, nil
	case tokenBool:
		return &literal{value{kind: kindBool, boolean: t.text == "true", str: t.text}}, nil
	case tokenIdent:
		return &variable{name: t.text, pos: t.pos}, nil
	default:
		return nil, &ParseError{Pos: t.pos,
			Message: fmt.Sprintf("expected value or variable, got %s", t.kind)}
	}
}
