package condition

import "strconv"

type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindBool
)

// value is a resolved operand. Context variables are always strings;
// literals carry their lexed kind so numeric literals compare
// numerically when both sides parse as numbers.
type value struct {
	kind    valueKind
	str     string
	boolean bool
}

func (v value) truthy() bool {
	switch v.kind {
	case kindBool:
		return v.boolean
	case kindNumber:
		n, err := strconv.ParseFloat(v.str, 64)
		return err == nil && n != 0
	default:
		return v.str != ""
	}
}

func (v value) equals(other value) bool {
	if v.kind == kindBool || other.kind == kindBool {
		return v.truthy() == other.truthy()
	}
	if a, errA := strconv.ParseFloat(v.str, 64); errA == nil {
		if b, errB := strconv.ParseFloat(other.str, 64); errB == nil {
			return a == b
		}
	}
	return v.str == other.str
}

// operand is a comparable sub-expression: a literal, a variable lookup,
// or a parenthesized boolean expression.
type operand interface {
	value(vars map[string]string) (value, error)
}

type literal struct {
	val value
}

func (l *literal) value(map[string]string) (value, error) { return l.val, nil }

type variable struct {
	name string
	pos  int
}

func (v *variable) value(vars map[string]string) (value, error) {
	s, ok := vars[v.name]
	if !ok {
		return value{}, &UndefinedVariableError{Name: v.name}
	}
	return value{kind: kindString, str: s}, nil
}

type groupOperand struct {
	inner Expr
}

func (g *groupOperand) value(vars map[string]string) (value, error) {
	b, err := g.inner.Eval(vars)
	if err != nil {
		return value{}, err
	}
	return value{kind: kindBool, boolean: b}, nil
}

type compareExpr struct {
	left, right operand
	negate      bool
}

func (c *compareExpr) Eval(vars map[string]string) (bool, error) {
	lv, err := c.left.value(vars)
	if err != nil {
		return false, err
	}
	rv, err := c.right.value(vars)
	if err != nil {
		return false, err
	}
	eq := lv.equals(rv)
	if c.negate {
		return !eq, nil
	}
	return eq, nil
}

// truthyExpr is a bare operand in boolean position, e.g. a variable on
// its own. Empty string is false, anything else true.
type truthyExpr struct {
	inner operand
}

func (t *truthyExpr) Eval(vars map[string]string) (bool, error) {
	v, err := t.inner.value(vars)
	if err != nil {
		return false, err
	}
	return v.truthy(), nil
}

type andExpr struct {
	left, right Expr
}

func (a *andExpr) Eval(vars map[string]string) (bool, error) {
	lv, err := a.left.Eval(vars)
	if err != nil {
		return false, err
	}
	if !lv {
		return false, nil
	}
	return a.right.Eval(vars)
}

type orExpr struct {
	left, right Expr
}

func (o *orExpr) Eval(vars map[string]string) (bool, error) {
	lv, err := o.left.Eval(vars)
	if err != nil {
		return false, err
	}
	if lv {
		return true, nil
	}
	return o.right.Eval(vars)
}

type notExpr struct {
	inner Expr
}

func (n *notExpr) Eval(vars map[string]string) (bool, error) {
	v, err := n.inner.Eval(vars)
	if err != nil {
		return false, err
	}
	return !v, nil
}
