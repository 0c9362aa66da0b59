package formula

import (
	"fmt"
	"math"
)

/*
Грамматика (по убыванию приоритета):

	primary  = number | ident | ident '(' args ')' | '(' expr ')'
	unary    = ('!' | '-') unary | primary
	mul      = unary (('*' | '/' | '%') unary)*
	add      = mul (('+' | '-') mul)*
	cmp      = add (('<' | '<=' | '>' | '>=') add)*
	eq       = cmp (('==' | '!=') cmp)*
	and      = eq ('&&' eq)*
	or       = and ('||' and)*
	expr     = or ('?' expr ':' expr)?
*/

type node interface {
	eval(vars map[string]Value) (Value, error)
}

type numberNode struct{ n float64 }

func (x numberNode) eval(map[string]Value) (Value, error) { return x.n, nil }

type identNode struct{ name string }

func (x identNode) eval(vars map[string]Value) (Value, error) {
	v, ok := vars[x.name]
	if !ok {
		return nil, fmt.Errorf("unknown variable %q", x.name)
	}
	return v, nil
}

type unaryNode struct {
	op string
	x  node
}

func (u unaryNode) eval(vars map[string]Value) (Value, error) {
	v, err := u.x.eval(vars)
	if err != nil {
		return nil, err
	}
	switch u.op {
	case "!":
		return !Truthy(v), nil
	case "-":
		n, err := asNumber(v)
		if err != nil {
			return nil, err
		}
		return -n, nil
	}
	return nil, fmt.Errorf("unknown unary operator %q", u.op)
}

type binaryNode struct {
	op   string
	l, r node
}

func (b binaryNode) eval(vars map[string]Value) (Value, error) {
	// && и || ленивые, как в исходных формулах
	if b.op == "&&" || b.op == "||" {
		lv, err := b.l.eval(vars)
		if err != nil {
			return nil, err
		}
		if b.op == "&&" && !Truthy(lv) {
			return false, nil
		}
		if b.op == "||" && Truthy(lv) {
			return true, nil
		}
		rv, err := b.r.eval(vars)
		if err != nil {
			return nil, err
		}
		return Truthy(rv), nil
	}

	lv, err := b.l.eval(vars)
	if err != nil {
		return nil, err
	}
	rv, err := b.r.eval(vars)
	if err != nil {
		return nil, err
	}

	if b.op == "==" || b.op == "!=" {
		if lb, ok := lv.(bool); ok {
			rb, ok := rv.(bool)
			if !ok {
				return nil, fmt.Errorf("cannot compare bool with %T", rv)
			}
			return (lb == rb) == (b.op == "=="), nil
		}
	}

	ln, err := asNumber(lv)
	if err != nil {
		return nil, err
	}
	rn, err := asNumber(rv)
	if err != nil {
		return nil, err
	}

	switch b.op {
	case "+":
		return finite(ln + rn)
	case "-":
		return finite(ln - rn)
	case "*":
		return finite(ln * rn)
	case "/":
		return finite(ln / rn)
	case "%":
		return finite(math.Mod(ln, rn))
	case "<":
		return ln < rn, nil
	case "<=":
		return ln <= rn, nil
	case ">":
		return ln > rn, nil
	case ">=":
		return ln >= rn, nil
	case "==":
		return ln == rn, nil
	case "!=":
		return ln != rn, nil
	}
	return nil, fmt.Errorf("unknown operator %q", b.op)
}

type condNode struct {
	cond, then, els node
}

func (c condNode) eval(vars map[string]Value) (Value, error) {
	cv, err := c.cond.eval(vars)
	if err != nil {
		return nil, err
	}
	if Truthy(cv) {
		return c.then.eval(vars)
	}
	return c.els.eval(vars)
}

type callNode struct {
	fn   string
	args []node
}

func (c callNode) eval(vars map[string]Value) (Value, error) {
	nums := make([]float64, 0, len(c.args))
	for _, a := range c.args {
		v, err := a.eval(vars)
		if err != nil {
			return nil, err
		}
		n, err := asNumber(v)
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}

	switch c.fn {
	case "min", "max":
		if len(nums) == 0 {
			return nil, fmt.Errorf("%s: at least one argument required", c.fn)
		}
		out := nums[0]
		for _, n := range nums[1:] {
			if (c.fn == "min" && n < out) || (c.fn == "max" && n > out) {
				out = n
			}
		}
		return out, nil
	case "round":
		if len(nums) != 1 {
			return nil, fmt.Errorf("round: one argument required")
		}
		return math.Round(nums[0]), nil
	case "abs":
		if len(nums) != 1 {
			return nil, fmt.Errorf("abs: one argument required")
		}
		return math.Abs(nums[0]), nil
	}
	return nil, fmt.Errorf("unknown function %q", c.fn)
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) eof() bool { return p.peek().kind == tokEOF }

func (p *parser) acceptOp(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) expectOp(op string) error {
	if _, ok := p.acceptOp(op); !ok {
		return fmt.Errorf("expected %q, got %q", op, p.peek().text)
	}
	return nil
}

func (p *parser) parseExpr() (node, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, ok := p.acceptOp("?"); !ok {
		return cond, nil
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return condNode{cond: cond, then: then, els: els}, nil
}

func (p *parser) parseOr() (node, error) { return p.parseBinary(0) }

// уровни бинарных операторов от низшего приоритета к высшему
var binLevels = [][]string{
	{"||"},
	{"&&"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) parseBinary(level int) (node, error) {
	if level == len(binLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp(binLevels[level]...)
		if !ok {
			return left, nil
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, l: left, r: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if op, ok := p.acceptOp("!", "-"); ok {
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: op, x: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.peek()

	switch t.kind {
	case tokNumber:
		p.next()
		return numberNode{n: t.num}, nil

	case tokIdent:
		p.next()
		if _, ok := p.acceptOp("("); !ok {
			return identNode{name: t.text}, nil
		}
		var args []node
		if _, ok := p.acceptOp(")"); ok {
			return callNode{fn: t.text}, nil
		}
		for {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if _, ok := p.acceptOp(","); ok {
				continue
			}
			if err := p.expectOp(")"); err != nil {
				return nil, err
			}
			return callNode{fn: t.text, args: args}, nil
		}

	case tokOp:
		if t.text == "(" {
			p.next()
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp(")"); err != nil {
				return nil, err
			}
			return x, nil
		}
	}

	return nil, fmt.Errorf("unexpected %q", t.text)
}
