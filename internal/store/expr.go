package store

import (
	"fmt"
	"strings"
)

// Expr is a parsed filter expression over the fixed grammar: comparisons
// (= != <> < <= > >=), and/or with parentheses, between ... and ...,
// [not] in, and begins_with(attr, :v). Attribute references may use dotted
// paths into nested maps; :placeholders resolve against the bound values.
type Expr struct {
	root exprNode
}

// ParseExpr compiles an expression string once; Eval then runs it per item.
func ParseExpr(input string) (*Expr, error) {
	toks, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("filter: unexpected token %q", p.peek())
	}
	return &Expr{root: root}, nil
}

// Eval reports whether the item satisfies the expression. Missing
// attributes make their condition false, never an error.
func (e *Expr) Eval(item Item, values map[string]any) (bool, error) {
	if e == nil || e.root == nil {
		return true, nil
	}
	return e.root.eval(item, values)
}

type exprNode interface {
	eval(item Item, values map[string]any) (bool, error)
}

type logicalNode struct {
	op    string // "and" | "or"
	left  exprNode
	right exprNode
}

func (n *logicalNode) eval(item Item, values map[string]any) (bool, error) {
	l, err := n.left.eval(item, values)
	if err != nil {
		return false, err
	}
	if n.op == "and" && !l {
		return false, nil
	}
	if n.op == "or" && l {
		return true, nil
	}
	return n.right.eval(item, values)
}

type compareNode struct {
	op    string
	left  operand
	right operand
}

func (n *compareNode) eval(item Item, values map[string]any) (bool, error) {
	l, lok, err := n.left.resolve(item, values)
	if err != nil {
		return false, err
	}
	r, rok, err := n.right.resolve(item, values)
	if err != nil {
		return false, err
	}
	if !lok || !rok {
		return false, nil
	}

	switch n.op {
	case "=":
		return equalValues(l, r), nil
	case "!=", "<>":
		return !equalValues(l, r), nil
	}

	cmp, ok := compareValues(l, r)
	if !ok {
		return false, nil
	}
	switch n.op {
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case ">=":
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("filter: unknown operator %q", n.op)
}

type betweenNode struct {
	attr operand
	lo   operand
	hi   operand
}

func (n *betweenNode) eval(item Item, values map[string]any) (bool, error) {
	v, vok, err := n.attr.resolve(item, values)
	if err != nil {
		return false, err
	}
	lo, look, err := n.lo.resolve(item, values)
	if err != nil {
		return false, err
	}
	hi, hiok, err := n.hi.resolve(item, values)
	if err != nil {
		return false, err
	}
	if !vok || !look || !hiok {
		return false, nil
	}
	a, aok := compareValues(v, lo)
	b, bok := compareValues(v, hi)
	return aok && bok && a >= 0 && b <= 0, nil
}

type inNode struct {
	negate bool
	left   operand
	right  operand
}

func (n *inNode) eval(item Item, values map[string]any) (bool, error) {
	l, lok, err := n.left.resolve(item, values)
	if err != nil {
		return false, err
	}
	r, rok, err := n.right.resolve(item, values)
	if err != nil {
		return false, err
	}
	if !lok || !rok {
		return false, nil
	}

	// membership when the bound value is a list, plain equality otherwise
	member := false
	if list, ok := r.([]any); ok {
		for _, candidate := range list {
			if equalValues(l, candidate) {
				member = true
				break
			}
		}
	} else {
		member = equalValues(l, r)
	}
	if n.negate {
		return !member, nil
	}
	return member, nil
}

type beginsWithNode struct {
	attr   operand
	prefix operand
}

func (n *beginsWithNode) eval(item Item, values map[string]any) (bool, error) {
	v, vok, err := n.attr.resolve(item, values)
	if err != nil {
		return false, err
	}
	p, pok, err := n.prefix.resolve(item, values)
	if err != nil {
		return false, err
	}
	if !vok || !pok {
		return false, nil
	}
	s, sok := v.(string)
	prefix, prefOK := p.(string)
	return sok && prefOK && strings.HasPrefix(s, prefix), nil
}

// operand is either an attribute reference or a :placeholder.
type operand struct {
	bind string
	path []string
}

func (o operand) resolve(item Item, values map[string]any) (any, bool, error) {
	if o.bind != "" {
		v, ok := values[o.bind]
		if !ok {
			return nil, false, fmt.Errorf("filter: unbound value %s", o.bind)
		}
		return v, true, nil
	}

	var current any = map[string]any(item)
	for _, part := range o.path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false, nil
		}
		current, ok = m[part]
		if !ok {
			return nil, false, nil
		}
	}
	return current, true, nil
}

func equalValues(a, b any) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	return a == b
}

// compareValues orders two values: numerically when both coerce to numbers,
// lexicographically when both are strings.
func compareValues(a, b any) (int, bool) {
	if an, aok := toNumber(a); aok {
		if bn, bok := toNumber(b); bok {
			switch {
			case an < bn:
				return -1, true
			case an > bn:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// --- parser ---

type exprParser struct {
	toks []string
	pos  int
}

func (p *exprParser) done() bool { return p.pos >= len(p.toks) }

func (p *exprParser) peek() string {
	if p.done() {
		return ""
	}
	return p.toks[p.pos]
}

func (p *exprParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *exprParser) expect(tok string) error {
	if got := p.next(); !strings.EqualFold(got, tok) {
		return fmt.Errorf("filter: expected %q, got %q", tok, got)
	}
	return nil
}

func (p *exprParser) parseOr() (exprNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: "or", left: left, right: right}
	}
	return left, nil
}

func (p *exprParser) parseAnd() (exprNode, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "and") {
		p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: "and", left: left, right: right}
	}
	return left, nil
}

func (p *exprParser) parsePrimary() (exprNode, error) {
	if p.peek() == "(" {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	if strings.EqualFold(p.peek(), "begins_with") {
		p.next()
		if err := p.expect("("); err != nil {
			return nil, err
		}
		attr, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
		prefix, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &beginsWithNode{attr: attr, prefix: prefix}, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	switch tok := p.next(); {
	case tok == "=" || tok == "!=" || tok == "<>" || tok == "<" || tok == "<=" || tok == ">" || tok == ">=":
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &compareNode{op: tok, left: left, right: right}, nil

	case strings.EqualFold(tok, "between"):
		lo, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if err := p.expect("and"); err != nil {
			return nil, err
		}
		hi, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &betweenNode{attr: left, lo: lo, hi: hi}, nil

	case strings.EqualFold(tok, "in"):
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &inNode{left: left, right: right}, nil

	case strings.EqualFold(tok, "not"):
		if err := p.expect("in"); err != nil {
			return nil, err
		}
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &inNode{negate: true, left: left, right: right}, nil

	default:
		return nil, fmt.Errorf("filter: unexpected token %q", tok)
	}
}

func (p *exprParser) parseOperand() (operand, error) {
	tok := p.next()
	if tok == "" {
		return operand{}, fmt.Errorf("filter: unexpected end of expression")
	}
	if strings.HasPrefix(tok, ":") {
		return operand{bind: tok}, nil
	}
	if !isIdentifier(tok) {
		return operand{}, fmt.Errorf("filter: invalid operand %q", tok)
	}
	return operand{path: strings.Split(tok, ".")}, nil
}

func isIdentifier(tok string) bool {
	for _, r := range tok {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return false
		}
	}
	return tok != ""
}

func tokenize(input string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '(' || c == ')' || c == ',':
			toks = append(toks, string(c))
			i++
		case c == '<' || c == '>' || c == '!' || c == '=':
			if i+1 < len(input) && (input[i+1] == '=' || (c == '<' && input[i+1] == '>')) {
				toks = append(toks, input[i:i+2])
				i += 2
			} else if c == '!' {
				return nil, fmt.Errorf("filter: stray '!' at position %d", i)
			} else {
				toks = append(toks, string(c))
				i++
			}
		default:
			j := i
			for j < len(input) && !strings.ContainsRune(" \t\n(),<>!=", rune(input[j])) {
				j++
			}
			toks = append(toks, input[i:j])
			i = j
		}
	}
	return toks, nil
}
