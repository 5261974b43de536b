package calc

import (
	"io"
	"strings"
)

// Line = Expr | name '=' Line
// Expr = num | name | Expr '+' Expr | Expr '-' Expr | Expr '*' Expr | Expr '/' Expr | Expr '^' Expr

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// rpn is the postfix form the tree was built from.
	rpn []Token
	// names is the list of variable names read by the expression.
	names []string
}

// Parse parses an expression so it can be evaluated with a context. The input
// is lexed, converted to postfix, and then folded into a tree one postfix token
// at a time.
func Parse(src io.RuneScanner) (*Expr, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	rpn, err := Postfix(toks)
	if err != nil {
		return nil, err
	}
	return ParsePostfix(rpn)
}

// ParseString is a shortcut to parse a string expression.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// ParsePostfix folds tokens in postfix order, as returned by Postfix, into an
// expression tree. The left operand of each = must be a variable name.
func ParsePostfix(rpn []Token) (*Expr, error) {
	if len(rpn) == 0 {
		return nil, &EmptyExpressionError{Col: 1}
	}
	seen := make(map[string]bool)
	stack := make([]*node, 0, len(rpn))
	for _, tok := range rpn {
		switch tok.Kind {
		case TokenNum:
			stack = append(stack, &node{kind: nodeNum, name: tok.Text})
		case TokenIdent:
			stack = append(stack, &node{kind: nodeName, name: tok.Text})
		case TokenOp:
			op := binop(tok.Text)
			if op.op == nodeNone {
				return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text}
			}
			if len(stack) < 2 {
				return nil, &OperandError{Col: tok.Pos, Operator: tok.Text}
			}
			l, r := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-2]
			n := &node{kind: op.op, left: l, right: r}
			if op.op == nodeAssign {
				if l.kind != nodeName {
					return nil, &AssignError{Col: tok.Pos, Target: l.String()}
				}
				// The target is written, not read.
				n = &node{kind: nodeAssign, name: l.name, left: r}
			}
			stack = append(stack, n)
		default:
			panic("calc: unknown token: " + tok.Kind.String() + ":" + tok.Text)
		}
	}
	if len(stack) != 1 {
		return nil, &LeftoverError{Col: lastpos(rpn), Len: len(stack)}
	}
	ex := Expr{
		n:   stack[0],
		rpn: append(([]Token)(nil), rpn...),
	}
	ex.n.walk(func(n *node) {
		if n.kind == nodeName && !seen[n.name] {
			seen[n.name] = true
			ex.names = append(ex.names, n.name)
		}
	})
	sortstrs(ex.names)
	return &ex, nil
}

// lastpos returns the position of the token that appears last in the source.
func lastpos(toks []Token) int {
	p := 0
	for _, tok := range toks {
		if tok.Pos > p {
			p = tok.Pos
		}
	}
	return p
}

// walk calls f on each node of the tree in prefix order.
func (n *node) walk(f func(*node)) {
	if n == nil {
		return
	}
	f(n)
	n.left.walk(f)
	n.right.walk(f)
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// Vars returns the variable names the expression reads, sorted. Assignment
// targets are not included unless they are also read.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// Postfix returns the expression's tokens in postfix order.
func (e *Expr) Postfix() []Token {
	return append(([]Token)(nil), e.rpn...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	return e.n.String()
}
