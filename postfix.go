package calc

import (
	"github.com/edwingeng/deque"
)

// Operators contains the characters the converter accepts as operators.
const Operators = "=+-*/^"

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

// popsFor returns whether p must be popped off the operator stack before
// pushing the incoming operator in.
func (p operator) popsFor(in operator) bool {
	if in.right {
		return p.prec > in.prec
	}
	return p.prec >= in.prec
}

// binop gets the operator for a token string. If there is no such operator,
// then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "=":
		return operator{0, true, nodeAssign}
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{2, false, nodeMul}
	case "/":
		return operator{2, false, nodeDiv}
	case "^":
		// Left-associative like the rest: 2^3^2 is (2^3)^2.
		return operator{3, false, nodePow}
	default:
		return operator{}
	}
}

// Postfix reorders tokens from infix to postfix order using the shunting-yard
// algorithm. Numerals and identifiers are copied to the output unchanged. An
// operator token that is not in Operators results in an *OperatorError;
// brackets in particular are not supported.
//
// Postfix does not check that the expression has the right number of
// operands. Parse and Context.EvalPostfix report that.
func Postfix(toks []Token) ([]Token, error) {
	out := make([]Token, 0, len(toks))
	ops := deque.NewDeque()
	for _, tok := range toks {
		switch tok.Kind {
		case TokenNum, TokenIdent:
			out = append(out, tok)
		case TokenOp:
			in := binop(tok.Text)
			if in.op == nodeNone {
				return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text}
			}
			for !ops.Empty() {
				top := ops.Back().(Token)
				if !binop(top.Text).popsFor(in) {
					break
				}
				out = append(out, ops.PopBack().(Token))
			}
			ops.PushBack(tok)
		default:
			panic("calc: unknown token: " + tok.Kind.String() + ":" + tok.Text)
		}
	}
	for !ops.Empty() {
		out = append(out, ops.PopBack().(Token))
	}
	return out, nil
}
