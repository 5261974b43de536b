package calc

import (
	"io"
	"log/slog"
	"maps"
	"math/big"
	"strconv"
	"strings"
)

// Context is a context for evaluating expressions. It holds the variables that
// assignments create. It is not safe to use a Context concurrently.
type Context struct {
	stack []*big.Float
	nums  map[string]*big.Float
	names map[string]*big.Float
	prec  uint
	log   *slog.Logger
	err   error
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt map[string]*big.Float
	precopt uint
	logopt  struct {
		h slog.Handler
	}
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}
func (precopt) ctxOption() {}
func (logopt) ctxOption()  {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val *big.Float) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]*big.Float) ContextOption {
	return varsopt(vars)
}

// Prec sets the precision of calculations.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// LogHandler sets the handler for the context's debug logs. A nil handler
// discards them.
func LogHandler(h slog.Handler) ContextOption {
	return logopt{h}
}

// DefaultPrec is the precision of a context created without a Prec option.
// It is the mantissa size of a float64.
const DefaultPrec = 53

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// NewContext creates a new evaluation context with no variables defined.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{nums: make(map[string]*big.Float), prec: DefaultPrec, log: discard}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a missing variable definition or a division by zero, then the result
// is nil and ctx.Err returns the error.
func (ctx *Context) Eval(e *Expr) *big.Float {
	ctx.reset()
	return ctx.finish(e.n.eval(ctx))
}

// EvalPostfix evaluates tokens in postfix order directly on the context's
// stack, without building a tree. Variables may be read but not assigned.
// Unlike Eval, division by zero gives an infinity, as in IEEE-754.
//
// Errors are reported the same way as Eval. A token sequence with an operator
// lacking operands gives an *OperandError, and one that does not reduce to a
// single value gives a *LeftoverError.
func (ctx *Context) EvalPostfix(rpn []Token) *big.Float {
	ctx.reset()
	return ctx.finish(ctx.evalPostfix(rpn))
}

// reset prepares the stack for a new evaluation. The previous result, if any,
// is left to the caller that received it.
func (ctx *Context) reset() {
	switch len(ctx.stack) {
	case 0: // do nothing
	case 1:
		ctx.stack[0] = new(big.Float).SetPrec(ctx.prec)
		ctx.stack = ctx.stack[:0]
	default:
		panic("calc: Eval during Eval")
	}
}

func (ctx *Context) finish(err error) *big.Float {
	ctx.err = err
	if err != nil {
		// Drop partial results so the context can be used again.
		ctx.stack = ctx.stack[:0]
		return nil
	}
	return ctx.Result()
}

// Result returns the result obtained after evaluating an expression. Panics if
// ctx has not been used to evaluate an expression. Returns nil if an error
// occurred during evaluation.
func (ctx *Context) Result() *big.Float {
	if ctx.err != nil {
		return nil
	}
	switch len(ctx.stack) {
	case 0:
		panic("calc: Context.Result called before evaluating any expression")
	case 1:
		return ctx.stack[0]
	default:
		panic("calc: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
}

// Err returns the error that occurred during the last evaluation, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Set sets the value of a variable. Returns ctx for chaining. Calling Set
// while the context is being used to evaluate an expression panics.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	if len(ctx.stack) > 1 {
		panic("calc: Set on in-use context")
	}
	ctx.assign(name, value)
	return ctx
}

func (ctx *Context) assign(name string, value *big.Float) {
	if ctx.names == nil {
		ctx.names = make(map[string]*big.Float)
	}
	ctx.names[name] = new(big.Float).SetPrec(ctx.prec).Set(value)
	ctx.log.Debug("assign", slog.String("name", name), slog.String("value", value.Text('g', -1)))
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the context, then the result is nil.
func (ctx *Context) Lookup(name string) *big.Float {
	v := ctx.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Names returns the sorted names of all variables defined in the context.
func (ctx *Context) Names() []string {
	var names []string
	for k := range ctx.names {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone creates a copy of a context and applies options to it. The returned
// context has no Result and is safe to use to evaluate an expression.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	prec := ctx.prec
	for _, opt := range opts {
		if p, ok := opt.(precopt); ok {
			prec = uint(p)
		}
	}
	n := &Context{
		nums:  make(map[string]*big.Float),
		names: make(map[string]*big.Float, len(ctx.names)),
		prec:  prec,
		log:   ctx.log,
	}
	// Cached numerals are rounded to the precision they were parsed at.
	if prec == ctx.prec {
		maps.Copy(n.nums, ctx.nums)
	}
	// Assignment replaces values rather than modifying them, so values already
	// at the right precision can be shared.
	for name, v := range ctx.names {
		if v.Prec() != prec {
			v = new(big.Float).SetPrec(prec).Set(v)
		}
		n.names[name] = v
	}
	for _, opt := range opts {
		n.apply(opt)
	}
	return n
}

func (ctx *Context) apply(opt ContextOption) {
	switch opt := opt.(type) {
	case nil, precopt:
		// Nothing to do. Precision is set before any values are copied.
	case varopt:
		ctx.names[opt.name] = new(big.Float).SetPrec(ctx.prec).Set(opt.val)
	case varsopt:
		for k, v := range opt {
			ctx.names[k] = new(big.Float).SetPrec(ctx.prec).Set(v)
		}
	case logopt:
		ctx.log = discard
		if opt.h != nil {
			ctx.log = slog.New(opt.h)
		}
	default:
		panic("calc: unknown option type")
	}
}

// push grows the stack by one and returns the new top for the caller to set.
// Values left above the top by earlier evaluations are reused.
func (ctx *Context) push() *big.Float {
	k := len(ctx.stack)
	if k == cap(ctx.stack) {
		ctx.stack = append(ctx.stack, nil)
	} else {
		ctx.stack = ctx.stack[:k+1]
	}
	if ctx.stack[k] == nil {
		ctx.stack[k] = new(big.Float).SetPrec(ctx.prec)
	}
	return ctx.stack[k]
}

// pop removes the top from the stack and returns it. The returned value may be
// reused by the next push.
func (ctx *Context) pop() *big.Float {
	k := len(ctx.stack) - 1
	r := ctx.stack[k]
	ctx.stack = ctx.stack[:k]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num gets a possibly cached number from its text. col is used only for
// errors.
func (ctx *Context) num(s string, col int) (*big.Float, error) {
	if r := ctx.nums[s]; r != nil {
		return r, nil
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	if err != nil {
		return nil, &LexError{Text: s, Kind: "number", Col: col}
	}
	ctx.nums[s] = r
	return r, nil
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		v, err := ctx.num(n.name, 0)
		if err != nil {
			return err
		}
		ctx.push().Set(v)
	case nodeName:
		v := ctx.names[n.name]
		if v == nil {
			return &NameError{Name: n.name}
		}
		ctx.push().Set(v)
	case nodeAssign:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		ctx.assign(n.name, ctx.top())
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return arith(n.kind, l, r, true)
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
	return nil
}

func (ctx *Context) evalPostfix(rpn []Token) error {
	if len(rpn) == 0 {
		return &EmptyExpressionError{Col: 1}
	}
	for _, tok := range rpn {
		switch tok.Kind {
		case TokenNum:
			v, err := ctx.num(tok.Text, tok.Pos)
			if err != nil {
				return err
			}
			ctx.push().Set(v)
		case TokenIdent:
			v := ctx.names[tok.Text]
			if v == nil {
				return &NameError{Name: tok.Text}
			}
			ctx.push().Set(v)
		case TokenOp:
			op := binop(tok.Text)
			if op.op == nodeNone || op.op == nodeAssign {
				return &OperatorError{Col: tok.Pos, Operator: tok.Text}
			}
			if len(ctx.stack) < 2 {
				return &OperandError{Col: tok.Pos, Operator: tok.Text}
			}
			r := ctx.pop()
			l := ctx.top()
			if err := arith(op.op, l, r, false); err != nil {
				return err
			}
		default:
			panic("calc: unknown token: " + tok.Kind.String() + ":" + tok.Text)
		}
	}
	if len(ctx.stack) != 1 {
		return &LeftoverError{Col: lastpos(rpn), Len: len(ctx.stack)}
	}
	return nil
}

// arith sets l to l op r. If zerodiv is true, then dividing by zero is an
// error; otherwise it gives an infinity. Operations that IEEE-754 defines to
// be NaN, like Inf-Inf and 0/0, give a *DomainError.
func arith(op nodeKind, l, r *big.Float, zerodiv bool) (err error) {
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		if _, ok := e.(big.ErrNaN); !ok {
			panic(e)
		}
		err = &DomainError{X: new(big.Float).Copy(r), Func: op.symbol()}
	}()
	switch op {
	case nodeAdd:
		l.Add(l, r)
	case nodeSub:
		l.Sub(l, r)
	case nodeMul:
		l.Mul(l, r)
	case nodeDiv:
		if zerodiv && r.Sign() == 0 {
			return &ZeroDivisionError{X: new(big.Float).Copy(l)}
		}
		l.Quo(l, r)
	case nodePow:
		return pow(l, l, r)
	default:
		panic("calc: invalid arithmetic node " + op.String())
	}
	return nil
}

// Eval is a shortcut to parse an expression and return its result in a new
// context.
func Eval(src io.RuneScanner, opts ...ContextOption) (*big.Float, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return nil, err
	}
	ctx.Eval(a)
	return ctx.Result(), ctx.Err()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	return Eval(strings.NewReader(src), opts...)
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// ZeroDivisionError is an error from dividing by exactly zero.
type ZeroDivisionError struct {
	// X is the dividend.
	X *big.Float
}

func (err *ZeroDivisionError) Error() string {
	return "division by zero: " + err.X.Text('g', -1) + " / 0"
}
