package calc

import "strconv"

// OperatorError is an error indicating an operator token that is not
// understood by the converter. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
}

func (err *OperatorError) Error() string {
	return errpos(err.Col, "unsupported operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// OperandError is an error indicating an operator with fewer than two
// operands, e.g. "1 +" or "* 2". It implements InputError.
type OperandError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the operator that was missing an operand.
	Operator string
}

func (err *OperandError) Error() string {
	return errpos(err.Col, "missing operand for "+strconv.Quote(err.Operator))
}

func (err *OperandError) Pos() int {
	return err.Col
}

// LeftoverError is an error indicating an expression that does not reduce to
// a single value, e.g. "1 2". It implements InputError.
type LeftoverError struct {
	// Col is the position of the last token of the expression.
	Col int
	// Len is the number of values left after consuming every token.
	Len int
}

func (err *LeftoverError) Error() string {
	return errpos(err.Col, "invalid expression: "+strconv.Itoa(err.Len)+" values left, want 1")
}

func (err *LeftoverError) Pos() int {
	return err.Col
}

// AssignError is an error indicating an assignment to something other than a
// variable name. It implements InputError.
type AssignError struct {
	// Col is the position of the = operator.
	Col int
	// Target is the formatted expression on the left of the =.
	Target string
}

func (err *AssignError) Error() string {
	return errpos(err.Col, "cannot assign to "+err.Target)
}

func (err *AssignError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an input with no tokens.
type EmptyExpressionError struct {
	// Col is the position where an expression was expected.
	Col int
}

func (err *EmptyExpressionError) Error() string {
	return errpos(err.Col, "no expression")
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*LeftoverError)(nil)
	_ InputError = (*AssignError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)
