// Package calc implements a line calculator with variables.
//
// An input line such as "x = 2 ^ 3 * 4" is lexed into tokens, reordered into
// postfix with the shunting-yard algorithm, and either evaluated directly on a
// stack or built into an expression tree first. All five operators are
// left-associative, so "2^3^2" is "(2^3)^2". Assignment is the only
// right-associative operator and binds loosest of all.
//
// Values are big.Floats computed to the precision of the Context. The default
// of 53 bits gives the same finite results as float64 arithmetic.
//
package calc
