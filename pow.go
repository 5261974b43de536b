package calc

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

var one = big.NewFloat(1)

// pow sets z to x^y. The special cases follow math.Pow: x^0 and 1^y are 1,
// zero and infinite operands give zero or infinity, and a negative base is
// allowed with an integer exponent. A negative finite base with a non-integer
// exponent, which math.Pow would make NaN, is a *DomainError. Other
// non-integer exponents use bigfloat.Pow.
func pow(z, x, y *big.Float) error {
	switch {
	case y.Sign() == 0, x.Cmp(one) == 0:
		z.SetInt64(1)
	case y.IsInf():
		// |x| == 1 stays 1; otherwise the magnitude decides.
		var ax big.Float
		ax.Abs(x)
		switch c := ax.Cmp(one); {
		case c == 0:
			z.SetInt64(1)
		case (c > 0) == (y.Sign() > 0):
			z.SetInf(false)
		default:
			z.SetInt64(0)
		}
	case x.Sign() == 0:
		if y.Sign() < 0 {
			z.SetInf(false)
		} else {
			z.SetInt64(0)
		}
	case x.IsInf():
		neg := x.Signbit() && oddint(y)
		if y.Sign() < 0 {
			z.SetInt64(0)
			if neg {
				z.Neg(z)
			}
		} else {
			z.SetInf(neg)
		}
	default:
		if n, ok := int64exp(y); ok {
			ipow(z, x, n)
			return nil
		}
		if !x.Signbit() {
			powpos(z, x, y)
			return nil
		}
		if !y.IsInt() {
			return &DomainError{X: new(big.Float).Copy(x), Func: "^"}
		}
		neg := oddint(y)
		powpos(z, new(big.Float).Abs(x), y)
		if neg {
			z.Neg(z)
		}
	}
	return nil
}

// powpos sets z to x^y for finite x > 0 and finite y. Results outside the
// exponent range of big.Float are +Inf or 0.
func powpos(z, x, y *big.Float) {
	if x.Cmp(one) == 0 {
		z.SetInt64(1)
		return
	}
	// log2(x^y) = y * (e + log2(m)) where x = m * 2^e.
	var m big.Float
	e := x.MantExp(&m)
	mf, _ := m.Float64()
	yf, _ := y.Float64()
	switch l := yf * (float64(e) + math.Log2(mf)); {
	case l > big.MaxExp:
		z.SetInf(false)
	case l < big.MinExp:
		z.SetInt64(0)
	default:
		// bigfloat.Pow does not always write its result to its first
		// argument.
		z.Set(bigfloat.Pow(new(big.Float).SetPrec(z.Prec()), x, y))
	}
}

// int64exp returns y as an int64 if it is an integer in range.
func int64exp(y *big.Float) (int64, bool) {
	if !y.IsInt() {
		return 0, false
	}
	n, acc := y.Int64()
	return n, acc == big.Exact
}

// ipow sets z to x^n by repeated squaring at extra precision, so that results
// representable at z's precision are exact.
func ipow(z, x *big.Float, n int64) {
	prec := z.Prec() + 64
	acc := new(big.Float).SetPrec(prec).SetInt64(1)
	b := new(big.Float).SetPrec(prec).Set(x)
	neg := n < 0
	u := uint64(n)
	if neg {
		u = -u
	}
	for u > 0 {
		if u&1 == 1 {
			acc.Mul(acc, b)
		}
		b.Mul(b, b)
		u >>= 1
	}
	if neg {
		acc.Quo(new(big.Float).SetPrec(prec).SetInt64(1), acc)
	}
	z.Set(acc)
}

// oddint returns whether y is an odd integer.
func oddint(y *big.Float) bool {
	if y.IsInf() || !y.IsInt() {
		return false
	}
	i, _ := y.Int(nil)
	return i.Bit(0) == 1
}

// DomainError is an error returned when an operator gives a result that is
// not a real number, e.g. 0/0 or (-8)^0.5.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Func is the operator.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X.Text('g', -1) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}
