//go:build go1.18
// +build go1.18

package calc_test

import (
	"math/big"
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("x = 2 ^ 0.5")
	f.Add("1 / 0")
	f.Fuzz(func(t *testing.T, s string) {
		r, err := calc.EvalString(s, calc.SetVar("x", new(big.Float)))
		if (r == nil) == (err == nil) {
			t.Errorf("%q gave result %v and error %v", s, r, err)
		}
	})
}
