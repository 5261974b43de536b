package calc

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowSpecialCases(t *testing.T) {
	inf, ninf := math.Inf(1), math.Inf(-1)
	cases := []struct {
		x, y float64
	}{
		{2, 0}, {0, 0}, {inf, 0}, {-3, 0},
		{0, 2}, {0, -2}, {0, 0.5}, {0, inf},
		{2, inf}, {0.5, inf}, {2, ninf}, {0.5, ninf}, {1, inf}, {-1, inf}, {-2, inf},
		{inf, 2}, {inf, -2}, {ninf, 3}, {ninf, 2}, {ninf, -3}, {ninf, -2},
		{2, 10}, {2, -3}, {-2, 3}, {-2, 4}, {-2, -3}, {10, 22}, {1.5, 2},
		{2, 62}, {1, 1e300}, {1, ninf},
	}
	for _, c := range cases {
		x := new(big.Float).SetPrec(53).SetFloat64(c.x)
		y := new(big.Float).SetPrec(53).SetFloat64(c.y)
		z := new(big.Float).SetPrec(53)
		require.NoError(t, pow(z, x, y), "%g ^ %g", c.x, c.y)
		got, _ := z.Float64()
		assert.Equal(t, math.Pow(c.x, c.y), got, "%g ^ %g", c.x, c.y)
	}
}

func TestPowFractional(t *testing.T) {
	cases := []struct {
		x, y float64
	}{
		{2, 0.5}, {10, 0.3}, {0.25, 1.5}, {7, -0.75}, {1e10, 0.1},
	}
	for _, c := range cases {
		x := new(big.Float).SetPrec(53).SetFloat64(c.x)
		y := new(big.Float).SetPrec(53).SetFloat64(c.y)
		z := new(big.Float).SetPrec(53)
		require.NoError(t, pow(z, x, y), "%g ^ %g", c.x, c.y)
		got, _ := z.Float64()
		want := math.Pow(c.x, c.y)
		assert.InEpsilon(t, want, got, 1e-15, "%g ^ %g", c.x, c.y)
	}
}

func TestPowAliased(t *testing.T) {
	x := new(big.Float).SetPrec(53).SetInt64(-3)
	y := new(big.Float).SetPrec(53).SetInt64(3)
	require.NoError(t, pow(x, x, y))
	assert.Equal(t, "-27", x.Text('g', -1))
}

func TestPowDomain(t *testing.T) {
	x := new(big.Float).SetPrec(53).SetInt64(-8)
	y := new(big.Float).SetPrec(53).SetFloat64(1.0 / 3)
	z := new(big.Float).SetPrec(53)
	err := pow(z, x, y)
	var derr *DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "^", derr.Func)
	assert.Equal(t, "-8 outside domain of ^", err.Error())
}

func TestOddInt(t *testing.T) {
	cases := []struct {
		y   float64
		odd bool
	}{
		{1, true}, {2, false}, {-3, true}, {-4, false}, {0, false}, {0.5, false}, {math.Inf(1), false}, {1e300, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.odd, oddint(big.NewFloat(c.y)), "%g", c.y)
	}
}

func TestPowOutOfRange(t *testing.T) {
	bits := func(b int64, shift uint, add int64) *big.Float {
		i := new(big.Int).Lsh(big.NewInt(b), shift)
		i.Add(i, big.NewInt(add))
		return new(big.Float).SetPrec(96).SetInt(i)
	}
	f64 := func(v float64) *big.Float {
		return new(big.Float).SetPrec(53).SetFloat64(v)
	}
	cases := []struct {
		name string
		x, y *big.Float
		// want is nil for results that are compared by sign only.
		want *big.Float
		sign int
		inf  bool
	}{
		{"big", f64(2), f64(1100.5), new(big.Float).SetMantExp(f64(math.Sqrt2), 1100), 1, false},
		{"small", f64(0.5), f64(1100.5), new(big.Float).SetMantExp(f64(math.Sqrt2/2), -1100), 1, false},
		{"big-neg-exp", f64(8), f64(-1000.5), new(big.Float).SetMantExp(f64(math.Sqrt2/4), -3000), 1, false},
		{"overflow", f64(1.5), f64(1e21), nil, 1, true},
		{"overflow-frac", f64(10), f64(1e10 + 0.5), nil, 1, true},
		{"overflow-neg-even", f64(-1.5), f64(1e21), nil, 1, true},
		{"overflow-neg-odd", f64(-1.5), bits(1, 70, 1), nil, -1, true},
		{"underflow", f64(0.5), f64(1e10 + 0.5), nil, 0, false},
		{"underflow-int", f64(0.5), f64(1e21), nil, 0, false},
		{"underflow-neg-exp", f64(2), f64(-1e21), nil, 0, false},
		{"underflow-int64", f64(0.5), f64(1 << 62), nil, 0, false},
		{"overflow-int64", f64(3), f64(1 << 62), nil, 1, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			z := new(big.Float).SetPrec(53)
			require.NoError(t, pow(z, c.x, c.y))
			assert.Equal(t, uint(53), z.Prec())
			assert.Equal(t, c.inf, z.IsInf(), "got %g", z)
			assert.Equal(t, c.sign, z.Sign(), "got %g", z)
			if c.want != nil {
				q, _ := new(big.Float).Quo(z, c.want).Float64()
				assert.InDelta(t, 1, q, 1e-14, "got %g, want %g", z, c.want)
			}
		})
	}
}
