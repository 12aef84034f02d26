package utils

import (
	"math"
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// POW is x^p by repeated squaring, falling back to math.Pow for |p| > 16.
func POW(x float64, p int) (y float64) {
	if p > 16 || p < -16 {
		return math.Pow(x, float64(p))
	}
	y = 1
	for n, b := IntAbs(p), x; n > 0; n >>= 1 {
		if n&1 == 1 {
			y *= b
		}
		b *= b
	}
	if p < 0 {
		y = 1 / y
	}
	return
}

func IntAbs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
