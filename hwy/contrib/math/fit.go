package math

import (
	"fmt"
	stdmath "math"
)

// MaxFitDegree is the largest degree FitExp2 accepts. The normal equations
// of higher degrees are too ill-conditioned to solve in float64.
const MaxFitDegree = 8

// quadratureIntervals is the number of Simpson intervals used to integrate
// x^i * 2^x over the fit range.
const quadratureIntervals = 2000

// FitExp2 returns the continuous least-squares polynomial of the given degree
// approximating 2^x on [-0.5, 0.5], with the constant term pinned to 1 so that
// the approximation is exact at 0. Degree 5 reproduces ExpCoeffsMaple.
func FitExp2(degree int) (Coefficients, error) {
	if degree < 1 || degree > MaxFitDegree {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidDegree, degree, MaxFitDegree)
	}

	// Minimize ∫ (2^x - 1 - Σ c_i x^i)^2 dx over the monomials x^1..x^degree.
	// gram[i][j] = ∫ x^(i+j) dx and rhs[i] = ∫ x^i (2^x - 1) dx, both with
	// i, j counted from 1.
	const lo, hi = -0.5, 0.5
	gram := make([][]float64, degree)
	rhs := make([]float64, degree)
	for i := range degree {
		gram[i] = make([]float64, degree)
		for j := range degree {
			gram[i][j] = monomialIntegral(i+j+2, lo, hi)
		}
		pow := float64(i + 1)
		rhs[i] = simpson(func(x float64) float64 {
			return stdmath.Pow(x, pow) * (stdmath.Exp2(x) - 1)
		}, lo, hi, quadratureIntervals)
	}

	sol, err := solve(gram, rhs)
	if err != nil {
		return nil, err
	}
	return append(Coefficients{1}, sol...), nil
}

// monomialIntegral returns ∫ x^k dx over [lo, hi].
func monomialIntegral(k int, lo, hi float64) float64 {
	k1 := float64(k + 1)
	return (stdmath.Pow(hi, k1) - stdmath.Pow(lo, k1)) / k1
}

// simpson integrates f over [lo, hi] with the composite Simpson rule on n
// intervals (n even).
func simpson(f func(float64) float64, lo, hi float64, n int) float64 {
	h := (hi - lo) / float64(n)
	sum := f(lo) + f(hi)
	for k := 1; k < n; k++ {
		w := 2.0
		if k%2 == 1 {
			w = 4
		}
		sum += w * f(lo+float64(k)*h)
	}
	return sum * h / 3
}

// solve solves a*x = b by Gaussian elimination with partial pivoting.
// a and b are overwritten.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := range n {
		pivot := col
		for r := col + 1; r < n; r++ {
			if stdmath.Abs(a[r][col]) > stdmath.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if a[pivot][col] == 0 {
			return nil, fmt.Errorf("%w: singular normal equations", ErrInvalidDegree)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := b[i]
		for j := i + 1; j < n; j++ {
			s -= a[i][j] * x[j]
		}
		x[i] = s / a[i][i]
	}
	return x, nil
}
