package math

import (
	"errors"
	stdmath "math"
	"testing"
)

func TestFitExp2ReproducesMaple(t *testing.T) {
	got, err := FitExp2(5)
	if err != nil {
		t.Fatalf("FitExp2(5): %v", err)
	}
	if got.Degree() != 5 {
		t.Fatalf("degree: got %d, want 5", got.Degree())
	}
	if got[0] != 1 {
		t.Errorf("constant term: got %v, want 1", got[0])
	}
	for i := range got {
		if d := stdmath.Abs(got[i] - ExpCoeffsMaple[i]); d > 1e-8 {
			t.Errorf("c[%d]: got %.17g, want %.17g (diff %g)", i, got[i], ExpCoeffsMaple[i], d)
		}
	}
}

func TestFitExp2Error(t *testing.T) {
	// Each extra degree must tighten the fit on [-0.5, 0.5].
	prev := stdmath.Inf(1)
	for degree := 1; degree <= 6; degree++ {
		c, err := FitExp2(degree)
		if err != nil {
			t.Fatalf("FitExp2(%d): %v", degree, err)
		}
		maxErr := 0.0
		for k := 0; k <= 1000; k++ {
			x := -0.5 + float64(k)/1000
			maxErr = max(maxErr, stdmath.Abs(c.Eval(x)/stdmath.Exp2(x)-1))
		}
		if maxErr >= prev {
			t.Errorf("degree %d: max error %g not below degree %d's %g", degree, maxErr, degree-1, prev)
		}
		prev = maxErr
	}
	if prev > 1e-8 {
		t.Errorf("degree 6 max error %g, want < 1e-8", prev)
	}
}

func TestFitExp2InvalidDegree(t *testing.T) {
	for _, degree := range []int{-1, 0, MaxFitDegree + 1} {
		if _, err := FitExp2(degree); !errors.Is(err, ErrInvalidDegree) {
			t.Errorf("FitExp2(%d): got %v, want ErrInvalidDegree", degree, err)
		}
	}
}

func TestCoefficientSetsAgree(t *testing.T) {
	for k := 0; k <= 100; k++ {
		x := -0.5 + float64(k)/100
		m, s := ExpCoeffsMaple.Eval(x), ExpCoeffsSollya.Eval(x)
		if d := stdmath.Abs(m-s) / stdmath.Exp2(x); d > 1e-6 {
			t.Errorf("x=%v: Maple %v and Sollya %v differ by %g", x, m, s, d)
		}
	}
}
