package math

import (
	"fmt"
	stdmath "math"

	"github.com/go-highway/fmath/hwy"
)

// ExpKernel computes y ≈ exp(x) per lane. It is immutable after construction
// and safe for concurrent use.
type ExpKernel struct {
	coeffs []float32 // ascending powers

	// Broadcast constants, full width. Operations take their lane count
	// from the data operand, so these serve any vector width.
	log2e  hwy.Vec[float32]
	vcoefs []hwy.Vec[float32]
}

type expConfig struct {
	coeffs Coefficients
}

// ExpOption configures an ExpKernel.
type ExpOption func(*expConfig)

// WithExpCoefficients replaces the polynomial approximating 2^f on
// [-0.5, 0.5]. The default is ExpCoeffsMaple.
func WithExpCoefficients(c Coefficients) ExpOption {
	return func(cfg *expConfig) {
		cfg.coeffs = c
	}
}

// expMaxCoeffs keeps at least one replica within the register budget.
const expMaxCoeffs = vectorRegisters - 1 - expTemporaries

// NewExpKernel returns an exp kernel. It fails with ErrInvalidDegree when the
// polynomial has fewer than two or more than expMaxCoeffs coefficients.
func NewExpKernel(opts ...ExpOption) (*ExpKernel, error) {
	cfg := expConfig{coeffs: ExpCoeffsMaple}
	for _, opt := range opts {
		opt(&cfg)
	}
	if n := len(cfg.coeffs); n < 2 || n > expMaxCoeffs {
		return nil, fmt.Errorf("%w: exp polynomial needs 2 to %d coefficients, got %d", ErrInvalidDegree, expMaxCoeffs, n)
	}

	k := &ExpKernel{
		coeffs: cfg.coeffs.float32s(),
		log2e:  hwy.SetN(log2E_f32, hwy.MaxLanesCap),
	}
	k.vcoefs = make([]hwy.Vec[float32], len(k.coeffs))
	for i, c := range k.coeffs {
		k.vcoefs[i] = hwy.SetN(c, hwy.MaxLanesCap)
	}
	return k, nil
}

// Coefficients returns the float32 polynomial coefficients in use.
func (k *ExpKernel) Coefficients() []float32 {
	return append([]float32(nil), k.coeffs...)
}

// MaxUnroll returns how many replicas fit the register budget: three
// temporaries each, next to the coefficients and log2(e).
func (k *ExpKernel) MaxUnroll() int {
	return (vectorRegisters - (len(k.coeffs) + 1)) / expTemporaries
}

// Core replaces every vector in vs by its lane-wise exp.
//
// Each step is applied to all replicas before the next step starts, and no
// replica reads another's temporaries.
func (k *ExpKernel) Core(vs []hwy.Vec[float32]) {
	for len(vs) > 0 {
		n := min(len(vs), expReplicaCap)
		k.core(vs[:n])
		vs = vs[n:]
	}
}

// expReplicaCap sizes the temporaries; it is MaxUnroll for a degree-1
// polynomial, the smallest kernel NewExpKernel accepts.
const expReplicaCap = (vectorRegisters - 3) / expTemporaries

func (k *ExpKernel) core(vs []hwy.Vec[float32]) {
	var frac, poly [expReplicaCap]hwy.Vec[float32]
	last := len(k.vcoefs) - 1

	for i := range vs {
		vs[i] = hwy.Mul(vs[i], k.log2e)
	}
	// frac = t - round(t), then t becomes the integer part.
	for i := range vs {
		frac[i] = hwy.Sub(vs[i], hwy.RoundToEven(vs[i]))
	}
	for i := range vs {
		vs[i] = hwy.Sub(vs[i], frac[i])
	}

	for i := range vs {
		poly[i] = hwy.MulAdd(frac[i], k.vcoefs[last], k.vcoefs[last-1])
	}
	for j := last - 2; j >= 0; j-- {
		for i := range vs {
			poly[i] = hwy.MulAdd(poly[i], frac[i], k.vcoefs[j])
		}
	}

	for i := range vs {
		vs[i] = hwy.Scale(poly[i], vs[i])
	}
}

// Apply returns exp of every lane of v.
func (k *ExpKernel) Apply(v hwy.Vec[float32]) hwy.Vec[float32] {
	vs := [1]hwy.Vec[float32]{v}
	k.core(vs[:])
	return vs[0]
}

// ExpScalar computes exp(x) with the same operation sequence as Core.
func (k *ExpKernel) ExpScalar(x float32) float32 {
	t := float32(x * log2E_f32)
	frac := float32(t - float32(stdmath.RoundToEven(float64(t))))
	n := float32(t - frac)

	last := len(k.coeffs) - 1
	p := fma32(frac, k.coeffs[last], k.coeffs[last-1])
	for j := last - 2; j >= 0; j-- {
		p = fma32(p, frac, k.coeffs[j])
	}
	return hwy.ScaleLane(p, n)
}

// fma32 matches hwy.MulAdd on a single lane.
func fma32(a, b, c float32) float32 {
	return hwy.MulAddLane(a, b, c)
}
