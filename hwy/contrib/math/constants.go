package math

import stdmath "math"

// Coefficients holds polynomial coefficients in ascending powers:
// p(x) = c[0] + c[1]*x + c[2]*x^2 + ...
type Coefficients []float64

// Degree returns the polynomial degree.
func (c Coefficients) Degree() int {
	return len(c) - 1
}

// Eval evaluates the polynomial in float64 using Horner's method.
func (c Coefficients) Eval(x float64) float64 {
	var p float64
	for i := len(c) - 1; i >= 0; i-- {
		p = p*x + c[i]
	}
	return p
}

// float32s rounds the coefficients to float32.
func (c Coefficients) float32s() []float32 {
	out := make([]float32, len(c))
	for i, v := range c {
		out[i] = float32(v)
	}
	return out
}

// Degree-5 approximations of 2^x on [-0.5, 0.5].
var (
	// ExpCoeffsMaple is the least-squares fit with the constant term pinned
	// to 1. It is the default for ExpKernel.
	ExpCoeffsMaple = Coefficients{
		1.0,
		0.69314720006209416366,
		0.24022309327839673134,
		0.55503406821502749265e-1,
		0.96672496496672653297e-2,
		0.13395279182003177132e-2,
	}

	// ExpCoeffsSollya is a minimax fit of the same function.
	ExpCoeffsSollya = Coefficients{
		1.0,
		0.69314697759916432673321,
		0.24022242085378028852993,
		5.55073374325413607111023e-2,
		9.67151263952592023243060e-3,
		1.32647271963665363408990e-3,
	}
)

// Float32 constants shared by the kernels.
var (
	log2E_f32 = float32(1 / stdmath.Ln2)
	ln2_f32   = float32(stdmath.Ln2)
	one_f32   = float32(1)
)

// ln(1+c) ≈ c + c2*c^2 + c3*c^3 + c4*c^4 for |c| <= 2^-(L+1).
const (
	logC2_f32 float32 = -0.49999999
	logC3_f32 float32 = 0.3333955701
	logC4_f32 float32 = -0.25008487
)

// float32 bit layout.
const (
	f32ExpBias  = 127 << 23
	f32MantBits = 23
	f32MantMask = 1<<f32MantBits - 1
)

// Accuracy bounds of the kernels with their default configuration.
const (
	// ExpMaxRelError bounds |y - exp(x)| / exp(x) for x in [-87, 88].
	ExpMaxRelError = 1e-5

	// LogMaxAbsError bounds |y - ln(x)| for positive normal x.
	LogMaxAbsError = 1e-5
)

// Register budget: the kernels were laid out for 32 architectural vector
// registers, shared between broadcast constants and per-replica temporaries.
const (
	vectorRegisters = 32

	expTemporaries = 3
	logTemporaries = 4
	logConstants   = 4 // one, tbl1, tbl2 and a scratch constant
)
