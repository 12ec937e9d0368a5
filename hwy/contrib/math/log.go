package math

import (
	"fmt"
	stdmath "math"

	"github.com/go-highway/fmath/hwy"
)

// LogKernel computes y ≈ ln(x) per lane for positive normal x. It is
// immutable after construction and safe for concurrent use.
type LogKernel struct {
	table *LogTable

	precise  bool
	boundary float32

	// Broadcast constants, full width.
	bias     hwy.Vec[int32]
	mantMask hwy.Vec[int32]
	one      hwy.Vec[float32]
	ln2      hwy.Vec[float32]
	c2       hwy.Vec[float32]
	c3       hwy.Vec[float32]
	c4       hwy.Vec[float32]
	zero     hwy.Vec[float32]
	vbound   hwy.Vec[float32]
}

type logConfig struct {
	tableBits int
	precise   bool
	boundary  float32
}

// LogOption configures a LogKernel.
type LogOption func(*logConfig)

// WithTableBits sets the number of mantissa bits indexing the lookup
// tables. More bits shrink the polynomial's input range at the cost of a
// 2^bits entry table.
func WithTableBits(bits int) LogOption {
	return func(cfg *logConfig) {
		cfg.tableBits = bits
	}
}

// WithPreciseNearOne evaluates lanes with |x-1| < boundary as ln(1+c) with
// c = x-1 directly, skipping the table. This removes the cancellation
// between n*ln(2) and ln(b) close to 1. A boundary of 1/32 is typical.
func WithPreciseNearOne(boundary float32) LogOption {
	return func(cfg *logConfig) {
		cfg.precise = boundary > 0
		cfg.boundary = boundary
	}
}

// NewLogKernel returns a log kernel. It fails with ErrInvalidTableBits when
// the table size is out of range.
func NewLogKernel(opts ...LogOption) (*LogKernel, error) {
	cfg := logConfig{tableBits: DefaultTableBits}
	for _, opt := range opts {
		opt(&cfg)
	}
	table, err := NewLogTable(cfg.tableBits)
	if err != nil {
		return nil, fmt.Errorf("creating log kernel: %w", err)
	}

	const w = hwy.MaxLanesCap
	return &LogKernel{
		table:    table,
		precise:  cfg.precise,
		boundary: cfg.boundary,
		bias:     hwy.SetN[int32](f32ExpBias, w),
		mantMask: hwy.SetN[int32](f32MantMask, w),
		one:      hwy.SetN(one_f32, w),
		ln2:      hwy.SetN(ln2_f32, w),
		c2:       hwy.SetN(logC2_f32, w),
		c3:       hwy.SetN(logC3_f32, w),
		c4:       hwy.SetN(logC4_f32, w),
		zero:     hwy.ZeroN[float32](w),
		vbound:   hwy.SetN(cfg.boundary, w),
	}, nil
}

// Table returns the kernel's lookup tables.
func (k *LogKernel) Table() *LogTable {
	return k.table
}

// MaxUnroll returns how many replicas fit the register budget: four
// temporaries each, next to the one, tbl1, tbl2 and scratch constants.
func (k *LogKernel) MaxUnroll() int {
	return (vectorRegisters - logConstants) / logTemporaries
}

const logReplicaCap = (vectorRegisters - logConstants) / logTemporaries

// Core replaces every vector in vs by its lane-wise natural logarithm.
func (k *LogKernel) Core(vs []hwy.Vec[float32]) {
	for len(vs) > 0 {
		n := min(len(vs), logReplicaCap)
		k.core(vs[:n])
		vs = vs[n:]
	}
}

func (k *LogKernel) core(vs []hwy.Vec[float32]) {
	var (
		z    [logReplicaCap]hwy.Vec[float32]
		poly [logReplicaCap]hwy.Vec[float32]
		idx  [logReplicaCap]hwy.Vec[int32]
		keep [logReplicaCap]hwy.Vec[float32]
	)
	shift := f32MantBits - k.table.Bits

	if k.precise {
		copy(keep[:], vs)
	}

	// n = (bits - bias) >> 23, arithmetic.
	for i := range vs {
		bits := hwy.BitCastF32ToI32(vs[i])
		z[i] = hwy.ConvertToFloat32(hwy.ShiftRight(hwy.Sub(bits, k.bias), f32MantBits))
	}
	// a = mantissa with a zero exponent, in [1, 2); idx = top mantissa bits.
	for i := range vs {
		m := hwy.And(hwy.BitCastF32ToI32(vs[i]), k.mantMask)
		idx[i] = hwy.ShiftRight(m, shift)
		vs[i] = hwy.BitCastI32ToF32(hwy.Or(m, k.bias))
	}
	// c = a*b - 1
	for i := range vs {
		b := hwy.GatherIndex(k.table.Inv, idx[i])
		vs[i] = hwy.MulSub(vs[i], b, k.one)
	}
	// z = n*ln2 - ln(b)
	for i := range vs {
		logb := hwy.GatherIndex(k.table.LogInv, idx[i])
		z[i] = hwy.MulSub(z[i], k.ln2, logb)
	}

	if k.precise {
		for i := range vs {
			d := hwy.Sub(keep[i], k.one)
			near := hwy.LessThan(hwy.Abs(d), k.vbound)
			vs[i] = hwy.IfThenElse(near, d, vs[i])
			z[i] = hwy.IfThenElse(near, k.zero, z[i])
		}
	}

	for i := range vs {
		poly[i] = hwy.MulAdd(vs[i], k.c4, k.c3)
	}
	for i := range vs {
		poly[i] = hwy.MulAdd(poly[i], vs[i], k.c2)
	}
	for i := range vs {
		poly[i] = hwy.MulAdd(poly[i], vs[i], k.one)
	}
	for i := range vs {
		vs[i] = hwy.MulAdd(vs[i], poly[i], z[i])
	}
}

// Apply returns ln of every lane of v.
func (k *LogKernel) Apply(v hwy.Vec[float32]) hwy.Vec[float32] {
	vs := [1]hwy.Vec[float32]{v}
	k.core(vs[:])
	return vs[0]
}

// LogScalar computes ln(x) with the same operation sequence as Core.
func (k *LogKernel) LogScalar(x float32) float32 {
	bits := int32(stdmath.Float32bits(x))
	n := float32((bits - f32ExpBias) >> f32MantBits)
	m := bits & f32MantMask
	idx := m >> (f32MantBits - k.table.Bits)
	a := stdmath.Float32frombits(uint32(m | f32ExpBias))

	c := fma32(a, k.table.Inv[idx], -one_f32)
	z := fma32(n, ln2_f32, -k.table.LogInv[idx])

	if k.precise {
		if d := float32(x - one_f32); stdmath.Abs(float64(d)) < float64(k.boundary) {
			c, z = d, 0
		}
	}

	p := fma32(c, logC4_f32, logC3_f32)
	p = fma32(p, c, logC2_f32)
	p = fma32(p, c, one_f32)
	return fma32(c, p, z)
}
