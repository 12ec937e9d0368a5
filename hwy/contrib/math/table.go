package math

import (
	"fmt"
	stdmath "math"
)

const (
	// DefaultTableBits is the default number of mantissa bits used to index
	// the log tables (16 entries).
	DefaultTableBits = 4

	// MinTableBits and MaxTableBits bound the log table size.
	MinTableBits = 1
	MaxTableBits = 12
)

// LogTable holds the two co-indexed lookup tables of the log kernel.
//
// For index i the representative mantissa is
//
//	u = 1 + (2i+1) / 2^(Bits+1)
//
// the midpoint of the i-th of 2^Bits equal slices of [1, 2). Inv[i] is 1/u
// rounded to float32 and LogInv[i] is ln(Inv[i]) computed in float64 from the
// rounded value, then rounded to float32.
type LogTable struct {
	Bits   int
	Inv    []float32
	LogInv []float32
}

// NewLogTable builds the log tables indexed by the top bits mantissa bits.
// The result only depends on bits; rebuilding gives identical bit patterns.
func NewLogTable(bits int) (*LogTable, error) {
	if bits < MinTableBits || bits > MaxTableBits {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidTableBits, bits, MinTableBits, MaxTableBits)
	}
	size := 1 << bits
	t := &LogTable{
		Bits:   bits,
		Inv:    make([]float32, size),
		LogInv: make([]float32, size),
	}
	for i := range size {
		u := stdmath.Float32frombits(f32ExpBias | uint32(2*i+1)<<(f32MantBits-bits-1))
		inv := float32(1 / float64(u))
		t.Inv[i] = inv
		t.LogInv[i] = float32(stdmath.Log(float64(inv)))
	}
	return t, nil
}

// Len returns the number of table entries.
func (t *LogTable) Len() int {
	return len(t.Inv)
}

// Index returns the table index for x: its top Bits mantissa bits.
func (t *LogTable) Index(x float32) int {
	return int(stdmath.Float32bits(x)&f32MantMask) >> (f32MantBits - t.Bits)
}
