// Package hwy provides portable lane vectors for 32-bit element types with
// runtime CPU dispatch.
//
// It follows the Highway C++ library's design philosophy: write the algorithm
// once against lane-wise operations and let the vector width be decided by the
// target. The portable implementation keeps every lane in a fixed-size array,
// so a Vec is a plain value: creating, passing and returning vectors never
// touches the heap.
//
// Basic usage:
//
//	import "github.com/go-highway/fmath/hwy"
//
//	lanes := hwy.MaxLanes[float32]()
//	a := hwy.LoadN(data1, lanes)
//	b := hwy.LoadN(data2, lanes)
//	hwy.Store(hwy.Add(a, b), output)
package hwy

import "math/bits"

// MaxLanesCap is the largest number of 32-bit lanes a Vec can hold.
// It matches a 512-bit register (AVX-512 ZMM, SME streaming vectors).
const MaxLanesCap = 16

// Floats is a constraint for floating-point lane types.
type Floats interface {
	~float32
}

// SignedInts is a constraint for signed integer lane types.
type SignedInts interface {
	~int32
}

// UnsignedInts is a constraint for unsigned integer lane types.
type UnsignedInts interface {
	~uint32
}

// Integers is a constraint for all integer lane types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all types that can be stored in a lane.
type Lanes interface {
	Floats | Integers
}

// Vec is a portable vector handle. Only the first NumLanes() entries are
// meaningful; all lanes of a Vec move together.
//
// Vec instances should not be created directly; use Load, Set, or Zero instead.
type Vec[T Lanes] struct {
	data [MaxLanesCap]T
	n    int
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return v.n
}

// Data returns a copy of the active lanes.
// This is primarily for testing and should not be used in performance-critical code.
func (v Vec[T]) Data() []T {
	out := make([]T, v.n)
	copy(out, v.data[:v.n])
	return out
}

// Lane returns the value held in lane i.
func (v Vec[T]) Lane(i int) T {
	return v.data[i]
}

// Store writes the vector's data to a slice.
// This is the method form of the hwy.Store function.
func (v Vec[T]) Store(dst []T) {
	Store(v, dst)
}

// Mask selects lanes for MaskLoad, MaskStore and IfThenElse.
// Bit i is set when lane i is active.
type Mask[T Lanes] struct {
	bits uint32
	n    int
}

// NumLanes returns the number of lanes in this mask.
func (m Mask[T]) NumLanes() int {
	return m.n
}

// Bits returns the mask as a bitset with one bit per lane.
func (m Mask[T]) Bits() uint32 {
	return m.bits
}

// AllTrue returns true if all lanes in the mask are active.
func (m Mask[T]) AllTrue() bool {
	return m.bits == fullBits(m.n)
}

// AnyTrue returns true if at least one lane in the mask is active.
func (m Mask[T]) AnyTrue() bool {
	return m.bits != 0
}

// CountTrue returns the number of active lanes in the mask.
func (m Mask[T]) CountTrue() int {
	return bits.OnesCount32(m.bits)
}

// GetBit returns whether lane i is active.
func (m Mask[T]) GetBit(i int) bool {
	if i < 0 || i >= m.n {
		return false
	}
	return m.bits&(1<<uint(i)) != 0
}

func fullBits(n int) uint32 {
	if n >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<uint(n) - 1
}
