// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hwy

import (
	"math"
	"unsafe"
)

// This file provides the portable implementations of the lane operations.
// Every operation is lane-wise: lane i of the result depends only on lane i
// of the operands. Binary operations take their lane count from the first
// operand. Floating-point results are converted back to T after every
// operation so that no two operations are fused by the compiler.

func clampLanes(n int) int {
	return max(1, min(n, MaxLanesCap))
}

// LoadN creates a lanes-wide vector from the start of src.
// Lanes beyond len(src) are zero.
func LoadN[T Lanes](src []T, lanes int) Vec[T] {
	v := Vec[T]{n: clampLanes(lanes)}
	copy(v.data[:v.n], src)
	return v
}

// Load creates a vector of MaxLanes[T]() lanes from the start of src.
func Load[T Lanes](src []T) Vec[T] {
	return LoadN(src, MaxLanes[T]())
}

// Store writes a vector's lanes to dst, stopping at len(dst).
func Store[T Lanes](v Vec[T], dst []T) {
	copy(dst, v.data[:v.n])
}

// SetN creates a lanes-wide vector with every lane set to value.
func SetN[T Lanes](value T, lanes int) Vec[T] {
	v := Vec[T]{n: clampLanes(lanes)}
	for i := range v.n {
		v.data[i] = value
	}
	return v
}

// Set creates a vector with all lanes set to the same value.
func Set[T Lanes](value T) Vec[T] {
	return SetN(value, MaxLanes[T]())
}

// ZeroN creates a lanes-wide vector of zeros.
func ZeroN[T Lanes](lanes int) Vec[T] {
	return Vec[T]{n: clampLanes(lanes)}
}

// Zero creates a vector with all lanes set to zero.
func Zero[T Lanes]() Vec[T] {
	return ZeroN[T](MaxLanes[T]())
}

// Iota returns a vector with lanes set to [0, 1, 2, 3, ...].
func Iota[T Lanes]() Vec[T] {
	v := Vec[T]{n: MaxLanes[T]()}
	for i := range v.n {
		v.data[i] = T(i)
	}
	return v
}

// Add performs element-wise addition.
func Add[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = T(a.data[i] + b.data[i])
	}
	return a
}

// Sub performs element-wise subtraction.
func Sub[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = T(a.data[i] - b.data[i])
	}
	return a
}

// Mul performs element-wise multiplication.
func Mul[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = T(a.data[i] * b.data[i])
	}
	return a
}

// Div performs element-wise division.
func Div[T Floats](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = T(a.data[i] / b.data[i])
	}
	return a
}

// Neg negates each lane.
func Neg[T Lanes](v Vec[T]) Vec[T] {
	for i := range v.n {
		v.data[i] = -v.data[i]
	}
	return v
}

// Abs computes the absolute value of each lane. For floats only the sign bit
// is cleared.
func Abs[T Lanes](v Vec[T]) Vec[T] {
	float := isFloat[T]()
	signMask := ^laneBits(getSignBit[T]())
	for i := range v.n {
		if float {
			v.data[i] = fromLaneBits[T](laneBits(v.data[i]) & signMask)
		} else if v.data[i] < 0 {
			v.data[i] = -v.data[i]
		}
	}
	return v
}

// Min returns the element-wise minimum.
func Min[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		if b.data[i] < a.data[i] {
			a.data[i] = b.data[i]
		}
	}
	return a
}

// Max returns the element-wise maximum.
func Max[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		if b.data[i] > a.data[i] {
			a.data[i] = b.data[i]
		}
	}
	return a
}

// MulAdd performs fused multiply-add: a*b + c, rounded once to T.
func MulAdd[T Floats](a, b, c Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = T(MulAddLane(float32(a.data[i]), float32(b.data[i]), float32(c.data[i])))
	}
	return a
}

// MulSub performs fused multiply-subtract: a*b - c, rounded once to T.
func MulSub[T Floats](a, b, c Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = T(MulAddLane(float32(a.data[i]), float32(b.data[i]), -float32(c.data[i])))
	}
	return a
}

// MulAddLane is the single-lane form of MulAdd.
//
// The float32 product is exact in float64. The sum is rounded to odd in
// float64, which has more than 24+2 bits of precision, so the final
// conversion rounds the exact a*b+c correctly.
func MulAddLane(a, b, c float32) float32 {
	p := float64(a) * float64(b)
	s := p + float64(c)

	// e is the exact rounding error of s (TwoSum).
	t := s - p
	e := (p - (s - t)) + (float64(c) - t)
	if e != 0 && !math.IsInf(s, 0) && !math.IsNaN(e) && math.Float64bits(s)&1 == 0 {
		s = math.Nextafter(s, math.Copysign(math.Inf(1), e))
	}
	return float32(s)
}

// RoundToEven rounds to the nearest integer, ties to even.
// This is the default IEEE 754 rounding mode.
func RoundToEven[T Floats](v Vec[T]) Vec[T] {
	for i := range v.n {
		v.data[i] = T(math.RoundToEven(float64(v.data[i])))
	}
	return v
}

// Scale computes a * 2^floor(k) per lane, like AVX-512 VSCALEFPS.
//
// When the scaled value stays a normal float the exponent field of a is
// adjusted directly, so no multiplication (and no rounding) takes place.
// Results that leave the normal range are rounded once.
func Scale[T Floats](a, k Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = T(ScaleLane(float32(a.data[i]), float32(k.data[i])))
	}
	return a
}

const (
	f32ExpShift = 23
	f32ExpMask  = 0xff << f32ExpShift
	f32ExpMax   = 0xff
	scaleLimit  = 512
)

// ScaleLane is the single-lane form of Scale.
func ScaleLane(a, k float32) float32 {
	if a == 0 || a != a || math.IsInf(float64(a), 0) {
		return a
	}
	if k != k {
		return k
	}
	e := int(math.Floor(float64(max(min(k, scaleLimit), -scaleLimit))))

	b := math.Float32bits(a)
	if exp := int(b&f32ExpMask) >> f32ExpShift; exp != 0 {
		if ne := exp + e; ne > 0 && ne < f32ExpMax {
			return math.Float32frombits(b&^f32ExpMask | uint32(ne)<<f32ExpShift)
		}
	}
	// a is subnormal or the result over/underflows the normal range.
	// float64 holds a*2^e exactly for |e| <= scaleLimit.
	return float32(math.Ldexp(float64(a), e))
}

// ShiftLeft performs element-wise left shift by a constant number of bits.
func ShiftLeft[T Integers](v Vec[T], bits int) Vec[T] {
	for i := range v.n {
		v.data[i] <<= uint(bits)
	}
	return v
}

// ShiftRight performs element-wise right shift by a constant number of bits.
// For signed integers this is an arithmetic shift (sign-extended), for
// unsigned integers a logical shift (zero-filled).
func ShiftRight[T Integers](v Vec[T], bits int) Vec[T] {
	for i := range v.n {
		v.data[i] >>= uint(bits)
	}
	return v
}

// And performs element-wise bitwise AND. Float lanes are combined by their
// bit patterns.
func And[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = fromLaneBits[T](laneBits(a.data[i]) & laneBits(b.data[i]))
	}
	return a
}

// Or performs element-wise bitwise OR.
func Or[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = fromLaneBits[T](laneBits(a.data[i]) | laneBits(b.data[i]))
	}
	return a
}

// Xor performs element-wise bitwise XOR.
func Xor[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = fromLaneBits[T](laneBits(a.data[i]) ^ laneBits(b.data[i]))
	}
	return a
}

// AndNot performs element-wise bitwise AND NOT (~a & b).
func AndNot[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = fromLaneBits[T](^laneBits(a.data[i]) & laneBits(b.data[i]))
	}
	return a
}

// SignBit returns a vector with only the sign bit set in each lane.
// For floats, this is -0.0. For signed integers, this is the minimum value.
func SignBit[T Lanes]() Vec[T] {
	return Set(getSignBit[T]())
}

// Equal performs element-wise equality comparison.
func Equal[T Lanes](a, b Vec[T]) Mask[T] {
	m := Mask[T]{n: a.n}
	for i := range a.n {
		if a.data[i] == b.data[i] {
			m.bits |= 1 << uint(i)
		}
	}
	return m
}

// LessThan performs element-wise a < b.
func LessThan[T Lanes](a, b Vec[T]) Mask[T] {
	m := Mask[T]{n: a.n}
	for i := range a.n {
		if a.data[i] < b.data[i] {
			m.bits |= 1 << uint(i)
		}
	}
	return m
}

// GreaterThan performs element-wise a > b.
func GreaterThan[T Lanes](a, b Vec[T]) Mask[T] {
	return LessThan(b, a)
}

// IfThenElse selects lanes from a where mask is set and from b otherwise.
func IfThenElse[T Lanes](mask Mask[T], a, b Vec[T]) Vec[T] {
	for i := range b.n {
		if mask.bits&(1<<uint(i)) != 0 {
			b.data[i] = a.data[i]
		}
	}
	return b
}

// MaskLoad loads lanes where the mask is set. Inactive lanes read as zero and
// src is never read past len(src).
func MaskLoad[T Lanes](mask Mask[T], src []T) Vec[T] {
	v := Vec[T]{n: mask.n}
	n := min(len(src), mask.n)
	for i := range n {
		if mask.bits&(1<<uint(i)) != 0 {
			v.data[i] = src[i]
		}
	}
	return v
}

// MaskStore stores lanes where the mask is set. Inactive lanes of dst are
// left untouched and dst is never written past len(dst).
func MaskStore[T Lanes](mask Mask[T], v Vec[T], dst []T) {
	n := min(len(dst), min(v.n, mask.n))
	for i := range n {
		if mask.bits&(1<<uint(i)) != 0 {
			dst[i] = v.data[i]
		}
	}
}

// All lane types are 32 bits wide, so a lane can be reinterpreted as uint32
// directly, including named types such as `type Celsius float32`.
func laneBits[T Lanes](x T) uint32 {
	return *(*uint32)(unsafe.Pointer(&x))
}

func fromLaneBits[T Lanes](b uint32) T {
	return *(*T)(unsafe.Pointer(&b))
}

func isFloat[T Lanes]() bool {
	// Only float lanes produce a fraction when dividing one by two.
	var one T = 1
	return one/2 != 0
}

func getSignBit[T Lanes]() T {
	return fromLaneBits[T](0x80000000)
}
