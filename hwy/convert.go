package hwy

import "math"

// This file provides conversions and bit reinterpretations between the lane
// types. Bit casts never change the lane's bit pattern.

// ConvertToInt32 converts float lanes to int32, truncating toward zero.
// For values outside the int32 range, the result is undefined.
func ConvertToInt32[T Floats](v Vec[T]) Vec[int32] {
	r := Vec[int32]{n: v.n}
	for i := range v.n {
		r.data[i] = int32(v.data[i])
	}
	return r
}

// ConvertToFloat32 converts integer lanes to float32 (round to nearest even).
func ConvertToFloat32[T Integers](v Vec[T]) Vec[float32] {
	r := Vec[float32]{n: v.n}
	for i := range v.n {
		r.data[i] = float32(v.data[i])
	}
	return r
}

// BitCastF32ToI32 reinterprets float32 bits as int32 without conversion.
func BitCastF32ToI32(v Vec[float32]) Vec[int32] {
	r := Vec[int32]{n: v.n}
	for i := range v.n {
		r.data[i] = int32(math.Float32bits(v.data[i]))
	}
	return r
}

// BitCastI32ToF32 reinterprets int32 bits as float32 without conversion.
func BitCastI32ToF32(v Vec[int32]) Vec[float32] {
	r := Vec[float32]{n: v.n}
	for i := range v.n {
		r.data[i] = math.Float32frombits(uint32(v.data[i]))
	}
	return r
}

// BitCastF32ToU32 reinterprets float32 bits as uint32 without conversion.
func BitCastF32ToU32(v Vec[float32]) Vec[uint32] {
	r := Vec[uint32]{n: v.n}
	for i := range v.n {
		r.data[i] = math.Float32bits(v.data[i])
	}
	return r
}

// BitCastU32ToF32 reinterprets uint32 bits as float32 without conversion.
func BitCastU32ToF32(v Vec[uint32]) Vec[float32] {
	r := Vec[float32]{n: v.n}
	for i := range v.n {
		r.data[i] = math.Float32frombits(v.data[i])
	}
	return r
}
