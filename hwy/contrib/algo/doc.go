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

// Package algo drives elementwise vector transforms over float32 arrays.
//
// # Vector map
//
// A Mapper applies a CoreFunc to an array in three regimes:
//
//  1. an unrolled loop that loads unroll consecutive vectors and hands them
//     to the core function at once,
//  2. a single-vector loop for what is left down to one full vector,
//  3. one masked call for the final n mod lanes elements. Inactive lanes load
//     as zero and are never stored.
//
// Exactly min(len(dst), len(src)) elements are written and nothing beyond
// them is read or written. dst and src may be the same slice.
//
// # Transforms
//
//   - ExpTransform(dst, src []float32)
//   - LogTransform(dst, src []float32)
//   - ParallelExpTransform(pool, dst, src []float32)
//   - ParallelLogTransform(pool, dst, src []float32)
//
// These use the kernels of hwy/contrib/math with the unroll factor and log
// table size from zz_fmath_config.go. There is no error path: inputs outside
// a kernel's domain (for example zero or negative values passed to
// LogTransform) produce unspecified values, and callers must filter them.
//
// # Example Usage
//
//	import "github.com/go-highway/fmath/hwy/contrib/algo"
//
//	func Softmax(x []float32) {
//	    algo.ExpTransform(x, x)
//	    // ... normalize
//	}
//
// Custom core functions work the same way:
//
//	m, err := algo.NewMapper[float32](algo.VecFunc[float32](func(v hwy.Vec[float32]) hwy.Vec[float32] {
//	    return hwy.MulAdd(v, v, v) // x² + x
//	}), algo.WithUnroll(2))
//	if err != nil {
//	    return err
//	}
//	m.Map(dst, src)
package algo
