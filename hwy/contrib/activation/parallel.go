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

package activation

import (
	"github.com/go-highway/fmath/hwy/contrib/algo"
	"github.com/go-highway/fmath/hwy/contrib/workerpool"
)

// ParallelApplyRows applies fn to each row of a [rows, cols] matrix in
// parallel. fn receives the output and input slices for a single row.
//
// Falls back to sequential execution when pool is nil or the total element
// count is below algo.MinParallelElems.
func ParallelApplyRows(pool *workerpool.Pool, dst, src []float32, rows, cols int, fn func(dst, src []float32)) {
	if pool == nil || rows*cols < algo.MinParallelElems {
		for r := range rows {
			off := r * cols
			fn(dst[off:off+cols], src[off:off+cols])
		}
		return
	}

	pool.ParallelFor(rows, func(start, end int) {
		for r := start; r < end; r++ {
			off := r * cols
			fn(dst[off:off+cols], src[off:off+cols])
		}
	})
}

// ParallelSigmoid applies Sigmoid row by row across pool.
func ParallelSigmoid(pool *workerpool.Pool, dst, src []float32, rows, cols int) {
	ParallelApplyRows(pool, dst, src, rows, cols, Sigmoid)
}

// ParallelSiLU applies SiLU row by row across pool.
func ParallelSiLU(pool *workerpool.Pool, dst, src []float32, rows, cols int) {
	ParallelApplyRows(pool, dst, src, rows, cols, SiLU)
}

// ParallelSoftplus applies Softplus row by row across pool.
func ParallelSoftplus(pool *workerpool.Pool, dst, src []float32, rows, cols int) {
	ParallelApplyRows(pool, dst, src, rows, cols, Softplus)
}
