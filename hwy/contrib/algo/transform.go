package algo

import (
	"fmt"
	"sync"

	"github.com/go-highway/fmath/hwy"
	"github.com/go-highway/fmath/hwy/contrib/math"
	"github.com/go-highway/fmath/hwy/contrib/workerpool"
)

// MinParallelElems is the array length below which the parallel transforms
// run on the calling goroutine.
const MinParallelElems = 64 * 1024

var (
	expMapper = sync.OnceValue(func() *Mapper[float32] {
		k, err := math.NewExpKernel()
		return mustMapper(k, err, DefaultUnroll)
	})
	logMapper = sync.OnceValue(func() *Mapper[float32] {
		k, err := math.NewLogKernel(math.WithTableBits(DefaultLogTableBits))
		return mustMapper(k, err, DefaultUnroll)
	})
)

// mustMapper panics on error: the defaults are validated when
// zz_fmath_config.go is generated.
func mustMapper(core CoreFunc[float32], err error, unroll int) *Mapper[float32] {
	if err != nil {
		panic(fmt.Sprintf("algo: default kernel: %v", err))
	}
	m, err := NewMapper(core, WithUnroll(unroll))
	if err != nil {
		panic(fmt.Sprintf("algo: default mapper: %v", err))
	}
	return m
}

// ExpTransform writes exp(src[i]) to dst[i] for i < min(len(dst), len(src)).
// dst may be src. Relative error is below math.ExpMaxRelError for inputs in
// [-87, 88]; outside that range results are unspecified.
func ExpTransform(dst, src []float32) {
	expMapper().Map(dst, src)
}

// LogTransform writes ln(src[i]) to dst[i] for i < min(len(dst), len(src)).
// dst may be src. Absolute error is below math.LogMaxAbsError for positive
// normal inputs. Zero, negative, subnormal, NaN and Inf inputs produce
// unspecified values.
func LogTransform(dst, src []float32) {
	logMapper().Map(dst, src)
}

// ParallelExpTransform is ExpTransform with the array split across pool.
func ParallelExpTransform(pool *workerpool.Pool, dst, src []float32) {
	ParallelMap(pool, expMapper(), dst, src)
}

// ParallelLogTransform is LogTransform with the array split across pool.
func ParallelLogTransform(pool *workerpool.Pool, dst, src []float32) {
	ParallelMap(pool, logMapper(), dst, src)
}

// ParallelMap runs m.Map over disjoint chunks of the arrays on pool. Chunk
// boundaries are multiples of m.BlockSize(), so every chunk but the last
// runs without a masked tail. Arrays shorter than MinParallelElems, and a nil
// pool, are mapped on the calling goroutine.
func ParallelMap[T hwy.Floats](pool *workerpool.Pool, m *Mapper[T], dst, src []T) {
	n := min(len(dst), len(src))
	if pool == nil || n < MinParallelElems {
		m.Map(dst[:n], src[:n])
		return
	}
	pool.ParallelForAligned(n, m.BlockSize(), func(start, end int) {
		m.Map(dst[start:end], src[start:end])
	})
}
