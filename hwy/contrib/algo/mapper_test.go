package algo

import (
	"fmt"
	stdmath "math"
	"testing"

	"github.com/go-highway/fmath/hwy"
	"github.com/go-highway/fmath/hwy/contrib/math"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const poison = float32(-12345)

// recordingCore computes 2x+1 and records the replication count of every
// call and whether it ever saw a poisoned lane.
type recordingCore struct {
	calls    []int
	poisoned bool
}

func (c *recordingCore) Core(vs []hwy.Vec[float32]) {
	c.calls = append(c.calls, len(vs))
	two, one := hwy.SetN[float32](2, hwy.MaxLanesCap), hwy.SetN[float32](1, hwy.MaxLanesCap)
	for i := range vs {
		if hwy.Equal(vs[i], hwy.SetN(poison, vs[i].NumLanes())).AnyTrue() {
			c.poisoned = true
		}
		vs[i] = hwy.MulAdd(vs[i], two, one)
	}
}

func newMapper(t *testing.T, core CoreFunc[float32], opts ...Option) *Mapper[float32] {
	t.Helper()
	m, err := NewMapper(core, opts...)
	require.NoError(t, err)
	return m
}

func TestPlan(t *testing.T) {
	tests := []struct {
		n, lanes, unroll int
		want             Plan
	}{
		{0, 16, 4, Plan{}},
		{-1, 16, 4, Plan{}},
		{17, 16, 1, Plan{Unrolled: 0, Single: 1, Tail: 1}},
		{16, 16, 1, Plan{Single: 1}},
		{15, 16, 4, Plan{Tail: 15}},
		{64, 16, 4, Plan{Unrolled: 1}},
		{100, 16, 4, Plan{Unrolled: 1, Single: 2, Tail: 4}},
		{1000, 8, 3, Plan{Unrolled: 41, Single: 2, Tail: 0}},
		{7, 1, 2, Plan{Unrolled: 3, Single: 1}},
	}
	for _, tt := range tests {
		m := newMapper(t, &recordingCore{}, WithLanes(tt.lanes), WithUnroll(tt.unroll))
		got := m.Plan(tt.n)
		if got != tt.want {
			t.Errorf("Plan(%d) lanes=%d unroll=%d: got %+v, want %+v", tt.n, tt.lanes, tt.unroll, got, tt.want)
		}
		if n := max(tt.n, 0); got.Unrolled*m.BlockSize()+got.Single*m.Lanes()+got.Tail != n {
			t.Errorf("Plan(%d) does not cover all elements: %+v", tt.n, got)
		}
	}
}

func TestMapCallsFollowPlan(t *testing.T) {
	core := &recordingCore{}
	m := newMapper(t, core, WithLanes(16), WithUnroll(4))

	src := make([]float32, 100)
	m.Map(make([]float32, 100), src)

	want := []int{4, 1, 1, 1}
	if diff := cmp.Diff(want, core.calls); diff != "" {
		t.Errorf("replication counts (-want +got):\n%s", diff)
	}
}

func TestMapZeroLength(t *testing.T) {
	core := &recordingCore{}
	m := newMapper(t, core)

	m.Map(nil, nil)
	m.Map(make([]float32, 5), nil)
	m.Map(nil, make([]float32, 5))
	if len(core.calls) != 0 {
		t.Errorf("core called %d times for empty input", len(core.calls))
	}
}

func TestMapLengthFidelity(t *testing.T) {
	const guard = 8
	for _, lanes := range []int{1, 4, 16} {
		for _, unroll := range []int{1, 3, 4} {
			maxN := 3*lanes*unroll + lanes
			for n := 0; n <= maxN; n++ {
				core := &recordingCore{}
				m := newMapper(t, core, WithLanes(lanes), WithUnroll(unroll))

				backing := make([]float32, n+guard)
				for i := range backing {
					if i < n {
						backing[i] = float32(i)
					} else {
						backing[i] = poison
					}
				}
				dst := make([]float32, n+guard)
				for i := range dst {
					dst[i] = poison
				}

				m.Map(dst, backing[:n])

				name := fmt.Sprintf("lanes=%d unroll=%d n=%d", lanes, unroll, n)
				if core.poisoned {
					t.Errorf("%s: read past the end of src", name)
				}
				for i := range dst {
					want := poison
					if i < n {
						want = 2*float32(i) + 1
					}
					if dst[i] != want {
						t.Errorf("%s: dst[%d] = %v, want %v", name, i, dst[i], want)
					}
				}
				if got, want := len(core.calls), m.Plan(n).Calls(); got != want {
					t.Errorf("%s: %d core calls, want %d", name, got, want)
				}
			}
		}
	}
}

func TestMapTailMatchesFullVectors(t *testing.T) {
	k, err := math.NewExpKernel()
	require.NoError(t, err)
	m := newMapper(t, k, WithLanes(16), WithUnroll(2))

	const n = 16*5 + 7
	src := make([]float32, n)
	for i := range src {
		src[i] = float32(i)/10 - 4
	}
	dst := make([]float32, n)
	m.Map(dst, src)

	// Pad the last partial vector with arbitrary values and run it
	// through the full-vector path.
	padded := make([]float32, 16)
	for i := range padded {
		padded[i] = 50 - float32(i)
	}
	copy(padded, src[n-7:])
	full := k.Apply(hwy.LoadN(padded, 16)).Data()

	if diff := cmp.Diff(bitsOf(full[:7]), bitsOf(dst[n-7:])); diff != "" {
		t.Errorf("tail differs from full-vector path (-full +tail):\n%s", diff)
	}
	for i, x := range src {
		if dst[i] != k.ExpScalar(x) {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], k.ExpScalar(x))
		}
	}
}

func bitsOf(xs []float32) []uint32 {
	out := make([]uint32, len(xs))
	for i, x := range xs {
		out[i] = stdmath.Float32bits(x)
	}
	return out
}

func TestMapInPlace(t *testing.T) {
	k, err := math.NewLogKernel()
	require.NoError(t, err)
	m := newMapper(t, k, WithLanes(8), WithUnroll(3))

	data := make([]float32, 203)
	for i := range data {
		data[i] = float32(i+1) * 0.37
	}
	want := make([]float32, len(data))
	m.Map(want, data)

	m.Map(data, data)
	if diff := cmp.Diff(bitsOf(want), bitsOf(data)); diff != "" {
		t.Errorf("in-place result differs (-out-of-place +in-place):\n%s", diff)
	}
}

func TestMapShorterDestination(t *testing.T) {
	m := newMapper(t, &recordingCore{}, WithLanes(4), WithUnroll(2))
	src := []float32{1, 2, 3, 4, 5, 6, 7}
	dst := make([]float32, 5)
	m.Map(dst, src)
	require.Equal(t, []float32{3, 5, 7, 9, 11}, dst)
}

func TestNewMapperErrors(t *testing.T) {
	exp, err := math.NewExpKernel()
	require.NoError(t, err)
	log, err := math.NewLogKernel()
	require.NoError(t, err)

	tests := []struct {
		name string
		core CoreFunc[float32]
		opts []Option
		want error
	}{
		{"zero unroll", exp, []Option{WithUnroll(0)}, ErrInvalidUnroll},
		{"exp register budget", exp, []Option{WithUnroll(exp.MaxUnroll() + 1)}, ErrInvalidUnroll},
		{"log register budget", log, []Option{WithUnroll(8)}, ErrInvalidUnroll},
		{"generic cap", &recordingCore{}, []Option{WithUnroll(MaxUnroll + 1)}, ErrInvalidUnroll},
		{"zero lanes", exp, []Option{WithLanes(0)}, ErrInvalidLanes},
		{"odd lanes", exp, []Option{WithLanes(12)}, ErrInvalidLanes},
		{"too many lanes", exp, []Option{WithLanes(32)}, ErrInvalidLanes},
		{"nil core", nil, nil, ErrNilCore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMapper(tt.core, tt.opts...)
			require.ErrorIs(t, err, tt.want)
		})
	}

	m, err := NewMapper[float32](exp, WithUnroll(exp.MaxUnroll()), WithLanes(16))
	require.NoError(t, err)
	require.Equal(t, 8, m.Unroll())
	require.Equal(t, 128, m.BlockSize())
}

func TestWithTag(t *testing.T) {
	exp, err := math.NewExpKernel()
	require.NoError(t, err)

	tests := []struct {
		tag   hwy.Tag
		lanes int
	}{
		{hwy.FixedTag128[float32]{}, 4},
		{hwy.FixedTag256[float32]{}, 8},
		{hwy.FixedTag512[float32]{}, 16},
		{hwy.ScalableTag[float32]{}, hwy.MaxLanes[float32]()},
	}
	for _, tt := range tests {
		m := newMapper(t, exp, WithTag[float32](tt.tag), WithUnroll(2))
		require.Equal(t, tt.lanes, m.Lanes(), tt.tag.Name())

		src := []float32{0, 1, -1, 2, -2, 3, -3, 4, -4, 5, -5, 6, -6, 7, -7, 8, -8, 9, -9, 10}
		dst := make([]float32, len(src))
		m.Map(dst, src)
		for i, x := range src {
			require.Equal(t, exp.ExpScalar(x), dst[i], "%s: x=%v", tt.tag.Name(), x)
		}
	}
}

func TestMapDoesNotAllocate(t *testing.T) {
	if raceEnabled {
		t.Skip("allocation counts are unreliable under the race detector")
	}
	exp, err := math.NewExpKernel()
	require.NoError(t, err)
	m := newMapper(t, exp, WithUnroll(4), WithLanes(8))

	src := make([]float32, 1000)
	dst := make([]float32, len(src))
	allocs := testing.AllocsPerRun(100, func() {
		m.Map(dst, src)
	})
	require.Zero(t, allocs)
}

func TestApply(t *testing.T) {
	src := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	dst := make([]float32, len(src))
	Apply(dst, src, func(v hwy.Vec[float32]) hwy.Vec[float32] {
		return hwy.Mul(v, v)
	})
	for i, x := range src {
		if dst[i] != x*x {
			t.Errorf("Apply: dst[%d] = %v, want %v", i, dst[i], x*x)
		}
	}
}
