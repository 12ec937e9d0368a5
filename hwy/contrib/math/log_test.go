package math

import (
	"errors"
	stdmath "math"
	"math/rand/v2"
	"testing"

	"github.com/go-highway/fmath/hwy"
	"github.com/stretchr/testify/require"
)

func newLog(t testing.TB, opts ...LogOption) *LogKernel {
	t.Helper()
	k, err := NewLogKernel(opts...)
	require.NoError(t, err)
	return k
}

// normalSamples returns positive normal float32 values spread over the whole
// exponent range, plus the range edges.
func normalSamples(n int) []float32 {
	rng := rand.New(rand.NewPCG(3, 4))
	xs := []float32{
		stdmath.SmallestNonzeroFloat32 * (1 << 23), // smallest normal
		stdmath.MaxFloat32,
		1, 2, 0.5, 0.99999994, 1.0000001,
	}
	for range n {
		xs = append(xs, float32(stdmath.Exp2(rng.Float64()*253.99-126)))
	}
	return xs
}

func TestLogAccuracy(t *testing.T) {
	k := newLog(t)
	xs := normalSamples(100000)

	maxErr, worst := 0.0, float32(0)
	for i := 0; i < len(xs); i += 16 {
		chunk := xs[i:min(i+16, len(xs))]
		y := k.Apply(hwy.LoadN(chunk, 16))
		for j, x := range chunk {
			if e := stdmath.Abs(float64(y.Lane(j)) - stdmath.Log(float64(x))); e > maxErr {
				maxErr, worst = e, x
			}
		}
	}
	if maxErr >= LogMaxAbsError {
		t.Errorf("max absolute error %g at x=%v, want < %g", maxErr, worst, LogMaxAbsError)
	}
	t.Logf("max absolute error %g at x=%v", maxErr, worst)
}

func TestLogKnownValues(t *testing.T) {
	k := newLog(t)
	tests := []struct {
		x    float32
		want float64
	}{
		{1, 0},
		{2, stdmath.Ln2},
		{0.5, -stdmath.Ln2},
		{stdmath.E, 1},
		{1024, 10 * stdmath.Ln2},
	}
	for _, tt := range tests {
		got := k.LogScalar(tt.x)
		if d := stdmath.Abs(float64(got) - tt.want); d >= LogMaxAbsError {
			t.Errorf("ln(%v): got %v, want %v (diff %g)", tt.x, got, tt.want, d)
		}
	}
}

func TestLogVectorMatchesScalar(t *testing.T) {
	for _, opts := range [][]LogOption{
		nil,
		{WithTableBits(6)},
		{WithPreciseNearOne(1.0 / 32)},
	} {
		k := newLog(t, opts...)
		xs := normalSamples(2000)
		// Values around 1 exercise the precise branch.
		for i := range 64 {
			xs = append(xs, float32(1+float64(i-32)/1024))
		}

		for _, replicas := range []int{1, 3, k.MaxUnroll(), logReplicaCap + 2} {
			lanes := 16
			vs := make([]hwy.Vec[float32], replicas)
			for start := 0; start < len(xs); start += lanes * replicas {
				for r := range vs {
					lo := min(start+r*lanes, len(xs))
					vs[r] = hwy.LoadN(xs[lo:min(lo+lanes, len(xs))], lanes)
				}
				in := make([]hwy.Vec[float32], replicas)
				copy(in, vs)
				k.Core(vs)
				for r := range vs {
					for j := range lanes {
						x := in[r].Lane(j)
						got, want := vs[r].Lane(j), k.LogScalar(x)
						if stdmath.Float32bits(got) != stdmath.Float32bits(want) {
							t.Fatalf("bits=%d replicas=%d: ln(%v): vector %v, scalar %v",
								k.Table().Bits, replicas, x, got, want)
						}
					}
				}
			}
		}
	}
}

func TestLogPreciseNearOne(t *testing.T) {
	k := newLog(t, WithPreciseNearOne(1.0/32))
	rng := rand.New(rand.NewPCG(5, 6))
	for range 10000 {
		x := float32(1 + (rng.Float64()*2-1)/32)
		if x == 1 {
			continue
		}
		want := stdmath.Log(float64(x))
		got := float64(k.LogScalar(x))
		if e := stdmath.Abs(got-want) / stdmath.Abs(want); e > 5e-7 {
			t.Fatalf("ln(%v): got %v, want %v (relative error %g)", x, got, want, e)
		}
	}
	require.Equal(t, float32(0), k.LogScalar(1))
}

func TestLogTableBits(t *testing.T) {
	for bits := 1; bits <= 8; bits++ {
		k := newLog(t, WithTableBits(bits))
		require.Equal(t, bits, k.Table().Bits)
		require.Equal(t, 1<<bits, k.Table().Len())
		got := float64(k.LogScalar(3))
		require.InDelta(t, stdmath.Log(3), got, 1e-3, "bits=%d", bits)
	}
}

func TestNewLogKernelInvalid(t *testing.T) {
	_, err := NewLogKernel(WithTableBits(0))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidTableBits), "got %v", err)

	_, err = NewLogKernel(WithTableBits(MaxTableBits + 1))
	require.ErrorIs(t, err, ErrInvalidTableBits)
}

func TestLogMaxUnroll(t *testing.T) {
	require.Equal(t, 7, newLog(t).MaxUnroll())
}

func BenchmarkLogCore(b *testing.B) {
	k := newLog(b)
	vs := make([]hwy.Vec[float32], 4)
	one := hwy.SetN[float32](1.5, 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for r := range vs {
			vs[r] = one
		}
		k.Core(vs)
	}
}
