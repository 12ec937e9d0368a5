package main

import (
	"fmt"
	stdmath "math"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/spf13/cobra"

	"github.com/go-highway/fmath/hwy/contrib/algo"
	"github.com/go-highway/fmath/hwy/contrib/math"
)

// Report holds the worst errors of one kernel against a float64 reference
// and against chewxy/math32.
type Report struct {
	Name       string
	Samples    int
	MaxErr     float64 // against float64 math
	WorstX     float32
	MaxErr32   float64 // against math32
	Bound      float64
	IsRelative bool
}

func (r Report) String() string {
	kind := "abs"
	if r.IsRelative {
		kind = "rel"
	}
	return fmt.Sprintf("%-4s samples=%d max %s err %.3g at x=%g (bound %g), vs math32 %.3g",
		r.Name, r.Samples, kind, r.MaxErr, r.WorstX, r.Bound, r.MaxErr32)
}

// Exceeded reports whether the float64-referenced error breaks the bound.
func (r Report) Exceeded() bool {
	return r.MaxErr >= r.Bound
}

// MeasureExp runs ExpTransform on samples uniform in [-87, 88].
func MeasureExp(samples int, seed uint64) Report {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	src := make([]float32, samples)
	for i := range src {
		src[i] = float32(rng.Float64()*175 - 87)
	}
	dst := make([]float32, samples)
	algo.ExpTransform(dst, src)

	r := Report{Name: "exp", Samples: samples, Bound: math.ExpMaxRelError, IsRelative: true}
	for i, x := range src {
		want := stdmath.Exp(float64(x))
		if e := stdmath.Abs(float64(dst[i])-want) / want; e > r.MaxErr {
			r.MaxErr, r.WorstX = e, x
		}
		want32 := float64(math32.Exp(x))
		r.MaxErr32 = max(r.MaxErr32, stdmath.Abs(float64(dst[i])-want32)/want32)
	}
	return r
}

// MeasureLog runs a log kernel with the given table size on positive normal
// samples spread over the whole exponent range.
func MeasureLog(samples int, seed uint64, tableBits int) (Report, error) {
	k, err := math.NewLogKernel(math.WithTableBits(tableBits))
	if err != nil {
		return Report{}, err
	}
	m, err := algo.NewMapper[float32](k, algo.WithUnroll(algo.DefaultUnroll))
	if err != nil {
		return Report{}, err
	}

	rng := rand.New(rand.NewPCG(seed, seed+1))
	src := make([]float32, samples)
	for i := range src {
		src[i] = float32(stdmath.Exp2(rng.Float64()*253.99 - 126))
	}
	dst := make([]float32, samples)
	m.Map(dst, src)

	r := Report{Name: "log", Samples: samples, Bound: math.LogMaxAbsError}
	for i, x := range src {
		if e := stdmath.Abs(float64(dst[i]) - stdmath.Log(float64(x))); e > r.MaxErr {
			r.MaxErr, r.WorstX = e, x
		}
		r.MaxErr32 = max(r.MaxErr32, stdmath.Abs(float64(dst[i]-math32.Log(x))))
	}
	return r, nil
}

func newAccuracyCmd() *cobra.Command {
	var (
		samples   int
		seed      uint64
		tableBits int
		check     bool
	)
	cmd := &cobra.Command{
		Use:   "accuracy",
		Short: "Measure the kernels' worst-case error on random inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples < 1 {
				return fmt.Errorf("--samples must be positive, got %d", samples)
			}
			logReport, err := MeasureLog(samples, seed, tableBits)
			if err != nil {
				return err
			}
			reports := []Report{MeasureExp(samples, seed), logReport}

			for _, r := range reports {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			if check {
				for _, r := range reports {
					if r.Exceeded() {
						return fmt.Errorf("%s: max error %g exceeds %g", r.Name, r.MaxErr, r.Bound)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&samples, "samples", 1_000_000, "Random inputs per kernel")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&tableBits, "table-bits", math.DefaultTableBits, "Mantissa bits indexing the log tables")
	cmd.Flags().BoolVar(&check, "check", false, "Fail when an error bound is exceeded")
	return cmd
}
