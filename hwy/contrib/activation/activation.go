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

// Package activation provides neural-network activation functions built on
// the exp and log kernels of hwy/contrib/math.
//
// Each activation is a core function for the algo vector map, so it runs
// unrolled with a masked tail like ExpTransform. Arguments are clamped to
// the kernels' accurate range before exp is taken, which makes these safe
// for any finite input.
package activation

import (
	"fmt"
	"sync"

	"github.com/go-highway/fmath/hwy"
	"github.com/go-highway/fmath/hwy/contrib/algo"
	"github.com/go-highway/fmath/hwy/contrib/math"
)

// expArgLimit bounds exp arguments to the range where ExpKernel neither
// overflows nor underflows.
const expArgLimit = 87

// softplusLinear is where softplus(x) == x in float32.
const softplusLinear = 20

var kernels = sync.OnceValues(func() (*math.ExpKernel, *math.LogKernel) {
	exp, err := math.NewExpKernel()
	if err != nil {
		panic(fmt.Sprintf("activation: %v", err))
	}
	log, err := math.NewLogKernel(math.WithTableBits(algo.DefaultLogTableBits))
	if err != nil {
		panic(fmt.Sprintf("activation: %v", err))
	}
	return exp, log
})

// full broadcasts v to every lane. Operations take their lane count from the
// first operand, so full vectors only appear as second operands.
func full(v float32) hwy.Vec[float32] {
	return hwy.SetN(v, hwy.MaxLanesCap)
}

// SigmoidCore computes 1 / (1 + exp(-x)).
type SigmoidCore struct {
	exp *math.ExpKernel
}

// Core implements algo.CoreFunc.
func (c SigmoidCore) Core(vs []hwy.Vec[float32]) {
	lo, hi, one := full(-expArgLimit), full(expArgLimit), full(1)
	for i := range vs {
		vs[i] = hwy.Neg(hwy.Min(hwy.Max(vs[i], lo), hi))
	}
	c.exp.Core(vs)
	for i := range vs {
		vs[i] = hwy.Div(hwy.SetN[float32](1, vs[i].NumLanes()), hwy.Add(vs[i], one))
	}
}

// SiLUCore computes x * sigmoid(x).
type SiLUCore struct {
	sigmoid SigmoidCore
}

// Core implements algo.CoreFunc.
func (c SiLUCore) Core(vs []hwy.Vec[float32]) {
	var xs [algo.MaxUnroll]hwy.Vec[float32]
	for len(vs) > 0 {
		n := min(len(vs), len(xs))
		copy(xs[:n], vs[:n])
		c.sigmoid.Core(vs[:n])
		for i := range n {
			vs[i] = hwy.Mul(xs[i], vs[i])
		}
		vs = vs[n:]
	}
}

// SoftplusCore computes ln(1 + exp(x)), returning x itself above 20.
type SoftplusCore struct {
	exp *math.ExpKernel
	log *math.LogKernel
}

// Core implements algo.CoreFunc.
func (c SoftplusCore) Core(vs []hwy.Vec[float32]) {
	var xs [algo.MaxUnroll]hwy.Vec[float32]
	lo, linear, one := full(-expArgLimit), full(softplusLinear), full(1)
	for len(vs) > 0 {
		n := min(len(vs), len(xs))
		copy(xs[:n], vs[:n])
		for i := range n {
			vs[i] = hwy.Min(hwy.Max(vs[i], lo), linear)
		}
		c.exp.Core(vs[:n])
		for i := range n {
			vs[i] = hwy.Add(vs[i], one)
		}
		c.log.Core(vs[:n])
		for i := range n {
			vs[i] = hwy.IfThenElse(hwy.GreaterThan(xs[i], linear), xs[i], vs[i])
		}
		vs = vs[n:]
	}
}

// ELUCore computes x for x > 0 and alpha * (exp(x) - 1) otherwise.
type ELUCore struct {
	exp   *math.ExpKernel
	alpha float32
}

// Core implements algo.CoreFunc.
func (c ELUCore) Core(vs []hwy.Vec[float32]) {
	var xs [algo.MaxUnroll]hwy.Vec[float32]
	lo, zero, one, alpha := full(-expArgLimit), full(0), full(1), full(c.alpha)
	for len(vs) > 0 {
		n := min(len(vs), len(xs))
		copy(xs[:n], vs[:n])
		for i := range n {
			vs[i] = hwy.Min(hwy.Max(vs[i], lo), zero)
		}
		c.exp.Core(vs[:n])
		for i := range n {
			neg := hwy.Mul(hwy.Sub(vs[i], one), alpha)
			vs[i] = hwy.IfThenElse(hwy.GreaterThan(xs[i], zero), xs[i], neg)
		}
		vs = vs[n:]
	}
}

func mustMapper(core algo.CoreFunc[float32]) *algo.Mapper[float32] {
	m, err := algo.NewMapper(core, algo.WithUnroll(algo.DefaultUnroll))
	if err != nil {
		panic(fmt.Sprintf("activation: %v", err))
	}
	return m
}

var (
	sigmoidMapper = sync.OnceValue(func() *algo.Mapper[float32] {
		exp, _ := kernels()
		return mustMapper(SigmoidCore{exp: exp})
	})
	siluMapper = sync.OnceValue(func() *algo.Mapper[float32] {
		exp, _ := kernels()
		return mustMapper(SiLUCore{sigmoid: SigmoidCore{exp: exp}})
	})
	softplusMapper = sync.OnceValue(func() *algo.Mapper[float32] {
		exp, log := kernels()
		return mustMapper(SoftplusCore{exp: exp, log: log})
	})
)

// eluMapper binds a Mapper to a mutable ELUCore so alpha can change per call.
type eluMapper struct {
	core ELUCore
	m    *algo.Mapper[float32]
}

var eluMappers = sync.Pool{
	New: func() any {
		exp, _ := kernels()
		e := &eluMapper{core: ELUCore{exp: exp}}
		e.m = mustMapper(&e.core)
		return e
	},
}

// Sigmoid writes 1 / (1 + exp(-src[i])) to dst[i].
func Sigmoid(dst, src []float32) {
	sigmoidMapper().Map(dst, src)
}

// SiLU writes src[i] * sigmoid(src[i]) to dst[i].
func SiLU(dst, src []float32) {
	siluMapper().Map(dst, src)
}

// Softplus writes ln(1 + exp(src[i])) to dst[i].
func Softplus(dst, src []float32) {
	softplusMapper().Map(dst, src)
}

// ELU writes src[i] for positive inputs and alpha * (exp(src[i]) - 1)
// otherwise.
func ELU(dst, src []float32, alpha float32) {
	e := eluMappers.Get().(*eluMapper)
	defer eluMappers.Put(e)
	e.core.alpha = alpha
	e.m.Map(dst, src)
}
