package algo

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"

	"github.com/go-highway/fmath/hwy"
)

var (
	// ErrInvalidUnroll is returned when the unroll factor is below 1 or above
	// what the core function supports.
	ErrInvalidUnroll = errors.New("algo: invalid unroll factor")

	// ErrInvalidLanes is returned when the lane count is not a power of two
	// in [1, hwy.MaxLanesCap].
	ErrInvalidLanes = errors.New("algo: invalid lane count")

	// ErrNilCore is returned when NewMapper is given no core function.
	ErrNilCore = errors.New("algo: nil core function")
)

// MaxUnroll caps the unroll factor of core functions that do not declare
// their own limit.
const MaxUnroll = 16

// CoreFunc transforms a group of independent vectors in place. Replica i of
// the output depends only on replica i of the input, lane by lane.
type CoreFunc[T hwy.Floats] interface {
	Core(vs []hwy.Vec[T])
}

// unrollLimiter is implemented by core functions whose temporaries must fit
// a register budget.
type unrollLimiter interface {
	MaxUnroll() int
}

// VecFunc adapts a single-vector function to a CoreFunc.
type VecFunc[T hwy.Floats] func(hwy.Vec[T]) hwy.Vec[T]

// Core implements CoreFunc.
func (f VecFunc[T]) Core(vs []hwy.Vec[T]) {
	for i := range vs {
		vs[i] = f(vs[i])
	}
}

type config struct {
	unroll int
	lanes  int
}

// Option configures a Mapper.
type Option func(*config)

// WithUnroll sets how many vectors the steady-state loop processes per
// iteration. The default is DefaultUnroll.
func WithUnroll(n int) Option {
	return func(c *config) {
		c.unroll = n
	}
}

// WithLanes fixes the vector width in lanes. The default is
// hwy.MaxLanes[T]() for the running CPU.
func WithLanes(n int) Option {
	return func(c *config) {
		c.lanes = n
	}
}

// WithTag sets the vector width to the number of T lanes in tag, for
// example hwy.FixedTag512[float32]{} for 16 lanes.
func WithTag[T hwy.Lanes](tag hwy.Tag) Option {
	return WithLanes(hwy.TagLanes[T](tag))
}

// Mapper applies a CoreFunc over arrays. It is safe for concurrent use when
// its core function is. A Mapper must not be copied.
type Mapper[T hwy.Floats] struct {
	core   CoreFunc[T]
	unroll int
	lanes  int

	// regs holds *[MaxUnroll]hwy.Vec[T] register arrays reused across Map
	// calls.
	regs sync.Pool
}

func buildMapper[T hwy.Floats](core CoreFunc[T], unroll, lanes int) *Mapper[T] {
	m := &Mapper[T]{core: core, unroll: unroll, lanes: lanes}
	m.regs.New = func() any {
		return new([MaxUnroll]hwy.Vec[T])
	}
	return m
}

// NewMapper validates the configuration and returns a Mapper for core.
func NewMapper[T hwy.Floats](core CoreFunc[T], opts ...Option) (*Mapper[T], error) {
	if core == nil {
		return nil, ErrNilCore
	}
	cfg := config{unroll: DefaultUnroll, lanes: hwy.MaxLanes[T]()}
	for _, opt := range opts {
		opt(&cfg)
	}

	limit := MaxUnroll
	if l, ok := core.(unrollLimiter); ok {
		limit = min(limit, l.MaxUnroll())
	}
	if cfg.unroll < 1 || cfg.unroll > limit {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidUnroll, cfg.unroll, limit)
	}
	if cfg.lanes < 1 || cfg.lanes > hwy.MaxLanesCap || bits.OnesCount(uint(cfg.lanes)) != 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLanes, cfg.lanes)
	}

	return buildMapper(core, cfg.unroll, cfg.lanes), nil
}

// Unroll returns the unroll factor.
func (m *Mapper[T]) Unroll() int { return m.unroll }

// Lanes returns the vector width in lanes.
func (m *Mapper[T]) Lanes() int { return m.lanes }

// BlockSize returns the number of elements one unrolled iteration consumes.
func (m *Mapper[T]) BlockSize() int { return m.unroll * m.lanes }

// Plan describes how Map splits n elements: Unrolled iterations of
// BlockSize() elements, then Single iterations of Lanes() elements, then a
// masked call on Tail < Lanes() elements.
type Plan struct {
	Unrolled int
	Single   int
	Tail     int
}

// Calls returns the number of core function invocations.
func (p Plan) Calls() int {
	n := p.Unrolled + p.Single
	if p.Tail > 0 {
		n++
	}
	return n
}

// Plan returns the iteration counts Map uses for n elements. With an unroll
// factor of 1 the two steady-state loops coincide and all full vectors are
// counted as Single.
func (m *Mapper[T]) Plan(n int) Plan {
	var p Plan
	if n <= 0 {
		return p
	}
	if m.unroll > 1 {
		p.Unrolled = n / m.BlockSize()
		n -= p.Unrolled * m.BlockSize()
	}
	p.Single = n / m.lanes
	p.Tail = n - p.Single*m.lanes
	return p
}

// Map writes core(src[i]) to dst[i] for every i < min(len(dst), len(src)).
func (m *Mapper[T]) Map(dst, src []T) {
	n := min(len(dst), len(src))
	plan := m.Plan(n)
	if plan.Calls() == 0 {
		return
	}

	regs := m.regs.Get().(*[MaxUnroll]hwy.Vec[T])
	defer m.regs.Put(regs)
	lanes := m.lanes
	i := 0

	vs := regs[:m.unroll]
	for range plan.Unrolled {
		for r := range vs {
			vs[r] = hwy.LoadN(src[i+r*lanes:], lanes)
		}
		m.core.Core(vs)
		for r := range vs {
			hwy.Store(vs[r], dst[i+r*lanes:])
		}
		i += m.BlockSize()
	}

	one := regs[:1]
	for range plan.Single {
		one[0] = hwy.LoadN(src[i:], lanes)
		m.core.Core(one)
		hwy.Store(one[0], dst[i:])
		i += lanes
	}

	if plan.Tail > 0 {
		mask := hwy.FirstN[T](plan.Tail, lanes)
		one[0] = hwy.MaskLoad(mask, src[i:n])
		m.core.Core(one)
		hwy.MaskStore(mask, one[0], dst[i:n])
	}
}

// Apply maps fn over src one vector at a time, with the runtime vector
// width and a masked tail. It builds a Mapper per call; hot loops should
// keep a Mapper instead.
func Apply[T hwy.Floats](dst, src []T, fn func(hwy.Vec[T]) hwy.Vec[T]) {
	buildMapper(VecFunc[T](fn), 1, hwy.MaxLanes[T]()).Map(dst, src)
}
