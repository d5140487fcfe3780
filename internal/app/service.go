// Package app wires the outbreak simulator behind a transport-agnostic
// service that the HTTP and Lambda front ends share.
package app

import (
	"errors"
	"fmt"

	"github.com/hvesanto/outbreak-inference/internal/sim"
)

// ErrInvalidSpec reports a run specification a client got wrong.
var ErrInvalidSpec = errors.New("invalid run specification")

// Runner executes one simulation. It exists so tests can intercept runs.
type Runner interface {
	Run(p sim.Params, opts ...sim.Option) (*sim.Outbreak, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(p sim.Params, opts ...sim.Option) (*sim.Outbreak, error)

func (f RunnerFunc) Run(p sim.Params, opts ...sim.Option) (*sim.Outbreak, error) {
	return f(p, opts...)
}

// Cache memoizes run summaries by their key source.
type Cache interface {
	GetOrCompute(source string, fn func() (*RunSummary, error)) (*RunSummary, error)
}

// RunSpec is one simulation request. Zero-valued overrides keep the
// service's base parameters.
type RunSpec struct {
	R0          float64
	Seed        *uint64 // nil draws a random seed and skips the cache
	Horizon     float64
	TimeStep    float64
	ReportEvery float64
	MaxInfected int

	IncludeCounts bool
	IncludeStats  bool
}

// RunSummary is the client-facing result of one simulation.
type RunSummary struct {
	R0             float64
	Seed           uint64
	R0Hat          float64
	Population     int
	StopReason     sim.StopReason
	StoppedAt      float64
	Weeks          int
	WeeklyReported []int
	Counts         [][sim.NumStates]int
	Stats          *sim.Stats
}

// BatchSpec asks for several runs drawn from one random stream, one per
// candidate R0, the shape inference loops feed on.
type BatchSpec struct {
	R0s       []float64
	Seed      uint64
	BatchSize int // optional, must match len(R0s) when set
}

// BatchResult holds the weekly reported curve and the estimated R0 of every
// run of a batch, in request order.
type BatchResult struct {
	Rows   [][]int
	R0Hats []float64
}

type Service struct {
	base     sim.Params
	runner   Runner
	cache    Cache
	observer sim.ProgressObserver
}

// NewService builds a simulation service on top of base parameters. The
// cache and observer may be nil.
func NewService(base sim.Params, runner Runner, cache Cache, observer sim.ProgressObserver) *Service {
	return &Service{base: base, runner: runner, cache: cache, observer: observer}
}

// Simulate runs one outbreak at the requested R0. Seeded runs are memoized:
// a repeated spec returns the cached summary without simulating again, which
// is sound because a run is fully determined by its parameters and seed.
func (s *Service) Simulate(spec RunSpec) (*RunSummary, error) {
	params, err := s.params(spec)
	if err != nil {
		return nil, err
	}

	if spec.Seed == nil {
		sum, err := s.run(spec.R0, sim.RandomSeed(), params)
		if err != nil {
			return nil, err
		}
		return trim(sum, spec), nil
	}

	seed := *spec.Seed
	compute := func() (*RunSummary, error) {
		return s.run(spec.R0, seed, params)
	}

	var sum *RunSummary
	if s.cache != nil {
		sum, err = s.cache.GetOrCompute(runKey(seed, params), compute)
	} else {
		sum, err = compute()
	}
	if err != nil {
		return nil, err
	}
	return trim(sum, spec), nil
}

// SimulateBatch runs one simulation per candidate R0, all consuming a single
// random stream seeded once, so a batch is reproducible as a whole. Batches
// bypass the cache and the progress observer.
func (s *Service) SimulateBatch(spec BatchSpec) (*BatchResult, error) {
	if len(spec.R0s) == 0 {
		return nil, fmt.Errorf("%w: r0s is required", ErrInvalidSpec)
	}
	if spec.BatchSize > 0 && spec.BatchSize != len(spec.R0s) {
		return nil, fmt.Errorf("%w: batch_size %d does not match %d r0 values",
			ErrInvalidSpec, spec.BatchSize, len(spec.R0s))
	}

	rng := sim.NewRand(spec.Seed)
	res := &BatchResult{
		Rows:   make([][]int, 0, len(spec.R0s)),
		R0Hats: make([]float64, 0, len(spec.R0s)),
	}

	for i, r0 := range spec.R0s {
		params, err := s.base.DeriveR0(r0)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		o, err := s.runner.Run(params, sim.WithRand(rng))
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		res.Rows = append(res.Rows, o.WeeklyReported())
		res.R0Hats = append(res.R0Hats, o.EstimateR0())
	}

	return res, nil
}

func (s *Service) params(spec RunSpec) (sim.Params, error) {
	p := s.base
	if spec.Horizon > 0 {
		p.MaxTime = spec.Horizon
	}
	if spec.TimeStep > 0 {
		p.TimeStep = spec.TimeStep
	}
	if spec.ReportEvery > 0 {
		p.OutputInterval = spec.ReportEvery
	}
	if spec.MaxInfected > 0 {
		p.MaxInfected = spec.MaxInfected
	}

	p, err := p.DeriveR0(spec.R0)
	if err != nil {
		return sim.Params{}, err
	}
	if err := p.Validate(); err != nil {
		return sim.Params{}, err
	}
	return p, nil
}

func (s *Service) run(r0 float64, seed uint64, params sim.Params) (*RunSummary, error) {
	opts := []sim.Option{sim.WithSeed(seed)}
	if s.observer != nil {
		opts = append(opts, sim.WithObserver(s.observer))
	}

	o, err := s.runner.Run(params, opts...)
	if err != nil {
		return nil, err
	}

	weekly := o.WeeklyReported()
	stats := o.Stats()
	return &RunSummary{
		R0:             r0,
		Seed:           seed,
		R0Hat:          o.EstimateR0(),
		Population:     o.Size(),
		StopReason:     o.StopReason(),
		StoppedAt:      o.StoppedAt(),
		Weeks:          len(weekly),
		WeeklyReported: weekly,
		Counts:         o.Counters(),
		Stats:          &stats,
	}, nil
}

// trim shallow-copies a summary so the cached value keeps its heavy fields
// while the response carries only what the client asked for.
func trim(sum *RunSummary, spec RunSpec) *RunSummary {
	out := *sum
	if !spec.IncludeCounts {
		out.Counts = nil
	}
	if !spec.IncludeStats {
		out.Stats = nil
	}
	return &out
}

func runKey(seed uint64, p sim.Params) string {
	return fmt.Sprintf("seed=%d|%+v", seed, p)
}
