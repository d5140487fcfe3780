// Package abc fits the reproduction number of the outbreak model by
// rejection sampling: candidate R0 values are drawn from a uniform prior, a
// full outbreak is simulated for each candidate, and the candidate is kept
// when its summary values satisfy an acceptance predicate.
package abc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/hvesanto/outbreak-inference/internal/abc/accept"
	"github.com/hvesanto/outbreak-inference/internal/sim"
)

// ErrInvalidConfig reports a sampler configuration that cannot run.
var ErrInvalidConfig = errors.New("invalid sampler configuration")

// Config describes one rejection-sampling session. All trials consume a
// single random stream seeded with Seed, so a session is reproducible.
type Config struct {
	Trials    int
	Seed      uint64
	R0Min     float64
	R0Max     float64
	Params    sim.Params
	Predicate *accept.Predicate
}

// Validate reports whether the configuration can run at all.
func (c Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Trials > 0, "trials must be positive"},
		{c.R0Min > 0, "r0 prior lower bound must be positive"},
		{c.R0Max >= c.R0Min, "r0 prior upper bound must not be below the lower bound"},
		{c.Predicate != nil, "acceptance predicate is required"},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, check.msg)
		}
	}
	return c.Params.Validate()
}

// Trial records one candidate draw and what became of it.
type Trial struct {
	R0         float64
	R0Hat      float64
	Population int
	StopReason sim.StopReason
	Weekly     []int
	Accepted   bool
}

// Result holds every trial of a session plus the accepted R0 samples, which
// approximate the posterior under the acceptance predicate.
type Result struct {
	Trials   []Trial
	Accepted []float64
	Rate     float64
}

// Mean returns the average of the accepted samples, or NaN when nothing was
// accepted.
func (r *Result) Mean() float64 {
	if len(r.Accepted) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range r.Accepted {
		sum += v
	}
	return sum / float64(len(r.Accepted))
}

// Quantile returns the q-th quantile of the accepted samples by nearest rank,
// or NaN when nothing was accepted.
func (r *Result) Quantile(q float64) float64 {
	if len(r.Accepted) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), r.Accepted...)
	sort.Float64s(sorted)
	idx := int(q * float64(len(sorted)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Run executes the rejection sampler. Each trial draws a candidate R0 from
// the prior, derives the matching transmission rate, simulates an outbreak on
// the shared random stream and evaluates the acceptance predicate against the
// outbreak's summary values. The context is checked between trials.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := sim.NewRand(cfg.Seed)
	res := &Result{Trials: make([]Trial, 0, cfg.Trials)}

	for i := 0; i < cfg.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r0 := sim.Uniform(rng, cfg.R0Min, cfg.R0Max)
		params, err := cfg.Params.DeriveR0(r0)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}

		outbreak, err := sim.Run(params, sim.WithRand(rng))
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}

		ok, err := cfg.Predicate.Eval(Vars(outbreak))
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}

		res.Trials = append(res.Trials, Trial{
			R0:         r0,
			R0Hat:      outbreak.EstimateR0(),
			Population: outbreak.Size(),
			StopReason: outbreak.StopReason(),
			Weekly:     outbreak.WeeklyReported(),
			Accepted:   ok,
		})
		if ok {
			res.Accepted = append(res.Accepted, r0)
		}
	}

	res.Rate = float64(len(res.Accepted)) / float64(len(res.Trials))
	return res, nil
}
