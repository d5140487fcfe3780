package sim

import (
	"math"
	"math/rand/v2"
)

// StopReason tells why a run ended.
type StopReason int

const (
	// StopHorizon means the run covered the full model time.
	StopHorizon StopReason = iota
	// StopMaxInfected means the population cap was exceeded and the run
	// ended early.
	StopMaxInfected
)

func (r StopReason) String() string {
	switch r {
	case StopHorizon:
		return "horizon"
	case StopMaxInfected:
		return "max_infected"
	default:
		return "unknown"
	}
}

type runConfig struct {
	seed     uint64
	rng      *rand.Rand
	observer ProgressObserver
}

// Option configures a run.
type Option func(*runConfig)

// WithSeed sets the seed of the run's pseudo-random stream.
func WithSeed(seed uint64) Option {
	return func(c *runConfig) { c.seed = seed; c.rng = nil }
}

// WithRand supplies an external pseudo-random stream. The run consumes from
// it sequentially, so several runs sharing one stream stay reproducible as
// a sequence. Overrides WithSeed.
func WithRand(rng *rand.Rand) Option {
	return func(c *runConfig) { c.rng = rng }
}

// WithObserver attaches a progress observer to the run.
func WithObserver(obs ProgressObserver) Option {
	return func(c *runConfig) { c.observer = obs }
}

// Outbreak is a completed simulation. Run executes the whole epidemic
// before returning, so an Outbreak never mutates and is safe for
// concurrent reads.
type Outbreak struct {
	params    Params
	seed      uint64
	infected  []*Individual // infected individuals, present and past, in order of infection
	counters  [][NumStates]int
	reason    StopReason
	stoppedAt float64
}

// Run simulates one outbreak to completion. Time advances in fixed steps
// from one time step after zero to the horizon. Each step updates every
// individual in order of infection, defers the newly infected to the end of
// the step, and on counting interval boundaries tallies the states of the
// pre-step population. The run stops early once the population exceeds the
// cap.
func Run(p Params, opts ...Option) (*Outbreak, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	rng := cfg.rng
	if rng == nil {
		rng = NewRand(cfg.seed)
	}

	rows := p.Rows()
	o := &Outbreak{
		params:   p,
		seed:     cfg.seed,
		counters: make([][NumStates]int, rows),
	}
	o.infected = append(o.infected, newIndividual(0, -1, 0, rng, p))

	row := 0
	last := 0.0
	for t := p.TimeStep; t <= p.MaxTime; t += p.TimeStep {
		last = t
		count := math.Mod(t, p.OutputInterval) < p.TimeStep && row < rows

		size := len(o.infected)
		var newborn []*Individual
		for _, ind := range o.infected[:size] {
			child := ind.update(t, rng, p, size+len(newborn))
			if child != nil {
				newborn = append(newborn, child)
			}
			if count {
				o.counters[row][ind.State()]++
			}
		}

		o.infected = append(o.infected, newborn...)

		if count {
			if cfg.observer != nil {
				cfg.observer.ObserveInterval(Snapshot{
					Seed:       cfg.seed,
					Row:        row,
					Time:       t,
					Population: len(o.infected),
					Counts:     o.counters[row],
				})
			}
			row++
		}

		if len(o.infected) > p.MaxInfected {
			o.reason = StopMaxInfected
			break
		}
	}
	o.stoppedAt = last

	if cfg.observer != nil {
		cfg.observer.ObserveStop(cfg.seed, o.reason, len(o.infected), last)
	}
	return o, nil
}

// Params returns the parameters the outbreak ran with.
func (o *Outbreak) Params() Params { return o.params }

// Seed returns the seed given via WithSeed, zero for external streams.
func (o *Outbreak) Seed() uint64 { return o.seed }

// Size returns the total number of individuals ever infected.
func (o *Outbreak) Size() int { return len(o.infected) }

// StopReason tells whether the run covered the horizon or hit the
// population cap.
func (o *Outbreak) StopReason() StopReason { return o.reason }

// StoppedAt returns the model time of the last executed step.
func (o *Outbreak) StoppedAt() float64 { return o.stoppedAt }

// Individuals returns the infected individuals in order of infection. The
// individuals are shared with the outbreak and must not be mutated.
func (o *Outbreak) Individuals() []*Individual {
	out := make([]*Individual, len(o.infected))
	copy(out, o.infected)
	return out
}

// Counters returns a copy of the per-interval state counts, one row per
// counting interval and one column per state. Rows after an early stop
// stay zero.
func (o *Outbreak) Counters() [][NumStates]int {
	out := make([][NumStates]int, len(o.counters))
	copy(out, o.counters)
	return out
}

// FinalCounts tallies the state of every individual at the end of the run.
func (o *Outbreak) FinalCounts() [NumStates]int {
	var counts [NumStates]int
	for _, ind := range o.infected {
		counts[ind.State()]++
	}
	return counts
}

// EstimateR0 estimates the basic reproduction number by considering
// reported cases due to infectors now past the infectious period. With no
// such infector the estimate is NaN.
func (o *Outbreak) EstimateR0() float64 {
	nInfected := 0
	nInfectors := 0
	for _, ind := range o.infected {
		if ind.State() <= Symptoms {
			continue
		}
		nInfectors++
		for _, id := range ind.infected {
			if o.infected[id].Reported() {
				nInfected++
			}
		}
	}
	return float64(nInfected) / float64(nInfectors)
}

// WeeklyReported reduces the counters to the number of reported cases per
// counting interval: the row total minus the states invisible to
// surveillance.
func (o *Outbreak) WeeklyReported() []int {
	out := make([]int, len(o.counters))
	for i, row := range o.counters {
		for s, n := range row {
			if State(s).Reported() {
				out[i] += n
			}
		}
	}
	return out
}
