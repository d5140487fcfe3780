package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidParams marks a parameter set that fails validation.
var ErrInvalidParams = errors.New("invalid simulation parameters")

// GammaDist holds the shape and scale of a gamma distribution.
type GammaDist struct {
	Shape float64 `yaml:"shape" json:"shape"`
	Scale float64 `yaml:"scale" json:"scale"`
}

// Mean returns the distribution mean, shape times scale.
func (g GammaDist) Mean() float64 { return g.Shape * g.Scale }

// UniformDist holds the bounds of a uniform distribution.
type UniformDist struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Params configures an outbreak simulation. The zero value is not usable;
// start from DefaultParams and override fields as needed.
type Params struct {
	Latent       GammaDist   `yaml:"latent" json:"latent"`
	Incubation   UniformDist `yaml:"incubation" json:"incubation"`
	Infectious   GammaDist   `yaml:"infectious" json:"infectious"`
	RecoveryProb float64     `yaml:"recovery_prob" json:"recovery_prob"`
	Recovering   GammaDist   `yaml:"recovering" json:"recovering"`
	Dying        GammaDist   `yaml:"dying" json:"dying"`

	// InfectDelta is the mean time between infections caused by a single
	// infectious individual. DeriveR0 sets it from a target R0.
	InfectDelta float64 `yaml:"infect_delta" json:"infect_delta"`

	MaxTime        float64 `yaml:"max_time" json:"max_time"`               // model time horizon (e.g. days)
	OutputInterval float64 `yaml:"output_interval" json:"output_interval"` // counting interval (e.g. week)
	TimeStep       float64 `yaml:"time_step" json:"time_step"`
	MaxInfected    int     `yaml:"max_infected" json:"max_infected"` // stop iterating if exceeded
}

// DefaultParams returns the parameter set from Britton and Scalia Tomba:
// a year-long horizon with weekly counts, a mean latent period of 10 days
// and a mean infectious period of 5 days.
func DefaultParams() Params {
	return Params{
		Latent:         GammaDist{Shape: 2, Scale: 5},
		Incubation:     UniformDist{Min: 0.8, Max: 1.2},
		Infectious:     GammaDist{Shape: 1, Scale: 5},
		RecoveryProb:   0.3,
		Recovering:     GammaDist{Shape: 4, Scale: 3},
		Dying:          GammaDist{Shape: 4. / 9., Scale: 9},
		InfectDelta:    2.941,
		MaxTime:        364,
		OutputInterval: 7,
		TimeStep:       0.2,
		MaxInfected:    100_000,
	}
}

// MeanInfectiousPeriod returns the expected length of the infectious phase.
func (p Params) MeanInfectiousPeriod() float64 {
	return p.Infectious.Mean()
}

// DeriveR0 returns a copy of p with InfectDelta set so that an individual
// infects r0 others on average during the infectious period.
func (p Params) DeriveR0(r0 float64) (Params, error) {
	if r0 <= 0 {
		return Params{}, fmt.Errorf("%w: r0 must be > 0, got %v", ErrInvalidParams, r0)
	}
	p.InfectDelta = p.MeanInfectiousPeriod() / r0
	return p, nil
}

// Rows returns the number of counting intervals that fit in the horizon.
func (p Params) Rows() int {
	return int(p.MaxTime / p.OutputInterval)
}

// Validate checks p before a run. All periods must have positive shape and
// scale, probabilities must lie in [0, 1] and the clock must move forward.
func (p Params) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{p.Latent.Shape > 0 && p.Latent.Scale > 0, "latent period shape and scale must be > 0"},
		{p.Incubation.Min <= p.Incubation.Max, "incubation factor min must be <= max"},
		{p.Incubation.Min > 0, "incubation factor must be > 0"},
		{p.Infectious.Shape > 0 && p.Infectious.Scale > 0, "infectious period shape and scale must be > 0"},
		{p.RecoveryProb >= 0 && p.RecoveryProb <= 1, "recovery probability must be in [0, 1]"},
		{p.Recovering.Shape > 0 && p.Recovering.Scale > 0, "recovering period shape and scale must be > 0"},
		{p.Dying.Shape > 0 && p.Dying.Scale > 0, "dying period shape and scale must be > 0"},
		{p.InfectDelta > 0, "infect delta must be > 0"},
		{p.MaxTime > 0, "max time must be > 0"},
		{p.OutputInterval > 0 && p.OutputInterval <= p.MaxTime, "output interval must be > 0 and <= max time"},
		{p.TimeStep > 0 && p.TimeStep <= p.OutputInterval, "time step must be > 0 and <= output interval"},
		{p.MaxInfected > 0, "max infected must be > 0"},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", ErrInvalidParams, c.msg)
		}
	}
	return nil
}
