package sim

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Individual is one infected person, instantiated upon infection. The whole
// course of the illness is drawn at construction time: a trajectory through
// the infection states and the absolute end time of each on-trajectory
// phase. Individuals live in the outbreak arena and refer to each other by
// index.
type Individual struct {
	id         int
	infector   int // arena index of the infector, -1 for the index case
	infectedAt float64

	trajectory []State
	// endTimes[s] is the absolute time state s ends. Off-trajectory states
	// keep NaN, as does the final state: comparisons against NaN are false,
	// which pins the cursor once the trajectory is exhausted.
	endTimes [NumStates]float64
	cursor   int

	lastInfection float64 // time of the latest transmission, NaN before the first
	infected      []int   // arena indices of individuals infected by self
}

// newIndividual draws the full course of an infection starting at time t.
// The draw order is fixed: latent period, incubation factor, infectious
// period, recovery outcome, then the recovering or dying period.
func newIndividual(id, infector int, t float64, rng *rand.Rand, p Params) *Individual {
	ind := &Individual{
		id:            id,
		infector:      infector,
		infectedAt:    t,
		lastInfection: math.NaN(),
	}
	for i := range ind.endTimes {
		ind.endTimes[i] = math.NaN()
	}

	latent := p.Latent.Sample(rng)
	incubation := p.Incubation.Sample(rng)

	// Incubation time may differ from latent time. Symptoms either lag the
	// infectious phase or precede it.
	ind.trajectory = append(ind.trajectory, Latent)
	if incubation > 1 {
		ind.trajectory = append(ind.trajectory, SymptomsNonInfectious)
		ind.endTimes[Latent] = latent
		ind.endTimes[SymptomsNonInfectious] = incubation * latent
	} else {
		ind.trajectory = append(ind.trajectory, LatentInfectious)
		ind.endTimes[Latent] = incubation * latent
		ind.endTimes[LatentInfectious] = latent
	}

	ind.trajectory = append(ind.trajectory, Symptoms)
	twoPeriods := latent + p.Infectious.Sample(rng)
	ind.endTimes[Symptoms] = twoPeriods

	if Bernoulli(rng, p.RecoveryProb) {
		ind.trajectory = append(ind.trajectory, Recovering, Recovered)
		ind.endTimes[Recovering] = twoPeriods + p.Recovering.Sample(rng)
	} else {
		ind.trajectory = append(ind.trajectory, Dying, Dead)
		ind.endTimes[Dying] = twoPeriods + p.Dying.Sample(rng)
	}
	for i := range ind.endTimes {
		ind.endTimes[i] += t
	}

	return ind
}

// State returns the current infection state.
func (ind *Individual) State() State {
	return ind.trajectory[ind.cursor]
}

// CanInfect reports whether the individual currently transmits the disease.
func (ind *Individual) CanInfect() bool {
	return ind.State().CanInfect()
}

// Reported reports whether the infection is currently visible to
// surveillance.
func (ind *Individual) Reported() bool {
	return ind.State().Reported()
}

// ID returns the arena index of the individual.
func (ind *Individual) ID() int { return ind.id }

// Infector returns the arena index of the individual who caused the
// infection, or -1 for the index case.
func (ind *Individual) Infector() int { return ind.infector }

// InfectedAt returns the time of infection.
func (ind *Individual) InfectedAt() float64 { return ind.infectedAt }

// NumInfected returns the number of individuals infected by self.
func (ind *Individual) NumInfected() int { return len(ind.infected) }

// Infected returns the arena indices of the individuals infected by self,
// in order of infection.
func (ind *Individual) Infected() []int {
	out := make([]int, len(ind.infected))
	copy(out, ind.infected)
	return out
}

// LastInfection returns the time of the latest transmission by self, or NaN
// if there has been none.
func (ind *Individual) LastInfection() float64 { return ind.lastInfection }

// endOf returns the absolute end time of state s, NaN if s is not on the
// trajectory.
func (ind *Individual) endOf(s State) float64 { return ind.endTimes[s] }

// timeNext returns the end time of the current phase.
func (ind *Individual) timeNext() float64 {
	return ind.endTimes[ind.State()]
}

// update advances the infection to time t and possibly infects someone.
// The cursor moves past every phase boundary that has elapsed. A
// transmission may happen if the individual was infectious at any point
// since the previous update, with probability timestep over infect delta,
// at most once per call. The new infectee, if any, is returned; the caller
// owns its arena placement under the given id.
func (ind *Individual) update(t float64, rng *rand.Rand, p Params, newID int) *Individual {
	canInfect := ind.CanInfect()
	for t >= ind.timeNext() {
		ind.cursor++
		canInfect = canInfect || ind.CanInfect()
	}
	if !canInfect {
		return nil
	}
	if !Bernoulli(rng, p.TimeStep/p.InfectDelta) {
		return nil
	}

	ind.lastInfection = t
	child := newIndividual(newID, ind.id, t, rng, p)
	ind.infected = append(ind.infected, child.id)
	return child
}

// String renders the individual in the form
//
//	Individual 4 was infected at t=12.2 and has infected 2 others: 9 17
func (ind *Individual) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Individual %d was infected at t=%g and has infected %d others:",
		ind.id, ind.infectedAt, ind.NumInfected())
	for _, id := range ind.infected {
		fmt.Fprintf(&b, " %d", id)
	}
	return b.String()
}
