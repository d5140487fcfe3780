// Package sim simulates the outbreak of an infectious disease.
//
// Infected individuals infect others from an infinite pool. The model keeps
// track of who infected whom and when. Infected individuals are initially in
// a latent phase i.e. they show no symptoms nor can infect others. The
// illness then progresses according to stochastic processes.
//
// Follows the model description in:
//
//	Tom Britton and Gianpaolo Scalia Tomba (2018)
//	Estimation in emerging epidemics: biases and remedies, arXiv:1803.01688v1.
package sim

// State is one stage of an infection, in progression order.
type State int

const (
	Latent State = iota
	SymptomsNonInfectious
	LatentInfectious
	Symptoms
	Recovering
	Dying
	Recovered
	Dead
)

// NumStates is the number of distinct infection states.
const NumStates = 8

func (s State) String() string {
	switch s {
	case Latent:
		return "latent"
	case SymptomsNonInfectious:
		return "symptoms_non_infectious"
	case LatentInfectious:
		return "latent_infectious"
	case Symptoms:
		return "symptoms"
	case Recovering:
		return "recovering"
	case Dying:
		return "dying"
	case Recovered:
		return "recovered"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// CanInfect reports whether an individual in s transmits the disease.
func (s State) CanInfect() bool {
	return s == LatentInfectious || s == Symptoms
}

// Reported reports whether an individual in s is visible to surveillance.
// Latent carriers, infectious or not, go unreported.
func (s State) Reported() bool {
	return s != Latent && s != LatentInfectious
}

// Terminal reports whether s is an absorbing state.
func (s State) Terminal() bool {
	return s == Recovered || s == Dead
}
