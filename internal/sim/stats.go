package sim

import (
	"fmt"
	"strings"
)

// PeriodMeans holds the mean length of each illness phase.
type PeriodMeans struct {
	Latent     float64 `json:"latent"`
	Infectious float64 `json:"infectious"`
	Recovering float64 `json:"recovering"`
	Dying      float64 `json:"dying"`
}

// Stats compares the drawn illness periods of a run against the configured
// distributions. Useful as a sanity check of the sampling.
type Stats struct {
	Observed PeriodMeans `json:"observed"`
	Expected PeriodMeans `json:"expected"`

	RecoveredFraction float64 `json:"recovered_fraction"` // share of recovery outcomes drawn
	RecoveryProb      float64 `json:"recovery_prob"`      // configured probability

	Population int `json:"population"`
}

// Stats recomputes the drawn period lengths of every individual from the
// stored trajectories and end times.
func (o *Outbreak) Stats() Stats {
	var latentSum, infectiousSum, recoverSum, dyingSum float64
	var nRecover, nDie int

	for _, ind := range o.infected {
		// The end of the drawn latent period is bookmarked under a
		// different state depending on which side of the latent boundary
		// symptoms appeared.
		var offset float64
		if ind.trajectory[1] == SymptomsNonInfectious {
			offset = ind.endOf(Latent)
		} else {
			offset = ind.endOf(LatentInfectious)
		}
		latentSum += offset - ind.infectedAt
		infectiousSum += ind.endOf(Symptoms) - offset

		if ind.trajectory[3] == Recovering {
			recoverSum += ind.endOf(Recovering) - ind.endOf(Symptoms)
			nRecover++
		} else {
			dyingSum += ind.endOf(Dying) - ind.endOf(Symptoms)
			nDie++
		}
	}

	n := float64(len(o.infected))
	p := o.params
	return Stats{
		Observed: PeriodMeans{
			Latent:     latentSum / n,
			Infectious: infectiousSum / n,
			Recovering: recoverSum / float64(nRecover),
			Dying:      dyingSum / float64(nDie),
		},
		Expected: PeriodMeans{
			Latent:     p.Latent.Mean(),
			Infectious: p.Infectious.Mean(),
			Recovering: p.Recovering.Mean(),
			Dying:      p.Dying.Mean(),
		},
		RecoveredFraction: float64(nRecover) / n,
		RecoveryProb:      p.RecoveryProb,
		Population:        len(o.infected),
	}
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %15s %18s %18s %13s\n",
		"Means:", "Latent period", "Infectious period", "Recovering period", "Dying period")
	fmt.Fprintf(&b, "%-10s %15.5g %18.5g %18.5g %13.5g\n",
		"Observed:", s.Observed.Latent, s.Observed.Infectious, s.Observed.Recovering, s.Observed.Dying)
	fmt.Fprintf(&b, "%-10s %15.5g %18.5g %18.5g %13.5g\n",
		"Expected:", s.Expected.Latent, s.Expected.Infectious, s.Expected.Recovering, s.Expected.Dying)
	fmt.Fprintf(&b, "Pr(recovery): %.5g expected %.5g", s.RecoveredFraction, s.RecoveryProb)
	return b.String()
}
