package abc

import (
	"github.com/hvesanto/outbreak-inference/internal/sim"
)

// Vars builds the named summary values an acceptance predicate can reference
// for one finished outbreak:
//
//	r0_hat          estimated reproduction number (NaN when undefined)
//	total           individuals ever infected
//	reported_total  summed weekly reported counts
//	peak_week       zero-based week with the highest reported count
//	peak_cases      reported count in the peak week
//	weeks           number of weekly rows
//	capped          whether the run stopped at the population cap
//	died            individuals dead when the run stopped
//	recovered       individuals recovered when the run stopped
func Vars(o *sim.Outbreak) map[string]any {
	weekly := o.WeeklyReported()

	reported := 0
	peakWeek, peakCases := 0, 0
	for week, n := range weekly {
		reported += n
		if n > peakCases {
			peakWeek, peakCases = week, n
		}
	}

	final := o.FinalCounts()

	return map[string]any{
		"r0_hat":         o.EstimateR0(),
		"total":          o.Size(),
		"reported_total": reported,
		"peak_week":      peakWeek,
		"peak_cases":     peakCases,
		"weeks":          len(weekly),
		"capped":         o.StopReason() == sim.StopMaxInfected,
		"died":           final[sim.Dead],
		"recovered":      final[sim.Recovered],
	}
}

// VarNames lists the variables Vars produces, in a stable order suitable for
// predicate validation.
func VarNames() []string {
	return []string{
		"r0_hat",
		"total",
		"reported_total",
		"peak_week",
		"peak_cases",
		"weeks",
		"capped",
		"died",
		"recovered",
	}
}
