// Package simdto holds the wire types the HTTP and Lambda transports share.
package simdto

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hvesanto/outbreak-inference/internal/app"
	"github.com/hvesanto/outbreak-inference/internal/sim"
)

// Float marshals like a JSON number but survives NaN and the infinities,
// which JSON has no literals for. Those encode as quoted strings the way
// strconv renders them.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte(`"` + strconv.FormatFloat(v, 'g', -1, 64) + `"`), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse float %q: %w", s, err)
	}
	*f = Float(v)
	return nil
}

type SimulateRequest struct {
	R0          float64 `json:"r0"`
	Seed        *uint64 `json:"seed,omitempty"`
	Horizon     float64 `json:"horizon,omitempty"`
	TimeStep    float64 `json:"time_step,omitempty"`
	ReportEvery float64 `json:"report_every,omitempty"`
	MaxInfected int     `json:"max_infected,omitempty"`

	IncludeCounts bool `json:"include_counts,omitempty"`
	IncludeStats  bool `json:"include_stats,omitempty"`
}

func (r SimulateRequest) Spec() app.RunSpec {
	return app.RunSpec{
		R0:            r.R0,
		Seed:          r.Seed,
		Horizon:       r.Horizon,
		TimeStep:      r.TimeStep,
		ReportEvery:   r.ReportEvery,
		MaxInfected:   r.MaxInfected,
		IncludeCounts: r.IncludeCounts,
		IncludeStats:  r.IncludeStats,
	}
}

type SimulateResponse struct {
	R0             float64              `json:"r0"`
	Seed           uint64               `json:"seed"`
	R0Hat          Float                `json:"r0_hat"`
	Population     int                  `json:"population"`
	StopReason     string               `json:"stop_reason"`
	StoppedAt      float64              `json:"stopped_at"`
	Weeks          int                  `json:"weeks"`
	WeeklyReported []int                `json:"weekly_reported"`
	Counts         [][sim.NumStates]int `json:"counts,omitempty"`
	Stats          *Stats               `json:"stats,omitempty"`
}

// PeriodMeans mirrors sim.PeriodMeans with NaN-safe floats: an observed mean
// is NaN when no individual went through the phase.
type PeriodMeans struct {
	Latent     Float `json:"latent"`
	Infectious Float `json:"infectious"`
	Recovering Float `json:"recovering"`
	Dying      Float `json:"dying"`
}

// Stats mirrors sim.Stats for the wire.
type Stats struct {
	Observed          PeriodMeans `json:"observed"`
	Expected          PeriodMeans `json:"expected"`
	RecoveredFraction Float       `json:"recovered_fraction"`
	RecoveryProb      Float       `json:"recovery_prob"`
	Population        int         `json:"population"`
}

func fromStats(s *sim.Stats) *Stats {
	if s == nil {
		return nil
	}
	return &Stats{
		Observed:          fromPeriodMeans(s.Observed),
		Expected:          fromPeriodMeans(s.Expected),
		RecoveredFraction: Float(s.RecoveredFraction),
		RecoveryProb:      Float(s.RecoveryProb),
		Population:        s.Population,
	}
}

func fromPeriodMeans(m sim.PeriodMeans) PeriodMeans {
	return PeriodMeans{
		Latent:     Float(m.Latent),
		Infectious: Float(m.Infectious),
		Recovering: Float(m.Recovering),
		Dying:      Float(m.Dying),
	}
}

func FromSummary(sum *app.RunSummary) SimulateResponse {
	return SimulateResponse{
		R0:             sum.R0,
		Seed:           sum.Seed,
		R0Hat:          Float(sum.R0Hat),
		Population:     sum.Population,
		StopReason:     sum.StopReason.String(),
		StoppedAt:      sum.StoppedAt,
		Weeks:          sum.Weeks,
		WeeklyReported: sum.WeeklyReported,
		Counts:         sum.Counts,
		Stats:          fromStats(sum.Stats),
	}
}

type BatchRequest struct {
	R0s       []float64 `json:"r0s"`
	Seed      uint64    `json:"seed"`
	BatchSize int       `json:"batch_size,omitempty"`
}

func (r BatchRequest) Spec() app.BatchSpec {
	return app.BatchSpec{R0s: r.R0s, Seed: r.Seed, BatchSize: r.BatchSize}
}

type BatchResponse struct {
	Rows   [][]int `json:"rows"`
	R0Hats []Float `json:"r0_hats"`
}

func FromBatch(res *app.BatchResult) BatchResponse {
	hats := make([]Float, len(res.R0Hats))
	for i, v := range res.R0Hats {
		hats[i] = Float(v)
	}
	return BatchResponse{Rows: res.Rows, R0Hats: hats}
}
