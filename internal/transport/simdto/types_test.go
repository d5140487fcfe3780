package simdto

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/hvesanto/outbreak-inference/internal/app"
	"github.com/hvesanto/outbreak-inference/internal/sim"
)

func TestFloat_CarriesNaNThroughJSON(t *testing.T) {
	raw, err := json.Marshal(Float(math.NaN()))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `"NaN"` {
		t.Fatalf(`expected "NaN", got %s`, raw)
	}

	var back Float
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(float64(back)) {
		t.Fatalf("expected NaN back, got %v", back)
	}
}

func TestFloat_PlainNumbersStayNumbers(t *testing.T) {
	raw, err := json.Marshal(Float(1.75))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "1.75" {
		t.Fatalf("expected a bare number, got %s", raw)
	}

	var back Float
	if err := json.Unmarshal([]byte("1.75"), &back); err != nil {
		t.Fatal(err)
	}
	if back != 1.75 {
		t.Fatalf("expected 1.75, got %v", back)
	}

	if err := json.Unmarshal([]byte(`"week"`), &back); err == nil {
		t.Fatalf("expected error for a non-numeric string")
	}
}

func TestSimulateRequest_SpecMapsFields(t *testing.T) {
	var req SimulateRequest
	body := `{"r0":1.7,"seed":42,"horizon":112,"max_infected":500,"include_stats":true}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}

	spec := req.Spec()
	if spec.R0 != 1.7 || spec.Horizon != 112 || spec.MaxInfected != 500 || !spec.IncludeStats {
		t.Fatalf("unexpected spec: %+v", spec)
	}
	if spec.Seed == nil || *spec.Seed != 42 {
		t.Fatalf("expected seed 42, got %v", spec.Seed)
	}

	var bare SimulateRequest
	if err := json.Unmarshal([]byte(`{"r0":1.7}`), &bare); err != nil {
		t.Fatal(err)
	}
	if bare.Spec().Seed != nil {
		t.Fatalf("expected omitted seed to stay nil")
	}
}

func TestFromSummary_RendersStopReasonAndEstimate(t *testing.T) {
	sum := &app.RunSummary{
		R0:             1.7,
		Seed:           9,
		R0Hat:          math.NaN(),
		Population:     11,
		StopReason:     sim.StopMaxInfected,
		Weeks:          2,
		WeeklyReported: []int{1, 4},
	}

	raw, err := json.Marshal(FromSummary(sum))
	if err != nil {
		t.Fatal(err)
	}

	s := string(raw)
	if !strings.Contains(s, `"stop_reason":"max_infected"`) {
		t.Fatalf("expected readable stop reason, got %s", s)
	}
	if !strings.Contains(s, `"r0_hat":"NaN"`) {
		t.Fatalf("expected NaN estimate encoded, got %s", s)
	}
	if strings.Contains(s, `"counts"`) || strings.Contains(s, `"stats"`) {
		t.Fatalf("expected optional sections omitted, got %s", s)
	}
}

func TestFromSummary_StatsSurviveUndefinedMeans(t *testing.T) {
	sum := &app.RunSummary{
		R0:             1.7,
		Seed:           9,
		R0Hat:          1.5,
		Population:     3,
		StopReason:     sim.StopHorizon,
		Weeks:          1,
		WeeklyReported: []int{1},
		Stats: &sim.Stats{
			Observed:          sim.PeriodMeans{Latent: 3.1, Infectious: 8.2, Recovering: 12.0, Dying: math.NaN()},
			Expected:          sim.PeriodMeans{Latent: 3.0, Infectious: 8.0, Recovering: 12.0, Dying: 7.0},
			RecoveredFraction: 1,
			RecoveryProb:      0.3,
			Population:        3,
		},
	}

	raw, err := json.Marshal(FromSummary(sum))
	if err != nil {
		t.Fatalf("marshal with an undefined mean: %v", err)
	}
	if !strings.Contains(string(raw), `"dying":"NaN"`) {
		t.Fatalf("expected the undefined mean encoded, got %s", raw)
	}

	var back SimulateResponse
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.Stats == nil || !math.IsNaN(float64(back.Stats.Observed.Dying)) {
		t.Fatalf("expected NaN back, got %+v", back.Stats)
	}
	if back.Stats.Population != 3 {
		t.Fatalf("expected population 3, got %d", back.Stats.Population)
	}
}

func TestBatchRequest_SpecMapsFields(t *testing.T) {
	req := BatchRequest{R0s: []float64{1.2, 1.8}, Seed: 7, BatchSize: 2}
	spec := req.Spec()
	if len(spec.R0s) != 2 || spec.Seed != 7 || spec.BatchSize != 2 {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}
