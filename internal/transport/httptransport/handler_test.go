package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hvesanto/outbreak-inference/internal/app"
	"github.com/hvesanto/outbreak-inference/internal/sim"
)

type svcStub struct {
	simulateFn func(spec app.RunSpec) (*app.RunSummary, error)
	batchFn    func(spec app.BatchSpec) (*app.BatchResult, error)
}

func (s *svcStub) Simulate(spec app.RunSpec) (*app.RunSummary, error) {
	return s.simulateFn(spec)
}

func (s *svcStub) SimulateBatch(spec app.BatchSpec) (*app.BatchResult, error) {
	return s.batchFn(spec)
}

func okStub() *svcStub {
	return &svcStub{
		simulateFn: func(spec app.RunSpec) (*app.RunSummary, error) {
			return &app.RunSummary{
				R0:             spec.R0,
				Seed:           7,
				R0Hat:          1.4,
				Population:     11,
				StopReason:     sim.StopHorizon,
				Weeks:          2,
				WeeklyReported: []int{1, 4},
			}, nil
		},
		batchFn: func(spec app.BatchSpec) (*app.BatchResult, error) {
			return &app.BatchResult{
				Rows:   [][]int{{1, 2}, {0, 3}},
				R0Hats: []float64{1.1, math.NaN()},
			}, nil
		},
	}
}

func TestHandler_Simulate_MethodNotAllowed(t *testing.T) {
	h := NewHandler(okStub())

	req := httptest.NewRequest(http.MethodGet, "/simulate", nil)
	rr := httptest.NewRecorder()

	h.Simulate(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandler_Simulate_InvalidJSON(t *testing.T) {
	h := NewHandler(okStub())

	req := httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()

	h.Simulate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandler_Simulate_BadSpecIsClientError(t *testing.T) {
	h := NewHandler(&svcStub{
		simulateFn: func(spec app.RunSpec) (*app.RunSummary, error) {
			return nil, fmt.Errorf("%w: r0 must be > 0", sim.ErrInvalidParams)
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewBufferString(`{"r0":0}`))
	rr := httptest.NewRecorder()

	h.Simulate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out["error"] != "simulate failed" || out["details"] == nil {
		t.Fatalf("unexpected error body: %v", out)
	}
}

func TestHandler_Simulate_RunnerFailureIsServerError(t *testing.T) {
	h := NewHandler(&svcStub{
		simulateFn: func(spec app.RunSpec) (*app.RunSummary, error) {
			return nil, fmt.Errorf("disk on fire")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewBufferString(`{"r0":1.7}`))
	rr := httptest.NewRecorder()

	h.Simulate(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestHandler_Simulate_ReturnsSummary(t *testing.T) {
	h := NewHandler(okStub())

	req := httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewBufferString(`{"r0":1.7,"seed":7}`))
	rr := httptest.NewRecorder()

	h.Simulate(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}

	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out["r0"] != 1.7 || out["population"] != float64(11) || out["stop_reason"] != "horizon" {
		t.Fatalf("unexpected response: %v", out)
	}
	weekly, ok := out["weekly_reported"].([]any)
	if !ok || len(weekly) != 2 {
		t.Fatalf("expected two weekly rows, got %v", out["weekly_reported"])
	}
}

func TestHandler_SimulateBatch_ReturnsRowsAndEstimates(t *testing.T) {
	h := NewHandler(okStub())

	req := httptest.NewRequest(http.MethodPost, "/batch", bytes.NewBufferString(`{"r0s":[1.1,1.8],"seed":3}`))
	rr := httptest.NewRecorder()

	h.SimulateBatch(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	rows, ok := out["rows"].([]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("expected two rows, got %v", out["rows"])
	}
	hats, ok := out["r0_hats"].([]any)
	if !ok || len(hats) != 2 {
		t.Fatalf("expected two estimates, got %v", out["r0_hats"])
	}
	if hats[1] != "NaN" {
		t.Fatalf("expected undefined estimate encoded as NaN, got %v", hats[1])
	}
}

func TestHandler_SimulateBatch_RejectsBadSpec(t *testing.T) {
	h := NewHandler(&svcStub{
		batchFn: func(spec app.BatchSpec) (*app.BatchResult, error) {
			return nil, fmt.Errorf("%w: r0s is required", app.ErrInvalidSpec)
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/batch", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()

	h.SimulateBatch(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}
