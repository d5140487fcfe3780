package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hvesanto/outbreak-inference/internal/app"
	"github.com/hvesanto/outbreak-inference/internal/sim"
	"github.com/hvesanto/outbreak-inference/internal/transport/simdto"
)

type Handler struct {
	svc app.SimulateService
}

func NewHandler(svc app.SimulateService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var in simdto.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return
	}

	sum, err := h.svc.Simulate(in.Spec())
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": "simulate failed", "details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, simdto.FromSummary(sum))
}

func (h *Handler) SimulateBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var in simdto.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return
	}

	res, err := h.svc.SimulateBatch(in.Spec())
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{"error": "batch failed", "details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, simdto.FromBatch(res))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor separates what the client got wrong from what broke server side.
func statusFor(err error) int {
	if errors.Is(err, app.ErrInvalidSpec) || errors.Is(err, sim.ErrInvalidParams) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
