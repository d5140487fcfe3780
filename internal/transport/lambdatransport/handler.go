package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

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

// Handle routes an API Gateway event by its raw path.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	switch req.RawPath {
	case "/simulate":
		return h.simulate(req), nil
	case "/batch":
		return h.batch(req), nil
	default:
		return jsonResp(http.StatusNotFound, map[string]any{"error": "unknown path", "details": req.RawPath}), nil
	}
}

func (h *Handler) simulate(req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()})
	}

	var in simdto.SimulateRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
	}

	sum, err := h.svc.Simulate(in.Spec())
	if err != nil {
		return jsonResp(statusFor(err), map[string]any{"error": "simulate failed", "details": err.Error()})
	}
	return jsonResp(http.StatusOK, simdto.FromSummary(sum))
}

func (h *Handler) batch(req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()})
	}

	var in simdto.BatchRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
	}

	res, err := h.svc.SimulateBatch(in.Spec())
	if err != nil {
		return jsonResp(statusFor(err), map[string]any{"error": "batch failed", "details": err.Error()})
	}
	return jsonResp(http.StatusOK, simdto.FromBatch(res))
}

func readBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

func jsonResp(status int, body any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(b),
	}
}

func statusFor(err error) int {
	if errors.Is(err, app.ErrInvalidSpec) || errors.Is(err, sim.ErrInvalidParams) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
