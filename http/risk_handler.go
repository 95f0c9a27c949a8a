package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"credit-risk/domain"
	"credit-risk/service"
)

const maxBodyBytes = 1 << 16

type RiskHandler struct {
	service *service.RiskService
}

func NewRiskHandler(service *service.RiskService) *RiskHandler {
	return &RiskHandler{service: service}
}

type classifyRequest struct {
	Probability *float64 `json:"probability"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Evaluate scores a borrower profile end to end.
func (h *RiskHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var profile domain.BorrowerProfile
	if !decodeJSON(w, r, &profile) {
		return
	}

	eval, err := h.service.Evaluate(r.Context(), profile)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, eval)
}

// DeriveFeatures returns the model inputs for a profile without scoring it.
func (h *RiskHandler) DeriveFeatures(w http.ResponseWriter, r *http.Request) {
	var profile domain.BorrowerProfile
	if !decodeJSON(w, r, &profile) {
		return
	}

	if err := service.ValidateProfile(profile); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, service.DeriveFeatures(profile))
}

// Classify maps a caller-supplied probability to a rating.
func (h *RiskHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Probability == nil {
		writeError(w, r, http.StatusBadRequest, "probability is required")
		return
	}

	assessment, err := service.Classify(*req.Probability)
	if err != nil {
		// the caller supplied the probability, so this is a client error
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, assessment)
}

// Model describes the loaded model.
func (h *RiskHandler) Model(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.service.Model())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		writeError(w, r, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		log.Debug().Err(err).Msg("error decoding request body")
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidProfile):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrScoringUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, service.ErrProbabilityOutOfRange):
		status = http.StatusBadGateway
	}

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("request_id", service.RequestID(r.Context())).
		Int("status", status).
		Msg("evaluation failed")

	message := err.Error()
	if status == http.StatusServiceUnavailable {
		message = service.ErrScoringUnavailable.Error()
	}
	writeError(w, r, status, message)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{
		Error:     message,
		RequestID: w.Header().Get(requestIDHeader),
	})
}

// writeJSON encodes into a buffer first so a failed encode never sends a
// partial body with a success status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("error encoding response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("error writing response")
	}
}
