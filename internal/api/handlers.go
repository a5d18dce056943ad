package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/roster-wins/internal/datasource"
	"github.com/yourusername/roster-wins/internal/models"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/service"
)

const maxBodyBytes = 1 << 20

// RosterInput identifies a roster either by player names or by stat lines.
// Exactly one of the two must be set.
type RosterInput struct {
	Names   []string                 `json:"names,omitempty"`
	Players []*models.PlayerStatLine `json:"players,omitempty"`
}

// PredictRequest is the body of POST /api/v1/predict
type PredictRequest struct {
	RosterInput
	TopN int `json:"top_n,omitempty"`
}

// CompareRequest is the body of POST /api/v1/compare
type CompareRequest struct {
	First  RosterInput `json:"first"`
	Second RosterInput `json:"second"`
	TopN   int         `json:"top_n,omitempty"`
}

// ErrorResponse is returned for every non-2xx status
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

var errBadRequest = errors.New("bad request")

// Handler serves the prediction endpoints
type Handler struct {
	svc    *service.PredictionService
	logger *logrus.Logger
}

// NewHandler creates a handler backed by svc
func NewHandler(svc *service.PredictionService, logger *logrus.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Predict scores one roster
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	roster, err := h.resolve(r, req.RosterInput)
	if err != nil {
		h.respondError(w, err)
		return
	}

	pred, err := h.svc.Predict(r.Context(), service.SourceHTTP, roster, topN(req.TopN))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pred)
}

// Compare scores two rosters with the same model
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	first, err := h.resolve(r, req.First)
	if err != nil {
		h.respondError(w, fmt.Errorf("first roster: %w", err))
		return
	}
	second, err := h.resolve(r, req.Second)
	if err != nil {
		h.respondError(w, fmt.Errorf("second roster: %w", err))
		return
	}

	cmp, err := h.svc.Compare(r.Context(), service.SourceHTTP, first, second, topN(req.TopN))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}

// Model describes the serving model
func (h *Handler) Model(w http.ResponseWriter, _ *http.Request) {
	info, err := h.svc.ModelInfo()
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (h *Handler) resolve(r *http.Request, in RosterInput) (models.RosterRecord, error) {
	switch {
	case len(in.Names) > 0 && len(in.Players) > 0:
		return models.RosterRecord{}, fmt.Errorf("%w: give either names or players, not both", errBadRequest)
	case len(in.Names) > 0:
		return h.svc.Resolve(r.Context(), in.Names)
	default:
		return models.NewRoster(in.Players...)
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

func topN(n int) int {
	if n <= 0 {
		return predict.DefaultStrengths
	}
	return n
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, predict.ErrNoModel):
		return http.StatusServiceUnavailable
	case errors.Is(err, datasource.ErrNotFound), errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, models.ErrEmptyRoster),
		errors.Is(err, models.ErrRosterTooLarge),
		errors.Is(err, datasource.ErrInvalidData):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrLookupUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, datasource.ErrRateLimitExceeded), errors.Is(err, datasource.ErrCircuitOpen):
		return http.StatusTooManyRequests
	case errors.Is(err, datasource.ErrNetworkError), errors.Is(err, datasource.ErrServerError):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("status", status).Error("Request failed")
	}
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
