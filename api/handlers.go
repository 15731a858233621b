package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/tinyland/lab/sysmon/monitor"
	"gitlab.com/tinyland/lab/sysmon/status"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 16

var (
	ErrEmptyMessage = errors.New("api: message is required")
	ErrEmptyValue   = errors.New("api: value is required")
	ErrUnknownMode  = errors.New("api: mode index out of range")
	ErrMissingField = errors.New("api: required field missing")
)

// Handler serves the JSON endpoints.
type Handler struct {
	src    Source
	logger *slog.Logger
	events *prometheus.CounterVec
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    string       `json:"status"`
	Overall   status.Level `json:"overall"`
	State     string       `json:"state"`
	Timestamp string       `json:"timestamp"`
}

type EventRequest struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type AmbientRequest struct {
	Value string `json:"value"`
}

type ModeRequest struct {
	Index *int `json:"index"`
}

type ModeResponse struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

type ConnectivityRequest struct {
	Online *bool `json:"online"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("encode JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   err.Error(),
		Message: message,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, err, "Invalid JSON body")
		return false
	}
	return true
}

// Health reports liveness plus the overall level.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.src.Snapshot()
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Overall:   snap.Overall,
		State:     snap.State.String(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.src.Snapshot())
}

func (h *Handler) GetReadings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.src.Readings())
}

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.src.Logs())
}

func (h *Handler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	h.src.ClearLogs()
	h.writeJSON(w, http.StatusOK, SuccessResponse{Status: "cleared"})
}

// PostEvent records an external action in the event log.
func (h *Handler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Message == "" {
		h.writeError(w, http.StatusBadRequest, ErrEmptyMessage, "Event message is required")
		return
	}
	sev, err := monitor.ParseSeverity(req.Severity)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err, "Severity must be info, success, warning or error")
		return
	}

	h.src.RecordEvent(req.Message, sev)
	h.events.WithLabelValues(string(sev)).Inc()
	h.writeJSON(w, http.StatusCreated, SuccessResponse{Status: "recorded"})
}

func (h *Handler) PostAmbient(w http.ResponseWriter, r *http.Request) {
	var req AmbientRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Value == "" {
		h.writeError(w, http.StatusBadRequest, ErrEmptyValue, "Ambient value is required")
		return
	}

	h.src.AmbientChanged(req.Value)
	h.writeJSON(w, http.StatusOK, SuccessResponse{Status: "updated"})
}

func (h *Handler) PostMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Index == nil {
		h.writeError(w, http.StatusBadRequest, ErrMissingField, "Field index is required")
		return
	}

	label, ok := h.src.ModeChanged(*req.Index)
	if !ok {
		h.writeError(w, http.StatusNotFound, ErrUnknownMode, "No mode at that index")
		return
	}
	h.writeJSON(w, http.StatusOK, ModeResponse{Index: *req.Index, Label: label})
}

func (h *Handler) PostConnectivity(w http.ResponseWriter, r *http.Request) {
	var req ConnectivityRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Online == nil {
		h.writeError(w, http.StatusBadRequest, ErrMissingField, "Field online is required")
		return
	}

	h.src.ConnectivityChanged(*req.Online)
	h.writeJSON(w, http.StatusOK, SuccessResponse{Status: "updated"})
}
