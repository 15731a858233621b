// Package api exposes a monitor over HTTP: JSON read and write endpoints, a
// WebSocket snapshot stream and a Prometheus scrape endpoint.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/tinyland/lab/sysmon/internal/logging"
	"gitlab.com/tinyland/lab/sysmon/monitor"
)

// Source is the monitor surface the HTTP layer reads and drives.
type Source interface {
	Snapshot() monitor.Snapshot
	Readings() []monitor.Reading
	Logs() []monitor.LogEntry
	ClearLogs()
	Subscribe() (<-chan struct{}, func())

	monitor.EventRecorder
	monitor.AmbientSink
	monitor.ModeSink
	monitor.ConnectivitySink
}

// Router is the HTTP handler tree for a monitor.
type Router struct {
	*mux.Router
}

// NewRouter wires every endpoint for src. If logger is nil, a no-op logger
// is used.
func NewRouter(src Source, logger *slog.Logger) *Router {
	if logger == nil {
		logger = logging.Discard()
	}

	r := mux.NewRouter()

	reg := prometheus.NewRegistry()
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sysmon",
		Name:      "api_events_total",
		Help:      "Events recorded through the HTTP surface, by severity.",
	}, []string{"severity"})
	reg.MustRegister(NewCollector(src), events)

	h := &Handler{src: src, logger: logger, events: events}
	stream := &streamHandler{src: src, logger: logger}

	// Health check endpoint (no middleware for faster response)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/snapshot", h.GetSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/readings", h.GetReadings).Methods(http.MethodGet)
	api.HandleFunc("/logs", h.GetLogs).Methods(http.MethodGet)
	api.HandleFunc("/logs", h.ClearLogs).Methods(http.MethodDelete)
	api.HandleFunc("/events", h.PostEvent).Methods(http.MethodPost)
	api.HandleFunc("/ambient", h.PostAmbient).Methods(http.MethodPost)
	api.HandleFunc("/mode", h.PostMode).Methods(http.MethodPost)
	api.HandleFunc("/connectivity", h.PostConnectivity).Methods(http.MethodPost)
	api.Handle("/stream", stream).Methods(http.MethodGet)

	api.Use(Recovery(logger))
	api.Use(Logging(logger))

	return &Router{Router: r}
}
