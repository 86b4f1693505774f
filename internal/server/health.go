package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusDegraded     = "degraded"
)

// SessionProbe reports whether the watched session is still usable.
// Satisfied by *session.Session via its Active method.
type SessionProbe interface {
	Active() bool
}

// HealthChecker serves the liveness and readiness probes for watch
// mode. Liveness only says the process runs; readiness additionally
// requires an active session and no shutdown in progress.
type HealthChecker struct {
	ready     atomic.Bool
	shutdown  atomic.Bool
	probe     SessionProbe
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker. The probe may be nil, in
// which case the session check always passes.
func NewHealthChecker(probe SessionProbe) *HealthChecker {
	h := &HealthChecker{
		probe:     probe,
		startTime: time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the watcher is ready.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// Shutdown marks the watcher as shutting down, failing readiness so a
// scraper or supervisor stops routing to it.
func (h *HealthChecker) Shutdown() {
	h.shutdown.Store(true)
}

func (h *HealthChecker) sessionOK() bool {
	return h.probe == nil || h.probe.Active()
}

// HealthResponse is the JSON body of the health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler returns the /healthz handler: a bare process check.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		})
	})
}

// ReadinessHandler returns the /readyz handler. It fails while shutting
// down, while not ready, or when the session is no longer active (for
// example after an unrecoverable expiry or an account block).
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks := make(map[string]string)
		allOk := true

		if h.ready.Load() {
			checks["ready"] = healthStatusOK
		} else {
			checks["ready"] = healthStatusNotReady
			allOk = false
		}

		if h.shutdown.Load() {
			checks["shutdown"] = healthStatusShuttingDown
			allOk = false
		} else {
			checks["shutdown"] = healthStatusOK
		}

		if h.sessionOK() {
			checks["session"] = healthStatusOK
		} else {
			checks["session"] = healthStatusDegraded
			allOk = false
		}

		response := HealthResponse{Checks: checks}
		if allOk {
			response.Status = healthStatusOK
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(response)
	})
}

// RegisterHealthEndpoints registers the probe endpoints on the mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
}
