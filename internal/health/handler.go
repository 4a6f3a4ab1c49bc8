// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

// Checker is satisfied by the postgres and redis wrappers in core.
type Checker interface {
	Ping(ctx context.Context) error
}

const checkTimeout = 5 * time.Second

type component struct {
	name    string
	checker Checker
}

type Handler struct {
	components []component
	shutdown   atomic.Bool
}

func NewHandler(db, redis Checker) *Handler {
	return &Handler{
		components: []component{
			{name: "postgres", checker: db},
			{name: "redis", checker: redis},
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

type probeResponse struct {
	Status     string            `json:"status"`
	Components []componentStatus `json:"components,omitempty"`
}

type componentStatus struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

// Liveness never touches the backing stores. It only reports whether
// the process is draining.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		writeProbe(w, http.StatusServiceUnavailable, probeResponse{
			Status: "shutting_down",
		})
		return
	}

	writeProbe(w, http.StatusOK, probeResponse{Status: "ok"})
}

// Readiness pings postgres and redis concurrently and reports degraded
// when either fails.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		writeProbe(w, http.StatusServiceUnavailable, probeResponse{
			Status: "shutting_down",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	statuses := h.checkAll(ctx)

	status := "ok"
	code := http.StatusOK
	for _, cs := range statuses {
		if !cs.Healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	writeProbe(w, code, probeResponse{Status: status, Components: statuses})
}

func (h *Handler) checkAll(ctx context.Context) []componentStatus {
	statuses := make([]componentStatus, len(h.components))

	var wg sync.WaitGroup
	for i, c := range h.components {
		wg.Add(1)
		go func(i int, c component) {
			defer wg.Done()
			statuses[i] = ping(ctx, c)
		}(i, c)
	}
	wg.Wait()

	return statuses
}

func ping(ctx context.Context, c component) componentStatus {
	cs := componentStatus{Name: c.name, Healthy: true}

	if c.checker == nil {
		cs.Healthy = false
		cs.Error = "not configured"
		return cs
	}

	start := time.Now()
	err := c.checker.Ping(ctx)
	cs.LatencyMS = time.Since(start).Milliseconds()

	if err != nil {
		cs.Healthy = false
		cs.Error = "ping failed"
	}

	return cs
}

// SetShutdown flips both probes to failing so load balancers drain the
// instance before the listener closes.
func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func writeProbe(w http.ResponseWriter, status int, body probeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}
