package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	opsResponse "github.com/roundbuy/backend-sub000/internal/delivery/http/dto/ops/response"
	"github.com/roundbuy/backend-sub000/internal/usecase/sweeper"
)

// ReadinessCheck reports whether one dependency is usable.
type ReadinessCheck func(ctx context.Context) error

type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (sweeper.Report, error)
}

type OpsHandler struct {
	sweeper Sweeper
	checks  map[string]ReadinessCheck
	logger  *slog.Logger
}

func NewOpsHandler(sw Sweeper, checks map[string]ReadinessCheck, logger *slog.Logger) *OpsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpsHandler{sweeper: sw, checks: checks, logger: logger}
}

// NewOpsRouter serves metrics, health checks and the manual sweep trigger.
func NewOpsRouter(h *OpsHandler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Post("/admin/sweep", h.sweep)
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *OpsHandler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, opsResponse.StatusResponse{Status: "ok"})
}

func (h *OpsHandler) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := opsResponse.StatusResponse{Status: "ready", Checks: map[string]string{}}
	code := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "not_ready"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, code, resp)
}

func (h *OpsHandler) sweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.sweeper.Sweep(r.Context(), time.Now().UTC())
	if errors.Is(err, sweeper.ErrSweepInProgress) {
		writeJSON(w, http.StatusConflict, opsResponse.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("manual sweep failed", "module", "http", "error", err.Error())
	}

	code := http.StatusOK
	if err != nil {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, ToSweepResponse(report))
}

func ToSweepResponse(report sweeper.Report) opsResponse.SweepResponse {
	return opsResponse.SweepResponse{
		StartedAt:          report.StartedAt,
		DurationMs:         report.Duration.Milliseconds(),
		IssuesExpired:      report.IssuesExpired,
		DisputesEscalated:  report.DisputesEscalated,
		DisputesFlagged:    report.DisputesFlagged,
		ClaimsExpired:      report.ClaimsExpired,
		ClaimsMarkedUrgent: report.ClaimsMarkedUrgent,
		Skipped:            report.Skipped,
		Failed:             report.Failed,
	}
}
