// Package handler exposes the summary tables endpoint and owns request
// validation.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"awardsreport/internal/summary/metrics"
	"awardsreport/internal/summary/models"
	"awardsreport/pkg/platform/httputil"
	"awardsreport/pkg/requestcontext"
)

// Service defines the summary operations the handler depends on.
type Service interface {
	SummaryTable(ctx context.Context, gb models.GroupKey, f models.FilterSet, limit int) (*models.Table, error)
}

// Handler wires the summary tables endpoint to the summary service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a summary handler with its dependencies.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: m}
}

// Register mounts summary endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/summary_tables/", h.HandleSummaryTable)
}

// HandleSummaryTable handles GET /summary_tables/ requests: total spending
// grouped by the requested columns, descending, limited.
func (h *Handler) HandleSummaryTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, err := parseSummaryRequest(r.URL.Query(), requestcontext.Now(ctx))
	if err != nil {
		h.logger.InfoContext(ctx, "summary request rejected",
			"request_id", requestID,
			"error", err,
		)
		h.observe("rejected", start)
		httputil.WriteError(w, err)
		return
	}

	table, err := h.service.SummaryTable(ctx, req.GroupBy, req.Filters, req.Limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "summary table failed",
			"request_id", requestID,
			"gb", req.GroupBy,
			"error", err,
		)
		h.observe("error", start)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "summary table served",
		"request_id", requestID,
		"gb", req.GroupBy,
		"rows", len(table.Data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	h.observe("ok", start)
	httputil.WriteJSON(w, http.StatusOK, table)
}

func (h *Handler) observe(outcome string, start time.Time) {
	if h.metrics != nil {
		h.metrics.Observe(outcome, time.Since(start))
	}
}
