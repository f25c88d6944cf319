package topline

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "awardsreport/pkg/domain-errors"
	"awardsreport/pkg/platform/httputil"
	"awardsreport/pkg/requestcontext"
)

// Aggregator defines the topline operations the handler depends on.
type Aggregator interface {
	TopAgencyObligations(ctx context.Context, limit int) ([]AgencyObligation, error)
}

// Handler wires topline endpoints to the topline service.
type Handler struct {
	service Aggregator
	logger  *slog.Logger
}

// NewHandler constructs a topline handler.
func NewHandler(service Aggregator, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts topline endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/topline/top_agency_obligations", h.HandleTopAgencyObligations)
}

// HandleTopAgencyObligations handles GET /topline/top_agency_obligations.
func (h *Handler) HandleTopAgencyObligations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation,
				"limit value %q is not a positive integer", raw))
			return
		}
		limit = n
	}

	result, err := h.service.TopAgencyObligations(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "topline query failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
