package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"goap-agent/internal/apperr"
	"goap-agent/internal/goap/store"
)

// GoalReportHandler serves archived plan history for a given agent,
// backed by store.PlanHistoryArchive.
type GoalReportHandler struct {
	archive store.PlanHistoryArchive
}

// NewGoalReportHandler constructs a GoalReportHandler over archive.
func NewGoalReportHandler(archive store.PlanHistoryArchive) *GoalReportHandler {
	return &GoalReportHandler{archive: archive}
}

const defaultRecentLimit = 50

// Recent returns the most recent plan records for the "agentID" URL
// parameter, optionally bounded by a "limit" query parameter.
func (h *GoalReportHandler) Recent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")

	limit := int64(defaultRecentLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	records, err := h.archive.Recent(ctx, agentID, limit)
	if err != nil {
		apperr.RespondWithError(w, apperr.Wrap(apperr.ErrStoreUnavailable, "failed to load plan history", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}
