package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"goap-agent/internal/agent"
	"goap-agent/internal/apperr"
	"goap-agent/internal/goap/store"
)

// StatusHandler reports which agents are registered and their status,
// stats, and goal report, read from each agent.Loop through the narrower
// AgentHandle. Running is true for every registered agent; a loop that has
// stopped but is still registered also reports true.
type StatusHandler struct {
	registry  AgentRegistry
	snapshots store.SnapshotCache
}

// NewStatusHandler constructs a StatusHandler over registry. snapshots is
// optional; when nil, responses omit the cached world-state snapshot.
func NewStatusHandler(registry AgentRegistry, snapshots store.SnapshotCache) *StatusHandler {
	return &StatusHandler{registry: registry, snapshots: snapshots}
}

// StatusResponse is the JSON body returned by List and Get.
type StatusResponse struct {
	AgentID    string          `json:"agent_id"`
	Running    bool            `json:"running"`
	Status     string          `json:"status"`
	Stats      agent.LoopStats `json:"stats"`
	GoalReport string          `json:"goal_report"`
	Snapshot   map[string]any  `json:"snapshot,omitempty"`
}

func (h *StatusHandler) describe(ctx context.Context, agentID string, handle AgentHandle) StatusResponse {
	resp := StatusResponse{
		AgentID:    agentID,
		Running:    true,
		Status:     handle.Status(),
		Stats:      handle.Stats(),
		GoalReport: handle.GoalReport(),
	}
	if h.snapshots != nil {
		if snapshot, ok, err := h.snapshots.Get(ctx, agentID); err == nil && ok {
			resp.Snapshot = snapshot
		}
	}
	return resp
}

// List reports every registered agent's live status.
func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	ids := h.registry.List()
	responses := make([]StatusResponse, 0, len(ids))
	for _, id := range ids {
		handle, ok := h.registry.Get(id)
		if !ok {
			continue
		}
		responses = append(responses, h.describe(r.Context(), id, handle))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(responses)
}

// Get reports the status of a single agent named by the "agentID" URL
// parameter.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")

	handle, ok := h.registry.Get(agentID)
	if !ok {
		apperr.RespondWithError(w, apperr.ErrNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.describe(r.Context(), agentID, handle))
}
