package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"goap-agent/internal/apperr"
)

// StopHandler requests that a running agent loop stop.
type StopHandler struct {
	registry AgentRegistry
}

// NewStopHandler constructs a StopHandler over registry.
func NewStopHandler(registry AgentRegistry) *StopHandler {
	return &StopHandler{registry: registry}
}

// Stop blocks until the named agent's loop has fully stopped, per
// agent.Loop.Stop's contract.
func (h *StopHandler) Stop(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")

	handle, ok := h.registry.Get(agentID)
	if !ok {
		apperr.RespondWithError(w, apperr.ErrNotFound)
		return
	}

	handle.Stop()
	w.WriteHeader(http.StatusNoContent)
}
