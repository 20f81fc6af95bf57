package api

import (
	"net/http"
)

func (s *Server) handleModelStats(w http.ResponseWriter, r *http.Request) {
	if s.svc.Stats == nil {
		jsonError(w, "model stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"model": s.svc.ModelName,
		"stats": s.svc.Stats.Snapshot(),
	})
}
