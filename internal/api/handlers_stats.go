package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"latency":     s.stats.Snapshot(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
