package devserver

import (
	"net/http"
	"runtime"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]any{
		"status":     "healthy",
		"go_version": runtime.Version(),
		"uptime":     time.Since(s.startTime).Round(time.Second).String(),
	})
}
