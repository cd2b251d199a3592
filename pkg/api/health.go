package api

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	return nil
}

// handleReady reports whether the store answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) error {
	if err := s.store.HealthCheck(r.Context()); err != nil {
		return NewUnavailableError(err)
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	return nil
}
