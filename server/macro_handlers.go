package server

import (
	"net/http"
)

// handleMacros handles GET /api/macros, optionally grouped by category with
// ?grouped=true.
func (s *Server) handleMacros(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	if r.URL.Query().Get("grouped") == "true" {
		writeJSON(w, http.StatusOK, s.registry.MacrosByCategory())
		return
	}
	writeJSON(w, http.StatusOK, s.registry.AllMacros())
}
