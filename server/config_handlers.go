package server

import (
	"net/http"
	"strings"

	"github.com/promptloom/promptloom/composer"
	"github.com/promptloom/promptloom/logger"
)

// SaveConfigRequest carries a named configuration to persist.
type SaveConfigRequest struct {
	Name   string          `json:"name"`
	Config composer.Config `json:"config"`
}

// handleConfigs handles /api/configs: GET lists the latest version of every
// configuration, POST saves a new version.
func (s *Server) handleConfigs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.configs.List()
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var req SaveConfigRequest
		if err := readJSON(w, r, &req); err != nil {
			return
		}

		saved, err := s.configs.SaveConfig(req.Name, req.Config)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		logger.Infow("Config saved via API",
			logger.FieldConfigName, saved.Name,
			logger.FieldVersion, saved.Version,
		)
		writeJSON(w, http.StatusCreated, saved)

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleConfigByName handles /api/configs/{name} and
// /api/configs/{name}/versions.
func (s *Server) handleConfigByName(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/configs/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "config name is required")
		return
	}
	name := parts[0]

	if len(parts) > 1 && parts[1] == "versions" {
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		versions, err := s.configs.Versions(name)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, versions)
		return
	}

	switch r.Method {
	case http.MethodGet:
		cfg, err := s.configs.GetByName(name)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)

	case http.MethodDelete:
		if err := s.configs.DeleteConfig(name); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": name})

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
