package server

import (
	"net/http"
	"strings"

	"github.com/promptloom/promptloom/logger"
	"github.com/promptloom/promptloom/prompt"
)

// TemplateRequest carries a template to validate or preview.
type TemplateRequest struct {
	Template string `json:"template"`

	// Preview only: strip unresolved syntax instead of preserving it
	Strip bool `json:"strip,omitempty"`
}

// PreviewResponse is the preview endpoint's payload.
type PreviewResponse struct {
	Text   string                   `json:"text"`
	Report *prompt.ValidationReport `json:"report"`
}

// handleValidate handles POST /api/template/validate
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req TemplateRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	if strings.TrimSpace(req.Template) == "" {
		writeError(w, http.StatusBadRequest, "template is required")
		return
	}

	report := prompt.Validate(req.Template, s.registry)
	logger.Debugw("Template validated",
		logger.FieldTemplateLength, len(req.Template),
		logger.FieldTokenCount, len(report.Tokens),
		logger.FieldUnresolved, len(report.Unresolved),
	)
	writeJSON(w, http.StatusOK, report)
}

// handlePreview handles POST /api/template/preview
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req TemplateRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	text, report := s.resolver.Preview(req.Template, prompt.NewPreviewContext(), prompt.ResolveOptions{
		PreserveUnresolved: !req.Strip,
		PassThroughNative:  true,
	})
	writeJSON(w, http.StatusOK, PreviewResponse{Text: text, Report: report})
}
