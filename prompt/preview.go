package prompt

import (
	"github.com/promptloom/promptloom/logger"
)

// PreviewContext is the synthetic record substituted into templates for
// preview rendering. The bracketed labels make it obvious in the preview pane
// which parts are placeholders. Never persisted; never affects saved
// configuration.
type PreviewContext struct {
	Pipeline string `json:"pipeline"`
	Phase    string `json:"phase"`
	Action   string `json:"action"`
	Agent    string `json:"agent"`
	Position string `json:"position"`
	Team     string `json:"team"`
}

// NewPreviewContext returns the standard preview context.
func NewPreviewContext() *PreviewContext {
	return &PreviewContext{
		Pipeline: "[Pipeline Name]",
		Phase:    "[Current Phase]",
		Action:   "[Action Description]",
		Agent:    "[Agent Name]",
		Position: "[Agent Position]",
		Team:     "[Team Members]",
	}
}

// Fields returns the context as a token-name keyed map.
func (c *PreviewContext) Fields() map[string]string {
	return map[string]string{
		"pipeline": c.Pipeline,
		"phase":    c.Phase,
		"action":   c.Action,
		"agent":    c.Agent,
		"position": c.Position,
		"team":     c.Team,
	}
}

// Resolver produces human-readable preview text for a template, annotated by
// validation findings. The registry is injected; a nil registry or a failing
// resolution call triggers the bracket-substitution fallback so the preview
// pane is never blank.
type Resolver struct {
	registry Registry
}

// NewResolver creates a Resolver against a registry.
func NewResolver(registry Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Preview resolves a template against the preview context and returns the
// display text together with a validation report. Tokens the registry
// silently declined to resolve are appended to the report as warnings.
// Preview never fails.
func (r *Resolver) Preview(template string, ctx *PreviewContext, opts ResolveOptions) (string, *ValidationReport) {
	if ctx == nil {
		ctx = NewPreviewContext()
	}

	report := scanReport(template, r.registry)
	resolved := resolveOrFallback(template, r.registry, ctx, opts)
	report.noteRemnants(resolved)

	return resolved, report
}

// resolveOrFallback delegates to the registry and degrades to bracket
// substitution when the registry is unavailable or fails.
func resolveOrFallback(template string, registry Registry, ctx *PreviewContext, opts ResolveOptions) string {
	if registry == nil {
		return fallbackResolve(template)
	}

	resolved, err := registry.ResolveTemplate(template, ctx, opts)
	if err != nil {
		logger.Warnw("Registry resolution failed, using fallback substitution",
			logger.FieldError, err,
			logger.FieldTemplateLength, len(template),
		)
		return fallbackResolve(template)
	}
	return resolved
}

// fallbackResolve replaces every simple {{name}} token with a bracketed
// stand-in [name]. Macro invocations, conditionals and transform pipelines
// are left in raw syntax; partial output beats an error surface.
func fallbackResolve(template string) string {
	return simpleTokenPattern.ReplaceAllString(template, "[$1]")
}
