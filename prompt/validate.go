package prompt

import "regexp"

// Unresolved reasons surfaced in validation reports.
const (
	ReasonMacroNotFound = "macro not found"
	ReasonNotResolved   = "not resolved"
)

// UnresolvedToken is a template element that could not be resolved.
// Reason distinguishes missing macros (error-level) from generic tokens the
// registry declined to resolve (warning-level).
type UnresolvedToken struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// MacroReference is a macro occurrence annotated with its registry existence.
type MacroReference struct {
	MacroOccurrence
	Exists bool `json:"exists"`
}

// ValidationReport is the result of cross-referencing a template against a
// macro registry. Valid is false iff a referenced macro id is not registered.
// Unresolved generic tokens are warnings and never flip Valid; authors may
// reference macros that are not registered yet.
type ValidationReport struct {
	Valid        bool                    `json:"valid"`
	Tokens       []TokenOccurrence       `json:"tokens"`
	Macros       []MacroReference        `json:"macros"`
	Conditionals []ConditionalOccurrence `json:"conditionals"`
	Transforms   []TransformOccurrence   `json:"transforms"`
	Unresolved   []UnresolvedToken       `json:"unresolved_tokens"`
}

// Match a bare {{name}} remnant: a simple token name with no macro prefix,
// conditional keyword or transform pipe
var simpleTokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// Validate scans a template and checks every macro invocation against the
// registry. Generic tokens are additionally checked by attempting a
// resolution with the synthetic preview context; survivors are recorded as
// warning-level unresolved entries. Validate never fails: malformed syntax
// simply produces no occurrences.
func Validate(template string, registry Registry) *ValidationReport {
	report := scanReport(template, registry)

	// Resolution attempt for warning-level detection. Preserve everything so
	// remnants stay visible, and let native names pass through untouched.
	resolved := resolveOrFallback(template, registry, NewPreviewContext(), ResolveOptions{
		PreserveUnresolved: true,
		PassThroughNative:  true,
	})
	report.noteRemnants(resolved)

	return report
}

// scanReport builds a report from parser output and macro existence checks.
func scanReport(template string, registry Registry) *ValidationReport {
	scanned := Scan(template)
	report := &ValidationReport{
		Valid:        true,
		Tokens:       scanned.Tokens,
		Conditionals: scanned.Conditionals,
		Transforms:   scanned.Transforms,
	}

	for _, occ := range scanned.Macros {
		exists := registry != nil && registry.HasMacro(occ.ID)
		report.Macros = append(report.Macros, MacroReference{MacroOccurrence: occ, Exists: exists})
		if !exists {
			report.Valid = false
			report.Unresolved = append(report.Unresolved, UnresolvedToken{
				Name:   occ.ID,
				Reason: ReasonMacroNotFound,
			})
		}
	}

	return report
}

// noteRemnants records simple {{name}} tokens that survived resolution.
// Native allow-list names are expected to survive and are skipped, as are
// names already reported.
func (r *ValidationReport) noteRemnants(resolved string) {
	seen := make(map[string]bool, len(r.Unresolved))
	for _, u := range r.Unresolved {
		seen[u.Name] = true
	}

	for _, m := range simpleTokenPattern.FindAllStringSubmatch(resolved, -1) {
		name := m[1]
		if IsNativeMacro(name) || seen[name] {
			continue
		}
		seen[name] = true
		r.Unresolved = append(r.Unresolved, UnresolvedToken{
			Name:   name,
			Reason: ReasonNotResolved,
		})
	}
}

// Warnings returns the warning-level unresolved entries.
func (r *ValidationReport) Warnings() []UnresolvedToken {
	var out []UnresolvedToken
	for _, u := range r.Unresolved {
		if u.Reason != ReasonMacroNotFound {
			out = append(out, u)
		}
	}
	return out
}

// MissingMacros returns the error-level unresolved entries.
func (r *ValidationReport) MissingMacros() []UnresolvedToken {
	var out []UnresolvedToken
	for _, u := range r.Unresolved {
		if u.Reason == ReasonMacroNotFound {
			out = append(out, u)
		}
	}
	return out
}
