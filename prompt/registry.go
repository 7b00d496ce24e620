package prompt

// MacroParameter describes one parameter of a macro definition.
type MacroParameter struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// MacroDefinition is the registry's description of one macro.
type MacroDefinition struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Description string           `json:"description,omitempty"`
	Parameters  []MacroParameter `json:"parameters,omitempty"`
	Template    string           `json:"template"`
}

// ResolveOptions controls template resolution behavior.
type ResolveOptions struct {
	// PreserveUnresolved leaves substrings that fail resolution in place
	// instead of stripping them.
	PreserveUnresolved bool

	// PassThroughNative emits tokens on the native allow-list verbatim,
	// bypassing substitution entirely.
	PassThroughNative bool
}

// Registry is the external macro registry this engine validates and previews
// against. The engine never owns a registry; it is injected by the caller.
// Implementations must be safe for the engine's synchronous call pattern.
type Registry interface {
	// HasMacro reports whether a macro id is registered. No side effects.
	HasMacro(id string) bool

	// GetMacro returns the definition for an id, or nil if absent.
	GetMacro(id string) *MacroDefinition

	// AllMacros returns every registered definition.
	AllMacros() []*MacroDefinition

	// MacrosByCategory groups definitions by category for palette display.
	MacrosByCategory() map[string][]*MacroDefinition

	// ResolveTemplate substitutes a context into a template. It may fail;
	// callers must fall back gracefully.
	ResolveTemplate(template string, ctx *PreviewContext, opts ResolveOptions) (string, error)
}

// NativeMacros is the fixed allow-list of host-environment placeholder names.
// With ResolveOptions.PassThroughNative set, these bypass substitution and are
// emitted unchanged so the host chat layer can fill them at execution time.
var NativeMacros = map[string]bool{
	"char":    true,
	"user":    true,
	"persona": true,
	"input":   true,
	"group":   true,
	"model":   true,
	"time":    true,
	"date":    true,
}

// IsNativeMacro reports whether a token name is on the native allow-list.
func IsNativeMacro(name string) bool {
	return NativeMacros[name]
}
