// Package macros provides the macro registry the template engine resolves
// against: built-in definitions, TOML-defined definitions loaded from disk,
// and a filesystem watcher that hot-reloads the loaded set.
package macros

import (
	"sort"
	"sync"

	"github.com/promptloom/promptloom/prompt"
)

// Registry holds macro definitions and implements prompt.Registry. Built-in
// definitions are fixed at construction; loaded definitions come from TOML
// files and are swapped wholesale on reload. A loaded definition shadows a
// built-in with the same id. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]*prompt.MacroDefinition
	loaded   map[string]*prompt.MacroDefinition
}

// NewRegistry creates a registry seeded with the built-in definitions.
func NewRegistry() *Registry {
	r := &Registry{
		builtins: make(map[string]*prompt.MacroDefinition, len(builtinMacros)),
		loaded:   make(map[string]*prompt.MacroDefinition),
	}
	for _, def := range builtinMacros {
		r.builtins[def.ID] = def
	}
	return r
}

// NewEmptyRegistry creates a registry with no definitions at all.
func NewEmptyRegistry() *Registry {
	return &Registry{
		builtins: make(map[string]*prompt.MacroDefinition),
		loaded:   make(map[string]*prompt.MacroDefinition),
	}
}

// Register adds or replaces a loaded definition.
func (r *Registry) Register(def *prompt.MacroDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded[def.ID] = def
}

// Unregister removes a loaded definition. Built-ins cannot be removed.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loaded, id)
}

// SetLoaded replaces the whole loaded set in one step. Used by reloads so a
// deleted file's macros disappear instead of lingering.
func (r *Registry) SetLoaded(defs []*prompt.MacroDefinition) {
	next := make(map[string]*prompt.MacroDefinition, len(defs))
	for _, def := range defs {
		next[def.ID] = def
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = next
}

// HasMacro reports whether an id is registered.
func (r *Registry) HasMacro(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.loaded[id]; ok {
		return true
	}
	_, ok := r.builtins[id]
	return ok
}

// GetMacro returns the definition for an id, or nil if absent.
func (r *Registry) GetMacro(id string) *prompt.MacroDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if def, ok := r.loaded[id]; ok {
		return def
	}
	return r.builtins[id]
}

// AllMacros returns every visible definition, sorted by id.
func (r *Registry) AllMacros() []*prompt.MacroDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(r.loaded)+len(r.builtins))
	out := make([]*prompt.MacroDefinition, 0, len(r.loaded)+len(r.builtins))
	for id, def := range r.loaded {
		seen[id] = true
		out = append(out, def)
	}
	for id, def := range r.builtins {
		if !seen[id] {
			out = append(out, def)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MacrosByCategory groups visible definitions by category, each group sorted
// by id.
func (r *Registry) MacrosByCategory() map[string][]*prompt.MacroDefinition {
	grouped := make(map[string][]*prompt.MacroDefinition)
	for _, def := range r.AllMacros() {
		grouped[def.Category] = append(grouped[def.Category], def)
	}
	return grouped
}
