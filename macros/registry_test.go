package macros

import (
	"testing"

	"github.com/promptloom/promptloom/prompt"
)

func TestBuiltinsAreRegistered(t *testing.T) {
	r := NewRegistry()

	for _, id := range []string{"agentProfile", "pipelineBrief", "teamRoster", "outputFormat", "tone"} {
		if !r.HasMacro(id) {
			t.Errorf("builtin %q not registered", id)
		}
	}
	if r.HasMacro("doesNotExist") {
		t.Error("HasMacro must be false for unknown ids")
	}
}

func TestGetMacroReturnsNilWhenAbsent(t *testing.T) {
	r := NewEmptyRegistry()
	if got := r.GetMacro("nothing"); got != nil {
		t.Errorf("GetMacro = %+v, want nil", got)
	}
}

func TestLoadedShadowsBuiltin(t *testing.T) {
	r := NewRegistry()
	r.Register(&prompt.MacroDefinition{
		ID:       "tone",
		Name:     "Tone Override",
		Template: "Be blunt.",
	})

	def := r.GetMacro("tone")
	if def == nil || def.Name != "Tone Override" {
		t.Errorf("loaded definition did not shadow builtin: %+v", def)
	}

	r.Unregister("tone")
	def = r.GetMacro("tone")
	if def == nil || def.Name != "Tone" {
		t.Errorf("builtin not restored after unregister: %+v", def)
	}
}

func TestSetLoadedReplacesWholeSet(t *testing.T) {
	r := NewEmptyRegistry()
	r.Register(&prompt.MacroDefinition{ID: "old", Template: "x"})

	r.SetLoaded([]*prompt.MacroDefinition{
		{ID: "new", Template: "y"},
	})

	if r.HasMacro("old") {
		t.Error("SetLoaded must drop previously loaded macros")
	}
	if !r.HasMacro("new") {
		t.Error("SetLoaded must register the new set")
	}
}

func TestAllMacrosSortedAndDeduplicated(t *testing.T) {
	r := NewRegistry()
	r.Register(&prompt.MacroDefinition{ID: "tone", Name: "Override", Template: "x"})

	all := r.AllMacros()
	seen := make(map[string]int)
	for i, def := range all {
		seen[def.ID]++
		if i > 0 && all[i-1].ID > def.ID {
			t.Errorf("not sorted at %d: %s > %s", i, all[i-1].ID, def.ID)
		}
	}
	if seen["tone"] != 1 {
		t.Errorf("shadowed id appeared %d times", seen["tone"])
	}
}

func TestMacrosByCategoryGroups(t *testing.T) {
	r := NewRegistry()

	grouped := r.MacrosByCategory()
	if len(grouped["style"]) != 2 {
		t.Errorf("style category has %d macros, want 2", len(grouped["style"]))
	}
	for category, defs := range grouped {
		for _, def := range defs {
			if def.Category != category {
				t.Errorf("macro %s grouped under %q but declares %q", def.ID, category, def.Category)
			}
		}
	}
}
