package macros

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleMacroTOML = `
[[macro]]
id = "projectRules"
name = "Project Rules"
category = "workflow"
description = "House rules for the pipeline."
template = "Follow the {{pipeline}} conventions."

[[macro.parameters]]
name = "strictness"
default = "normal"
description = "How strictly to apply the rules."

[[macro]]
id = "signoff"
template = "End with a one-line summary."
`

func writeMacroFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeMacroFile(t, dir, "rules.toml", sampleMacroTOML)

	defs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("loaded %d macros, want 2", len(defs))
	}

	rules := defs[0]
	if rules.ID != "projectRules" || rules.Category != "workflow" {
		t.Errorf("first macro = %+v", rules)
	}
	if len(rules.Parameters) != 1 || rules.Parameters[0].Default != "normal" {
		t.Errorf("parameters = %+v", rules.Parameters)
	}

	// Name falls back to the id when omitted
	if defs[1].Name != "signoff" {
		t.Errorf("name fallback = %q", defs[1].Name)
	}
}

func TestLoadFileRejectsMissingID(t *testing.T) {
	dir := t.TempDir()
	path := writeMacroFile(t, dir, "bad.toml", "[[macro]]\ntemplate = \"x\"\n")

	if _, err := LoadFile(path); err == nil {
		t.Error("macro with empty id must fail")
	}
}

func TestLoadFileRejectsMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	path := writeMacroFile(t, dir, "bad.toml", "[[macro]]\nid = \"x\"\n")

	if _, err := LoadFile(path); err == nil {
		t.Error("macro with empty template must fail")
	}
}

func TestLoadDirNameOrderWins(t *testing.T) {
	dir := t.TempDir()
	writeMacroFile(t, dir, "10-base.toml", "[[macro]]\nid = \"greet\"\ntemplate = \"base\"\n")
	writeMacroFile(t, dir, "20-override.toml", "[[macro]]\nid = \"greet\"\ntemplate = \"override\"\n")
	writeMacroFile(t, dir, "ignored.txt", "not toml")

	defs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	r := NewEmptyRegistry()
	r.SetLoaded(defs)
	def := r.GetMacro("greet")
	if def == nil || def.Template != "override" {
		t.Errorf("later file must win: %+v", def)
	}
}

func TestLoadDirMissingDirectory(t *testing.T) {
	defs, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("missing directory must not error: %v", err)
	}
	if len(defs) != 0 {
		t.Errorf("loaded %d macros from missing dir", len(defs))
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeMacroFile(t, dir, "initial.toml", "[[macro]]\nid = \"first\"\ntemplate = \"x\"\n")

	registry := NewEmptyRegistry()
	w, err := NewWatcher(dir, registry)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Stop()

	reloaded := make(chan int, 4)
	w.OnReload(func(count int) { reloaded <- count })

	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !registry.HasMacro("first") {
		t.Fatal("initial load did not register macros")
	}

	writeMacroFile(t, dir, "added.toml", "[[macro]]\nid = \"second\"\ntemplate = \"y\"\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case count := <-reloaded:
			if count == 2 && registry.HasMacro("second") {
				return
			}
		case <-deadline:
			t.Fatal("watcher never picked up the new file")
		}
	}
}
