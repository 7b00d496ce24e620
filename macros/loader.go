package macros

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/promptloom/promptloom/errors"
	"github.com/promptloom/promptloom/prompt"
)

// macroFile is the on-disk TOML shape:
//
//	[[macro]]
//	id = "projectRules"
//	name = "Project Rules"
//	category = "workflow"
//	template = "Follow the {{pipeline}} conventions."
//
//	[[macro.parameters]]
//	name = "strictness"
//	default = "normal"
type macroFile struct {
	Macros []macroEntry `toml:"macro"`
}

type macroEntry struct {
	ID          string       `toml:"id"`
	Name        string       `toml:"name"`
	Category    string       `toml:"category"`
	Description string       `toml:"description"`
	Template    string       `toml:"template"`
	Parameters  []paramEntry `toml:"parameters"`
}

type paramEntry struct {
	Name        string `toml:"name"`
	Required    bool   `toml:"required"`
	Default     string `toml:"default"`
	Description string `toml:"description"`
}

// LoadFile parses one TOML macro file into definitions.
func LoadFile(path string) ([]*prompt.MacroDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading macro file %s", path)
	}

	var file macroFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "parsing macro file %s", path)
	}

	defs := make([]*prompt.MacroDefinition, 0, len(file.Macros))
	for _, entry := range file.Macros {
		if entry.ID == "" {
			return nil, errors.Newf("macro file %s: macro with empty id", path)
		}
		if entry.Template == "" {
			return nil, errors.Newf("macro file %s: macro %q has no template", path, entry.ID)
		}

		def := &prompt.MacroDefinition{
			ID:          entry.ID,
			Name:        entry.Name,
			Category:    entry.Category,
			Description: entry.Description,
			Template:    entry.Template,
		}
		if def.Name == "" {
			def.Name = def.ID
		}
		for _, p := range entry.Parameters {
			def.Parameters = append(def.Parameters, prompt.MacroParameter{
				Name:        p.Name,
				Required:    p.Required,
				Default:     p.Default,
				Description: p.Description,
			})
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadDir parses every .toml file in dir, in name order so later files win on
// id collisions. A missing directory yields an empty set, not an error.
func LoadDir(dir string) ([]*prompt.MacroDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading macro directory %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var defs []*prompt.MacroDefinition
	for _, name := range names {
		fileDefs, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	return defs, nil
}
