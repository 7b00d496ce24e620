// Package commands implements the promptloom CLI subcommands.
package commands

import (
	"io"
	"os"

	"github.com/promptloom/promptloom/config"
	"github.com/promptloom/promptloom/errors"
	"github.com/promptloom/promptloom/logger"
	"github.com/promptloom/promptloom/macros"
)

// readTemplate reads the template from a file argument or stdin.
func readTemplate(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", errors.Wrapf(err, "reading template file %s", args[0])
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.Wrap(err, "reading template from stdin")
	}
	return string(data), nil
}

// loadRegistry builds the macro registry: builtins plus any TOML definitions
// in the configured macro directory.
func loadRegistry() (*macros.Registry, error) {
	registry := macros.NewRegistry()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	defs, err := macros.LoadDir(cfg.Macros.Dir)
	if err != nil {
		return nil, err
	}
	if len(defs) > 0 {
		registry.SetLoaded(defs)
		logger.Debugw("Loaded macro definitions",
			"dir", cfg.Macros.Dir,
			logger.FieldMacroCount, len(defs))
	}
	return registry, nil
}
