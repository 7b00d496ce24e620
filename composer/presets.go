package composer

// Built-in preset prompts for preset mode. Callers can extend or replace the
// catalog via WithPresets.
var builtinPresets = map[string]string{
	"standard": "You are {{agent}}, an agent in the {{pipeline}} pipeline.\n" +
		"Current phase: {{phase}}\n" +
		"Your task: {{action}}",
	"collaborative": "You are {{agent}}, working with {{team}}.\n" +
		"Pipeline: {{pipeline}} ({{phase}})\n" +
		"{{#if team}}Coordinate with your team before acting.{{/if}}\n" +
		"Task: {{action}}",
	"minimal": "{{action}}",
}

// PresetNames returns the names of the built-in presets.
func PresetNames() []string {
	names := make([]string, 0, len(builtinPresets))
	for name := range builtinPresets {
		names = append(names, name)
	}
	return names
}
