package macros

import "github.com/promptloom/promptloom/prompt"

// Built-in macro definitions shipped with the engine. Categories drive the
// palette grouping in clients.
var builtinMacros = []*prompt.MacroDefinition{
	{
		ID:          "agentProfile",
		Name:        "Agent Profile",
		Category:    "identity",
		Description: "Introduces the agent by name and position.",
		Template:    "You are {{agent}}, serving as {{position}}.",
	},
	{
		ID:          "pipelineBrief",
		Name:        "Pipeline Brief",
		Category:    "context",
		Description: "Summarizes the pipeline, its current phase and the pending action.",
		Template:    "Pipeline: {{pipeline}}\nPhase: {{phase}}\nAction: {{action}}",
	},
	{
		ID:          "teamRoster",
		Name:        "Team Roster",
		Category:    "context",
		Description: "Lists the team and asks for coordination when one exists.",
		Template:    "{{#if team}}You are working with: {{team}}. Coordinate before acting.{{/if}}",
	},
	{
		ID:          "outputFormat",
		Name:        "Output Format",
		Category:    "style",
		Description: "Constrains the response format.",
		Parameters: []prompt.MacroParameter{
			{Name: "format", Required: false, Default: "plain text",
				Description: "Response format, e.g. markdown, json, plain text."},
		},
		Template: "Respond in {{format}}.",
	},
	{
		ID:          "tone",
		Name:        "Tone",
		Category:    "style",
		Description: "Sets the voice of the response.",
		Parameters: []prompt.MacroParameter{
			{Name: "voice", Required: false, Default: "neutral",
				Description: "Voice of the response, e.g. formal, casual, neutral."},
		},
		Template: "Use a {{voice}} tone throughout.",
	},
	{
		ID:          "handoffNotes",
		Name:        "Handoff Notes",
		Category:    "workflow",
		Description: "Instructs the agent to leave notes for the next phase.",
		Template:    "Before finishing, summarize what the next phase of {{pipeline}} needs to know.",
	},
}
