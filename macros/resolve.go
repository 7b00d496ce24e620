package macros

import (
	"regexp"
	"strings"

	"github.com/promptloom/promptloom/prompt"
)

// maxExpansionDepth bounds macro-in-macro expansion so definition cycles
// cannot loop forever.
const maxExpansionDepth = 5

var (
	invocationPattern = regexp.MustCompile(`\{\{macro:([A-Za-z_][A-Za-z0-9_]*)(\s+[^}]*?)?\s*\}\}`)
	condOpenPattern   = regexp.MustCompile(`\{\{#(if|unless)\s+([^}]+?)\s*\}\}`)
	anyTokenPattern   = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)
)

const elseTag = "{{else}}"

// ResolveTemplate substitutes the preview context into a template: macro
// invocations are expanded against the registry, conditional blocks are
// evaluated, and generic tokens are replaced with context field values.
// Resolution never fails; the error return satisfies prompt.Registry.
func (r *Registry) ResolveTemplate(template string, ctx *prompt.PreviewContext, opts prompt.ResolveOptions) (string, error) {
	if ctx == nil {
		ctx = prompt.NewPreviewContext()
	}
	fields := ctx.Fields()

	out := template
	for depth := 0; depth < maxExpansionDepth; depth++ {
		expanded := r.expandMacros(out, opts)
		if expanded == out {
			break
		}
		out = expanded
	}
	out = resolveConditionals(out, fields)
	out = substituteTokens(out, fields, opts)
	return out, nil
}

// expandMacros replaces each {{macro:id ...}} invocation with its definition
// template, binding invocation parameters over declared defaults. Unknown ids
// are preserved or stripped per the options.
func (r *Registry) expandMacros(template string, opts prompt.ResolveOptions) string {
	return invocationPattern.ReplaceAllStringFunc(template, func(match string) string {
		sub := invocationPattern.FindStringSubmatch(match)
		def := r.GetMacro(sub[1])
		if def == nil {
			if opts.PreserveUnresolved {
				return match
			}
			return ""
		}

		params := prompt.ParseMacroParams(sub[2])
		for _, p := range def.Parameters {
			if _, ok := params[p.Name]; !ok && p.Default != "" {
				params[p.Name] = p.Default
			}
		}

		body := def.Template
		for name, value := range params {
			body = strings.ReplaceAll(body, "{{"+name+"}}", value)
		}
		return body
	})
}

// resolveConditionals evaluates flat conditional blocks left to right. A
// condition is truthy when its context field is non-empty; native names count
// as truthy because the host fills them at execution time. Unterminated
// blocks are left in place.
func resolveConditionals(template string, fields map[string]string) string {
	var sb strings.Builder
	rest := template
	for {
		m := condOpenPattern.FindStringSubmatchIndex(rest)
		if m == nil {
			sb.WriteString(rest)
			break
		}

		keyword := rest[m[2]:m[3]]
		condition := rest[m[4]:m[5]]
		closeTag := "{{/" + keyword + "}}"

		rel := strings.Index(rest[m[1]:], closeTag)
		if rel < 0 {
			sb.WriteString(rest[:m[1]])
			rest = rest[m[1]:]
			continue
		}
		body := rest[m[1] : m[1]+rel]

		truthy := fields[condition] != "" || prompt.IsNativeMacro(condition)
		if keyword == "unless" {
			truthy = !truthy
		}

		thenBody, elseBody := body, ""
		if idx := strings.Index(body, elseTag); idx >= 0 {
			thenBody, elseBody = body[:idx], body[idx+len(elseTag):]
		}

		sb.WriteString(rest[:m[0]])
		if truthy {
			sb.WriteString(thenBody)
		} else {
			sb.WriteString(elseBody)
		}
		rest = rest[m[1]+rel+len(closeTag):]
	}
	return sb.String()
}

// substituteTokens replaces generic tokens with context field values. Any
// transform chain suffix is dropped; transforms are opaque to the preview.
// Native names pass through verbatim when the option is set; everything else
// unknown is preserved or stripped per the options.
func substituteTokens(template string, fields map[string]string, opts prompt.ResolveOptions) string {
	return anyTokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}"))
		name := inner
		if idx := strings.Index(inner, "|"); idx >= 0 {
			name = strings.TrimSpace(inner[:idx])
		}

		if prompt.IsNativeMacro(name) && opts.PassThroughNative {
			return "{{" + name + "}}"
		}
		if value, ok := fields[name]; ok {
			return value
		}
		if opts.PreserveUnresolved {
			return match
		}
		return ""
	})
}
