// Package prompt implements the token-template engine used to assemble agent
// instruction text. Templates mix literal text with {{token}} placeholders,
// parameterized macro invocations and conditional blocks:
//   - {{name}} or {{ name }} - generic substitution token
//   - {{name | transform-chain}} - token with a transform pipeline suffix
//   - {{macro:id key="value"}} - invocation of a registry-defined macro
//   - {{#if expr}}...{{/if}}, {{#unless expr}}...{{/unless}} - conditional blocks
//   - {{#if expr}}...{{else}}...{{/if}} - if/else compound
//
// Scanning is single-pass and non-nesting-aware: a conditional block containing
// another block of the same type is not parsed correctly. The four categories
// are scanned independently, so the same substring can appear in more than one
// category (a conditional open tag also matches the generic token pattern).
package prompt

import (
	"regexp"
	"sort"
	"strings"
)

// ConditionalKind identifies the flavor of a conditional block.
type ConditionalKind string

const (
	ConditionalIf     ConditionalKind = "if"
	ConditionalUnless ConditionalKind = "unless"
	ConditionalIfElse ConditionalKind = "if-else"
)

// TokenOccurrence is a generic {{name}} token found in a template.
// Name has any transform suffix stripped.
type TokenOccurrence struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
}

// MacroOccurrence is a {{macro:id ...}} invocation found in a template.
// RawParams is the unparsed parameter text after the id, if any.
type MacroOccurrence struct {
	ID        string `json:"id"`
	RawParams string `json:"raw_params,omitempty"`
	Offset    int    `json:"offset"`
}

// ConditionalOccurrence is a conditional block found in a template.
// Condition is the opaque expression between the keyword and the closing braces.
type ConditionalOccurrence struct {
	Kind      ConditionalKind `json:"kind"`
	Condition string          `json:"condition"`
	Offset    int             `json:"offset"`
}

// TransformOccurrence is a token carrying a |-separated transform pipeline.
// Chain is captured verbatim; transforms are opaque to this engine.
type TransformOccurrence struct {
	Token  string `json:"token"`
	Chain  string `json:"chain"`
	Offset int    `json:"offset"`
}

// ScanResult holds the structural occurrences extracted from one template.
// Categories overlap by design; see the package comment.
type ScanResult struct {
	Tokens       []TokenOccurrence       `json:"tokens"`
	Macros       []MacroOccurrence       `json:"macros"`
	Conditionals []ConditionalOccurrence `json:"conditionals"`
	Transforms   []TransformOccurrence   `json:"transforms"`
}

// Scanning patterns
var (
	// Match {{ X }} where X contains no closing brace
	tokenPattern = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

	// Match {{macro:id key="value" ...}}; the id follows identifier grammar
	macroPattern = regexp.MustCompile(`\{\{macro:([A-Za-z_][A-Za-z0-9_]*)(\s+[^}]*?)?\s*\}\}`)

	// Match a conditional open tag; the block close is located by index scan
	condOpenPattern = regexp.MustCompile(`\{\{#(if|unless)\s+([^}]+?)\s*\}\}`)

	// Match key="value" parameter pairs inside a macro invocation
	paramPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)="([^"]*)"`)
)

const elseTag = "{{else}}"

// Scan extracts all structural occurrences from a template string.
// It never fails: malformed regions simply yield no matches.
func Scan(template string) *ScanResult {
	result := &ScanResult{}
	if template == "" {
		return result
	}

	scanTokens(template, result)
	scanMacros(template, result)
	scanConditionals(template, result)
	return result
}

// scanTokens records every generic token, splitting off transform chains.
func scanTokens(template string, result *ScanResult) {
	matches := tokenPattern.FindAllStringSubmatchIndex(template, -1)
	for _, m := range matches {
		inner := template[m[2]:m[3]]
		offset := m[0]

		name := strings.TrimSpace(inner)
		chain := ""
		if idx := strings.Index(inner, "|"); idx >= 0 {
			name = strings.TrimSpace(inner[:idx])
			chain = strings.TrimSpace(inner[idx+1:])
		}
		if name == "" {
			continue
		}

		result.Tokens = append(result.Tokens, TokenOccurrence{Name: name, Offset: offset})
		if chain != "" {
			result.Transforms = append(result.Transforms, TransformOccurrence{
				Token:  name,
				Chain:  chain,
				Offset: offset,
			})
		}
	}
}

// scanMacros records every macro invocation with its raw parameter text.
func scanMacros(template string, result *ScanResult) {
	matches := macroPattern.FindAllStringSubmatchIndex(template, -1)
	for _, m := range matches {
		occ := MacroOccurrence{
			ID:     template[m[2]:m[3]],
			Offset: m[0],
		}
		if m[4] >= 0 {
			occ.RawParams = strings.TrimSpace(template[m[4]:m[5]])
		}
		result.Macros = append(result.Macros, occ)
	}
}

// scanConditionals records conditional blocks left to right. Each open tag is
// paired with the next matching close tag, so nested blocks of the same type
// are not recognized. An open tag with no close tag yields no match.
func scanConditionals(template string, result *ScanResult) {
	opens := condOpenPattern.FindAllStringSubmatchIndex(template, -1)
	lastEnd := 0
	for _, m := range opens {
		openStart, openEnd := m[0], m[1]
		if openStart < lastEnd {
			// Open tag inside a previously matched block; flat scanning skips it
			continue
		}

		keyword := template[m[2]:m[3]]
		condition := template[m[4]:m[5]]

		closeTag := "{{/" + keyword + "}}"
		rel := strings.Index(template[openEnd:], closeTag)
		if rel < 0 {
			// Unterminated block: not an error, just no match
			continue
		}
		body := template[openEnd : openEnd+rel]

		kind := ConditionalKind(keyword)
		if kind == ConditionalIf && strings.Contains(body, elseTag) {
			kind = ConditionalIfElse
		}

		result.Conditionals = append(result.Conditionals, ConditionalOccurrence{
			Kind:      kind,
			Condition: condition,
			Offset:    openStart,
		})
		lastEnd = openEnd + rel + len(closeTag)
	}
}

// ParseMacroParams parses key="value" pairs from a macro invocation's raw
// parameter text. Text outside the pair grammar is ignored.
func ParseMacroParams(raw string) map[string]string {
	params := make(map[string]string)
	for _, m := range paramPattern.FindAllStringSubmatch(raw, -1) {
		params[m[1]] = m[2]
	}
	return params
}

// BuildMacroInvocation renders the invocation syntax for a macro id and
// parameter map. Parameters are emitted in sorted key order for stability.
func BuildMacroInvocation(id string, params map[string]string) string {
	var sb strings.Builder
	sb.WriteString("{{macro:")
	sb.WriteString(id)
	for _, k := range sortedKeys(params) {
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(params[k])
		sb.WriteString(`"`)
	}
	sb.WriteString("}}")
	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
