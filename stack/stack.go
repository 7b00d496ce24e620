// Package stack implements the ordered token stack used to compose a prompt
// template from structured entries, and the drag gesture engine that reorders
// it. A stack exclusively owns its items; entries are never shared between
// stacks.
package stack

import (
	"strings"

	"github.com/google/uuid"

	"github.com/promptloom/promptloom/errors"
	"github.com/promptloom/promptloom/prompt"
)

// Kind identifies what a stack item renders to.
type Kind string

const (
	// KindLiteralMacro is a fixed, registry-independent substitution such as
	// a host-chat placeholder.
	KindLiteralMacro Kind = "literal-macro"

	// KindParameterizedMacro references a registry macro by id and carries a
	// parameter map.
	KindParameterizedMacro Kind = "parameterized-macro"

	// KindConditional carries a condition expression with then/else bodies.
	KindConditional Kind = "conditional"

	// KindCustom is free-form literal text.
	KindCustom Kind = "custom"
)

// Item is one entry in the ordered stack. Content is the literal text or
// invocation syntax the entry renders to; Label is display-only. Prefix and
// Suffix wrap Content at render time.
type Item struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Label   string `json:"label"`
	Content string `json:"content"`
	Prefix  string `json:"prefix,omitempty"`
	Suffix  string `json:"suffix,omitempty"`

	// Parameterized macro fields
	MacroID string            `json:"macro_id,omitempty"`
	Params  map[string]string `json:"params,omitempty"`

	// Conditional fields
	Condition string                 `json:"condition,omitempty"`
	ThenBody  string                 `json:"then_body,omitempty"`
	ElseBody  string                 `json:"else_body,omitempty"`
	CondKind  prompt.ConditionalKind `json:"cond_kind,omitempty"`
}

// NewCustomItem creates a free-form text entry.
func NewCustomItem(label, content string) *Item {
	return &Item{
		ID:      uuid.NewString(),
		Kind:    KindCustom,
		Label:   label,
		Content: content,
	}
}

// NewLiteralMacroItem creates an entry for a fixed substitution token.
// The token name is wrapped in {{...}} syntax.
func NewLiteralMacroItem(label, token string) *Item {
	return &Item{
		ID:      uuid.NewString(),
		Kind:    KindLiteralMacro,
		Label:   label,
		Content: "{{" + token + "}}",
	}
}

// NewMacroItem creates an entry invoking a registry macro with parameters.
func NewMacroItem(def *prompt.MacroDefinition, params map[string]string) *Item {
	copied := copyParams(params)
	return &Item{
		ID:      uuid.NewString(),
		Kind:    KindParameterizedMacro,
		Label:   def.Name,
		Content: prompt.BuildMacroInvocation(def.ID, copied),
		MacroID: def.ID,
		Params:  copied,
	}
}

// NewConditionalItem creates a conditional block entry.
func NewConditionalItem(kind prompt.ConditionalKind, condition, thenBody, elseBody string) *Item {
	item := &Item{
		ID:        uuid.NewString(),
		Kind:      KindConditional,
		Label:     string(kind) + " " + condition,
		Condition: condition,
		ThenBody:  thenBody,
		ElseBody:  elseBody,
		CondKind:  kind,
	}
	item.Content = renderConditional(kind, condition, thenBody, elseBody)
	return item
}

func renderConditional(kind prompt.ConditionalKind, condition, thenBody, elseBody string) string {
	switch kind {
	case prompt.ConditionalUnless:
		return "{{#unless " + condition + "}}" + thenBody + "{{/unless}}"
	case prompt.ConditionalIfElse:
		return "{{#if " + condition + "}}" + thenBody + "{{else}}" + elseBody + "{{/if}}"
	default:
		return "{{#if " + condition + "}}" + thenBody + "{{/if}}"
	}
}

// Clone returns a deep copy of the item with the same ID.
func (i *Item) Clone() *Item {
	copied := *i
	copied.Params = copyParams(i.Params)
	return &copied
}

// cloneFresh returns a deep copy with a new identity, for palette copy
// semantics.
func (i *Item) cloneFresh() *Item {
	copied := i.Clone()
	copied.ID = uuid.NewString()
	return copied
}

func copyParams(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// Render returns the item's rendered form: prefix + content + suffix.
func (i *Item) Render() string {
	return i.Prefix + i.Content + i.Suffix
}

// ItemEdit is an in-place item update. Nil fields are left unchanged.
// An edit never changes the item's kind.
type ItemEdit struct {
	Label   *string
	Content *string
	Prefix  *string
	Suffix  *string
	Params  map[string]string
}

// Stack is the ordered, mutable list of items. Order is significant: the
// composed template is the items' rendered forms joined by single newlines.
type Stack struct {
	items []*Item
}

// New creates an empty stack.
func New() *Stack {
	return &Stack{}
}

// Len returns the number of items.
func (s *Stack) Len() int {
	return len(s.items)
}

// Items returns a snapshot copy of the item list. The items themselves are
// deep-copied so callers cannot mutate stack state.
func (s *Stack) Items() []*Item {
	out := make([]*Item, len(s.items))
	for i, item := range s.items {
		out[i] = item.Clone()
	}
	return out
}

// At returns the item at index. The returned pointer is the live entry.
func (s *Stack) At(index int) (*Item, error) {
	if index < 0 || index >= len(s.items) {
		return nil, errors.Wrapf(errors.ErrIndexOutOfRange, "index %d, length %d", index, len(s.items))
	}
	return s.items[index], nil
}

// Append pushes an item to the end of the stack.
func (s *Stack) Append(item *Item) {
	s.items = append(s.items, item)
}

// InsertAt inserts an item at index, shifting subsequent entries right.
// Valid for 0 <= index <= Len().
func (s *Stack) InsertAt(item *Item, index int) error {
	if index < 0 || index > len(s.items) {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "insert index %d, length %d", index, len(s.items))
	}
	s.items = append(s.items, nil)
	copy(s.items[index+1:], s.items[index:])
	s.items[index] = item
	return nil
}

// RemoveAt removes and returns the item at index, shifting subsequent
// entries left. Valid for 0 <= index < Len().
func (s *Stack) RemoveAt(index int) (*Item, error) {
	if index < 0 || index >= len(s.items) {
		return nil, errors.Wrapf(errors.ErrIndexOutOfRange, "remove index %d, length %d", index, len(s.items))
	}
	item := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	return item, nil
}

// MoveItem removes the entry at from and re-inserts it at to. When from < to
// the insertion index is decremented by one first, because the removal shifts
// everything after from left by one; that adjustment is this method's
// responsibility, not the caller's.
func (s *Stack) MoveItem(from, to int) error {
	if from < 0 || from >= len(s.items) {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "move from %d, length %d", from, len(s.items))
	}
	if to < 0 || to > len(s.items) {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "move to %d, length %d", to, len(s.items))
	}
	if from == to {
		return nil
	}
	if from < to {
		to--
	}

	item, err := s.RemoveAt(from)
	if err != nil {
		return err
	}
	return s.InsertAt(item, to)
}

// UpdateItem applies an edit to the item at index. The item's kind is never
// changed. For parameterized macros a params edit regenerates the invocation
// content unless the edit also sets content explicitly.
func (s *Stack) UpdateItem(index int, edit ItemEdit) error {
	item, err := s.At(index)
	if err != nil {
		return err
	}

	if edit.Label != nil {
		item.Label = *edit.Label
	}
	if edit.Prefix != nil {
		item.Prefix = *edit.Prefix
	}
	if edit.Suffix != nil {
		item.Suffix = *edit.Suffix
	}
	if edit.Params != nil {
		item.Params = copyParams(edit.Params)
		if item.Kind == KindParameterizedMacro && edit.Content == nil {
			item.Content = prompt.BuildMacroInvocation(item.MacroID, item.Params)
		}
	}
	if edit.Content != nil {
		item.Content = *edit.Content
	}
	return nil
}

// Compose renders the stack into a flat template string: each item's
// prefix + content + suffix, joined by single newlines, in list order.
func (s *Stack) Compose() string {
	parts := make([]string, len(s.items))
	for i, item := range s.items {
		parts[i] = item.Render()
	}
	return strings.Join(parts, "\n")
}

// SetItems replaces the stack's contents with deep copies of the given items.
func (s *Stack) SetItems(items []*Item) {
	s.items = make([]*Item, len(items))
	for i, item := range items {
		s.items[i] = item.Clone()
	}
}
