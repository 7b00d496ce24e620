package stack

import (
	"strings"
	"testing"

	"github.com/promptloom/promptloom/errors"
	"github.com/promptloom/promptloom/prompt"
)

func labels(s *Stack) string {
	var out []string
	for _, item := range s.Items() {
		out = append(out, item.Label)
	}
	return strings.Join(out, ",")
}

func buildStack(names ...string) *Stack {
	s := New()
	for _, n := range names {
		s.Append(NewCustomItem(n, "text of "+n))
	}
	return s
}

func TestComposeJoinsRenderedItemsInOrder(t *testing.T) {
	s := New()

	role := NewCustomItem("role", "You are the reviewer.")
	role.Suffix = " Be strict."
	s.Append(role)

	task := NewLiteralMacroItem("task", "action")
	task.Prefix = "Task: "
	s.Append(task)

	want := "You are the reviewer. Be strict.\nTask: {{action}}"
	if got := s.Compose(); got != want {
		t.Errorf("Compose() = %q, want %q", got, want)
	}
}

func TestComposeEmptyStack(t *testing.T) {
	if got := New().Compose(); got != "" {
		t.Errorf("Compose() on empty stack = %q, want empty", got)
	}
}

func TestInsertAtGrowsByOne(t *testing.T) {
	s := buildStack("a", "b", "c")

	if err := s.InsertAt(NewCustomItem("x", "x"), 1); err != nil {
		t.Fatalf("InsertAt failed: %v", err)
	}
	if s.Len() != 4 {
		t.Errorf("expected length 4, got %d", s.Len())
	}
	if got := labels(s); got != "a,x,b,c" {
		t.Errorf("order = %s", got)
	}
}

func TestInsertAtEnd(t *testing.T) {
	s := buildStack("a", "b")

	if err := s.InsertAt(NewCustomItem("z", "z"), 2); err != nil {
		t.Fatalf("InsertAt(len) failed: %v", err)
	}
	if got := labels(s); got != "a,b,z" {
		t.Errorf("order = %s", got)
	}
}

func TestInsertAtOutOfRange(t *testing.T) {
	s := buildStack("a")

	err := s.InsertAt(NewCustomItem("x", "x"), 5)
	if !errors.Is(err, errors.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.InsertAt(NewCustomItem("x", "x"), -1); err == nil {
		t.Error("negative index must fail")
	}
}

func TestRemoveAtShrinksByOne(t *testing.T) {
	s := buildStack("a", "b", "c")

	removed, err := s.RemoveAt(1)
	if err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}
	if removed.Label != "b" {
		t.Errorf("removed %s, want b", removed.Label)
	}
	if s.Len() != 2 {
		t.Errorf("expected length 2, got %d", s.Len())
	}
	if got := labels(s); got != "a,c" {
		t.Errorf("order = %s", got)
	}
}

func TestRemoveAtOutOfRange(t *testing.T) {
	s := buildStack("a")

	if _, err := s.RemoveAt(1); !errors.Is(err, errors.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestMoveItemForward(t *testing.T) {
	// Moving forward adjusts for the removal shift: the engine owns the
	// decrement, not the caller.
	s := buildStack("a", "b", "c", "d")

	if err := s.MoveItem(0, 2); err != nil {
		t.Fatalf("MoveItem failed: %v", err)
	}
	if got := labels(s); got != "b,a,c,d" {
		t.Errorf("order = %s", got)
	}
	if s.Len() != 4 {
		t.Errorf("MoveItem must not change length, got %d", s.Len())
	}
}

func TestMoveItemBackward(t *testing.T) {
	s := buildStack("a", "b", "c", "d")

	if err := s.MoveItem(3, 1); err != nil {
		t.Fatalf("MoveItem failed: %v", err)
	}
	if got := labels(s); got != "a,d,b,c" {
		t.Errorf("order = %s", got)
	}
}

func TestMoveItemToEnd(t *testing.T) {
	s := buildStack("a", "b", "c")

	if err := s.MoveItem(0, 3); err != nil {
		t.Fatalf("MoveItem failed: %v", err)
	}
	if got := labels(s); got != "b,c,a" {
		t.Errorf("order = %s", got)
	}
}

func TestMoveItemRoundTrip(t *testing.T) {
	s := buildStack("a", "b", "c", "d", "e")
	before := labels(s)

	if err := s.MoveItem(1, 4); err != nil {
		t.Fatalf("MoveItem failed: %v", err)
	}
	// b landed at index 3 after the adjustment; moving it back restores
	if err := s.MoveItem(3, 1); err != nil {
		t.Fatalf("MoveItem back failed: %v", err)
	}
	if got := labels(s); got != before {
		t.Errorf("round trip order = %s, want %s", got, before)
	}
}

func TestMoveItemSameIndexNoop(t *testing.T) {
	s := buildStack("a", "b")
	if err := s.MoveItem(1, 1); err != nil {
		t.Fatalf("MoveItem noop failed: %v", err)
	}
	if got := labels(s); got != "a,b" {
		t.Errorf("order = %s", got)
	}
}

func TestUpdateItemNeverChangesKind(t *testing.T) {
	s := New()
	def := &prompt.MacroDefinition{ID: "greet", Name: "Greeting"}
	s.Append(NewMacroItem(def, map[string]string{"style": "formal"}))

	newPrefix := "## "
	if err := s.UpdateItem(0, ItemEdit{
		Prefix: &newPrefix,
		Params: map[string]string{"style": "casual"},
	}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	item, _ := s.At(0)
	if item.Kind != KindParameterizedMacro {
		t.Errorf("kind changed to %s", item.Kind)
	}
	if item.Prefix != "## " {
		t.Errorf("prefix = %q", item.Prefix)
	}
	if item.Content != `{{macro:greet style="casual"}}` {
		t.Errorf("content not regenerated from params: %q", item.Content)
	}
}

func TestItemsReturnsCopies(t *testing.T) {
	s := buildStack("a")

	snapshot := s.Items()
	snapshot[0].Label = "mutated"
	snapshot[0].Params = map[string]string{"sneak": "y"}

	item, _ := s.At(0)
	if item.Label != "a" || item.Params != nil {
		t.Error("Items() must not expose live entries")
	}
}

func TestConditionalItemRendering(t *testing.T) {
	tests := []struct {
		name string
		item *Item
		want string
	}{
		{
			name: "if",
			item: NewConditionalItem(prompt.ConditionalIf, "input", "Handle {{input}}", ""),
			want: "{{#if input}}Handle {{input}}{{/if}}",
		},
		{
			name: "unless",
			item: NewConditionalItem(prompt.ConditionalUnless, "muted", "Speak up", ""),
			want: "{{#unless muted}}Speak up{{/unless}}",
		},
		{
			name: "if-else",
			item: NewConditionalItem(prompt.ConditionalIfElse, "team", "Coordinate", "Work alone"),
			want: "{{#if team}}Coordinate{{else}}Work alone{{/if}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.item.Content != tt.want {
				t.Errorf("content = %q, want %q", tt.item.Content, tt.want)
			}
			if tt.item.Kind != KindConditional {
				t.Errorf("kind = %s", tt.item.Kind)
			}
		})
	}
}

func TestComposedConditionalScansBack(t *testing.T) {
	// A conditional built through the stack parses back as a conditional
	s := New()
	s.Append(NewConditionalItem(prompt.ConditionalIf, "input", "Hi", ""))

	result := prompt.Scan(s.Compose())
	if len(result.Conditionals) != 1 || result.Conditionals[0].Condition != "input" {
		t.Errorf("composed conditional did not scan back: %+v", result.Conditionals)
	}
}
