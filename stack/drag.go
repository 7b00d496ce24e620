package stack

import (
	"github.com/promptloom/promptloom/errors"
)

// GestureState is the phase of one drag gesture.
type GestureState string

const (
	StateIdle     GestureState = "idle"
	StateDragging GestureState = "dragging"
	StateHovering GestureState = "hovering"
)

// Gesture tracks one drag-and-drop interaction over a stack. A gesture is a
// value per interaction, never shared: concurrent stack instances each build
// their own. The source is captured on entry and is either a palette item
// (copy semantics, InsertAt on drop) or an existing stack entry (move
// semantics, MoveItem on drop) - mutually exclusive for the whole gesture.
//
// The state machine is Idle -> Dragging -> Hovering -> drop or cancel -> Idle.
// Exactly one mutation is committed on drop; cancelling commits none.
type Gesture struct {
	stack *Stack
	state GestureState

	paletteItem *Item // non-nil for palette drags
	sourceIndex int   // stack index for item drags

	hoverIndex  int
	insertAfter bool
}

// BeginPaletteDrag starts a gesture dragging a palette prototype toward the
// stack. Dropping inserts a fresh copy; the prototype is never mutated.
func BeginPaletteDrag(s *Stack, prototype *Item) *Gesture {
	return &Gesture{
		stack:       s,
		state:       StateDragging,
		paletteItem: prototype,
		sourceIndex: -1,
	}
}

// BeginItemDrag starts a gesture dragging an existing stack entry.
func BeginItemDrag(s *Stack, index int) (*Gesture, error) {
	if index < 0 || index >= s.Len() {
		return nil, errors.Wrapf(errors.ErrIndexOutOfRange, "drag source %d, length %d", index, s.Len())
	}
	return &Gesture{
		stack:       s,
		state:       StateDragging,
		sourceIndex: index,
	}, nil
}

// State returns the gesture's current phase.
func (g *Gesture) State() GestureState {
	return g.state
}

// HoverOver updates the hover target from pointer geometry. The insertion
// point is derived from the pointer's vertical position relative to the
// hovered item's midpoint: above the midpoint inserts before the item, at or
// below inserts after it.
func (g *Gesture) HoverOver(index int, pointerY, itemTop, itemHeight float64) error {
	if g.state != StateDragging && g.state != StateHovering {
		return errors.Wrapf(errors.ErrGestureState, "hover in state %q", g.state)
	}
	if index < 0 || index >= g.stack.Len() {
		return errors.Wrapf(errors.ErrIndexOutOfRange, "hover target %d, length %d", index, g.stack.Len())
	}

	midpoint := itemTop + itemHeight/2
	g.hoverIndex = index
	g.insertAfter = pointerY >= midpoint
	g.state = StateHovering
	return nil
}

// HoverEnd clears the hover target without ending the gesture, e.g. when the
// pointer leaves the list.
func (g *Gesture) HoverEnd() {
	if g.state == StateHovering {
		g.state = StateDragging
	}
}

// InsertionIndex returns the index a drop would insert at, in terms of the
// current (pre-drop) list.
func (g *Gesture) InsertionIndex() int {
	if g.insertAfter {
		return g.hoverIndex + 1
	}
	return g.hoverIndex
}

// Drop commits the gesture: exactly one stack mutation, then back to idle.
// Dropping with no hover target is not a defined transition; use Cancel for
// gestures that end without a target.
func (g *Gesture) Drop() error {
	if g.state != StateHovering {
		return errors.Wrapf(errors.ErrGestureState, "drop in state %q", g.state)
	}

	target := g.InsertionIndex()
	var err error
	if g.paletteItem != nil {
		err = g.stack.InsertAt(g.paletteItem.cloneFresh(), target)
	} else {
		err = g.stack.MoveItem(g.sourceIndex, target)
	}

	g.state = StateIdle
	return err
}

// DropAtEnd commits the gesture by appending past the last item, for drops
// on the empty space below the list.
func (g *Gesture) DropAtEnd() error {
	if g.state != StateDragging && g.state != StateHovering {
		return errors.Wrapf(errors.ErrGestureState, "drop in state %q", g.state)
	}

	var err error
	if g.paletteItem != nil {
		err = g.stack.InsertAt(g.paletteItem.cloneFresh(), g.stack.Len())
	} else {
		err = g.stack.MoveItem(g.sourceIndex, g.stack.Len())
	}

	g.state = StateIdle
	return err
}

// Cancel ends the gesture without mutating the stack.
func (g *Gesture) Cancel() {
	g.state = StateIdle
}
