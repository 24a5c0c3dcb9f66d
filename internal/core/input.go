package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, A, H - move one lane left
	ActionRight          // Right arrow, D, L - move one lane right
	ActionConfirm        // Enter, Space - start a run
	ActionRestart        // R - restart after the run ended
	ActionEnd            // E - end the current run
	ActionBack           // B, Escape - leave the current screen
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionRestart:
		return "Restart"
	case ActionEnd:
		return "End"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one simulation tick.
// Order is preserved so two lane moves in one frame apply in the order typed.
type InputFrame struct {
	actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{actions: make([]Action, 0, 4)}
}

// Set appends an action to this frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.actions = append(f.actions, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, got := range f.actions {
		if got == a {
			return true
		}
	}
	return false
}

// Actions returns the triggered actions in arrival order.
func (f InputFrame) Actions() []Action {
	return f.actions
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	f.actions = f.actions[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := InputFrame{actions: make([]Action, len(f.actions))}
	copy(clone.actions, f.actions)
	return clone
}
