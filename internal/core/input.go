package core

// Action is a semantic host command, decoupled from the key that triggered it.
type Action int

const (
	ActionNone      Action = iota
	ActionPrimary          // Space: leave the start screen, or toggle pause
	ActionRestart          // R: new session after game over
	ActionNextStage        // ]: skip forward one stage
	ActionPrevStage        // [: go back one stage
	ActionToggleBell       // M: bell on bounce
	ActionBack             // Esc/B: return to the menu
	ActionQuit             // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPrimary:
		return "Primary"
	case ActionRestart:
		return "Restart"
	case ActionNextStage:
		return "Next stage"
	case ActionPrevStage:
		return "Previous stage"
	case ActionToggleBell:
		return "Toggle bell"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions pressed since the last frame, in order.
// Actions are applied at the next tick so input never races the simulation.
type InputFrame struct {
	actions []Action
}

// Push records an action. ActionNone is ignored.
func (f *InputFrame) Push(a Action) {
	if a != ActionNone {
		f.actions = append(f.actions, a)
	}
}

// Has reports whether a was pressed this frame.
func (f InputFrame) Has(a Action) bool {
	for _, got := range f.actions {
		if got == a {
			return true
		}
	}
	return false
}

// Actions returns the pressed actions in order.
func (f InputFrame) Actions() []Action {
	return f.actions
}

// Clear empties the frame for the next tick.
func (f *InputFrame) Clear() {
	f.actions = f.actions[:0]
}
