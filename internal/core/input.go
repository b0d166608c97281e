package core

// Action is a debug-surface intent, abstracted from physical key presses.
type Action int

const (
	ActionNone        Action = iota
	ActionSpawnApple         // a - spawn test apple
	ActionSpawnBanana        // b - spawn test banana
	ActionClear              // c - clear all entities
	ActionStatus             // s - toggle diagnostic status
	ActionPinch              // space - toggle pinch
	ActionToggleMouth        // o - open/close the simulated mouth
	ActionToggleHand         // x - hide/show the simulated hand
	ActionMouthUp            // arrow keys move the simulated mouth
	ActionMouthDown
	ActionMouthLeft
	ActionMouthRight
	ActionQuit // q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionSpawnApple:
		return "SpawnApple"
	case ActionSpawnBanana:
		return "SpawnBanana"
	case ActionClear:
		return "Clear"
	case ActionStatus:
		return "Status"
	case ActionPinch:
		return "Pinch"
	case ActionToggleMouth:
		return "ToggleMouth"
	case ActionToggleHand:
		return "ToggleHand"
	case ActionMouthUp:
		return "MouthUp"
	case ActionMouthDown:
		return "MouthDown"
	case ActionMouthLeft:
		return "MouthLeft"
	case ActionMouthRight:
		return "MouthRight"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered between two ticks.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
	// Order lists every trigger in arrival order, repeats included.
	Order []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
	f.Order = append(f.Order, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Order = f.Order[:0]
}
