package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
)

// KeyMap defines the playground key bindings.
type KeyMap struct {
	SpawnApple  key.Binding
	SpawnBanana key.Binding
	Clear       key.Binding
	Status      key.Binding
	Pinch       key.Binding
	Mouth       key.Binding
	Hand        key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SpawnApple, k.SpawnBanana, k.Clear, k.Pinch, k.Mouth, k.Status, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SpawnApple, k.SpawnBanana, k.Clear, k.Status},
		{k.Pinch, k.Hand, k.Mouth},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		SpawnApple: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apple"),
		),
		SpawnBanana: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "banana"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		Pinch: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space/click", "pinch"),
		),
		Mouth: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open mouth"),
		),
		Hand: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "hide hand"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "mouth up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "mouth down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "mouth left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "mouth right"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to playground actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultKeyMap()}
}

// Keys returns the bindings, for the help bar.
func (km *KeyMapper) Keys() KeyMap {
	return km.keys
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, k.SpawnApple):
		return core.ActionSpawnApple, false
	case key.Matches(msg, k.SpawnBanana):
		return core.ActionSpawnBanana, false
	case key.Matches(msg, k.Clear):
		return core.ActionClear, false
	case key.Matches(msg, k.Status):
		return core.ActionStatus, false
	case key.Matches(msg, k.Pinch):
		return core.ActionPinch, false
	case key.Matches(msg, k.Mouth):
		return core.ActionToggleMouth, false
	case key.Matches(msg, k.Hand):
		return core.ActionToggleHand, false
	case key.Matches(msg, k.Up):
		return core.ActionMouthUp, false
	case key.Matches(msg, k.Down):
		return core.ActionMouthDown, false
	case key.Matches(msg, k.Left):
		return core.ActionMouthLeft, false
	case key.Matches(msg, k.Right):
		return core.ActionMouthRight, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}
