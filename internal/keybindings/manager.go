// ABOUTME: Keybindings manager with O(1) key-to-action lookup for the undo demo
// ABOUTME: Merges settings overrides onto defaults, detects conflicts, supports hot-reload

package keybindings

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Action is a demo command a key can trigger.
type Action string

const (
	ActionMoveUp        Action = "move-up"
	ActionMoveDown      Action = "move-down"
	ActionMoveLeft      Action = "move-left"
	ActionMoveRight     Action = "move-right"
	ActionDrag          Action = "drag"
	ActionNextShape     Action = "next-shape"
	ActionAddShape      Action = "add-shape"
	ActionDeleteShape   Action = "delete-shape"
	ActionPurgeShape    Action = "purge-shape"
	ActionCycleFill     Action = "cycle-fill"
	ActionGrow          Action = "grow"
	ActionShrink        Action = "shrink"
	ActionUndo          Action = "undo"
	ActionRedo          Action = "redo"
	ActionToggleHistory Action = "toggle-history"
	ActionHelp          Action = "help"
	ActionQuit          Action = "quit"
)

// descriptions doubles as the display order for the help table.
var descriptions = []struct {
	action Action
	text   string
}{
	{ActionMoveUp, "move the selected shape up"},
	{ActionMoveDown, "move the selected shape down"},
	{ActionMoveLeft, "move the selected shape left"},
	{ActionMoveRight, "move the selected shape right"},
	{ActionDrag, "start or finish a drag (moves coalesce into one step)"},
	{ActionNextShape, "select the next shape"},
	{ActionAddShape, "add a shape"},
	{ActionDeleteShape, "delete the selected shape (undoable)"},
	{ActionPurgeShape, "purge the selected shape and its history"},
	{ActionCycleFill, "cycle the fill colour"},
	{ActionGrow, "grow the selected shape"},
	{ActionShrink, "shrink the selected shape"},
	{ActionUndo, "undo"},
	{ActionRedo, "redo"},
	{ActionToggleHistory, "toggle the history panel"},
	{ActionHelp, "toggle this help"},
	{ActionQuit, "quit"},
}

// Defaults returns the built-in bindings. Keys use Bubble Tea's KeyMsg
// string form ("ctrl+z", "up", "X").
func Defaults() map[Action][]string {
	return map[Action][]string{
		ActionMoveUp:        {"up"},
		ActionMoveDown:      {"down"},
		ActionMoveLeft:      {"left"},
		ActionMoveRight:     {"right"},
		ActionDrag:          {"d"},
		ActionNextShape:     {"tab"},
		ActionAddShape:      {"n"},
		ActionDeleteShape:   {"x"},
		ActionPurgeShape:    {"X"},
		ActionCycleFill:     {"f"},
		ActionGrow:          {"+", "="},
		ActionShrink:        {"-"},
		ActionUndo:          {"u", "ctrl+z"},
		ActionRedo:          {"r", "ctrl+y"},
		ActionToggleHistory: {"h"},
		ActionHelp:          {"?"},
		ActionQuit:          {"q", "ctrl+c"},
	}
}

// ConflictInfo describes a binding conflict where multiple actions share a key.
type ConflictInfo struct {
	Key     string
	Actions []Action
}

// Manager provides O(1) key-to-action lookup from merged keybindings.
type Manager struct {
	bindings map[Action][]string
	lookup   map[string]Action
}

// New creates a Manager from the defaults with overrides applied. An
// override replaces every key of the action it names; unknown action names
// are rejected.
func New(overrides map[string][]string) (*Manager, error) {
	m := &Manager{}
	if err := m.Reload(overrides); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload rebuilds the bindings from the defaults and overrides. On error the
// previous bindings stay in effect.
func (m *Manager) Reload(overrides map[string][]string) error {
	kb := Defaults()
	for name, keys := range overrides {
		a := Action(name)
		if _, ok := kb[a]; !ok {
			return fmt.Errorf("unknown key action %q", name)
		}
		kb[a] = slices.Clone(keys)
	}
	m.bindings = kb
	m.buildLookup()
	return nil
}

// ActionFor returns the action bound to key, or "" if unbound.
func (m *Manager) ActionFor(key string) Action {
	return m.lookup[key]
}

// Keys returns the keys bound to action.
func (m *Manager) Keys(action Action) []string {
	return slices.Clone(m.bindings[action])
}

// Conflicts detects keys bound to multiple actions, sorted by key.
func (m *Manager) Conflicts() []ConflictInfo {
	keyActions := make(map[string][]Action)
	for action, keys := range m.bindings {
		for _, k := range keys {
			keyActions[k] = append(keyActions[k], action)
		}
	}

	var conflicts []ConflictInfo
	for _, k := range slices.Sorted(maps.Keys(keyActions)) {
		actions := keyActions[k]
		if len(actions) > 1 {
			slices.Sort(actions)
			conflicts = append(conflicts, ConflictInfo{Key: k, Actions: actions})
		}
	}
	return conflicts
}

// Markdown returns the bindings as a Markdown table for the help overlay.
func (m *Manager) Markdown() string {
	var b strings.Builder
	b.WriteString("# Undo demo\n\n| Key | Action |\n|-----|--------|\n")
	for _, d := range descriptions {
		keys := m.bindings[d.action]
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", strings.Join(escapeKeys(keys), ", "), d.text)
	}
	return b.String()
}

func escapeKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = "`" + strings.ReplaceAll(k, "|", `\|`) + "`"
	}
	return out
}

// buildLookup maps keys to actions. With conflicting bindings the action
// listed first in the help order wins, so the lookup is deterministic.
func (m *Manager) buildLookup() {
	m.lookup = make(map[string]Action, len(m.bindings)*2)
	for i := len(descriptions) - 1; i >= 0; i-- {
		a := descriptions[i].action
		for _, k := range m.bindings[a] {
			m.lookup[k] = a
		}
	}
}
