// ABOUTME: Read-only listing of an undo manager's stacks
// ABOUTME: Flattens undo and redo groups into entries ordered by replay distance

package history

import "github.com/mauromedda/drawkit-undo-go/pkg/undo"

// Stack identifies which stack an entry came from.
type Stack int

const (
	UndoStack Stack = iota
	RedoStack
)

func (s Stack) String() string {
	if s == RedoStack {
		return "redo"
	}
	return "undo"
}

// untitled is shown for groups that never received an action name.
const untitled = "(untitled)"

// Entry describes one group on a stack.
type Entry struct {
	Stack Stack
	// Depth is the number of replays needed before this group is next;
	// 0 is the top of its stack.
	Depth      int
	ActionName string
	Tasks      int
}

// Label returns the action name, or a placeholder for unnamed groups.
func (e Entry) Label() string {
	if e.ActionName == "" {
		return untitled
	}
	return e.ActionName
}

// Entries lists the undo stack top first, followed by the redo stack top
// first.
func Entries(m *undo.Manager) []Entry {
	undos, redos := m.UndoStack(), m.RedoStack()
	out := make([]Entry, 0, len(undos)+len(redos))
	out = appendStack(out, undos, UndoStack)
	return appendStack(out, redos, RedoStack)
}

func appendStack(out []Entry, groups []*undo.Group, which Stack) []Entry {
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		out = append(out, Entry{
			Stack:      which,
			Depth:      len(groups) - 1 - i,
			ActionName: g.ActionName(),
			Tasks:      countTasks(g),
		})
	}
	return out
}

// countTasks counts concrete tasks, descending into nested groups.
func countTasks(g *undo.Group) int {
	n := 0
	for _, t := range g.Tasks() {
		if sub, ok := t.(*undo.Group); ok {
			n += countTasks(sub)
			continue
		}
		n++
	}
	return n
}
