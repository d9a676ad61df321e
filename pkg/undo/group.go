// ABOUTME: Group is a named, ordered batch of tasks undone and redone as one step
// ABOUTME: Groups nest while open; only top-level groups reach the undo or redo stacks

package undo

// Group is an ordered sequence of tasks, which may themselves be groups.
type Group struct {
	group      *Group
	actionName string
	tasks      []Task
	// open is set while the group is on the manager's open chain.
	open bool
}

// NewGroup returns an empty, unnamed group.
func NewGroup() *Group {
	return &Group{}
}

// AddTask appends t and makes g its owner.
func (g *Group) AddTask(t Task) {
	t.setGroup(g)
	g.tasks = append(g.tasks, t)
}

// Perform performs every child task in insertion order, stopping at the
// first error.
func (g *Group) Perform() error {
	for _, t := range g.tasks {
		if err := t.Perform(); err != nil {
			return err
		}
	}
	return nil
}

// performReverse is the replay order used by undo and redo: last registered
// first, recursing into nested groups.
func (g *Group) performReverse() error {
	for i := len(g.tasks) - 1; i >= 0; i-- {
		var err error
		switch t := g.tasks[i].(type) {
		case *Group:
			err = t.performReverse()
		case *ConcreteTask:
			if err = t.Perform(); err != nil {
				err = &PerformError{Selector: t.selector, Err: err}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Group returns the enclosing group, or nil for a top-level group.
func (g *Group) Group() *Group { return g.group }

func (g *Group) setGroup(p *Group) { g.group = p }

// IsEmpty reports whether g has no direct children.
func (g *Group) IsEmpty() bool { return len(g.tasks) == 0 }

// Len returns the number of direct children.
func (g *Group) Len() int { return len(g.tasks) }

// Tasks returns a copy of the direct children in insertion order.
func (g *Group) Tasks() []Task {
	out := make([]Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// LastTask returns the most recently added child, or nil.
func (g *Group) LastTask() Task {
	if len(g.tasks) == 0 {
		return nil
	}
	return g.tasks[len(g.tasks)-1]
}

// ActionName returns the display name, possibly empty.
func (g *Group) ActionName() string { return g.actionName }

// SetActionName replaces the display name. Empty names are ignored.
func (g *Group) SetActionName(name string) {
	if name == "" {
		return
	}
	g.actionName = name
}

// adoptName takes name only if g has none yet.
func (g *Group) adoptName(name string) {
	if g.actionName == "" {
		g.actionName = name
	}
}

// TasksWithTargetAndSelector returns the direct concrete children that call
// selector on target.
func (g *Group) TasksWithTargetAndSelector(target any, selector string) []*ConcreteTask {
	var out []*ConcreteTask
	for _, t := range g.tasks {
		if ct, ok := t.(*ConcreteTask); ok && ct.matches(target, selector) {
			out = append(out, ct)
		}
	}
	return out
}

// findCall returns the first direct concrete child addressing the same
// target and selector as ct.
func (g *Group) findCall(ct *ConcreteTask) *ConcreteTask {
	for _, t := range g.tasks {
		if c, ok := t.(*ConcreteTask); ok && c.sameCall(ct) {
			return c
		}
	}
	return nil
}

// RemoveTasksWithTarget strips every task acting on target, recursing into
// nested groups and dropping nested groups left empty. It returns the number
// of concrete tasks removed.
func (g *Group) RemoveTasksWithTarget(target any) int {
	removed := 0
	kept := g.tasks[:0]
	for _, t := range g.tasks {
		switch c := t.(type) {
		case *ConcreteTask:
			if c.HasTarget(target) {
				c.setGroup(nil)
				removed++
				continue
			}
		case *Group:
			n := c.RemoveTasksWithTarget(target)
			removed += n
			if n > 0 && c.IsEmpty() && !c.open {
				c.setGroup(nil)
				continue
			}
		}
		kept = append(kept, t)
	}
	clear(g.tasks[len(kept):])
	g.tasks = kept
	return removed
}

// removeTask detaches t from g's direct children.
func (g *Group) removeTask(t Task) {
	for i, c := range g.tasks {
		if c == t {
			g.tasks = append(g.tasks[:i], g.tasks[i+1:]...)
			t.setGroup(nil)
			return
		}
	}
}

// countTasks returns the number of concrete tasks in g, recursively.
func (g *Group) countTasks() int {
	n := 0
	for _, t := range g.tasks {
		if c, ok := t.(*Group); ok {
			n += c.countTasks()
			continue
		}
		n++
	}
	return n
}
