// ABOUTME: Bounded LIFO of top-level groups backing the undo and redo stacks
// ABOUTME: A limit of 0 means unbounded; exceeding the limit evicts the oldest entries

package undo

// stack is a LIFO of top-level groups.
type stack struct {
	items []*Group
	limit int
}

// push adds g on top and returns the groups evicted by the limit, oldest first.
func (s *stack) push(g *Group) []*Group {
	s.items = append(s.items, g)
	return s.trim()
}

// trim evicts the oldest groups beyond the limit.
func (s *stack) trim() []*Group {
	if s.limit <= 0 || len(s.items) <= s.limit {
		return nil
	}
	excess := len(s.items) - s.limit
	evicted := make([]*Group, excess)
	copy(evicted, s.items[:excess])
	// Shift down instead of reslicing so evicted groups are not pinned.
	n := copy(s.items, s.items[excess:])
	clear(s.items[n:])
	s.items = s.items[:n]
	return evicted
}

// setLimit changes the limit and returns any groups evicted by it.
func (s *stack) setLimit(limit int) []*Group {
	s.limit = max(limit, 0)
	return s.trim()
}

// pop removes and returns the top group, or nil and false.
func (s *stack) pop() (*Group, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	last := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	return last, true
}

// peek returns the top group without removing it.
func (s *stack) peek() *Group {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *stack) size() int { return len(s.items) }

// reset drops every group.
func (s *stack) reset() {
	clear(s.items)
	s.items = s.items[:0]
}

// snapshot returns the groups bottom (oldest) to top.
func (s *stack) snapshot() []*Group {
	out := make([]*Group, len(s.items))
	copy(out, s.items)
	return out
}

// removeTarget strips target from every group and drops groups left empty.
func (s *stack) removeTarget(target any) int {
	removed := 0
	kept := s.items[:0]
	for _, g := range s.items {
		n := g.RemoveTasksWithTarget(target)
		removed += n
		if n > 0 && g.IsEmpty() {
			continue
		}
		kept = append(kept, g)
	}
	clear(s.items[len(kept):])
	s.items = kept
	return removed
}
