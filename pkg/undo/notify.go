// ABOUTME: Notifications posted by the Manager around grouping and replay
// ABOUTME: Hosts subscribe to refresh menu titles or document dirty state

package undo

// NotificationKind identifies a point in the manager's lifecycle.
type NotificationKind int

const (
	// Checkpoint is posted after a top-level group closes or a replay ends.
	Checkpoint NotificationKind = iota
	DidOpenGroup
	WillCloseGroup
	DidCloseGroup
	// DidDiscardGroup is posted when an empty group is dropped on close.
	DidDiscardGroup
	WillUndo
	DidUndo
	WillRedo
	DidRedo
)

var notificationNames = [...]string{
	Checkpoint:      "checkpoint",
	DidOpenGroup:    "did-open-group",
	WillCloseGroup:  "will-close-group",
	DidCloseGroup:   "did-close-group",
	DidDiscardGroup: "did-discard-group",
	WillUndo:        "will-undo",
	DidUndo:         "did-undo",
	WillRedo:        "will-redo",
	DidRedo:         "did-redo",
}

func (k NotificationKind) String() string {
	if int(k) < len(notificationNames) {
		return notificationNames[k]
	}
	return "unknown"
}

// Notification describes one lifecycle event. Group is the group the event
// concerns and may be nil for checkpoints.
type Notification struct {
	Kind  NotificationKind
	Group *Group
	// Level is the grouping level after the event.
	Level int
}

// Subscribe registers fn for every notification and returns a function
// that removes it.
func (m *Manager) Subscribe(fn func(Notification)) func() {
	return m.bus.Subscribe(fn)
}

// SubscribeKinds registers fn for the listed kinds only.
func (m *Manager) SubscribeKinds(fn func(Notification), kinds ...NotificationKind) func() {
	want := make(map[NotificationKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	return m.bus.SubscribeWhere(func(n Notification) bool { return want[n.Kind] }, fn)
}

func (m *Manager) post(kind NotificationKind, g *Group) {
	m.bus.Publish(Notification{Kind: kind, Group: g, Level: m.level})
}
