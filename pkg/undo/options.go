// ABOUTME: Functional options configuring a Manager at construction
// ABOUTME: Defaults: unlimited levels, group by event, coalesce last task, weak targets

package undo

import (
	"golang.org/x/text/language"

	"github.com/mauromedda/drawkit-undo-go/internal/eventbus"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLevelsOfUndo caps the number of top-level groups kept per stack.
// 0 means unlimited.
func WithLevelsOfUndo(n int) Option {
	return func(m *Manager) {
		m.undo.limit = max(n, 0)
		m.redo.limit = max(n, 0)
	}
}

// WithGroupsByEvent controls implicit top-level groups for registrations
// made with no group open.
func WithGroupsByEvent(on bool) Option {
	return func(m *Manager) {
		m.groupsByEvent = on
	}
}

// WithCoalescing enables coalescing of the given kind.
func WithCoalescing(kind CoalescingKind) Option {
	return func(m *Manager) {
		m.coalescing = true
		m.coalesceKind = kind
	}
}

// WithoutCoalescing disables coalescing.
func WithoutCoalescing() Option {
	return func(m *Manager) {
		m.coalescing = false
	}
}

// WithRetainsTargets makes tasks hold their targets strongly by default.
func WithRetainsTargets(on bool) Option {
	return func(m *Manager) {
		m.retainsTargets = on
	}
}

// WithDiscardEmptyGroups controls whether empty groups are dropped on close.
func WithDiscardEmptyGroups(on bool) Option {
	return func(m *Manager) {
		m.discardEmpty = on
	}
}

// WithBus posts notifications on bus instead of a private one.
func WithBus(bus *eventbus.Bus[Notification]) Option {
	return func(m *Manager) {
		if bus != nil {
			m.bus = bus
		}
	}
}

// WithLanguage selects the language for menu item titles.
func WithLanguage(tag language.Tag) Option {
	return func(m *Manager) {
		m.lang = tag
	}
}
