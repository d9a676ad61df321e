// ABOUTME: Fixes lipgloss to a dark background ahead of Bubble Tea's terminal probing
// ABOUTME: Blank-import before anything that pulls in bubbletea

package termfix

import "github.com/charmbracelet/lipgloss"

// With the background already decided, Bubble Tea skips its OSC 10/11
// colour query, whose late reply would otherwise arrive as key input.
// This package must not import bubbletea so that its init runs first.
func init() {
	lipgloss.SetHasDarkBackground(true)
}
