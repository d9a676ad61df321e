// ABOUTME: Lipgloss styles for the undo demo: menu bar, canvas rows, history panel
// ABOUTME: Disabled menu items render dimmed so CanUndo/CanRedo are visible at a glance

package btea

import "github.com/charmbracelet/lipgloss"

// Styles is the demo palette.
type Styles struct {
	MenuBar      lipgloss.Style
	MenuItem     lipgloss.Style
	MenuDisabled lipgloss.Style
	Shape        lipgloss.Style
	Selected     lipgloss.Style
	Panel        lipgloss.Style
	PanelTitle   lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
	Dragging     lipgloss.Style
}

// DefaultStyles returns the palette used by NewAppModel.
func DefaultStyles() Styles {
	return Styles{
		MenuBar:      lipgloss.NewStyle().Background(lipgloss.Color("236")).Padding(0, 1),
		MenuItem:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Bold(true),
		MenuDisabled: lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Background(lipgloss.Color("236")),
		Shape:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Selected:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Panel:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		PanelTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true),
		Status:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Dragging:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}
