// ABOUTME: Entry point for the interactive undo demo
// ABOUTME: Creates the tea.Program and forwards settings reloads into the event loop

package btea

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/drawkit-undo-go/internal/config"
)

// Run starts the interactive demo and blocks until the user quits. With a
// non-empty projectRoot, edits to the settings files are applied live.
func Run(deps AppDeps, projectRoot string) error {
	m := NewAppModel(deps)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if projectRoot != "" {
		w := config.NewWatcher(projectRoot, func(s *config.Settings, err error) {
			p.Send(ConfigReloadMsg{Settings: s, Err: err})
		})
		w.Start()
		defer w.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("bubble tea: %w", err)
	}
	return nil
}
