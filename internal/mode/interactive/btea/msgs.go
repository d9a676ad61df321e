// ABOUTME: Messages delivered to the demo model from outside the key loop
// ABOUTME: Config reloads arrive from the settings watcher via Program.Send

package btea

import "github.com/mauromedda/drawkit-undo-go/internal/config"

// ConfigReloadMsg carries settings reloaded by the config watcher.
type ConfigReloadMsg struct {
	Settings *config.Settings
	Err      error
}
