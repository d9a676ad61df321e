// ABOUTME: Undo settings loading with global + project YAML merge
// ABOUTME: Converts merged settings into undo.Manager options and live updates

package config

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mauromedda/drawkit-undo-go/pkg/undo"
)

// Coalescing modes accepted in settings files.
const (
	CoalesceOff         = "off"
	CoalesceLastTask    = "last-task"
	CoalesceAllMatching = "all-matching"
)

// Settings holds the merged configuration.
type Settings struct {
	Undo     UndoSettings `yaml:"undo"`
	LogLevel string       `yaml:"log_level,omitempty"`
	Language string       `yaml:"language,omitempty"`
	// Keys overrides demo keybindings: action name to key list.
	Keys map[string][]string `yaml:"keys,omitempty"`
}

// UndoSettings mirrors the Manager's tunables. Nil pointers mean "not set"
// so a project file can override only what it names.
type UndoSettings struct {
	LevelsOfUndo       *int   `yaml:"levels_of_undo,omitempty"`
	GroupsByEvent      *bool  `yaml:"groups_by_event,omitempty"`
	Coalescing         string `yaml:"coalescing,omitempty"`
	RetainsTargets     *bool  `yaml:"retains_targets,omitempty"`
	DiscardEmptyGroups *bool  `yaml:"discard_empty_groups,omitempty"`
}

// Load reads and merges global and project-local settings, then applies
// environment overrides. Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(global, project)
	ResolveEnvVars(merged)
	if err := applyEnvOverrides(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// loadFile reads Settings from a YAML file. Returns zero Settings if the
// file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays project settings onto global settings.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global

	if project.LogLevel != "" {
		result.LogLevel = project.LogLevel
	}
	if project.Language != "" {
		result.Language = project.Language
	}

	if len(project.Keys) > 0 {
		keys := maps.Clone(global.Keys)
		if keys == nil {
			keys = make(map[string][]string, len(project.Keys))
		}
		maps.Copy(keys, project.Keys)
		result.Keys = keys
	}

	u, p := &result.Undo, project.Undo
	if p.LevelsOfUndo != nil {
		u.LevelsOfUndo = p.LevelsOfUndo
	}
	if p.GroupsByEvent != nil {
		u.GroupsByEvent = p.GroupsByEvent
	}
	if p.Coalescing != "" {
		u.Coalescing = p.Coalescing
	}
	if p.RetainsTargets != nil {
		u.RetainsTargets = p.RetainsTargets
	}
	if p.DiscardEmptyGroups != nil {
		u.DiscardEmptyGroups = p.DiscardEmptyGroups
	}

	return &result
}

// coalescingKind parses the coalescing setting. An empty string keeps the
// manager default.
func coalescingKind(s string) (kind undo.CoalescingKind, enabled, set bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, false, false, nil
	case CoalesceOff:
		return 0, false, true, nil
	case CoalesceLastTask:
		return undo.CoalesceLastTask, true, true, nil
	case CoalesceAllMatching:
		return undo.CoalesceAllMatchingInGroup, true, true, nil
	}
	return 0, false, false, fmt.Errorf("unknown coalescing mode %q", s)
}

// Options converts the settings into Manager construction options.
func (s *Settings) Options() ([]undo.Option, error) {
	var opts []undo.Option
	u := s.Undo
	if u.LevelsOfUndo != nil {
		if *u.LevelsOfUndo < 0 {
			return nil, fmt.Errorf("levels_of_undo must be >= 0, got %d", *u.LevelsOfUndo)
		}
		opts = append(opts, undo.WithLevelsOfUndo(*u.LevelsOfUndo))
	}
	if u.GroupsByEvent != nil {
		opts = append(opts, undo.WithGroupsByEvent(*u.GroupsByEvent))
	}
	kind, enabled, set, err := coalescingKind(u.Coalescing)
	if err != nil {
		return nil, err
	}
	if set {
		if enabled {
			opts = append(opts, undo.WithCoalescing(kind))
		} else {
			opts = append(opts, undo.WithoutCoalescing())
		}
	}
	if u.RetainsTargets != nil {
		opts = append(opts, undo.WithRetainsTargets(*u.RetainsTargets))
	}
	if u.DiscardEmptyGroups != nil {
		opts = append(opts, undo.WithDiscardEmptyGroups(*u.DiscardEmptyGroups))
	}
	if s.Language != "" {
		tag, err := language.Parse(s.Language)
		if err != nil {
			return nil, fmt.Errorf("parsing language %q: %w", s.Language, err)
		}
		opts = append(opts, undo.WithLanguage(tag))
	}
	return opts, nil
}

// Apply pushes reloadable settings onto a running manager. It must be called
// from the manager's goroutine.
func (s *Settings) Apply(m *undo.Manager) error {
	u := s.Undo
	kind, enabled, set, err := coalescingKind(u.Coalescing)
	if err != nil {
		return err
	}
	if u.LevelsOfUndo != nil {
		if *u.LevelsOfUndo < 0 {
			return fmt.Errorf("levels_of_undo must be >= 0, got %d", *u.LevelsOfUndo)
		}
		m.SetLevelsOfUndo(*u.LevelsOfUndo)
	}
	if u.GroupsByEvent != nil {
		m.SetGroupsByEvent(*u.GroupsByEvent)
	}
	if set {
		m.SetCoalescingEnabled(enabled)
		if enabled {
			m.SetCoalescingKind(kind)
		}
	}
	if u.RetainsTargets != nil {
		m.SetRetainsTargets(*u.RetainsTargets)
	}
	if u.DiscardEmptyGroups != nil {
		m.SetDiscardsEmptyGroups(*u.DiscardEmptyGroups)
	}
	return nil
}
