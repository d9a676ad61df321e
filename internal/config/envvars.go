// ABOUTME: Environment variable expansion and overrides for settings
// ABOUTME: Replaces ${VAR} patterns in string fields; DRAWKIT_* variables win over files

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// Environment variables that override file settings.
const (
	EnvLevelsOfUndo = "DRAWKIT_UNDO_LEVELS"
	EnvLogLevel     = "DRAWKIT_LOG_LEVEL"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// ResolveEnvVars expands ${VAR} patterns in string fields of Settings.
func ResolveEnvVars(s *Settings) {
	s.LogLevel = expandEnv(s.LogLevel)
	s.Language = expandEnv(s.Language)
	s.Undo.Coalescing = expandEnv(s.Undo.Coalescing)
}

// expandEnv replaces ${VAR} with os.Getenv(VAR). Unset vars become "".
func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func applyEnvOverrides(s *Settings) error {
	if v := os.Getenv(EnvLevelsOfUndo); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLevelsOfUndo, err)
		}
		s.Undo.LevelsOfUndo = &n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
	return nil
}
