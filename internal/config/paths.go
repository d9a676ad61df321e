// ABOUTME: Standard filesystem paths for drawkit undo configuration
// ABOUTME: Resolves ~/.drawkit/ for global and .drawkit/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".drawkit"
	projectDirName = ".drawkit"
	configFileName = "undo.yaml"
)

// GlobalDir returns the user-global config directory (~/.drawkit/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory.
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), configFileName)
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), configFileName)
}

// ConfigFiles returns every file Load reads, global first.
func ConfigFiles(projectRoot string) []string {
	return []string{GlobalConfigFile(), ProjectConfigFile(projectRoot)}
}
