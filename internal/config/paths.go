package config

import (
	"os"
	"path/filepath"
)

// Env vars controlling daemon configuration (spec.md §6).
const (
	DataDirEnv = "TIDYFLOW_HOME"
	PortEnv    = "TIDYFLOW_PORT"
	LogEnv     = "TIDYFLOW_LOG"
)

// DataDir returns <HOME>/.tidyflow, honoring TIDYFLOW_HOME when set.
func DataDir() (string, error) {
	if d := os.Getenv(DataDirEnv); d != "" {
		return d, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".tidyflow"), nil
}

// StateFilePath returns <data>/tidyflow.json.
func StateFilePath(dataDir string) string {
	return filepath.Join(dataDir, "tidyflow.json")
}

// ConfigFilePath returns <data>/settings.json, the daemon-level settings
// file Load/Save read and write (distinct from the state document).
func ConfigFilePath(dataDir string) string {
	return filepath.Join(dataDir, "settings.json")
}

// WorkspacesDir returns <data>/workspaces, the root under which per-workspace worktrees live.
func WorkspacesDir(dataDir string) string {
	return filepath.Join(dataDir, "workspaces")
}

// IntegrationWorktreesDir returns <data>/worktrees, the root for integration worktrees.
func IntegrationWorktreesDir(dataDir string) string {
	return filepath.Join(dataDir, "worktrees")
}

// LogsDir returns <data>/logs.
func LogsDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}

// EnsureDataDirs creates the directory skeleton under dataDir.
func EnsureDataDirs(dataDir string) error {
	for _, d := range []string{dataDir, WorkspacesDir(dataDir), IntegrationWorktreesDir(dataDir), LogsDir(dataDir)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
