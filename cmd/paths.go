package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// getDataDir returns the appropriate data directory for the current OS
// following XDG Base Directory specification on Linux/Unix
func getDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %LOCALAPPDATA%\cybercaution
		baseDir = os.Getenv("LOCALAPPDATA")
		if baseDir == "" {
			baseDir = os.Getenv("APPDATA")
		}
		if baseDir == "" {
			return "", fmt.Errorf("could not determine Windows data directory")
		}
		baseDir = filepath.Join(baseDir, "cybercaution")

	case "darwin":
		// macOS: ~/Library/Application Support/cybercaution
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support", "cybercaution")

	default:
		// Linux/Unix: Follow XDG Base Directory specification
		// Priority: $XDG_DATA_HOME/cybercaution > ~/.local/share/cybercaution
		xdgDataHome := os.Getenv("XDG_DATA_HOME")
		if xdgDataHome != "" {
			baseDir = filepath.Join(xdgDataHome, "cybercaution")
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("could not determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".local", "share", "cybercaution")
		}
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return baseDir, nil
}

// getSnapshotsDir returns the directory holding in-progress assessment snapshots
func getSnapshotsDir(dataDir string) (string, error) {
	dir := filepath.Join(dataDir, "snapshots")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshots directory: %w", err)
	}

	return dir, nil
}

// getExportsDir returns the directory exported reports are written to
func getExportsDir(dataDir string) (string, error) {
	dir := filepath.Join(dataDir, "exports")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create exports directory: %w", err)
	}

	return dir, nil
}
