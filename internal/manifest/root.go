package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultRoot determines the per-user install root for tool archives.
func DefaultRoot() (string, error) {
	if override, ok := os.LookupEnv("TLAPLUS_HOME"); ok && override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("resolve TLAPLUS_HOME: %w", err)
		}
		return abs, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "tlaplus"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "tlaplus"), nil
		}
		return filepath.Join(home, "AppData", "Local", "tlaplus"), nil
	default:
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "tlaplus"), nil
		}
		return filepath.Join(home, ".local", "share", "tlaplus"), nil
	}
}
