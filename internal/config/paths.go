package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the snekctl config directory under the user config base.
// On Linux, this typically resolves to $XDG_CONFIG_HOME/snekctl; on macOS
// to ~/Library/Application Support/snekctl; and on Windows to %AppData%/snekctl.
// Falls back to HOME when UserConfigDir is unavailable.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(base) == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			base = home
		} else {
			return "", errors.New("cannot determine config directory")
		}
	}
	return filepath.Join(base, "snekctl"), nil
}

// CatalogPath returns the user-level tool catalog override file.
func CatalogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog.yaml"), nil
}

// HistoryPath returns the solve history store file.
func HistoryPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}
