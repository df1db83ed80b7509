// ABOUTME: XDG-based config, data, and state directory resolution for calldeck.
// ABOUTME: Checks the XDG_* variables first, then falls back to the conventional dot-directories under $HOME.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "calldeck"

// Dirs holds the per-user directories calldeck reads and writes.
type Dirs struct {
	Config string // config.yaml lives here
	Data   string // demo database
	State  string // log file
}

// DefaultDirs resolves all three directories from the environment.
func DefaultDirs() (Dirs, error) {
	cfg, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return Dirs{}, err
	}
	data, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return Dirs{}, err
	}
	state, err := xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
	if err != nil {
		return Dirs{}, err
	}
	return Dirs{Config: cfg, Data: data, State: state}, nil
}

// xdgDir returns $env/calldeck, or ~/fallback/calldeck when env is unset.
func xdgDir(env, fallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, fallback, appName), nil
}
