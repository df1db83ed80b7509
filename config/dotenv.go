// ABOUTME: Loads .env files at startup with godotenv without clobbering the existing environment.
// ABOUTME: Searches the working directory and its parents, then the executable's directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads one .env file. Variables already set are kept. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// LoadDotEnvAuto loads .env files from common locations, nearest first, and
// returns the paths it loaded. Search order:
//  1. .env in the current directory and its parents
//  2. .env next to the current executable
func LoadDotEnvAuto() ([]string, error) {
	seen := map[string]bool{}
	var loaded []string

	add := func(p string) error {
		if p == "" || seen[p] {
			return nil
		}
		seen[p] = true
		if _, err := os.Stat(p); err != nil {
			return nil
		}
		if err := LoadDotEnv(p); err != nil {
			return err
		}
		loaded = append(loaded, p)
		return nil
	}

	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for {
			if err := add(filepath.Join(dir, ".env")); err != nil {
				return loaded, err
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if exe, err := os.Executable(); err == nil {
		if err := add(filepath.Join(filepath.Dir(exe), ".env")); err != nil {
			return loaded, err
		}
	}
	return loaded, nil
}
