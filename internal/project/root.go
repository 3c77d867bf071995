package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the project configuration file name.
const ConfigFile = "apidef.toml"

// FindConfig walks up from start to locate apidef.toml. start may be a file
// or a directory.
func FindConfig(start string) (path string, ok bool, err error) {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindProjectRoot returns the directory containing apidef.toml, if any.
func FindProjectRoot(start string) (root string, ok bool, err error) {
	path, ok, err := FindConfig(start)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(path), true, nil
}
