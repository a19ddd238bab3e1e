// Package home locates and lays out the carve home directory, the
// per-user place for the application config and saved profiles.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the carve home directory.
	DefaultDirName = ".carve"

	// ProfilesDirName is the subdirectory for saved segmentation profiles.
	ProfilesDirName = "profiles"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the carve home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.carve).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ProfilesPath returns the path to the saved profiles directory.
func (d *Dir) ProfilesPath() string {
	return filepath.Join(d.path, ProfilesDirName)
}

// ProfilePath returns the path a named profile would live at.
func (d *Dir) ProfilePath(name string) string {
	return filepath.Join(d.ProfilesPath(), name+".yaml")
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.ProfilesPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create profiles directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
