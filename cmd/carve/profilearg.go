package main

import (
	"path/filepath"
	"strings"

	"github.com/docslice/carve/internal/home"
)

// resolveProfilePath turns a --profile argument into a file path. A bare
// name without a path or extension refers to a saved profile in the
// carve home directory (~/.carve/profiles/<name>.yaml).
func resolveProfilePath(arg string) (string, error) {
	if strings.ContainsRune(arg, filepath.Separator) || filepath.Ext(arg) != "" {
		return arg, nil
	}
	h, err := home.New(homeDir)
	if err != nil {
		return "", err
	}
	return h.ProfilePath(arg), nil
}
