package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitar-eda/sitar/internal/rcfile"
)

// FindFile searches for the closest file with the given name in startDir
// and its parents, returning its full path.
func FindFile(name, startDir string) (string, error) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", startDir, err)
	}
	for {
		candidate := filepath.Join(current, name)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%s not found in %s or its parents", name, startDir)
		}
		current = parent
	}
}

// Root returns the root directory of the workspace containing startDir,
// identified by the nearest .cshrc.project.
func Root(startDir string) (string, error) {
	path, err := FindFile(CshSourceFile, startDir)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// DevAreaName extracts the workspace's dev area name from a source
// fragment: the basename of its SYNC_DEVAREA_DIR assignment.
func DevAreaName(rcPath string) (string, error) {
	entries, err := rcfile.ParseFile(rcPath)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Key == "SYNC_DEVAREA_DIR" {
			return filepath.Base(e.Value), nil
		}
	}
	return "", fmt.Errorf("no SYNC_DEVAREA_DIR in %s", rcPath)
}
