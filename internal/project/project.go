package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

// DefinitionFile is the file name looked up in the workspace tree.
const DefinitionFile = "project.yaml"

// DefaultSettings is the settings collection used when none is declared.
const DefaultSettings = "Analog"

// Definition describes one chip development.
type Definition struct {
	Chip            string `yaml:"chip"`
	Version         string `yaml:"version"`
	BasePath        string `yaml:"base_path"`
	Settings        string `yaml:"settings"`
	SyncServer      string `yaml:"sync_server"`
	SDAPath         string `yaml:"sda_path"`
	MinSitarVersion string `yaml:"min_sitar_version"`
}

// Name returns the development name, e.g. "Caster_v100".
func (d *Definition) Name() string {
	return d.Chip + "_" + d.Version
}

// DevelopmentName returns the uppercased development identifier used for
// workspace names, e.g. "CASTER_V100".
func (d *Definition) DevelopmentName() string {
	return strings.ToUpper(d.Name())
}

// ContainerName returns the uppercased top container name, e.g. "CASTER".
func (d *Definition) ContainerName() string {
	return strings.ToUpper(d.Chip)
}

// DevelopmentDir returns the root directory of the development,
// <base_path>/<name lowercased>.
func (d *Definition) DevelopmentDir() string {
	return filepath.Join(d.BasePath, strings.ToLower(d.Name()))
}

// ConfigRoot returns the DesignSync settings root for the development.
func (d *Definition) ConfigRoot() string {
	settings := d.Settings
	if settings == "" {
		settings = DefaultSettings
	}
	return filepath.Join(d.DevelopmentDir(), "DesignSync", "Settings", settings)
}

// WorkRoot returns the directory all workspaces are created under.
func (d *Definition) WorkRoot() string {
	return filepath.Join(d.DevelopmentDir(), "work")
}

// Load reads, validates, and parses a project definition.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project definition %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid project definition %s: %s", path, result.Issues[0].Message)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing project definition %s: %w", path, err)
	}
	return &def, nil
}

// Find walks up from startDir looking for a project.yaml and returns its
// path. Returns an error when the filesystem root is reached without a hit.
func Find(startDir string) (string, error) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", startDir, err)
	}
	for {
		candidate := filepath.Join(current, DefinitionFile)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no %s found in %s or its parents", DefinitionFile, startDir)
		}
		current = parent
	}
}

// CheckToolVersion verifies the running tool satisfies the project's
// min_sitar_version. Development builds (version "dev" or empty) always pass.
func (d *Definition) CheckToolVersion(toolVersion string) error {
	if d.MinSitarVersion == "" || toolVersion == "" || toolVersion == "dev" {
		return nil
	}
	min, err := semver.NewVersion(strings.TrimPrefix(d.MinSitarVersion, "v"))
	if err != nil {
		return fmt.Errorf("parsing min_sitar_version %q: %w", d.MinSitarVersion, err)
	}
	cur, err := semver.NewVersion(strings.TrimPrefix(toolVersion, "v"))
	if err != nil {
		return fmt.Errorf("parsing tool version %q: %w", toolVersion, err)
	}
	if cur.LessThan(min) {
		return fmt.Errorf("project %s requires sitar >= %s (running %s)", d.Name(), d.MinSitarVersion, toolVersion)
	}
	return nil
}
