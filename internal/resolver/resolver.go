package resolver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitar-eda/sitar/internal/rcfile"
)

// Environment variables read and written during resolution.
const (
	EnvDesignProject = "DSGN_PROJ"
	EnvConfigDir     = "QC_CONFIG_DIR"
	EnvModelersDir   = "RFA_MODELERS_DIR"
	EnvSavedHome     = "QC_HOME_DIR"
	EnvHome          = "HOME"
)

// File names the resolver looks for.
const (
	// WorkspaceRC is the project rc fragment generated into each workspace
	// and expected in the tool config directory.
	WorkspaceRC = ".cshrc.project"
	// ModelerSkillDir is the vendor directory HOME is re-pointed at.
	ModelerSkillDir = "skill"
	// ModelerRC is the startup file that must exist under ModelerSkillDir
	// before HOME is redirected.
	ModelerRC = ".cshrc"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// Advisory notes a condition the user may want to know about.
	Advisory Severity = iota
	// MissingFile reports an expected configuration file that is absent
	// or unreadable.
	MissingFile
	// MissingVar reports an expected environment variable that is unset.
	MissingVar
)

func (s Severity) String() string {
	switch s {
	case Advisory:
		return "warning"
	case MissingFile, MissingVar:
		return "error"
	}
	return "unknown"
}

// Diagnostic is a single human-readable message produced by a gate.
type Diagnostic struct {
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Gate is one step of the resolution sequence: check a precondition,
// mutate the environment if it holds, report a diagnostic if it does not.
// Run returns nil when the gate passed silently.
type Gate struct {
	Name string
	Run  func(env *Environ) *Diagnostic
}

// Result carries the outcome of a resolution run.
type Result struct {
	Env         *Environ
	Diagnostics []Diagnostic
}

// Resolve evaluates the standard gate sequence for the workspace rooted at
// dir. All gates run; a failed gate never blocks the ones after it.
func Resolve(env *Environ, dir string) Result {
	return ResolveGates(env, Gates(dir))
}

// ResolveGates evaluates the given gates in order, collecting diagnostics.
func ResolveGates(env *Environ, gates []Gate) Result {
	result := Result{Env: env}
	for _, gate := range gates {
		if diag := gate.Run(env); diag != nil {
			result.Diagnostics = append(result.Diagnostics, *diag)
		}
	}
	return result
}

// Gates returns the standard four-step sequence for the workspace rooted
// at dir: advisory check, workspace rc, tool config rc, modeler home
// redirect.
func Gates(dir string) []Gate {
	return []Gate{
		{Name: "project-configured", Run: projectConfigured},
		{Name: "workspace-config", Run: workspaceConfig(dir)},
		{Name: "tool-config", Run: toolConfig},
		{Name: "modeler-home", Run: modelerHome},
	}
}

// projectConfigured warns when the shell already carries a project
// environment. Purely advisory; the remaining gates still run.
func projectConfigured(env *Environ) *Diagnostic {
	if v, ok := env.Get(EnvDesignProject); ok {
		return &Diagnostic{
			Severity: Advisory,
			Message:  fmt.Sprintf("the project environment is already set up (%s=%s)", EnvDesignProject, v),
		}
	}
	return nil
}

// workspaceConfig sources .cshrc.project from the workspace directory.
func workspaceConfig(dir string) func(*Environ) *Diagnostic {
	return func(env *Environ) *Diagnostic {
		path := filepath.Join(dir, WorkspaceRC)
		if !readable(path) {
			return &Diagnostic{
				Severity: MissingFile,
				Message:  fmt.Sprintf("cannot find %s in the workspace %s", WorkspaceRC, dir),
			}
		}
		return source(env, path)
	}
}

// toolConfig sources .cshrc.project from the tool config directory named
// by QC_CONFIG_DIR. The variable may have been set by the workspace rc
// sourced in the previous gate, so it is read from the record, not from
// the original process environment.
func toolConfig(env *Environ) *Diagnostic {
	configDir, ok := env.Get(EnvConfigDir)
	if !ok {
		return &Diagnostic{
			Severity: MissingVar,
			Message:  fmt.Sprintf("%s is not defined", EnvConfigDir),
		}
	}
	path := filepath.Join(configDir, WorkspaceRC)
	if !readable(path) {
		return &Diagnostic{
			Severity: MissingFile,
			Message:  fmt.Sprintf("cannot find %s for the project", path),
		}
	}
	return source(env, path)
}

// modelerHome re-points HOME at the vendor skill directory so the modeler
// picks up its own startup files. The original HOME is saved in
// QC_HOME_DIR first so a collaborator can restore it later. HOME is only
// touched when the skill rc is actually readable.
func modelerHome(env *Environ) *Diagnostic {
	modelersDir, ok := env.Get(EnvModelersDir)
	if !ok {
		return &Diagnostic{
			Severity: MissingVar,
			Message:  fmt.Sprintf("%s is not defined", EnvModelersDir),
		}
	}

	skillDir := filepath.Join(modelersDir, ModelerSkillDir)
	rc := filepath.Join(skillDir, ModelerRC)
	if !readable(rc) {
		return &Diagnostic{
			Severity: MissingFile,
			Message:  fmt.Sprintf("cannot find %s for the modelers", rc),
		}
	}

	home, _ := env.Get(EnvHome)
	env.Set(EnvSavedHome, home)
	env.Set(EnvHome, skillDir)
	return nil
}

// source parses the rc fragment at path and applies its assignments to
// the record, expanding $VAR references against the current state so
// later assignments can build on earlier ones.
func source(env *Environ, path string) *Diagnostic {
	entries, err := rcfile.ParseFile(path)
	if err != nil {
		return &Diagnostic{
			Severity: MissingFile,
			Message:  fmt.Sprintf("cannot read %s: %v", path, err),
		}
	}
	for _, entry := range entries {
		env.Set(entry.Key, rcfile.Expand(entry.Value, env.Get))
	}
	return nil
}

// readable reports whether path is an existing file the process can open.
func readable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
