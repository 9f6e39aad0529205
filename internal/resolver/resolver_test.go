package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// fullSetup builds a workspace dir, tool config dir, and modelers dir with
// all three rc files in place, plus an Environ pointing at them.
func fullSetup(t *testing.T) (env *Environ, wsDir string) {
	t.Helper()
	wsDir = t.TempDir()
	configDir := t.TempDir()
	modelersDir := t.TempDir()

	writeFile(t, filepath.Join(wsDir, WorkspaceRC),
		"setenv SYNC_DEVAREA_DIR "+wsDir+"\nsetenv DSGN_PROJ_NAME caster\n")
	writeFile(t, filepath.Join(configDir, WorkspaceRC),
		"setenv TECH_DIR /tech/sec14ff\n")
	writeFile(t, filepath.Join(modelersDir, ModelerSkillDir, ModelerRC),
		"# modeler startup\n")

	env = NewEnviron([]string{
		"HOME=/home/jdoe",
		EnvConfigDir + "=" + configDir,
		EnvModelersDir + "=" + modelersDir,
	})
	return env, wsDir
}

func diagnosticMessages(result Result) []string {
	var msgs []string
	for _, d := range result.Diagnostics {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func containsMessage(result Result, substr string) bool {
	for _, d := range result.Diagnostics {
		if strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}

func TestResolve_AllGatesPass(t *testing.T) {
	env, wsDir := fullSetup(t)

	result := Resolve(env, wsDir)

	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diagnosticMessages(result))
	}

	// Workspace rc sourced.
	if v, _ := env.Get("SYNC_DEVAREA_DIR"); v != wsDir {
		t.Errorf("SYNC_DEVAREA_DIR = %q, want %q", v, wsDir)
	}
	// Tool config rc sourced.
	if v, _ := env.Get("TECH_DIR"); v != "/tech/sec14ff" {
		t.Errorf("TECH_DIR = %q, want /tech/sec14ff", v)
	}
	// Home redirect: old HOME saved, HOME now the skill dir.
	if v, _ := env.Get(EnvSavedHome); v != "/home/jdoe" {
		t.Errorf("%s = %q, want /home/jdoe", EnvSavedHome, v)
	}
	modelersDir, _ := env.Get(EnvModelersDir)
	if v, _ := env.Get(EnvHome); v != filepath.Join(modelersDir, ModelerSkillDir) {
		t.Errorf("HOME = %q, want %s", v, filepath.Join(modelersDir, ModelerSkillDir))
	}
}

func TestResolve_AdvisoryWhenProjectAlreadyConfigured(t *testing.T) {
	env, wsDir := fullSetup(t)
	env.Set(EnvDesignProject, "/prj/caster/work/jdoe/CASTER")

	result := Resolve(env, wsDir)

	// Warning carries the exact current value.
	if !containsMessage(result, "/prj/caster/work/jdoe/CASTER") {
		t.Fatalf("advisory does not name the current value: %v", diagnosticMessages(result))
	}
	if result.Diagnostics[0].Severity != Advisory {
		t.Errorf("severity = %v, want Advisory", result.Diagnostics[0].Severity)
	}

	// Advisory does not block later gates: HOME was still redirected.
	if v, _ := env.Get(EnvSavedHome); v != "/home/jdoe" {
		t.Errorf("later gates did not run: %s = %q", EnvSavedHome, v)
	}
}

func TestResolve_MissingWorkspaceRC(t *testing.T) {
	env, _ := fullSetup(t)
	emptyDir := t.TempDir()

	result := Resolve(env, emptyDir)

	if !containsMessage(result, WorkspaceRC) {
		t.Fatalf("missing workspace rc not reported: %v", diagnosticMessages(result))
	}
	// The failed gate touched neither HOME nor QC_HOME_DIR; the modeler
	// gate still ran and performed the redirect.
	if v, _ := env.Get(EnvSavedHome); v != "/home/jdoe" {
		t.Errorf("modeler gate did not run after workspace failure: %s = %q", EnvSavedHome, v)
	}
}

func TestResolve_ConfigDirUnset(t *testing.T) {
	wsDir := t.TempDir()
	writeFile(t, filepath.Join(wsDir, WorkspaceRC), "setenv A 1\n")
	env := NewEnviron([]string{"HOME=/home/jdoe"})

	result := Resolve(env, wsDir)

	if !containsMessage(result, EnvConfigDir+" is not defined") {
		t.Fatalf("unset %s not reported: %v", EnvConfigDir, diagnosticMessages(result))
	}
}

func TestResolve_ConfigFileMissing(t *testing.T) {
	wsDir := t.TempDir()
	writeFile(t, filepath.Join(wsDir, WorkspaceRC), "setenv A 1\n")
	configDir := t.TempDir() // exists but holds no rc
	env := NewEnviron([]string{
		"HOME=/home/jdoe",
		EnvConfigDir + "=" + configDir,
	})

	result := Resolve(env, wsDir)

	want := filepath.Join(configDir, WorkspaceRC)
	if !containsMessage(result, want) {
		t.Fatalf("missing %s not reported: %v", want, diagnosticMessages(result))
	}
	if !containsMessage(result, "for the project") {
		t.Fatalf("diagnostic should name the project: %v", diagnosticMessages(result))
	}
}

func TestResolve_ConfigDirSetByWorkspaceRC(t *testing.T) {
	// The workspace rc may itself define QC_CONFIG_DIR; the tool config
	// gate must see that assignment.
	wsDir := t.TempDir()
	configDir := t.TempDir()
	writeFile(t, filepath.Join(configDir, WorkspaceRC), "setenv TECH_DIR /tech\n")
	writeFile(t, filepath.Join(wsDir, WorkspaceRC),
		"setenv "+EnvConfigDir+" "+configDir+"\n")

	env := NewEnviron([]string{"HOME=/home/jdoe"})
	result := Resolve(env, wsDir)

	if containsMessage(result, EnvConfigDir+" is not defined") {
		t.Fatalf("%s from workspace rc not honored: %v", EnvConfigDir, diagnosticMessages(result))
	}
	if v, _ := env.Get("TECH_DIR"); v != "/tech" {
		t.Errorf("TECH_DIR = %q, want /tech", v)
	}
}

func TestResolve_ModelersDirUnset(t *testing.T) {
	wsDir := t.TempDir()
	writeFile(t, filepath.Join(wsDir, WorkspaceRC), "setenv A 1\n")
	env := NewEnviron([]string{"HOME=/home/jdoe"})

	result := Resolve(env, wsDir)

	if !containsMessage(result, EnvModelersDir+" is not defined") {
		t.Fatalf("unset %s not reported: %v", EnvModelersDir, diagnosticMessages(result))
	}
	// HOME untouched.
	if v, _ := env.Get(EnvHome); v != "/home/jdoe" {
		t.Errorf("HOME = %q, want /home/jdoe", v)
	}
	if _, ok := env.Get(EnvSavedHome); ok {
		t.Errorf("%s must not be set when redirect is skipped", EnvSavedHome)
	}
}

func TestResolve_ModelerRCUnreadable(t *testing.T) {
	wsDir := t.TempDir()
	writeFile(t, filepath.Join(wsDir, WorkspaceRC), "setenv A 1\n")
	modelersDir := t.TempDir() // no skill/.cshrc inside
	env := NewEnviron([]string{
		"HOME=/home/jdoe",
		EnvModelersDir + "=" + modelersDir,
	})

	result := Resolve(env, wsDir)

	want := filepath.Join(modelersDir, ModelerSkillDir, ModelerRC)
	if !containsMessage(result, want) {
		t.Fatalf("missing %s not reported: %v", want, diagnosticMessages(result))
	}
	if v, _ := env.Get(EnvHome); v != "/home/jdoe" {
		t.Errorf("HOME mutated despite unreadable rc: %q", v)
	}
}

func TestResolve_VariableExpansionDuringSource(t *testing.T) {
	wsDir := t.TempDir()
	writeFile(t, filepath.Join(wsDir, WorkspaceRC),
		"setenv DSGN_ROOT /prj/caster\nsetenv "+EnvConfigDir+" ${DSGN_ROOT}/config\n")
	env := NewEnviron([]string{"HOME=/home/jdoe"})

	Resolve(env, wsDir)

	if v, _ := env.Get(EnvConfigDir); v != "/prj/caster/config" {
		t.Errorf("%s = %q, want /prj/caster/config", EnvConfigDir, v)
	}
}

func TestChanged_OnlyWrittenKeys(t *testing.T) {
	env, wsDir := fullSetup(t)
	Resolve(env, wsDir)

	keys := make(map[string]string)
	for _, b := range env.Changed() {
		keys[b.Key] = b.Value
	}

	// Pre-existing vars that were never written must not be exported.
	if _, ok := keys[EnvModelersDir]; ok {
		t.Errorf("%s reported as changed", EnvModelersDir)
	}
	if _, ok := keys[EnvHome]; !ok {
		t.Errorf("HOME missing from changed set")
	}
	if _, ok := keys[EnvSavedHome]; !ok {
		t.Errorf("%s missing from changed set", EnvSavedHome)
	}
}

func TestResolveGates_NoShortCircuit(t *testing.T) {
	// Every gate runs even when all of them fail.
	var ran []string
	gates := []Gate{
		{Name: "a", Run: func(*Environ) *Diagnostic {
			ran = append(ran, "a")
			return &Diagnostic{Severity: MissingFile, Message: "a failed"}
		}},
		{Name: "b", Run: func(*Environ) *Diagnostic {
			ran = append(ran, "b")
			return &Diagnostic{Severity: MissingVar, Message: "b failed"}
		}},
		{Name: "c", Run: func(*Environ) *Diagnostic {
			ran = append(ran, "c")
			return nil
		}},
	}

	result := ResolveGates(NewEnviron(nil), gates)

	if strings.Join(ran, ",") != "a,b,c" {
		t.Fatalf("gates ran %v, want a,b,c", ran)
	}
	if len(result.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(result.Diagnostics))
	}
}
