//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sitar-eda/sitar/internal/project"
	"github.com/sitar-eda/sitar/internal/rcfile"
)

// testEnv holds the isolated directory tree one test operates on.
type testEnv struct {
	BaseDir     string // project base_path, developments live here
	ModelersDir string // RFA_MODELERS_DIR, vendor skill directory
	HomeDir     string // the user's original HOME
}

// setupTestEnv creates isolated temp directories plus the directory
// structure sda would find on a real project share.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		BaseDir:     t.TempDir(),
		ModelersDir: t.TempDir(),
		HomeDir:     t.TempDir(),
	}

	// Vendor skill directory with its startup file.
	writeFile(t, filepath.Join(env.ModelersDir, "skill", ".cshrc"), "# skill startup\n")

	return env
}

// setupDefinition writes a project.yaml for the Caster development and
// creates its DesignSync settings root.
func setupDefinition(t *testing.T, env *testEnv) *project.Definition {
	t.Helper()

	content := "chip: Caster\nversion: v100\nbase_path: " + env.BaseDir + "\nsettings: Caster_Analog\n"
	path := filepath.Join(env.BaseDir, "project.yaml")
	writeFile(t, path, content)

	def, err := project.Load(path)
	if err != nil {
		t.Fatalf("loading definition: %v", err)
	}
	if err := os.MkdirAll(def.ConfigRoot(), 0o755); err != nil {
		t.Fatalf("creating config root: %v", err)
	}
	return def
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// sdaStub records sda invocations and creates the directory named by
// -path, the one observable side effect the builder depends on.
type sdaStub struct {
	calls [][]string
}

func (s *sdaStub) Run(env []rcfile.Entry, name string, args ...string) error {
	s.calls = append(s.calls, append([]string{name}, args...))
	for i, arg := range args {
		if arg == "-path" && i+1 < len(args) {
			if err := os.MkdirAll(args[i+1], 0o755); err != nil {
				return err
			}
		}
	}
	return nil
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s: %v", path, err)
	}
}
