package workspace

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sitar-eda/sitar/internal/platform"
	"github.com/sitar-eda/sitar/internal/rcfile"
)

// Source fragments written into each workspace.
const (
	CshSourceFile = ".cshrc.project"
	ShSourceFile  = ".shrc.project"
)

// setupFiles are the Cadence launch files copied from the config module
// into the user directory.
var setupFiles = []string{
	"cdsLibMgrProject.il",
	"hdl.var",
	"hed.env",
	"hierEditor.env",
	"run_ams",
}

// writeSourceFiles generates the csh and sh rc fragments holding the
// workspace environment.
func (b *Builder) writeSourceFiles() error {
	env := b.Env()
	for _, out := range []struct {
		name   string
		flavor rcfile.Flavor
	}{
		{CshSourceFile, rcfile.Csh},
		{ShSourceFile, rcfile.Sh},
	} {
		var buf bytes.Buffer
		if err := rcfile.WriteScript(&buf, out.flavor, env); err != nil {
			return fmt.Errorf("rendering %s: %w", out.name, err)
		}
		path := filepath.Join(b.userDir, out.name)
		if b.DryRun {
			b.Log.Info("dry run: would write source file", zap.String("path", path))
			continue
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		b.Log.Debug("wrote source file", zap.String("path", path))
	}
	return nil
}

// writeCdsLib creates the cds.lib used to launch Cadence from the user
// directory. The technology include resolves through the environment at
// launch time; the project include is relative to the user directory.
func (b *Builder) writeCdsLib() error {
	content := "SOFTINCLUDE $TECH_DIR/$FOUNDRY/$PROCESS/$TECH_VERSION/qcCadence/inits/cds.lib\n" +
		fmt.Sprintf("SOFTINCLUDE ./%s/cds.lib.project\n", b.Def.ContainerName())

	path := filepath.Join(b.userDir, "cds.lib")
	if b.DryRun {
		b.Log.Info("dry run: would write cds.lib", zap.String("path", path))
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	b.Log.Debug("wrote cds.lib", zap.String("path", path))
	return nil
}

// copySetupFiles copies the Cadence setup files from the config module.
// A missing file is a per-file warning, not a failure: older developments
// do not ship every file.
func (b *Builder) copySetupFiles() {
	configDir := filepath.Join(b.dsgnProj, "config")
	if b.DryRun {
		b.Log.Info("dry run: would copy setup files",
			zap.String("from", configDir), zap.Strings("files", setupFiles))
		return
	}
	for _, name := range setupFiles {
		src := filepath.Join(configDir, name)
		if _, err := os.Stat(src); err != nil {
			b.Log.Warn("cannot access setup file", zap.String("path", src))
			continue
		}
		if err := platform.CopyFile(src, filepath.Join(b.userDir, name)); err != nil {
			b.Log.Warn("copying setup file failed",
				zap.String("path", src), zap.Error(err))
		}
	}
}

// setupSharedDirs creates the per-user directory of a shared workspace
// and links the shared container into it so Cadence sees the same design
// tree as every other member.
func (b *Builder) setupSharedDirs() error {
	if b.DryRun {
		b.Log.Info("dry run: would create user directory and container link",
			zap.String("dir", b.userDir),
			zap.String("link", filepath.Join(b.userDir, b.Def.ContainerName())))
		return nil
	}
	if err := os.MkdirAll(b.userDir, 0o755); err != nil {
		return fmt.Errorf("creating user directory %s: %w", b.userDir, err)
	}

	link := filepath.Join(b.userDir, b.Def.ContainerName())
	if _, err := os.Lstat(link); err == nil {
		return nil // already joined before
	}
	if err := platform.CreateSymlink(b.dsgnProj, link); err != nil {
		return fmt.Errorf("linking container %s: %w", link, err)
	}
	return nil
}
