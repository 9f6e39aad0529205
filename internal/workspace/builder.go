package workspace

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sitar-eda/sitar/internal/project"
	"github.com/sitar-eda/sitar/internal/rcfile"
)

// Role is the DesignSync development assignment for a workspace.
type Role string

const (
	RoleDesign    Role = "Design"
	RoleIntegrate Role = "Integrate"
	RoleShared    Role = "Shared"
)

// tclLib is the runtime library path the Cadence launch environment needs.
const tclLib = "/pkg/qct/software/tcl/8.4.6/lib"

// defaultSDA is the sda executable used when the project does not pin one.
const defaultSDA = "sda"

// Builder creates SITaR workspaces for one chip development.
type Builder struct {
	Def    *project.Definition
	Role   Role
	Runner Runner
	Log    *zap.Logger

	// DryRun suppresses every filesystem step; populate and the shared
	// directory setup only log what they would do.
	DryRun bool

	// Derived by prepare().
	workDir  string
	userDir  string
	wsName   string
	dsgnProj string
}

// NewBuilder wires a builder for the given development and role.
func NewBuilder(def *project.Definition, role Role, runner Runner, log *zap.Logger) *Builder {
	return &Builder{Def: def, Role: role, Runner: runner, Log: log}
}

// DirName picks the workspace directory name: the override when given,
// otherwise the user name, with an _int suffix for integrator workspaces.
func DirName(integrator bool, override string) string {
	if override != "" {
		return override
	}
	name := userName()
	if integrator {
		return name + "_int"
	}
	return name
}

func userName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

// prepare derives the workspace layout for the given directory name.
// Shared workspaces live under work/shared with a per-user directory next
// to the shared container; individual workspaces own their directory.
// Returns whether the work directory already exists.
func (b *Builder) prepare(dirName string, shared bool) bool {
	workRoot := b.Def.WorkRoot()
	if shared {
		b.workDir = filepath.Join(workRoot, "shared")
		b.userDir = filepath.Join(b.workDir, dirName)
		b.wsName = b.Def.DevelopmentName() + "_shared"
	} else {
		b.workDir = filepath.Join(workRoot, dirName)
		b.userDir = b.workDir
		b.wsName = b.Def.DevelopmentName() + "_" + dirName
	}
	b.dsgnProj = filepath.Join(b.workDir, b.Def.ContainerName())

	_, err := os.Stat(b.workDir)
	return err == nil
}

// SitarEnv returns the DesignSync-level environment for sda invocations.
func (b *Builder) SitarEnv() []rcfile.Entry {
	return []rcfile.Entry{
		{Key: "SYNC_PROJECT_CFGDIR", Value: filepath.Join(b.Def.ConfigRoot(), "Setting")},
		{Key: "SYNC_PROJECT_CFGDIR_ROOT", Value: b.Def.ConfigRoot()},
		{Key: "SYNC_DEVELOPMENT_DIR", Value: b.Def.DevelopmentDir()},
		{Key: "SYNC_DEVAREA_TOP", Value: b.Def.ContainerName()},
		{Key: "SYNC_DEV_ASSIGNMENT", Value: string(b.Role)},
	}
}

// ShellEnv returns the per-workspace environment written into the source
// files. QC_CONFIG_DIR intentionally stays a ${DSGN_PROJ} reference so the
// generated rc keeps tracking the container if it is relocated.
func (b *Builder) ShellEnv() []rcfile.Entry {
	return []rcfile.Entry{
		{Key: "SYNC_DEVAREA_DIR", Value: b.workDir},
		{Key: "PROJECT_DIR", Value: b.Def.WorkRoot()},
		{Key: "DSGN_PROJ", Value: b.dsgnProj},
		{Key: "LD_LIBRARY_PATH", Value: tclLib},
		{Key: "QC_CONFIG_DIR", Value: "${DSGN_PROJ}/config"},
	}
}

// Env returns the combined environment, sitar vars first.
func (b *Builder) Env() []rcfile.Entry {
	return append(b.SitarEnv(), b.ShellEnv()...)
}

// WorkspaceName returns the sda workspace name derived by the last
// Create/Join call.
func (b *Builder) WorkspaceName() string { return b.wsName }

// UserDir returns the directory Cadence is launched from, derived by the
// last Create/Join call.
func (b *Builder) UserDir() string { return b.userDir }

func (b *Builder) sdaPath() string {
	if b.Def.SDAPath != "" {
		return b.Def.SDAPath
	}
	return defaultSDA
}

// Create makes an individual workspace. An existing work directory is
// reported and left alone.
func (b *Builder) Create(dirName string) error {
	if b.prepare(dirName, false) {
		b.Log.Info("workspace already exists",
			zap.String("workspace", b.wsName),
			zap.String("dir", b.workDir))
		return nil
	}

	b.Log.Info("populating workspace",
		zap.String("workspace", b.wsName),
		zap.String("dir", b.workDir))
	err := b.Runner.Run(b.SitarEnv(), b.sdaPath(),
		"mk", b.wsName, b.Def.DevelopmentName(),
		"-assignment", string(b.Role),
		"-path", b.workDir)
	if err != nil {
		return fmt.Errorf("creating workspace %s: %w", b.wsName, err)
	}
	return b.populate()
}

// CreateShared makes the shared workspace for a development and the
// calling user's directory next to it.
func (b *Builder) CreateShared(dirName string) error {
	b.prepare(dirName, true)

	b.Log.Info("creating shared workspace",
		zap.String("workspace", b.wsName),
		zap.String("dir", b.workDir))
	err := b.Runner.Run(b.SitarEnv(), b.sdaPath(),
		"mk", b.wsName, b.Def.DevelopmentName(),
		"-assignment", string(b.Role),
		"-shared",
		"-path", b.workDir)
	if err != nil {
		return fmt.Errorf("creating shared workspace %s: %w", b.wsName, err)
	}

	if err := b.setupSharedDirs(); err != nil {
		return err
	}
	return b.populate()
}

// JoinShared attaches the calling user to an existing shared workspace.
func (b *Builder) JoinShared(dirName string) error {
	b.prepare(dirName, true)

	b.Log.Info("joining shared workspace",
		zap.String("workspace", b.wsName),
		zap.String("dir", b.workDir))
	err := b.Runner.Run(b.SitarEnv(), b.sdaPath(),
		"join", b.wsName,
		"-development", b.Def.DevelopmentName())
	if err != nil {
		return fmt.Errorf("joining shared workspace %s: %w", b.wsName, err)
	}

	if err := b.setupSharedDirs(); err != nil {
		return err
	}
	return b.populate()
}

// populate writes the source files and Cadence launch files into the
// user directory.
func (b *Builder) populate() error {
	if err := b.writeSourceFiles(); err != nil {
		return err
	}
	if err := b.writeCdsLib(); err != nil {
		return err
	}
	b.copySetupFiles()
	return nil
}
