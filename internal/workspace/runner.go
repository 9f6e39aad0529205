package workspace

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/sitar-eda/sitar/internal/rcfile"
)

// Runner executes the DesignSync workspace tool (sda) with a derived
// environment overlaid on the process environment.
type Runner interface {
	Run(env []rcfile.Entry, name string, args ...string) error
}

// ExecRunner runs the real binary.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r *ExecRunner) Run(env []rcfile.Entry, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	for _, e := range env {
		cmd.Env = append(cmd.Env, e.Key+"="+e.Value)
	}
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// DryRunner logs commands instead of running them. Pair it with
// Builder.DryRun so file operations are skipped as well.
type DryRunner struct {
	Log *zap.Logger
}

func (r *DryRunner) Run(env []rcfile.Entry, name string, args ...string) error {
	r.Log.Info("dry run",
		zap.String("command", name+" "+strings.Join(args, " ")),
		zap.Int("env_vars", len(env)))
	return nil
}
