package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sitar-eda/sitar/internal/workspace"
)

var (
	shellWsPath  string
	shellCmdline string
	shellXterm   bool
	shellDevName string
)

func init() {
	shellCmd.Flags().StringVar(&shellWsPath, "ws", "", "Workspace directory (default: nearest workspace root)")
	shellCmd.Flags().StringVar(&shellCmdline, "cmd", "", "Run a single command instead of an interactive shell")
	shellCmd.Flags().BoolVar(&shellXterm, "xterm", false, "Launch in a new xterm")
	shellCmd.Flags().StringVar(&shellDevName, "dev-name", "", "Export QC_SYNC_DEVNAME for the shell")
	rootCmd.AddCommand(shellCmd)
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start a workspace shell",
	Long: `Start an interactive tcsh in a workspace with its project environment
sourced. The workspace root is located by walking up from the current
directory to the nearest .cshrc.project unless --ws is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		wsDir := shellWsPath
		if wsDir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
			if wsDir, err = workspace.Root(cwd); err != nil {
				return err
			}
		}

		run := "tcsh"
		if shellCmdline != "" {
			run = shellCmdline
		}
		script := fmt.Sprintf("source ./%s ; %s", workspace.CshSourceFile, run)

		name := "tcsh"
		argv := []string{"-c", script}
		if shellXterm {
			name = "xterm"
			argv = append([]string{"-e", "tcsh"}, argv...)
		}

		child := exec.Command(name, argv...)
		child.Dir = wsDir
		child.Env = os.Environ()
		if shellDevName != "" {
			child.Env = append(child.Env, "QC_SYNC_DEVNAME="+shellDevName)
		}
		child.Stdin = os.Stdin
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr

		logger.Debug("starting workspace shell",
			zap.String("dir", wsDir),
			zap.String("command", run))
		if err := child.Run(); err != nil {
			return fmt.Errorf("running workspace shell: %w", err)
		}
		return nil
	},
}
