package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sitar-eda/sitar/internal/config"
	"github.com/sitar-eda/sitar/internal/project"
	"github.com/sitar-eda/sitar/internal/workspace"
)

var (
	wsProjectPath string
	wsName        string
	wsIntegrator  bool
	wsDryRun      bool
)

func init() {
	for _, cmd := range []*cobra.Command{wsMakeCmd, wsJoinCmd, wsShareCmd} {
		cmd.Flags().StringVarP(&wsName, "name", "n", "", "Workspace directory name (default user name)")
		cmd.Flags().BoolVarP(&wsDryRun, "dry-run", "N", false, "Log commands without running them")
		cmd.Flags().StringVar(&wsProjectPath, "project", "", "Project definition file (default: walk up from cwd, then config)")
	}
	wsMakeCmd.Flags().BoolVarP(&wsIntegrator, "integrator", "i", false, "Create an integrator workspace")

	wsCmd.AddCommand(wsMakeCmd)
	wsCmd.AddCommand(wsJoinCmd)
	wsCmd.AddCommand(wsShareCmd)
	rootCmd.AddCommand(wsCmd)
}

var wsCmd = &cobra.Command{
	Use:   "ws",
	Short: "Create and join SITaR workspaces",
}

var wsMakeCmd = &cobra.Command{
	Use:   "make",
	Short: "Create an individual workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := workspace.RoleDesign
		if wsIntegrator {
			role = workspace.RoleIntegrate
		}
		builder, err := newBuilder(role)
		if err != nil {
			return err
		}
		dirName := workspace.DirName(wsIntegrator, wsName)
		if err := builder.Create(dirName); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "The workspace %s is ready\n", builder.UserDir())
		return nil
	},
}

var wsShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Create the shared workspace for the development",
	RunE: func(cmd *cobra.Command, args []string) error {
		builder, err := newBuilder(workspace.RoleShared)
		if err != nil {
			return err
		}
		if err := builder.CreateShared(workspace.DirName(false, wsName)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "The workspace %s is ready\n", builder.UserDir())
		return nil
	},
}

var wsJoinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join the shared workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		builder, err := newBuilder(workspace.RoleShared)
		if err != nil {
			return err
		}
		if err := builder.JoinShared(workspace.DirName(false, wsName)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "The workspace %s is ready\n", builder.UserDir())
		return nil
	},
}

// newBuilder loads the project definition, gates on the tool version, and
// checks the settings root before any sda call.
func newBuilder(role workspace.Role) (*workspace.Builder, error) {
	def, err := loadProject(wsProjectPath)
	if err != nil {
		return nil, err
	}
	if err := def.CheckToolVersion(buildVersion); err != nil {
		return nil, err
	}
	if _, err := os.Stat(def.ConfigRoot()); err != nil {
		return nil, fmt.Errorf("cannot access the config root directory %s: %w", def.ConfigRoot(), err)
	}

	var runner workspace.Runner = &workspace.ExecRunner{}
	if wsDryRun {
		runner = &workspace.DryRunner{Log: logger}
	}
	builder := workspace.NewBuilder(def, role, runner, logger)
	builder.DryRun = wsDryRun
	return builder, nil
}

// loadProject resolves the project definition path: explicit flag, then
// walk-up from the current directory, then the configured default.
func loadProject(flagPath string) (*project.Definition, error) {
	path := flagPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		if found, err := project.Find(cwd); err == nil {
			path = found
		} else if configured := config.Get(config.KeyProject); configured != "" {
			path = configured
		} else {
			return nil, fmt.Errorf("no project definition: %w (set %s via '%s config set %s <path>')",
				err, config.KeyProject, rootCmd.Use, config.KeyProject)
		}
	}
	return project.Load(path)
}
