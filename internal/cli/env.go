package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sitar-eda/sitar/internal/rcfile"
	"github.com/sitar-eda/sitar/internal/workspace"
)

func init() {
	envCmd.AddCommand(envShowCmd)
	envCmd.AddCommand(envListCmd)
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect workspace environment files",
}

var envShowCmd = &cobra.Command{
	Use:   "show [rc-file]",
	Short: "Print the variables a source fragment sets",
	Long: `Print the variable assignments of an rc fragment. With no argument the
workspace's .cshrc.project is located by walking up from the current
directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
			root, err := workspace.Root(cwd)
			if err != nil {
				return err
			}
			path = filepath.Join(root, workspace.CshSourceFile)
		}

		entries, err := rcfile.ParseFile(path)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(empty)")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", e.Key, e.Value)
		}
		return nil
	},
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the source fragments of the current workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		root, err := workspace.Root(cwd)
		if err != nil {
			return err
		}

		for _, name := range []string{workspace.CshSourceFile, workspace.ShSourceFile} {
			path := filepath.Join(root, name)
			if _, statErr := os.Stat(path); statErr == nil {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
		}
		return nil
	},
}
