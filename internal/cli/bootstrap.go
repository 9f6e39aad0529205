package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sitar-eda/sitar/internal/config"
	"github.com/sitar-eda/sitar/internal/rcfile"
	"github.com/sitar-eda/sitar/internal/resolver"
)

var (
	bootstrapShell string
	bootstrapDir   string
)

func init() {
	bootstrapCmd.Flags().StringVar(&bootstrapShell, "shell", "", "Output syntax: csh or sh (default from config)")
	bootstrapCmd.Flags().StringVar(&bootstrapDir, "dir", "", "Workspace directory (default current directory)")
	rootCmd.AddCommand(bootstrapCmd)
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Resolve the workspace shell environment",
	Long: `Resolve the layered workspace configuration and print the resulting
environment as an eval-able script.

The resolution sources the workspace .cshrc.project, then the tool config
.cshrc.project named by QC_CONFIG_DIR, then re-points HOME at the vendor
modeler skill directory (saving the original in QC_HOME_DIR) when
RFA_MODELERS_DIR provides a readable skill/.cshrc.

Diagnostics go to stderr; only the changed bindings go to stdout. Every
step runs even when an earlier one fails, and the command always exits 0:
the operator reads the diagnostics and stays in the (possibly partially
configured) shell. Typical use from ~/.cshrc:

  eval ` + "`sitar bootstrap`",
	RunE: func(cmd *cobra.Command, args []string) error {
		shellName := bootstrapShell
		if shellName == "" {
			shellName = config.Get(config.KeyShell)
		}
		flavor, err := rcfile.ParseFlavor(shellName)
		if err != nil {
			return err
		}

		dir := bootstrapDir
		if dir == "" {
			if dir, err = os.Getwd(); err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
		}

		env := resolver.NewEnviron(os.Environ())
		result := resolver.Resolve(env, dir)

		for _, diag := range result.Diagnostics {
			fmt.Fprintln(cmd.ErrOrStderr(), diag.String())
		}
		logger.Debug("bootstrap resolved",
			zap.String("dir", dir),
			zap.Int("diagnostics", len(result.Diagnostics)),
			zap.Int("bindings", len(env.Changed())))

		var entries []rcfile.Entry
		for _, b := range env.Changed() {
			entries = append(entries, rcfile.Entry{Key: b.Key, Value: b.Value})
		}
		return rcfile.WriteScript(cmd.OutOrStdout(), flavor, entries)
	},
}
