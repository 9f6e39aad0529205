package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sitar-eda/sitar/internal/branding"
	"github.com/sitar-eda/sitar/internal/config"
	"github.com/sitar-eda/sitar/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	debugOutput bool
	logger      *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` bootstraps the shell environment of chip-design
workspaces: it resolves the layered project configuration for the current
shell, creates and joins DesignSync workspaces, and launches workspace
shells with the right environment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		logger = logging.New(logging.Dir(), debugOutput, config.GetInt(config.KeyLogBackupCount))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugOutput, "debug", false, "Enable debug output")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}
