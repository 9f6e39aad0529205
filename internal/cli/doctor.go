package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/sitar-eda/sitar/internal/logging"
	"github.com/sitar-eda/sitar/internal/resolver"
)

var (
	checkEnv     bool
	checkTools   bool
	checkProject bool
	doctorFix    bool
)

func init() {
	doctorCmd.Flags().BoolVar(&checkEnv, "check-env", false, "Check the bootstrap environment resolution")
	doctorCmd.Flags().BoolVar(&checkTools, "check-tools", false, "Check required tools on PATH")
	doctorCmd.Flags().BoolVar(&checkProject, "check-project", false, "Validate the project definition")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create missing directories")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the workspace environment",
	Long:  `Run diagnostic checks on the bootstrap environment, tools, and project definition.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		anyFlag := checkEnv || checkTools || checkProject

		if !anyFlag || checkEnv {
			runEnvCheck(out)
		}
		if !anyFlag || checkTools {
			runToolsCheck(out)
		}
		if !anyFlag || checkProject {
			runProjectCheck(out)
		}
		if !anyFlag {
			runLogsCheck(out, doctorFix)
		}
		return nil
	},
}

// runEnvCheck performs a dry resolution over the real environment and
// working directory, reporting what bootstrap would say. Nothing is
// exported: the resolver mutates only its own record.
func runEnvCheck(w io.Writer) {
	fmt.Fprintln(w, "Bootstrap check:")

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] resolving working directory: %v\n", err)
		return
	}

	env := resolver.NewEnviron(os.Environ())
	result := resolver.Resolve(env, cwd)
	if len(result.Diagnostics) == 0 {
		fmt.Fprintf(w, "  [ OK ] all four resolution steps pass in %s\n", cwd)
	}
	for _, diag := range result.Diagnostics {
		tag := "[MISS]"
		if diag.Severity == resolver.Advisory {
			tag = "[WARN]"
		}
		fmt.Fprintf(w, "  %s %s\n", tag, diag.Message)
	}

	if home, ok := env.Get(resolver.EnvHome); ok {
		fmt.Fprintf(w, "  [INFO] HOME would resolve to %s\n", home)
	}
}

func runToolsCheck(w io.Writer) {
	fmt.Fprintln(w, "Tools check:")
	sda := "sda"
	if def, err := loadProject(wsProjectPath); err == nil && def.SDAPath != "" {
		sda = def.SDAPath
	}
	checkBinary(w, sda)
	checkBinary(w, "tcsh")
	checkBinary(w, "xterm")
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}

func runProjectCheck(w io.Writer) {
	fmt.Fprintln(w, "Project check:")

	def, err := loadProject(wsProjectPath)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	fmt.Fprintf(w, "  [ OK ] valid definition for %s\n", def.Name())

	if err := def.CheckToolVersion(buildVersion); err != nil {
		fmt.Fprintf(w, "  [WARN] %v\n", err)
	}
	if _, err := os.Stat(def.ConfigRoot()); err != nil {
		fmt.Fprintf(w, "  [MISS] config root %s is not accessible\n", def.ConfigRoot())
	} else {
		fmt.Fprintf(w, "  [ OK ] config root %s\n", def.ConfigRoot())
	}
}

func runLogsCheck(w io.Writer, fix bool) {
	fmt.Fprintln(w, "Logs check:")
	dir := logging.Dir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", dir)
		if fix {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				fmt.Fprintf(w, "  [FAIL] could not create %s: %v\n", dir, mkErr)
				return
			}
			fmt.Fprintf(w, "  [FIX ] created %s\n", dir)
		}
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", dir)
}
