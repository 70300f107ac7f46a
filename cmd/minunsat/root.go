// Package minunsat is the CLI front-end: three cobra verbs wrapping the
// orchestrator, the closed-form evaluator and the UNSAT-only counter,
// matching gophersat's own main.go in spirit (a thin flag-parsing shell
// around the library packages that do the actual work) but built on
// cobra/viper rather than the standard flag package, per this repo's
// wider CLI ambient stack.
package minunsat

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/satlab/minunsat/internal/obslog"
)

var (
	verbose    bool
	configPath string
)

// RootCmd is the top-level "minunsat" command; Execute is called from
// main.
var RootCmd = &cobra.Command{
	Use:   "minunsat",
	Short: "Enumerate and count Minimally Unsatisfiable k-CNF formulas",
	Long: `minunsat counts Minimally Unsatisfiable k-CNF formulas over v Boolean
variables with exactly c clauses of k literals each, subject to every
variable appearing at least once.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		obslog.SetVerbose(verbose)
		if configPath != "" {
			viper.SetConfigFile(configPath)
			if err := viper.ReadInConfig(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not read config %q: %v\n", configPath, err)
				return
			}
			applyConfigOverrides(cmd)
		}
	},
}

// applyConfigOverrides gives every flag of cmd the documented flags > config
// file > defaults precedence: a flag the user passed explicitly
// (f.Changed) is left alone, a flag the user left at its default is
// overwritten with the config file's value if one was loaded, and a flag
// absent from the config file keeps its compiled-in default untouched.
func applyConfigOverrides(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !viper.IsSet(f.Name) {
			return
		}
		if err := f.Value.Set(viper.GetString(f.Name)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: config key %q: %v\n", f.Name, err)
		}
	})
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional config file overriding flag defaults")
	RootCmd.AddCommand(countCmd, formulaCmd, unsatCmd)
}

// Execute runs the root command; main's only job is to call this and set
// the exit code.
func Execute() error {
	return RootCmd.Execute()
}
