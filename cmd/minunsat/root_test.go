package minunsat

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestApplyConfigOverridesRespectsFlagPrecedence(t *testing.T) {
	defer viper.Reset()
	viper.Set("vars", "9")
	viper.Set("clauses", "10")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var vars, clauses int
	fs.IntVar(&vars, "vars", 0, "")
	fs.IntVar(&clauses, "clauses", 0, "")
	if err := fs.Set("clauses", "5"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().AddFlagSet(fs)

	applyConfigOverrides(cmd)

	if vars != 9 {
		t.Errorf("vars = %d, want 9 (config fills an unset flag)", vars)
	}
	if clauses != 5 {
		t.Errorf("clauses = %d, want 5 (an explicit flag must win over config)", clauses)
	}
}

func TestApplyConfigOverridesLeavesUnconfiguredFlagAtDefault(t *testing.T) {
	defer viper.Reset()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var cpu bool
	fs.BoolVar(&cpu, "cpu", false, "")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().AddFlagSet(fs)

	applyConfigOverrides(cmd)

	if cpu {
		t.Errorf("cpu = true, want false (no config key, no flag, keep the default)")
	}
}
