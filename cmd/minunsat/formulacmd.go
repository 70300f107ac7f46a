package minunsat

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/satlab/minunsat/formula"
)

var (
	formulaV      int
	formulaC      int
	formulaDiag   bool
	formulaVerify bool
	formulaFast   bool
)

// verifySlowAboveV is the variable count above which formula.Evaluate's
// direct C(T,c)-subset enumeration stops being practical: the known-value
// table's v=6 rows reach C(60,12), on the order of 10^12 candidates.
const verifySlowAboveV = 5

var formulaCmd = &cobra.Command{
	Use:   "formula",
	Short: "Compute the 2-SAT MU count f_all(v,c) with the independent reference evaluator",
	RunE:  runFormula,
}

func init() {
	f := formulaCmd.Flags()
	f.IntVarP(&formulaV, "vars", "v", 0, "number of variables (required)")
	f.IntVarP(&formulaC, "clauses", "c", 0, "number of clauses (required)")
	f.BoolVarP(&formulaDiag, "diagonal", "d", false, "print the diagonal parameter d = c - v alongside the result")
	f.BoolVar(&formulaVerify, "verify", false, "ignore -v/-c and check every entry of the known-value table instead")
	f.BoolVar(&formulaFast, "fast", false, "with --verify, skip v=6 rows: Evaluate enumerates C(60,c) subsets directly and can take days")
	_ = formulaCmd.MarkFlagRequired("vars")
	_ = formulaCmd.MarkFlagRequired("clauses")
}

func runFormula(cmd *cobra.Command, args []string) error {
	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()

	if formulaVerify {
		warnedSlow := false
		failures := 0
		for _, kv := range formula.KnownValues {
			if kv.V > verifySlowAboveV {
				if formulaFast {
					continue
				}
				if !warnedSlow {
					fmt.Fprintf(os.Stderr, "warning: verifying v=%d+ rows directly enumerates over a trillion candidates and can take days; pass --fast to skip them\n", verifySlowAboveV+1)
					warnedSlow = true
				}
			}
			got, err := formula.Evaluate(kv.V, kv.C)
			if err != nil {
				return err
			}
			if got.Int64() != kv.Want {
				failures++
				p.Fprintf(out, "MISMATCH v=%d c=%d got=%s want=%d\n", kv.V, kv.C, got.String(), kv.Want)
			}
		}
		if failures == 0 {
			fmt.Fprintln(out, "OK: all known values verified")
			return nil
		}
		return fmt.Errorf("formula: %d known-value mismatches", failures)
	}

	got, err := formula.Evaluate(formulaV, formulaC)
	if err != nil {
		return err
	}
	p.Fprintf(out, "RESULT: f_all(v=%d, c=%d) = %s\n", formulaV, formulaC, got.String())
	if formulaDiag {
		p.Fprintf(out, "diagonal d = %d\n", formula.Diagonal(formulaV, formulaC))
	}
	return nil
}
