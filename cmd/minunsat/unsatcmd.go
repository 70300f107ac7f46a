package minunsat

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/satlab/minunsat/catalog"
	"github.com/satlab/minunsat/comb"
	"github.com/satlab/minunsat/formula"
	"github.com/satlab/minunsat/orchestrator"
)

var (
	unsatV      int
	unsatL      int
	unsatC      int
	unsatCPU    bool
	unsatOut    string
	unsatVerify bool
)

var unsatCmd = &cobra.Command{
	Use:   "unsat",
	Short: "Count formulas that are merely UNSAT (not necessarily minimal), and optionally log the result to CSV",
	RunE:  runUnsat,
}

func init() {
	f := unsatCmd.Flags()
	f.IntVarP(&unsatV, "vars", "v", 0, "number of variables (required)")
	f.IntVarP(&unsatL, "literals", "l", 2, "literals per clause, 2 or 3")
	f.IntVarP(&unsatC, "clauses", "c", 0, "number of clauses (required)")
	f.BoolVar(&unsatCPU, "cpu", false, "force the CPU / many-vars engine")
	f.StringVarP(&unsatOut, "output", "o", "", "append a CSV record of this run to the given path")
	f.BoolVar(&unsatVerify, "verify", false, "cross-check the result against the closed-form evaluator when l=2")
	_ = unsatCmd.MarkFlagRequired("vars")
	_ = unsatCmd.MarkFlagRequired("clauses")
}

func runUnsat(cmd *cobra.Command, args []string) error {
	res, err := orchestrator.Run(context.Background(), orchestrator.Params{
		V: unsatV, K: unsatL, C: unsatC, ForceCPU: unsatCPU,
		Mode: orchestrator.ModeUnsatOnly,
	})
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()
	p.Fprintf(out, "RESULT: f_all(v=%d, l=%d, c=%d) = %d\n", unsatV, unsatL, unsatC, res.Count)

	if unsatVerify && unsatL == 2 {
		if !atStructuralMinimum(unsatV, unsatC) {
			fmt.Fprintln(out, "verify: skipped, c is above the structural minimum where UNSAT and MU coincide")
		} else if err := verifyAgainstFormula(out, unsatV, unsatC, res.Count); err != nil {
			return err
		}
	}

	if unsatOut != "" {
		if err := appendCSVRecord(unsatOut, unsatV, unsatL, unsatC, res); err != nil {
			return fmt.Errorf("unsat: writing csv: %w", err)
		}
	}
	return nil
}

// atStructuralMinimum reports whether c is exactly the smallest clause
// count admitting an UNSAT 2-CNF over v variables: the one point where
// UNSAT(v,c) and MU(v,c) coincide, since any formula at the minimum is
// forced to use every clause with no redundancy.
func atStructuralMinimum(v, c int) bool {
	if v == 2 {
		return c == 4
	}
	return c == v+1
}

func verifyAgainstFormula(out io.Writer, v, c int, got uint64) error {
	want, err := formula.Evaluate(v, c)
	if err != nil {
		return err
	}
	if int64(got) != want.Int64() {
		return fmt.Errorf("unsat: engine count %d disagrees with closed-form %s for v=%d c=%d", got, want.String(), v, c)
	}
	fmt.Fprintln(out, "verify: engine agrees with closed-form evaluator")
	return nil
}

// appendCSVRecord appends one row to path, writing a "#"-prefixed comment
// preamble plus a header line the first time the file is created; the file
// is never truncated, so rows from repeated runs accumulate.
func appendCSVRecord(path string, v, l, c int, res orchestrator.Result) error {
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, "# minunsat unsat run log"); err != nil {
			return err
		}
	}

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write([]string{"v", "l", "c", "UNSAT", "Combinations", "TimeMs", "Mode"}); err != nil {
			return err
		}
	}
	mode := string(res.Engine)
	if res.Cancelled {
		mode += "+Cancelled"
	}
	cat, err := catalog.Build(v, l)
	if err != nil {
		return err
	}
	combinations := comb.NewRanker(cat.T, c).Count(cat.T, c)
	record := []string{
		strconv.Itoa(v), strconv.Itoa(l), strconv.Itoa(c),
		strconv.FormatUint(res.Count, 10),
		strconv.FormatUint(combinations, 10),
		strconv.FormatInt(res.Elapsed.Milliseconds(), 10),
		mode,
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
