package minunsat

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/satlab/minunsat/orchestrator"
)

var (
	countV             int
	countL             int
	countC             int
	countCPU           bool
	countCheckpoint    bool
	countCheckpointDir string
	countPrefixDepth   int
	countWorkers       int
	countBenchmark     bool
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count Minimally Unsatisfiable formulas for a given (v, l, c)",
	RunE:  runCount,
}

func init() {
	f := countCmd.Flags()
	f.IntVarP(&countV, "vars", "v", 0, "number of variables (required)")
	f.IntVarP(&countL, "literals", "l", 2, "literals per clause, 2 or 3")
	f.IntVarP(&countC, "clauses", "c", 0, "number of clauses (required)")
	f.BoolVar(&countCPU, "cpu", false, "force the CPU / many-vars engine, bypassing prefix-pruned hybrid selection")
	f.BoolVar(&countCheckpoint, "checkpoint", false, "enable checkpointing and resume-on-restart")
	f.StringVar(&countCheckpointDir, "checkpoint-dir", "Checkpoints", "checkpoint directory")
	f.IntVarP(&countPrefixDepth, "prefix-depth", "p", 0, "force the V3 prefix depth; 0 means use the default for c")
	f.IntVar(&countWorkers, "workers", 0, "worker budget; 0 means GOMAXPROCS")
	f.BoolVar(&countBenchmark, "benchmark", false, "print elapsed wall-clock time alongside the result")
	_ = countCmd.MarkFlagRequired("vars")
	_ = countCmd.MarkFlagRequired("clauses")
}

func runCount(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			cancel()
		}
	}()

	res, err := orchestrator.Run(ctx, orchestrator.Params{
		V: countV, K: countL, C: countC,
		ForceCPU:         countCPU,
		ForcePrefixDepth: countPrefixDepth,
		EnableCheckpoint: countCheckpoint,
		CheckpointDir:    countCheckpointDir,
		Parallelism:      countWorkers,
	})
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()
	if res.Cancelled {
		p.Fprintf(out, "[Cancelled] Processed: %d / %d\n", res.ProcessedUnits, res.TotalUnits)
		p.Fprintf(out, "[Partial] MIN-UNSAT count so far: %d\n", res.Count)
	} else {
		p.Fprintf(out, "RESULT: f_all(v=%d, l=%d, c=%d) = %d\n", countV, countL, countC, res.Count)
	}
	if countBenchmark {
		fmt.Fprintf(cmd.OutOrStdout(), "engine=%s elapsed=%s run_id=%s\n", res.Engine, res.Elapsed, res.RunID)
	}
	return nil
}
