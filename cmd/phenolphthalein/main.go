// Command phenolphthalein is the CLI adapter around the litmus-test
// execution engine. Flag parsing, configuration-file loading, dynamic
// test-module loading, and signal handling for graceful shutdown are
// deliberately thin here — the engine in internal/engine is the tested
// core; this binary only wires spec.md §6's flag table to it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dijkstracula/phenolphthalein/internal/engine"
	"github.com/dijkstracula/phenolphthalein/internal/fixtures"
	"github.com/dijkstracula/phenolphthalein/internal/histogram"
	"github.com/dijkstracula/phenolphthalein/internal/module"
	"github.com/dijkstracula/phenolphthalein/internal/permute"
	"github.com/dijkstracula/phenolphthalein/internal/rendezvous"
)

type flags struct {
	iterations int
	period     int
	sync       string
	permute    string
	check      string
	output     string
	builtin    string
	seed       int64
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var f flags

	cmd := &cobra.Command{
		Use:   "phenolphthalein",
		Short: "Run a fixed-input, fixed-threading concurrency litmus test",
		RunE: func(_ *cobra.Command, _ []string) error {
			return execute(f)
		},
	}

	cmd.Flags().IntVar(&f.iterations, "iterations", 0, "iteration cap (0 = unbounded)")
	cmd.Flags().IntVar(&f.period, "period", 0, "thread-rotation period (0 = never)")
	cmd.Flags().StringVar(&f.sync, "sync", "spinner", "synchroniser: spinner|barrier")
	cmd.Flags().StringVar(&f.permute, "permute", "static", "permuter: static|random")
	cmd.Flags().StringVar(&f.check, "check", "report", "check policy: disable|report|exit-on-pass|exit-on-fail|exit-on-unknown")
	cmd.Flags().StringVar(&f.output, "output-type", "histogram", "output format: histogram|json")
	cmd.Flags().StringVar(&f.builtin, "builtin", "sb", "built-in demo module: sb|sb-always-pass|sb-always-fail|counter")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "PRNG seed for the random permuter")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "enable debug logging")

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func execute(f flags) error {
	log := logrus.New()
	if f.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	mod, err := builtinModule(f.builtin)
	if err != nil {
		return err
	}

	checkPolicy, err := histogram.ParseCheckPolicy(f.check)
	if err != nil {
		return err
	}

	cfg := engine.Config{
		Iterations: f.iterations,
		Period:     f.period,
		Sync:       rendezvous.Kind(f.sync),
		Permute:    permute.Kind(f.permute),
		Seed:       f.seed,
		Check:      checkPolicy,
		Logger:     log,
	}

	r, err := engine.NewRunner(mod, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	h, err := r.Run(ctx)
	if err != nil {
		if h != nil {
			printReport(f.output, h)
		}
		return fmt.Errorf("fatal engine error: %w", err)
	}

	return printReport(f.output, h)
}

func builtinModule(name string) (module.TestModule, error) {
	switch name {
	case "sb":
		return fixtures.StoreBuffering(), nil
	case "sb-always-pass":
		return fixtures.StoreBufferingAlwaysAccept(), nil
	case "sb-always-fail":
		return fixtures.StoreBufferingAlwaysReject(), nil
	case "counter":
		return fixtures.SingleThreadCounter(0), nil
	default:
		return nil, fmt.Errorf("%w: --builtin=%q", errUnknownBuiltin, name)
	}
}

var errUnknownBuiltin = errors.New("phenolphthalein: unknown built-in module")

func printReport(format string, h *histogram.Histogram) error {
	switch format {
	case "json":
		return printJSON(h)
	default:
		printHistogram(h)
		return nil
	}
}

func printHistogram(h *histogram.Histogram) {
	fmt.Printf("States:    %d\n", len(h.Entries()))
	fmt.Printf("Total:     %d\n", h.Total())
	for _, e := range h.Entries() {
		fmt.Printf("  %-9s count=%-10d atomic=%v nonAtomic=%v\n", e.Outcome, e.Count, e.State.Atomic, e.State.NonAtomic)
	}
}

type jsonEntry struct {
	Atomic    []int32 `json:"atomic"`
	NonAtomic []int32 `json:"nonAtomic"`
	Outcome   string  `json:"outcome"`
	Count     uint64  `json:"count"`
}

type jsonReport struct {
	Total   uint64      `json:"total"`
	Entries []jsonEntry `json:"entries"`
}

func printJSON(h *histogram.Histogram) error {
	report := jsonReport{Total: h.Total()}
	for _, e := range h.Entries() {
		report.Entries = append(report.Entries, jsonEntry{
			Atomic:    e.State.Atomic,
			NonAtomic: e.State.NonAtomic,
			Outcome:   e.Outcome.String(),
			Count:     e.Count,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
