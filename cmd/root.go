package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/inference-sim/rwbench/bench"
	"github.com/inference-sim/rwbench/rwlock"
)

var (
	// CLI flags for the run command
	seed               int64  // Master seed for list population and worker generators
	logLevel           string // Log verbosity level
	lockKind           string // Lock implementation: custom or platform
	keyDomain          int    // Keys are drawn from [0, keyDomain)
	workloadName       string // Preset name in the workload config file (skips prompts)
	workloadConfigPath string // Path to the workload presets file
	resultsPath        string // Optional JSON results output
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rwbench",
	Short: "Reader-writer lock benchmark over a shared sorted list",
}

// runOptions is everything runBenchmark needs from the command line.
type runOptions struct {
	Threads            int
	Seed               int64
	LockKind           string
	KeyDomain          int
	WorkloadName       string
	WorkloadConfigPath string
	ResultsPath        string
}

// parseThreads validates the single positional argument.
func parseThreads(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("number_of_threads must be a base-10 integer, got %q", args[0])
	}
	if n <= 0 {
		return fmt.Errorf("number_of_threads must be positive, got %d", n)
	}
	return nil
}

// runCmd executes the benchmark using the thread count argument and CLI flags
var runCmd = &cobra.Command{
	Use:   "run <number_of_threads>",
	Short: "Run the reader-writer lock benchmark",
	Args:  parseThreads,
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		threads, _ := strconv.Atoi(args[0]) // validated by parseThreads
		opts := runOptions{
			Threads:            threads,
			Seed:               seed,
			LockKind:           lockKind,
			KeyDomain:          keyDomain,
			WorkloadName:       workloadName,
			WorkloadConfigPath: workloadConfigPath,
			ResultsPath:        resultsPath,
		}
		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		if err := runBenchmark(cmd.Context(), opts, os.Stdin, os.Stdout, interactive); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// runBenchmark resolves the workload, runs it and prints the report to out.
// Prompts are written to out only when interactive is true; answers are always
// read from in unless a preset is selected.
func runBenchmark(ctx context.Context, opts runOptions, in io.Reader, out io.Writer, interactive bool) error {
	if !rwlock.IsValidLockKind(opts.LockKind) {
		return fmt.Errorf("unknown lock kind %q (valid: %s, %s)", opts.LockKind, rwlock.KindCustom, rwlock.KindPlatform)
	}

	var cfg bench.WorkloadConfig
	if opts.WorkloadName != "" {
		preset, err := LoadWorkloadPreset(opts.WorkloadConfigPath, opts.WorkloadName)
		if err != nil {
			return err
		}
		logrus.Infof("Using preset workload %v", opts.WorkloadName)
		cfg = preset.Config(opts.Threads)
	} else {
		answers := PromptWorkload(in, out, interactive)
		cfg = bench.NewWorkloadConfig(opts.Threads, answers.TotalOps, answers.InitialKeys, answers.Search, answers.Insert)
	}
	cfg.Seed = opts.Seed
	cfg.KeyDomain = opts.KeyDomain
	cfg.LockKind = opts.LockKind
	logrus.Debugf("workload config:\n%s", spew.Sdump(cfg))

	h, err := bench.NewHarness(cfg, rwlock.NewLocker(opts.LockKind))
	if err != nil {
		return err
	}
	h.Populate()

	host := HostSummary()
	preview := h.Preview()
	preview.Host = host
	preview.PrintHeader(out)

	report, err := h.Run(ctx)
	if err != nil {
		return err
	}
	report.Host = host
	report.PrintResults(out)

	if opts.ResultsPath != "" {
		if err := report.SaveResults(opts.ResultsPath); err != nil {
			return fmt.Errorf("saving results: %w", err)
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", bench.DefaultSeed, "Seed for list population and per-worker operation streams")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&lockKind, "lock", rwlock.KindCustom, "Lock implementation (custom, platform)")
	runCmd.Flags().IntVar(&keyDomain, "key-domain", bench.DefaultKeyDomain, "Keys are drawn uniformly from [0, key-domain)")

	// Workload presets
	runCmd.Flags().StringVar(&workloadName, "workload", "", "Preset workload name; skips the interactive prompts")
	runCmd.Flags().StringVar(&workloadConfigPath, "workload-config", "defaults.yaml", "Path to the workload presets file")

	// Output
	runCmd.Flags().StringVar(&resultsPath, "results", "", "Also write the report as JSON to this path")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
