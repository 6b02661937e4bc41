package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yuya-takeyama/strict-dir-compare/internal/config"
	"github.com/yuya-takeyama/strict-dir-compare/internal/logging"
	"github.com/yuya-takeyama/strict-dir-compare/internal/progress"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/hasher"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/logger"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/reconcile"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/verifier"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

type compareConfig struct {
	configFile     string
	policy         string
	onError        string
	excludes       []string
	failOnMismatch bool
	quiet          bool
	color          string
	progress       bool
	logLevel       string
	resultJSONFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printFatal(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfg compareConfig

	rootCmd := &cobra.Command{
		Use:   "strict-dir-compare <src> <dst>",
		Short: "Verify two directories hold identical files using BLAKE2b checksums",
		Long: `strict-dir-compare checks a copy or backup of a directory against the original.
Top-level files present on both sides are hashed with BLAKE2b and compared by name.
Files present on one side only and subdirectories are skipped.`,
		Version:       fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if err := mergeConfig(cmd, &cfg); err != nil {
				return err
			}
			return run(cmd.Context(), &cfg, args[0], args[1], stdout, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.configFile, "config", "", "Path to an INI file with default settings")
	flags.StringVar(&cfg.policy, "policy", string(hasher.PolicyContinue), "What to do on an excluded name or subdirectory: continue or halt")
	flags.StringVar(&cfg.onError, "on-error", string(hasher.ErrorModeAbort), "What to do when a file cannot be read: abort or record")
	flags.StringSliceVar(&cfg.excludes, "exclude", nil, "Exclude names matching pattern (multiple allowed)")
	flags.BoolVar(&cfg.failOnMismatch, "fail-on-mismatch", false, "Exit with status 1 when any file does not match")
	flags.BoolVar(&cfg.quiet, "quiet", false, "Only print comparison results")
	flags.StringVar(&cfg.color, "color", string(logger.ColorAuto), "Colorize output: auto, always or never")
	flags.BoolVar(&cfg.progress, "progress", false, "Show a progress bar on stderr while hashing")
	flags.StringVar(&cfg.logLevel, "log-level", "info", "Log level for diagnostics on stderr (debug, info, warn, error)")
	flags.StringVar(&cfg.resultJSONFile, "result-json-file", "", "Path to output result as JSON file")

	return rootCmd
}

// mergeConfig fills every setting not given on the command line from the config file
func mergeConfig(cmd *cobra.Command, cfg *compareConfig) error {
	file, err := config.Load(cfg.configFile)
	if err != nil {
		return err
	}

	cc, err := file.GetCompareConfig()
	if err != nil {
		return err
	}
	oc, err := file.GetOutputConfig()
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if !changed("policy") {
		cfg.policy = cc.Policy
	}
	if !changed("on-error") {
		cfg.onError = cc.OnError
	}
	if !changed("exclude") {
		cfg.excludes = cc.Exclude
	}
	if !changed("fail-on-mismatch") {
		cfg.failOnMismatch = cc.FailOnMismatch
	}
	if !changed("color") {
		cfg.color = oc.Color
	}
	if !changed("progress") {
		cfg.progress = oc.Progress
	}
	if !changed("log-level") {
		cfg.logLevel = oc.LogLevel
	}
	if !changed("result-json-file") {
		cfg.resultJSONFile = oc.ResultJSONFile
	}

	return nil
}

func run(ctx context.Context, cfg *compareConfig, src, dst string, stdout, stderr io.Writer) error {
	policy, err := hasher.ParsePolicy(cfg.policy)
	if err != nil {
		return err
	}
	errorMode, err := hasher.ParseErrorMode(cfg.onError)
	if err != nil {
		return err
	}
	colorMode, err := logger.ParseColorMode(cfg.color)
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(stderr, cfg.logLevel, cfg.quiet)
	if err != nil {
		return err
	}

	var reporter logger.Reporter = logger.NewConsoleReporter(stdout, colorMode)
	if cfg.quiet {
		reporter = logger.NewQuietReporter(stdout, colorMode)
	}

	opts := verifier.Options{
		Policy:    policy,
		ErrorMode: errorMode,
		Excludes:  cfg.excludes,
		Reporter:  reporter,
		Logger:    log,
	}
	if cfg.progress {
		opts.Progress = func(dir string, totalBytes int64) verifier.ProgressBar {
			return progress.New(stderr, totalBytes, filepath.Base(dir))
		}
	}

	report, err := verifier.New(opts).Run(ctx, src, dst)
	if err != nil {
		return err
	}

	log.PrintSummary(logging.Summary{
		Compared:    report.Summary.Total,
		Matched:     report.Summary.Matched,
		Mismatched:  report.Summary.Mismatched,
		Missing:     report.Summary.Missing,
		Errors:      report.Summary.Errors,
		Excluded:    report.Exclusions.Excluded.Len(),
		BytesHashed: report.BytesHashed,
		Duration:    report.Duration,
	})

	if cfg.resultJSONFile != "" {
		if err := writeCompareResult(cfg.resultJSONFile, report); err != nil {
			return fmt.Errorf("failed to write result JSON: %w", err)
		}
	}

	if cfg.failOnMismatch && report.HasMismatch() {
		return fmt.Errorf("%w: %d of %d files did not match", verifier.ErrMismatch,
			report.Summary.Total-report.Summary.Matched, report.Summary.Total)
	}

	return nil
}

// printFatal prints err in red, using the fixed wording for known conditions
func printFatal(w io.Writer, err error) {
	red := color.New(color.FgRed)

	switch {
	case errors.Is(err, verifier.ErrSamePath):
		red.Fprintln(w, "Can't compare a path to itself")
	case errors.Is(err, reconcile.ErrNoMatchingFiles):
		red.Fprintln(w, "No matching files to hash")
	case errors.Is(err, context.Canceled):
		red.Fprintln(w, "Interrupted")
	default:
		red.Fprintf(w, "Error: %v\n", err)
	}
}
