// Package main provides the CLI entry point for resow, a small benchmark
// that generates a random dataset, summarizes it, sorts it with a chosen
// algorithm and records how long each phase took.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/weiihann/resow/harness"
	"github.com/weiihann/resow/report"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(logger, level)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "resow <dataset_size> <buffer_size> <filename_stem> <algorithm_mode>",
		Short: "Dataset sort and statistics benchmark",
		Long: `Resow generates <filename_stem>.txt with <dataset_size> random values
(unless it already exists), loads it, computes the average, max and min,
sorts it with the selected algorithm and writes <filename_stem>_result.txt.
Per-phase timings are appended to the shared timing log.

Algorithm modes: qs (library sort), ss (selection sort), is (insertion sort).

Put flags before "--" when a positional value starts with a dash.`,
		Example:       "  resow 1000 4096 dataset ss",
		Args:          positionalArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}

			if err := readConfigFile(v); err != nil {
				return err
			}

			if v.GetBool("debug") {
				level.Set(slog.LevelDebug)
			}

			cfg, err := parseArgs(args)
			if err != nil {
				return err
			}

			cfg.Dir = v.GetString("dir")
			cfg.Seed = v.GetInt64("seed")

			return runBenchmark(cmd, logger, cfg, runOptions{
				timeLog:    resolveTimeLog(cfg.Dir, v.GetString("time-log")),
				outputJSON: v.GetBool("json"),
				debug:      v.GetBool("debug"),
			})
		},
	}

	flags := root.Flags()
	flags.String("dir", "",
		"Directory for the dataset and result files (default: working directory)")
	flags.String("time-log", report.DefaultTimingLog,
		"Timing log appended after every run, relative to --dir")
	flags.Int64("seed", 0,
		"Random seed for dataset generation (0 = use current time)")
	flags.Bool("json", false,
		"Output the run result as JSON instead of a table")
	flags.Bool("debug", false,
		"Enable debug logging and dump the resolved config")
	flags.String("config", "",
		"Optional config file (yaml, toml or json) providing flag defaults")

	return root
}

// bindFlags lets a config file and RESOW_* environment variables supply
// any flag the command line leaves unset.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix("resow")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var errs []error

	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			errs = append(errs, fmt.Errorf("bind flag %s: %w", f.Name, err))
		}
	})

	return errors.Join(errs...)
}

func readConfigFile(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	return nil
}

func positionalArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(4)(cmd, args); err != nil {
		cmd.PrintErrln(cmd.UsageString())

		return err
	}

	return nil
}

func parseArgs(args []string) (harness.Config, error) {
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return harness.Config{}, fmt.Errorf("parse dataset size %q: %w", args[0], err)
	}

	bufSize, err := strconv.Atoi(args[1])
	if err != nil {
		return harness.Config{}, fmt.Errorf("parse buffer size %q: %w", args[1], err)
	}

	cfg := harness.Config{
		DatasetSize: size,
		BufferSize:  bufSize,
		Stem:        args[2],
		Mode:        args[3],
	}

	if err := cfg.Validate(); err != nil {
		return harness.Config{}, err
	}

	return cfg, nil
}

func resolveTimeLog(dir, path string) string {
	if path == "" {
		path = report.DefaultTimingLog
	}

	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}

type runOptions struct {
	timeLog    string
	outputJSON bool
	debug      bool
}

func runBenchmark(
	cmd *cobra.Command,
	logger *slog.Logger,
	cfg harness.Config,
	opts runOptions,
) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if opts.debug {
		pp.Fprintln(cmd.ErrOrStderr(), cfg)
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	progress := out
	if opts.outputJSON {
		progress = cmd.ErrOrStderr()
	}

	runner := harness.NewRunner(logger, report.FileLog{Path: opts.timeLog},
		harness.WithProgress(progress))

	res, runErr := runner.Run(ctx, cfg)
	if res == nil {
		return runErr
	}

	if opts.outputJSON {
		if err := report.GenerateJSON(out, res); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		fmt.Fprintln(out)
		if err := report.Generate(out, res.Timing); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run completed with errors: %w", runErr)
	}

	logger.DebugContext(ctx, "benchmark complete",
		slog.String("time_log", opts.timeLog),
	)

	return nil
}
