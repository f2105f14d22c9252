// Package cli owns the invocation surface of a driver program: flag
// parsing and run-mode selection. The facade supplies the behavior for
// each mode.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

// Mode selects how a driver invocation runs.
type Mode int

const (
	// ModeInteractive accepts ad hoc cases from the terminal, one per
	// loop iteration.
	ModeInteractive Mode = iota
	// ModeStream reads all input from stdin and writes to stdout.
	ModeStream
	// ModeFile reads from a named file ("-" for stdin) and writes to a
	// named file, or stdout when no output file is given.
	ModeFile
	// ModeTest runs the compiled fixture suite.
	ModeTest
)

// Options captures one parsed invocation.
type Options struct {
	Mode     Mode
	Infile   string
	Outfile  string // empty means stdout
	Workers  int    // 1 = sequential, 0 = one worker per CPU
	Profile  bool
	LogLevel string
}

// Route decides the run mode from the positional arguments and the
// mode-affecting flags.
func Route(args []string, test bool, workers int, profile bool) (Options, error) {
	opts := Options{Workers: workers, Profile: profile}

	switch {
	case test:
		opts.Mode = ModeTest
		if len(args) > 0 {
			return opts, errors.New("--test takes no positional arguments")
		}
	case len(args) == 0:
		opts.Mode = ModeInteractive
		if workers != 1 {
			return opts, errors.New("concurrent workers cannot be used with interactive input")
		}
		if profile {
			return opts, errors.New("profiling cannot be used with interactive input")
		}
	case len(args) == 1 && args[0] == "-":
		opts.Mode = ModeStream
	default:
		opts.Mode = ModeFile
		opts.Infile = args[0]
		if len(args) > 1 {
			opts.Outfile = args[1]
		}
	}
	return opts, nil
}

// NewCommand builds the cobra command wrapping a driver program.
func NewCommand(name, short string, run func(ctx context.Context, opts Options) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           name + " [infile [outfile]]",
		Short:         short,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			test, _ := cmd.Flags().GetBool("test")
			workers, _ := cmd.Flags().GetInt("workers")
			profile, _ := cmd.Flags().GetBool("profile")
			logLevel, _ := cmd.Flags().GetString("log-level")

			opts, err := Route(args, test, workers, profile)
			if err != nil {
				return err
			}
			opts.LogLevel = logLevel
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().Bool("test", false, "run the compiled fixture suite instead of solving input")
	cmd.Flags().IntP("workers", "w", 1, "number of concurrent workers (0 = one per CPU)")
	cmd.Flags().Bool("profile", false, "print a per-case timing table to stderr after the run")
	cmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")

	return cmd
}
