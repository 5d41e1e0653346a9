package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/aryankumar/crunch/internal/executor"
	"github.com/aryankumar/crunch/internal/util"
	"github.com/spf13/cobra"
)

// newAggregateCmd creates the one-shot aggregate command
func newAggregateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate [numbers...]",
		Short: "Aggregate the given numbers, or a generated dataset",
		Long: `Run a single parallel aggregation and print the report.

With arguments the dataset is exactly the given integers. Without arguments a
dataset of --count numbers below --bound is generated and displayed first.`,
		Example: `  # Aggregate explicit values
  crunch aggregate 51 60 10 5 99

  # Aggregate 100 generated numbers below 1000 as JSON
  crunch aggregate -n 100 -b 1000 -o json`,
		Aliases:           []string{"agg"},
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	return cmd
}

func runAggregate(ctx context.Context, opts *rootOptions, args []string, out, errOut io.Writer) error {
	values, err := parseNumbers(args)
	if err != nil {
		return err
	}

	s := newSession(opts.cfg, opts.logger, out)
	if err := s.start(ctx); err != nil {
		return err
	}

	if values != nil {
		s.env.Dataset.Replace(values)
	} else {
		// generate must finish before the aggregate snapshots the dataset
		if err := s.submitGenerate(); err != nil {
			s.shutdown(false)
			return err
		}
		if err := s.waitIdle(ctx); err != nil {
			s.shutdown(false)
			return err
		}
	}

	if err := s.submitAggregate(); err != nil {
		s.shutdown(false)
		return err
	}

	waitErr := s.waitIdle(ctx)
	shutdownErr := s.shutdown(false)
	if waitErr == nil && util.IsTimeout(shutdownErr) {
		// every command finished; the warning has been shown already
		s.logger.Warn("shutdown grace period elapsed after completed work", "error", shutdownErr)
		shutdownErr = nil
	}

	results := s.results.Results()
	fmt.Fprintln(errOut, executor.Summarize(results).String())

	return util.CombineErrors(append(executor.GetErrors(results), waitErr, shutdownErr)...)
}

// parseNumbers converts command-line arguments to integers; no arguments yields nil
func parseNumbers(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, nil
	}

	values := make([]int, 0, len(args))
	for _, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, util.NewValidationError("numbers", arg, "must be an integer")
		}
		values = append(values, v)
	}
	return values, nil
}
