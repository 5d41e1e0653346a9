package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aryankumar/crunch/internal/config"
	"github.com/aryankumar/crunch/internal/tracing"
	"github.com/aryankumar/crunch/pkg/version"
	"github.com/spf13/cobra"
)

// rootOptions carries state resolved by the root command to its subcommands
type rootOptions struct {
	cfgFile string
	verbose bool

	manager     *config.Manager
	cfg         *config.Config
	logger      *slog.Logger
	stopTracing func(context.Context) error
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	opts := &rootOptions{}
	err := newRootCmd(opts).ExecuteContext(ctx)

	if cerr := opts.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// newRootCmd creates the root command
func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     version.Name,
		Version: version.Get().Short(),
		Short:   "Crunch - asynchronous number generation and parallel aggregation",
		Long:    `Crunch generates datasets of pseudo-random integers and aggregates them.

Commands are queued onto a small worker pool and executed off the caller's thread.
Each aggregation fans the dataset out to six parallel computations (min, max, mean,
sum, evens and a threshold partition) and joins them into a single report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is ./.crunch.yaml or $HOME/.crunch.yaml)")
	flags.IntP("workers", "w", config.DefaultWorkers, "number of command workers")
	flags.IntP("count", "n", config.DefaultCount, "how many numbers a generate command produces")
	flags.IntP("bound", "b", config.DefaultBound, "exclusive upper bound of generated numbers")
	flags.Int("columns", config.DefaultColumns, "grid columns used to display generated numbers")
	flags.Int("cell-width", config.DefaultCellWidth, "minimum grid cell width")
	flags.Duration("shutdown-timeout", config.DefaultShutdownTimeout, "how long shutdown waits for running commands")
	flags.StringP("output", "o", "", "report format (table, json, yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output with debug logging")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("trace-file", "", "write OpenTelemetry spans to this file")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newAggregateCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	cobra.CheckErr(registerCompletions(rootCmd))

	return rootCmd
}

// setup loads configuration, then sets up logging and tracing
func (o *rootOptions) setup(cmd *cobra.Command) error {
	o.manager = config.NewManager(o.cfgFile)
	if err := o.manager.BindFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := o.manager.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	o.cfg = cfg

	o.logger = setupLogging(cmd.ErrOrStderr(), o.verbose, cfg.Display.NoColor)
	if o.verbose {
		o.logger.Debug("verbose logging enabled")
		if path := o.manager.ConfigPath(); path != "" {
			o.logger.Debug("loaded configuration", "file", path)
		}
	}

	if cfg.Trace.File != "" {
		stop, err := tracing.Init("crunch", version.Version, cfg.Trace.File)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		o.stopTracing = stop
		o.logger.Debug("tracing enabled", "file", cfg.Trace.File)
	}

	return nil
}

// close flushes spans if tracing was enabled
func (o *rootOptions) close() error {
	if o.stopTracing == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stop := o.stopTracing
	o.stopTracing = nil
	if err := stop(ctx); err != nil {
		return fmt.Errorf("failed to flush traces: %w", err)
	}
	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(w io.Writer, verbose, noColor bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		// Use JSON handler for no-color mode
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
