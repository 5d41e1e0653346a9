package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aryankumar/crunch/internal/command"
	"github.com/aryankumar/crunch/internal/config"
	"github.com/aryankumar/crunch/internal/dataset"
	"github.com/aryankumar/crunch/internal/executor"
	"github.com/aryankumar/crunch/internal/output"
	"github.com/aryankumar/crunch/internal/util"
)

// session wires one dataset, one executor and the console sink for a CLI invocation
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	sink    *output.ConsoleSink
	env     *command.Env
	exec    *executor.Executor
	results executor.Collector
}

func newSession(cfg *config.Config, logger *slog.Logger, out io.Writer) *session {
	if logger == nil {
		logger = slog.Default()
	}

	format, _ := output.ParseFormat(cfg.Display.Output)
	sink := output.NewConsoleSink(out, cfg.Display.NoColor)

	s := &session{
		cfg:    cfg,
		logger: logger,
		sink:   sink,
		env: &command.Env{
			Dataset:   dataset.New(),
			Generator: dataset.NewGenerator(nil),
			Sink:      sink,
			Formatter: output.NewFormatter(format, output.WithNoColor(cfg.Display.NoColor)),
			Logger:    logger,
		},
	}
	s.exec = executor.New(cfg.Executor.Workers, logger, executor.WithResultHandler(s.handleResult))
	return s
}

// handleResult runs on a worker after every command
func (s *session) handleResult(r executor.Result) {
	s.results.Add(r)
	if r.Error != nil {
		s.displayError(r.Error)
	}
}

// displayError shows err to the user in its friendly form
func (s *session) displayError(err error) {
	s.sink.DisplayError(util.FriendlyError(err))
}

func (s *session) start(ctx context.Context) error {
	return s.exec.Start(ctx)
}

func (s *session) submitGenerate() error {
	return s.exec.Submit(command.NewGenerate(s.env, command.GeneratePayload{
		Count:     s.cfg.Generate.Count,
		Bound:     s.cfg.Generate.Bound,
		Columns:   s.cfg.Display.Columns,
		CellWidth: s.cfg.Display.CellWidth,
	}))
}

func (s *session) submitAggregate() error {
	return s.exec.Submit(command.NewAggregate(s.env))
}

// waitIdle blocks until every submitted command has run or ctx ends
func (s *session) waitIdle(ctx context.Context) error {
	return s.exec.WaitIdle(ctx)
}

// shutdown stops the executor within the configured grace period. With drain set, queued
// commands get the same grace period to finish first; otherwise they are discarded.
func (s *session) shutdown(drain bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Executor.ShutdownTimeout)
	defer cancel()

	if drain {
		if err := s.exec.WaitIdle(ctx); err != nil {
			s.logger.Warn("commands still pending at shutdown", "pending", s.exec.Pending(), "error", err)
		}
	}

	if err := s.exec.Shutdown(ctx); err != nil {
		s.sink.DisplayWarning(util.FriendlyError(err))
		return err
	}
	return nil
}
