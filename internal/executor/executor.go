package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/crunch/internal/command"
	"github.com/aryankumar/crunch/internal/tracing"
	"github.com/aryankumar/crunch/internal/util"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultWorkers is the pool size of the shared executor.
const DefaultWorkers = 2

// Result represents the outcome of executing one command
type Result struct {
	// CommandID identifies the command this result belongs to
	CommandID string

	// Kind is the command variant that ran
	Kind command.Kind

	// Error is nil on success; otherwise it wraps util.ErrExecutionFailed
	Error error

	// Duration is how long the command body ran
	Duration time.Duration
}

// Option configures an Executor
type Option func(*Executor)

// WithResultHandler registers fn to be called on the worker goroutine after every command.
// fn must not block for long; it delays the next command on that worker.
func WithResultHandler(fn func(Result)) Option {
	return func(e *Executor) {
		e.onResult = fn
	}
}

// Executor decouples command submission from execution. Commands are queued in an
// unbounded FIFO and run by a fixed number of worker goroutines.
type Executor struct {
	// workers is the number of dispatch loops
	workers int

	// queue holds commands waiting for a worker
	queue *commandQueue

	// logger for structured logging
	logger *slog.Logger

	// onResult is called after each executed command
	onResult func(Result)

	// mu protects cancel
	mu     sync.Mutex
	cancel context.CancelFunc

	// wg tracks running dispatch loops
	wg sync.WaitGroup

	// pending counts commands queued or executing
	pending atomic.Int64

	// inFlight counts commands currently executing
	inFlight atomic.Int32

	started  atomic.Bool
	shutdown atomic.Bool
}

// New creates an executor with the given number of workers. It does not start them.
// workers must be > 0, otherwise it defaults to 1
func New(workers int, logger *slog.Logger, opts ...Option) *Executor {
	if workers <= 0 {
		workers = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	e := &Executor{
		workers: workers,
		queue:   newCommandQueue(),
		logger:  logger.With("component", "executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var (
	defaultOnce     sync.Once
	defaultExecutor *Executor
)

// Default returns the process-wide executor, creating and starting it on first use.
// Prefer constructing an Executor with New and passing it where needed.
func Default() *Executor {
	defaultOnce.Do(func() {
		defaultExecutor = New(DefaultWorkers, slog.Default())
		if err := defaultExecutor.Start(context.Background()); err != nil {
			slog.Error("failed to start default executor", "error", err)
		}
	})
	return defaultExecutor
}

// Start launches the worker goroutines. ctx bounds the lifetime of every command
// executed; Shutdown cancels it as well.
func (e *Executor) Start(ctx context.Context) error {
	if e.shutdown.Load() {
		return fmt.Errorf("executor is shut down, cannot start")
	}
	if !e.started.CompareAndSwap(false, true) {
		return fmt.Errorf("executor already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	e.logger.Info("starting executor", "workers", e.workers)

	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go e.worker(runCtx, i)
	}
	return nil
}

// Submit enqueues cmd and returns immediately. It fails with util.ErrSubmissionRejected
// once shutdown has begun; the command is dropped in that case.
func (e *Executor) Submit(cmd command.Command) error {
	if e.shutdown.Load() {
		return e.reject(cmd)
	}

	if err := cmd.Validate(); err != nil {
		return err
	}

	e.pending.Add(1)
	if !e.queue.Put(cmd) {
		e.pending.Add(-1)
		return e.reject(cmd)
	}

	e.logger.Debug("command submitted", "command", cmd.String(), "queued", e.queue.Len())
	return nil
}

func (e *Executor) reject(cmd command.Command) error {
	e.logger.Warn("command rejected, executor is shutting down", "command", cmd.String())
	return util.WrapCommandError(cmd.ID.String(), cmd.Kind.String(), util.ErrSubmissionRejected)
}

// worker is the dispatch loop: take the next command, run it, report, repeat.
// It exits when the queue is closed.
func (e *Executor) worker(ctx context.Context, workerID int) {
	defer e.wg.Done()

	e.logger.Debug("worker started", "worker_id", workerID)

	for {
		cmd, ok := e.queue.Take()
		if !ok {
			e.logger.Debug("worker stopping, queue closed", "worker_id", workerID)
			return
		}

		e.inFlight.Add(1)
		result := e.execute(ctx, cmd)
		e.inFlight.Add(-1)

		if result.Error != nil {
			e.logger.Warn("command failed",
				"worker_id", workerID,
				"command", cmd.String(),
				"error", result.Error,
				"duration", result.Duration)
		} else {
			e.logger.Debug("command completed",
				"worker_id", workerID,
				"command", cmd.String(),
				"duration", result.Duration)
		}

		if e.onResult != nil {
			e.onResult(result)
		}
		e.pending.Add(-1)
	}
}

// execute runs a single command. Errors and panics are converted into the result so that
// the worker survives them.
func (e *Executor) execute(ctx context.Context, cmd command.Command) (result Result) {
	startTime := time.Now()
	result = Result{
		CommandID: cmd.ID.String(),
		Kind:      cmd.Kind,
	}

	ctx, span := tracing.StartSpan(ctx, "command.execute",
		attribute.String("command.kind", cmd.Kind.String()),
		attribute.String("command.id", result.CommandID))

	defer func() {
		var err error
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", util.ErrExecutionFailed, r)
		} else if result.Error != nil {
			err = result.Error
		}
		span.End(err)

		result.Error = util.WrapCommandError(result.CommandID, cmd.Kind.String(), err)
		result.Duration = time.Since(startTime)
	}()

	if err := cmd.Execute(ctx); err != nil {
		result.Error = fmt.Errorf("%w: %w", util.ErrExecutionFailed, err)
	}
	return result
}

// Shutdown stops accepting commands, discards queued commands that have not started,
// cancels the context handed to running commands and waits for them until ctx is done.
// When ctx ends first a warning is logged and an error wrapping util.ErrShutdownTimeout is
// returned; the executor stays shut down either way.
func (e *Executor) Shutdown(ctx context.Context) error {
	if !e.shutdown.CompareAndSwap(false, true) {
		return fmt.Errorf("executor already shut down")
	}

	e.logger.Info("shutting down executor")

	if dropped := e.queue.Close(); dropped > 0 {
		e.pending.Add(-int64(dropped))
		e.logger.Warn("discarded queued commands", "count", dropped)
	}

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("executor shut down successfully")
		return nil
	default:
	}

	select {
	case <-done:
		e.logger.Info("executor shut down successfully")
		return nil
	case <-ctx.Done():
		if e.pending.Load() == 0 {
			// nothing taken is unfinished, workers are only returning from Take
			<-done
			e.logger.Info("executor shut down successfully")
			return nil
		}
		running := e.inFlight.Load()
		e.logger.Warn("shutdown grace period elapsed", "running", running)
		return fmt.Errorf("%w: %d command(s) still running: %w", util.ErrShutdownTimeout, running, ctx.Err())
	}
}

// WaitIdle blocks until no command is queued or executing, or ctx is done.
func (e *Executor) WaitIdle(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for e.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for idle executor: %w", ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

// IsShutdown returns true once Shutdown has been called
func (e *Executor) IsShutdown() bool {
	return e.shutdown.Load()
}

// IsRunning returns true while workers are started and not shut down
func (e *Executor) IsRunning() bool {
	return e.started.Load() && !e.shutdown.Load()
}

// Pending returns the number of commands queued or executing
func (e *Executor) Pending() int {
	return int(e.pending.Load())
}

// InFlight returns the number of commands currently executing
func (e *Executor) InFlight() int {
	return int(e.inFlight.Load())
}

// WorkerCount returns the number of workers in the pool
func (e *Executor) WorkerCount() int {
	return e.workers
}
