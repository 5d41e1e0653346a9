// Package executor runs commands asynchronously on a fixed pool of workers.
//
// Commands are appended to an unbounded FIFO queue by Submit, which never waits for
// execution. Each worker repeatedly takes the oldest queued command and executes it
// synchronously, so at most WorkerCount commands run at once. Dequeue order is FIFO, but
// with more than one worker there is no ordering between commands picked up by different
// workers.
//
// # Basic Usage
//
//	exec := executor.New(executor.DefaultWorkers, logger,
//	    executor.WithResultHandler(func(r executor.Result) { ... }))
//	if err := exec.Start(ctx); err != nil {
//	    return err
//	}
//
//	if err := exec.Submit(command.NewAggregate(env)); err != nil {
//	    // util.ErrSubmissionRejected after Shutdown
//	}
//
// # Failure Handling
//
// A command that returns an error or panics does not stop its worker. The failure is
// logged, wrapped in util.ErrExecutionFailed and delivered to the result handler, and
// the worker moves on to the next command.
//
// # Graceful Shutdown
//
// Shutdown is best-effort:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	if err := exec.Shutdown(ctx); err != nil {
//	    // errors.Is(err, util.ErrShutdownTimeout): commands were still running
//	}
//
// It rejects further submissions, discards queued commands that have not started, wakes
// idle workers and cancels the context passed to running commands. A command that ignores
// its context keeps its worker until it returns; Shutdown stops waiting when ctx ends.
//
// # Shared Instance
//
// Default returns a lazily started process-wide executor with DefaultWorkers workers.
// Applications should prefer an explicitly constructed executor owned by main.
package executor
