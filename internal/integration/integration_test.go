package integration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aryankumar/crunch/internal/command"
	"github.com/aryankumar/crunch/internal/config"
	"github.com/aryankumar/crunch/internal/dataset"
	"github.com/aryankumar/crunch/internal/executor"
	"github.com/aryankumar/crunch/internal/output"
	"github.com/aryankumar/crunch/internal/stats"
	"github.com/aryankumar/crunch/internal/util"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// syncBuffer is a bytes.Buffer safe for the concurrent reads tests make while workers write
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	cfg       *config.Config
	out       *syncBuffer
	env       *command.Env
	exec      *executor.Executor
	collector *executor.Collector
}

func newHarness(t *testing.T, cfg *config.Config, format output.Format) *harness {
	t.Helper()

	out := &syncBuffer{}
	collector := &executor.Collector{}
	env := &command.Env{
		Dataset:   dataset.New(),
		Generator: dataset.NewGenerator(rand.NewPCG(1, 2)),
		Sink:      output.NewConsoleSink(out, true),
		Formatter: output.NewFormatter(format, output.WithNoColor(true)),
		Logger:    quietLogger(),
	}

	h := &harness{
		cfg:       cfg,
		out:       out,
		env:       env,
		exec:      executor.New(cfg.Executor.Workers, quietLogger(), executor.WithResultHandler(collector.Add)),
		collector: collector,
	}
	if err := h.exec.Start(context.Background()); err != nil {
		t.Fatalf("failed to start executor: %v", err)
	}
	t.Cleanup(func() {
		if !h.exec.IsShutdown() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = h.exec.Shutdown(ctx)
		}
	})
	return h
}

func (h *harness) generate() command.Command {
	return command.NewGenerate(h.env, command.GeneratePayload{
		Count:     h.cfg.Generate.Count,
		Bound:     h.cfg.Generate.Bound,
		Columns:   h.cfg.Display.Columns,
		CellWidth: h.cfg.Display.CellWidth,
	})
}

func (h *harness) waitIdle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.exec.WaitIdle(ctx); err != nil {
		t.Fatalf("executor did not become idle: %v", err)
	}
}

// TestFullWorkflow tests the complete workflow from config loading to rendered reports
func TestFullWorkflow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "crunch.yaml")
	content := `
executor:
  workers: 1
generate:
  count: 12
  bound: 60
display:
  columns: 4
  cellWidth: 5
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.NewManager(cfgPath).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	h := newHarness(t, cfg, output.FormatTable)

	if err := h.exec.Submit(h.generate()); err != nil {
		t.Fatalf("submit generate: %v", err)
	}
	if err := h.exec.Submit(command.NewAggregate(h.env)); err != nil {
		t.Fatalf("submit aggregate: %v", err)
	}
	h.waitIdle(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.exec.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	out := h.out.String()
	for _, want := range []string{
		"Generated 12 numbers in [0, 60)",
		"Running parallel aggregation...",
		"Descriptive statistics: count=12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// the grid has 3 rows of 4 cells
	rows := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "|") {
			rows++
			if cells := strings.Count(line, "|") - 1; cells != 4 {
				t.Errorf("grid row %q has %d cells, want 4", line, cells)
			}
		}
	}
	if rows != 3 {
		t.Errorf("expected 3 grid rows, got %d", rows)
	}

	// the report must describe the generated dataset
	values := h.env.Dataset.Snapshot()
	report, err := stats.Aggregate(context.Background(), values)
	if err != nil {
		t.Fatalf("aggregate snapshot: %v", err)
	}
	var expected bytes.Buffer
	if err := output.NewFormatter(output.FormatTable, output.WithNoColor(true)).FormatReport(&expected, report); err != nil {
		t.Fatalf("format report: %v", err)
	}
	if !strings.Contains(out, strings.TrimRight(expected.String(), "\n")) {
		t.Errorf("rendered report does not match the dataset:\n%s\nwant:\n%s", out, expected.String())
	}

	summary := executor.Summarize(h.collector.Results())
	if summary.Successful != 2 || summary.Generated != 1 || summary.Aggregated != 1 {
		t.Errorf("unexpected summary: %s", summary)
	}
}

// TestConcurrentSubmitters tests that commands from many goroutines each run exactly once
func TestConcurrentSubmitters(t *testing.T) {
	cfg := config.Default()
	cfg.Executor.Workers = 4
	h := newHarness(t, cfg, output.FormatJSON)

	const submitters, perSubmitter = 8, 25

	var wg sync.WaitGroup
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < perSubmitter; j++ {
				cmd := command.NewAggregate(h.env)
				if (i+j)%5 == 0 {
					cmd = h.generate()
				}
				if err := h.exec.Submit(cmd); err != nil {
					t.Errorf("submit: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()
	h.waitIdle(t)

	results := h.collector.Results()
	if len(results) != submitters*perSubmitter {
		t.Fatalf("expected %d results, got %d", submitters*perSubmitter, len(results))
	}

	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if seen[r.CommandID] {
			t.Errorf("command %s executed more than once", r.CommandID)
		}
		seen[r.CommandID] = true
		if r.Error != nil {
			t.Errorf("command %s failed: %v", r.CommandID, r.Error)
		}
	}
}

// TestShutdownRejectsLateSubmissions tests the lifecycle seen by a caller racing shutdown
func TestShutdownRejectsLateSubmissions(t *testing.T) {
	h := newHarness(t, config.Default(), output.FormatTable)

	if err := h.exec.Submit(h.generate()); err != nil {
		t.Fatalf("submit before shutdown: %v", err)
	}
	h.waitIdle(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.exec.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	err := h.exec.Submit(command.NewAggregate(h.env))
	if !util.IsRejected(err) {
		t.Fatalf("expected rejection after shutdown, got %v", err)
	}

	var cmdErr *util.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Kind != "aggregate" {
		t.Errorf("expected CommandError for aggregate, got %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if got := len(h.collector.Results()); got != 1 {
		t.Errorf("rejected command must not run, got %d results", got)
	}
}

// TestAggregateDuringRegeneration tests that aggregates always see a whole dataset
func TestAggregateDuringRegeneration(t *testing.T) {
	cfg := config.Default()
	cfg.Executor.Workers = 2
	cfg.Generate.Count = 200
	h := newHarness(t, cfg, output.FormatJSON)

	for i := 0; i < 20; i++ {
		if err := h.exec.Submit(h.generate()); err != nil {
			t.Fatalf("submit generate: %v", err)
		}
		if err := h.exec.Submit(command.NewAggregate(h.env)); err != nil {
			t.Fatalf("submit aggregate: %v", err)
		}
	}
	h.waitIdle(t)

	out := h.out.String()
	if strings.Count(out, `"count": 200`)+strings.Count(out, `"count": 0`) != 20 {
		t.Errorf("every report should cover a full or empty dataset:\n%s", out)
	}
}
