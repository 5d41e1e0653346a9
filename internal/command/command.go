// Package command defines the units of work accepted by the executor.
//
// A Command is a closed sum type: its Kind selects exactly one payload and Execute dispatches
// with a single switch. Commands share an Env (dataset, generator, sink, report formatter)
// fixed at construction and hold no other mutable state.
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aryankumar/crunch/internal/dataset"
	"github.com/aryankumar/crunch/internal/stats"
	"github.com/aryankumar/crunch/internal/util"
	"github.com/google/uuid"
)

// Kind enumerates the supported command variants.
type Kind int

const (
	// KindGenerate replaces the dataset with freshly generated values
	KindGenerate Kind = iota + 1
	// KindAggregate runs the parallel aggregation over a dataset snapshot
	KindAggregate
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGenerate:
		return "generate"
	case KindAggregate:
		return "aggregate"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sink receives everything a command wants to show the user.
// Implementations must be safe for concurrent use; two workers may write at once.
type Sink interface {
	Display(text string)
	DisplayTable(values []int, columns, cellWidth int)
}

// ReportFormatter renders an aggregate report.
type ReportFormatter interface {
	FormatReport(w io.Writer, report stats.Report) error
}

// Env is the shared context commands operate on. It is owned by the caller.
type Env struct {
	Dataset   *dataset.Dataset
	Generator *dataset.Generator
	Sink      Sink
	Formatter ReportFormatter
	Logger    *slog.Logger
}

// GeneratePayload configures a generate command.
type GeneratePayload struct {
	// Count is how many values to produce
	Count int
	// Bound is the exclusive upper limit of each value
	Bound int
	// Columns and CellWidth shape the grid the values are displayed in
	Columns   int
	CellWidth int
}

// AggregatePayload configures an aggregate command. It carries nothing today; the
// dataset comes from the Env.
type AggregatePayload struct{}

// Command is one deferred unit of work.
type Command struct {
	ID   uuid.UUID
	Kind Kind

	Generate  *GeneratePayload
	Aggregate *AggregatePayload

	env *Env
}

// NewGenerate creates a generate command bound to env.
func NewGenerate(env *Env, payload GeneratePayload) Command {
	return Command{
		ID:       uuid.New(),
		Kind:     KindGenerate,
		Generate: &payload,
		env:      env,
	}
}

// NewAggregate creates an aggregate command bound to env.
func NewAggregate(env *Env) Command {
	return Command{
		ID:        uuid.New(),
		Kind:      KindAggregate,
		Aggregate: &AggregatePayload{},
		env:       env,
	}
}

// String identifies the command in logs.
func (c Command) String() string {
	return fmt.Sprintf("%s/%s", c.Kind, c.ID.String()[:8])
}

// Validate checks that the command can be executed.
func (c Command) Validate() error {
	if c.env == nil || c.env.Dataset == nil || c.env.Sink == nil {
		return fmt.Errorf("%w: %s has no environment", util.ErrInvalidCommand, c.Kind)
	}

	switch c.Kind {
	case KindGenerate:
		if c.Generate == nil {
			return fmt.Errorf("%w: generate command without payload", util.ErrInvalidCommand)
		}
		if c.env.Generator == nil {
			return fmt.Errorf("%w: generate command without generator", util.ErrInvalidCommand)
		}
	case KindAggregate:
		if c.Aggregate == nil {
			return fmt.Errorf("%w: aggregate command without payload", util.ErrInvalidCommand)
		}
		if c.env.Formatter == nil {
			return fmt.Errorf("%w: aggregate command without report formatter", util.ErrInvalidCommand)
		}
	default:
		return fmt.Errorf("%w: unknown kind %s", util.ErrInvalidCommand, c.Kind)
	}
	return nil
}

// Execute runs the command. Output goes to the env's sink; the returned error is for the
// dispatcher to report.
func (c Command) Execute(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	switch c.Kind {
	case KindGenerate:
		return c.executeGenerate(*c.Generate)
	case KindAggregate:
		return c.executeAggregate(ctx)
	}
	return nil
}

func (c Command) logger() *slog.Logger {
	if c.env.Logger != nil {
		return c.env.Logger
	}
	return slog.Default()
}

func (c Command) executeGenerate(p GeneratePayload) error {
	values, err := c.env.Generator.Generate(p.Count, p.Bound)
	if err != nil {
		return err
	}
	c.env.Dataset.Replace(values)

	c.logger().Debug("dataset replaced", "command", c.String(), "count", len(values), "bound", p.Bound)

	c.env.Sink.Display(fmt.Sprintf("Generated %d numbers in [0, %d): %s", len(values), p.Bound, formatValues(values)))
	c.env.Sink.DisplayTable(values, p.Columns, p.CellWidth)
	return nil
}

func (c Command) executeAggregate(ctx context.Context) error {
	snapshot := c.env.Dataset.Snapshot()
	if len(snapshot) == 0 {
		c.env.Sink.Display("Dataset is empty, generate numbers first.")
	} else {
		c.env.Sink.Display("Running parallel aggregation...")
	}

	report, err := stats.Aggregate(ctx, snapshot)
	if err != nil {
		return err
	}

	var sb strings.Builder
	if err := c.env.Formatter.FormatReport(&sb, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	c.env.Sink.Display(strings.TrimRight(sb.String(), "\n"))
	return nil
}

func formatValues(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
