package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/aryankumar/crunch/internal/dataset"
	"github.com/aryankumar/crunch/internal/stats"
	"github.com/aryankumar/crunch/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableCall struct {
	values    []int
	columns   int
	cellWidth int
}

type recordingSink struct {
	mu     sync.Mutex
	lines  []string
	tables []tableCall
}

func (s *recordingSink) Display(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
}

func (s *recordingSink) DisplayTable(values []int, columns, cellWidth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = append(s.tables, tableCall{values: values, columns: columns, cellWidth: cellWidth})
}

type stubFormatter struct {
	reports []stats.Report
	err     error
}

func (f *stubFormatter) FormatReport(w io.Writer, report stats.Report) error {
	f.reports = append(f.reports, report)
	if f.err != nil {
		return f.err
	}
	_, err := fmt.Fprintf(w, "count=%d sum=%v\n", report.Count, report.Sum)
	return err
}

func newEnv(values ...int) (*Env, *recordingSink, *stubFormatter) {
	sink := &recordingSink{}
	formatter := &stubFormatter{}
	return &Env{
		Dataset:   dataset.New(values...),
		Generator: dataset.NewGenerator(rand.NewPCG(1, 1)),
		Sink:      sink,
		Formatter: formatter,
	}, sink, formatter
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "generate", KindGenerate.String())
	assert.Equal(t, "aggregate", KindAggregate.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestNewCommands(t *testing.T) {
	env, _, _ := newEnv()

	gen := NewGenerate(env, GeneratePayload{Count: 3, Bound: 10, Columns: 5, CellWidth: 6})
	agg := NewAggregate(env)

	assert.Equal(t, KindGenerate, gen.Kind)
	require.NotNil(t, gen.Generate)
	assert.Nil(t, gen.Aggregate)

	assert.Equal(t, KindAggregate, agg.Kind)
	require.NotNil(t, agg.Aggregate)
	assert.Nil(t, agg.Generate)

	assert.NotEqual(t, gen.ID, agg.ID)
	assert.True(t, strings.HasPrefix(gen.String(), "generate/"))
}

func TestCommand_Validate(t *testing.T) {
	env, _, _ := newEnv()

	tests := []struct {
		name    string
		cmd     Command
		wantErr string
	}{
		{name: "valid generate", cmd: NewGenerate(env, GeneratePayload{Count: 1, Bound: 1})},
		{name: "valid aggregate", cmd: NewAggregate(env)},
		{name: "zero value", cmd: Command{}, wantErr: "no environment"},
		{name: "unknown kind", cmd: Command{Kind: Kind(42), env: env}, wantErr: "unknown kind"},
		{name: "generate without payload", cmd: Command{Kind: KindGenerate, env: env}, wantErr: "without payload"},
		{
			name:    "generate without generator",
			cmd:     NewGenerate(&Env{Dataset: env.Dataset, Sink: env.Sink}, GeneratePayload{}),
			wantErr: "without generator",
		},
		{
			name:    "aggregate without formatter",
			cmd:     NewAggregate(&Env{Dataset: env.Dataset, Sink: env.Sink}),
			wantErr: "without report formatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, util.ErrInvalidCommand)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerate_ReplacesDatasetAndDisplays(t *testing.T) {
	env, sink, _ := newEnv(1, 2, 3)

	cmd := NewGenerate(env, GeneratePayload{Count: 15, Bound: 100, Columns: 5, CellWidth: 6})
	require.NoError(t, cmd.Execute(context.Background()))

	values := env.Dataset.Snapshot()
	require.Len(t, values, 15)
	for _, v := range values {
		assert.Less(t, v, 100)
	}

	require.Len(t, sink.lines, 1)
	assert.Contains(t, sink.lines[0], "Generated 15 numbers in [0, 100)")
	require.Len(t, sink.tables, 1)
	assert.Equal(t, tableCall{values: values, columns: 5, cellWidth: 6}, sink.tables[0])
}

func TestGenerate_InvalidBound(t *testing.T) {
	env, sink, _ := newEnv(4, 5)

	err := NewGenerate(env, GeneratePayload{Count: 3, Bound: 0}).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bound must be positive")
	assert.Equal(t, []int{4, 5}, env.Dataset.Snapshot(), "dataset untouched on failure")
	assert.Empty(t, sink.lines)
}

func TestAggregate_RendersReport(t *testing.T) {
	env, sink, formatter := newEnv(51, 60, 10, 5, 99)

	require.NoError(t, NewAggregate(env).Execute(context.Background()))

	require.Len(t, formatter.reports, 1)
	assert.Equal(t, []int{51, 60, 99}, formatter.reports[0].AboveThreshold)
	require.Len(t, sink.lines, 2)
	assert.Equal(t, "Running parallel aggregation...", sink.lines[0])
	assert.Equal(t, "count=5 sum=225", sink.lines[1])
}

func TestAggregate_EmptyDataset(t *testing.T) {
	env, sink, formatter := newEnv()

	require.NoError(t, NewAggregate(env).Execute(context.Background()))

	require.Len(t, formatter.reports, 1)
	assert.True(t, formatter.reports[0].IsEmpty())
	assert.Equal(t, "Dataset is empty, generate numbers first.", sink.lines[0])
}

func TestAggregate_FailureHasNoPartialReport(t *testing.T) {
	env, sink, formatter := newEnv(1, 2, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewAggregate(env).Execute(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrAggregationFailed)
	assert.Empty(t, formatter.reports)
	assert.Len(t, sink.lines, 1, "only the progress line is displayed")
}

func TestAggregate_FormatterError(t *testing.T) {
	env, _, formatter := newEnv(1)
	formatter.err = errors.New("disk full")

	err := NewAggregate(env).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render report")
}
