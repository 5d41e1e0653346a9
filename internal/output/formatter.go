package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/aryankumar/crunch/internal/executor"
	"github.com/aryankumar/crunch/internal/stats"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data in a table format
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// Formatter defines the interface for output formatting.
// Every Formatter also satisfies command.ReportFormatter.
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatReport outputs an aggregate report. The output depends only on the report.
	FormatReport(w io.Writer, report stats.Report) error

	// FormatResults outputs the results of executed commands
	FormatResults(w io.Writer, results []executor.Result) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables wide output with additional columns
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// Formats returns every supported output format
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML}
}

// ParseFormat validates a user supplied format name
func ParseFormat(name string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, true
	case "":
		return FormatTable, true
	default:
		return FormatTable, false
	}
}

// resultView is the serialized form of an executor.Result
type resultView struct {
	Command  string `json:"command" yaml:"command"`
	Kind     string `json:"kind" yaml:"kind"`
	Status   string `json:"status" yaml:"status"`
	Duration string `json:"duration" yaml:"duration"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newResultViews(results []executor.Result) []resultView {
	views := make([]resultView, len(results))
	for i, r := range results {
		views[i] = resultView{
			Command:  r.CommandID,
			Kind:     r.Kind.String(),
			Status:   statusText(r.Error),
			Duration: r.Duration.String(),
		}
		if r.Error != nil {
			views[i].Error = r.Error.Error()
		}
	}
	return views
}

func statusText(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}

// formatInts renders values as a bracketed, comma separated list
func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
