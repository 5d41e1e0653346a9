package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/crunch/internal/executor"
	"github.com/aryankumar/crunch/internal/stats"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatReport outputs an aggregate report as JSON
func (f *JSONFormatter) FormatReport(w io.Writer, report stats.Report) error {
	return f.Format(w, report)
}

// FormatResults outputs executed command results as JSON
func (f *JSONFormatter) FormatResults(w io.Writer, results []executor.Result) error {
	return f.Format(w, newResultViews(results))
}
