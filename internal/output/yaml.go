package output

import (
	"io"

	"github.com/aryankumar/crunch/internal/executor"
	"github.com/aryankumar/crunch/internal/stats"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}

// FormatReport outputs an aggregate report as YAML
func (f *YAMLFormatter) FormatReport(w io.Writer, report stats.Report) error {
	return f.Format(w, report)
}

// FormatResults outputs executed command results as YAML
func (f *YAMLFormatter) FormatResults(w io.Writer, results []executor.Result) error {
	return f.Format(w, newResultViews(results))
}
