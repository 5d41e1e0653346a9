package config

import "time"

// Config represents the crunch configuration file structure
type Config struct {
	// Executor configures the command queue executor
	Executor ExecutorConfig `mapstructure:"executor" yaml:"executor" json:"executor"`

	// Generate contains the defaults for generate commands
	Generate GenerateConfig `mapstructure:"generate" yaml:"generate" json:"generate"`

	// Display controls how values and reports are shown
	Display DisplayConfig `mapstructure:"display" yaml:"display" json:"display"`

	// Trace configures span export
	Trace TraceConfig `mapstructure:"trace" yaml:"trace" json:"trace"`
}

// ExecutorConfig contains worker pool settings
type ExecutorConfig struct {
	// Workers is the number of dispatch loops
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers" validate:"gte=1,lte=64"`

	// ShutdownTimeout bounds how long shutdown waits for running commands
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout" json:"shutdownTimeout" validate:"gte=0"`
}

// GenerateConfig contains dataset generation settings
type GenerateConfig struct {
	// Count is how many values a generate command produces
	Count int `mapstructure:"count" yaml:"count" json:"count" validate:"gte=0"`

	// Bound is the exclusive upper limit of generated values
	Bound int `mapstructure:"bound" yaml:"bound" json:"bound" validate:"gt=0"`
}

// DisplayConfig contains output settings
type DisplayConfig struct {
	// Columns is the number of cells per grid row
	Columns int `mapstructure:"columns" yaml:"columns" json:"columns" validate:"gte=1"`

	// CellWidth is the minimum width of a grid cell
	CellWidth int `mapstructure:"cellWidth" yaml:"cellWidth" json:"cellWidth" validate:"gte=1"`

	// Output is the report format (table, json, yaml)
	Output string `mapstructure:"output" yaml:"output" json:"output" validate:"oneof=table json yaml"`

	// NoColor disables colored output
	NoColor bool `mapstructure:"noColor" yaml:"noColor" json:"noColor"`
}

// TraceConfig contains tracing settings
type TraceConfig struct {
	// File receives exported spans; empty means spans are not exported
	File string `mapstructure:"file" yaml:"file,omitempty" json:"file,omitempty"`
}

// Default values
const (
	DefaultWorkers         = 2
	DefaultShutdownTimeout = 5 * time.Second
	DefaultCount           = 15
	DefaultBound           = 100
	DefaultColumns         = 5
	DefaultCellWidth       = 6
	DefaultOutput          = "table"
)

// Default returns a configuration populated with default values
func Default() *Config {
	return &Config{
		Executor: ExecutorConfig{
			Workers:         DefaultWorkers,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Generate: GenerateConfig{
			Count: DefaultCount,
			Bound: DefaultBound,
		},
		Display: DisplayConfig{
			Columns:   DefaultColumns,
			CellWidth: DefaultCellWidth,
			Output:    DefaultOutput,
		},
	}
}

// Settings returns the configuration as nested maps keyed like the config file.
// Durations are rendered as strings so the result round-trips through YAML.
func (c *Config) Settings() map[string]interface{} {
	settings := map[string]interface{}{
		"executor": map[string]interface{}{
			"workers":         c.Executor.Workers,
			"shutdownTimeout": c.Executor.ShutdownTimeout.String(),
		},
		"generate": map[string]interface{}{
			"count": c.Generate.Count,
			"bound": c.Generate.Bound,
		},
		"display": map[string]interface{}{
			"columns":   c.Display.Columns,
			"cellWidth": c.Display.CellWidth,
			"output":    c.Display.Output,
			"noColor":   c.Display.NoColor,
		},
	}
	if c.Trace.File != "" {
		settings["trace"] = map[string]interface{}{"file": c.Trace.File}
	}
	return settings
}
