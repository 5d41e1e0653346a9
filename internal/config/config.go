// Package config loads, validates and saves the crunch configuration.
//
// Values are resolved from, in order of precedence: command-line flags bound with BindFlags,
// CRUNCH_* environment variables, the config file, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aryankumar/crunch/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigName = ".crunch"
	envPrefix         = "CRUNCH"
)

// flagKeys maps persistent flag names to configuration keys
var flagKeys = map[string]string{
	"workers":          "executor.workers",
	"shutdown-timeout": "executor.shutdownTimeout",
	"count":            "generate.count",
	"bound":            "generate.bound",
	"columns":          "display.columns",
	"cell-width":       "display.cellWidth",
	"output":           "display.output",
	"no-color":         "display.noColor",
	"trace-file":       "trace.file",
}

// Manager handles crunch configuration
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
	validate   *validator.Validate
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     Default(),
		validate:   newValidator(),
	}
}

// newValidator reports field errors by their config key rather than the Go field name
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BindFlags binds the known flags of fs to their configuration keys.
// Flags that are not defined in fs are skipped.
func (m *Manager) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := m.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load loads the configuration from defaults, file, environment and bound flags
func (m *Manager) Load() (*Config, error) {
	m.setDefaults()

	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// Check ./.crunch.yaml, then ~/.crunch.yaml
		m.viper.AddConfigPath(".")
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	if err := m.viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults, env and flags still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.Validate(cfg); err != nil {
		return nil, err
	}

	m.config = cfg
	return cfg, nil
}

// Validate checks cfg against its field constraints. Every violation is reported as a
// util.ValidationError; the returned error wraps util.ErrInvalidConfig.
func (m *Manager) Validate(cfg *Config) error {
	err := m.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", util.ErrInvalidConfig, err)
	}

	errs := &util.MultiError{}
	for _, fe := range fieldErrs {
		errs.Add(util.NewValidationError(configKey(fe), fe.Value(), constraintMessage(fe)))
	}
	return fmt.Errorf("%w: %w", util.ErrInvalidConfig, errs.ErrorOrNil())
}

// configKey strips the root struct name from the field namespace
func configKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

// Save writes the current configuration to the config file as YAML
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		m.configPath = filepath.Join(home, defaultConfigName+".yaml")
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// viper lower-cases keys on write, so encode the settings directly
	data, err := yaml.Marshal(m.config.Settings())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetConfig replaces the configuration that Save writes
func (m *Manager) SetConfig(cfg *Config) {
	m.config = cfg
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// ConfigPath returns the path Save writes to, or the file Load read from
func (m *Manager) ConfigPath() string {
	if m.configPath != "" {
		return m.configPath
	}
	return m.viper.ConfigFileUsed()
}

// setDefaults registers a default for every key so env vars resolve during Unmarshal
func (m *Manager) setDefaults() {
	d := Default()
	m.viper.SetDefault("executor.workers", d.Executor.Workers)
	m.viper.SetDefault("executor.shutdownTimeout", d.Executor.ShutdownTimeout)
	m.viper.SetDefault("generate.count", d.Generate.Count)
	m.viper.SetDefault("generate.bound", d.Generate.Bound)
	m.viper.SetDefault("display.columns", d.Display.Columns)
	m.viper.SetDefault("display.cellWidth", d.Display.CellWidth)
	m.viper.SetDefault("display.output", d.Display.Output)
	m.viper.SetDefault("display.noColor", d.Display.NoColor)
	m.viper.SetDefault("trace.file", d.Trace.File)
}
