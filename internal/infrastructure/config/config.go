// Package config loads juggler.yaml, the operator settings for the engine,
// the default working calendar and logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/asaskevich/govalidator"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/juggler/pkg/domain/calendar"
	"github.com/felixgeelhaar/juggler/pkg/engine/taskjuggler"
)

// FileName is the config file looked up in the working directory.
const FileName = "juggler.yaml"

// EnvEngineBinary overrides engine.binary when set.
const EnvEngineBinary = "JUGGLER_ENGINE_BINARY"

// Defaults for a missing or partial config file.
const (
	DefaultBinary    = "tj3"
	DefaultTimeout   = 2 * time.Minute
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// EngineConfig selects and bounds the external scheduler.
type EngineConfig struct {
	Binary        string        `yaml:"binary" valid:"required"`
	Args          []string      `yaml:"args,omitempty"`
	Timeout       time.Duration `yaml:"timeout"`
	WorkspaceBase string        `yaml:"workspace_base,omitempty"`
	ReportName    string        `yaml:"report_name" valid:"required"`
	// MergeProjects puts a multi-project batch under one tj3 project block.
	MergeProjects bool `yaml:"merge_projects"`
}

// LogConfig sets the slog level and handler.
type LogConfig struct {
	Level  string `yaml:"level" valid:"in(debug|info|warn|error)"`
	Format string `yaml:"format" valid:"in(text|json)"`
}

// Config is the content of juggler.yaml. Calendar applies to every project
// that does not bring its own and sets the report time format.
type Config struct {
	Engine   EngineConfig       `yaml:"engine"`
	Calendar *calendar.Calendar `yaml:"calendar" valid:"-"`
	Log      LogConfig          `yaml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Binary:        DefaultBinary,
			Args:          append([]string(nil), taskjuggler.DefaultArgs...),
			Timeout:       DefaultTimeout,
			ReportName:    taskjuggler.DefaultReportName,
			MergeProjects: true,
		},
		Calendar: calendar.Standard(),
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads root/juggler.yaml. Missing keys keep their defaults; a missing
// file yields Default(). The engine binary may be overridden from the
// environment.
func Load(root string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		// Decode the calendar on its own so that a partial calendar is not
		// merged into the standard one.
		cfg.Calendar = nil
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		if cfg.Calendar == nil {
			cfg.Calendar = calendar.Standard()
		}
	}

	if bin := strings.TrimSpace(os.Getenv(EnvEngineBinary)); bin != "" {
		cfg.Engine.Binary = bin
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to root/juggler.yaml.
func Save(root string, cfg *Config) error {
	if cfg == nil {
		return goerrors.ErrNilInput{InputName: "cfg"}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(filepath.Join(root, FileName), data, 0600)
}

// Validate checks the whole configuration, calendar included.
func (c *Config) Validate() error {
	if _, errValidation := govalidator.ValidateStruct(c); errValidation != nil {
		return goerrors.ErrServiceValidation{
			ServiceName: "Config",
			Caller:      "Validate",
			Issue:       errValidation,
		}
	}

	if c.Engine.Timeout <= 0 {
		return goerrors.ErrServiceValidation{
			ServiceName: "Config",
			Caller:      "Validate",
			Issue:       goerrors.ErrNegativeInput{InputName: "engine.timeout"},
		}
	}

	if strings.ContainsAny(c.Engine.ReportName, `/\`) {
		return goerrors.ErrServiceValidation{
			ServiceName: "Config",
			Caller:      "Validate",
			Issue:       goerrors.ErrInvalidInput{InputName: "engine.report_name"},
		}
	}

	if err := c.Calendar.Validate(); err != nil {
		return goerrors.ErrServiceValidation{
			ServiceName: "Config",
			Caller:      "Validate",
			Issue:       err,
		}
	}

	return nil
}

// EngineOptions maps the engine section onto the TaskJuggler back end.
func (c *Config) EngineOptions() taskjuggler.Options {
	return taskjuggler.Options{
		Binary:         c.Engine.Binary,
		Args:           c.Engine.Args,
		WorkspaceBase:  c.Engine.WorkspaceBase,
		ReportName:     c.Engine.ReportName,
		ReportCalendar: c.Calendar,
		MergeProjects:  c.Engine.MergeProjects,
	}
}
