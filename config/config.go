package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/files"
	"gopkg.in/yaml.v3"

	"github.com/robmorgan/cadence/engine"
)

// DefaultSampleInterval is how often the player samples the time source.
const DefaultSampleInterval = 100 * time.Millisecond

// ErrConfigNotFound is returned by LoadFile when the file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// CadenceConfig represents options that configure the global behavior of the program
type CadenceConfig struct {
	// Seconds before its start that a segment is already shown as current.
	Lookahead int `yaml:"lookahead"`

	// Longest time the fields of a segment transition are highlighted for.
	HighlightCap time.Duration `yaml:"highlightCap"`

	// How often the player samples the playback position.
	SampleInterval time.Duration `yaml:"sampleInterval"`

	// One of logrus' level names.
	LogLevel string `yaml:"logLevel"`
}

// NewCadenceConfig creates a new CadenceConfig object with reasonable defaults for real usage
func NewCadenceConfig() CadenceConfig {
	return CadenceConfig{
		Lookahead:      engine.DefaultLookahead,
		HighlightCap:   engine.DefaultHighlightCap,
		SampleInterval: DefaultSampleInterval,
		LogLevel:       "info",
	}
}

// LoadFile reads a YAML config file and overlays it on the defaults. Keys missing from the file keep
// their default value.
func LoadFile(path string) (CadenceConfig, error) {
	cfg := NewCadenceConfig()

	if !files.FileExists(path) {
		return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, goerrors.WithStackTrace(err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that every option is usable.
func (c CadenceConfig) Validate() error {
	if c.Lookahead < 0 {
		return fmt.Errorf("lookahead must not be negative, got %d", c.Lookahead)
	}
	if c.HighlightCap <= 0 {
		return fmt.Errorf("highlightCap must be positive, got %s", c.HighlightCap)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("sampleInterval must be positive, got %s", c.SampleInterval)
	}
	return nil
}

// Locator returns an engine.Locator using the configured lookahead.
func (c CadenceConfig) Locator() engine.Locator {
	return engine.Locator{Lookahead: c.Lookahead}
}
