package simulation

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/ruteri/go-padnet/padalloc"
)

// Config holds the Monte-Carlo driver parameters.
type Config struct {
	// PadCount is the length n of the pad sequence for every execution.
	PadCount int `yaml:"pad_count"`

	// Gap is the safety margin d.
	Gap int `yaml:"gap"`

	// Executions is how many times each scenario is repeated.
	Executions int `yaml:"executions"`

	// Seed is the base random seed. Every execution derives its own seed
	// from it, so results are reproducible for a fixed configuration.
	Seed int64 `yaml:"seed"`

	// Policy selects the allocation policy under test.
	Policy padalloc.Policy `yaml:"policy"`

	// Workers bounds the number of concurrent executions. Zero means one
	// worker per CPU.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the standard experiment parameters.
func DefaultConfig() *Config {
	return &Config{
		PadCount:   1000,
		Gap:        10,
		Executions: 100,
		Seed:       42,
		Policy:     padalloc.PolicyDynamicBoundary,
	}
}

// LoadConfig reads a YAML file over the defaults, so a file only needs to
// name the parameters it changes.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate reports configuration errors before any execution starts. The
// allocator's own construction check is authoritative for the pad count and
// gap, so Validate builds a throwaway allocator with the configured
// parameters.
func (c *Config) Validate() error {
	if c.Executions <= 0 {
		return fmt.Errorf("%w: executions %d must be positive", padalloc.ErrInvalidConfiguration, c.Executions)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d must not be negative", padalloc.ErrInvalidConfiguration, c.Workers)
	}
	if _, err := padalloc.New(c.Policy, c.PadCount, c.Gap); err != nil {
		return err
	}
	return nil
}

// workers resolves the worker pool size.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
