// Package config loads the poller configuration from a YAML file with
// POWERSHOP_* environment overrides, so credentials can stay out of the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultPollInterval = 15 * time.Minute

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	// BaseURL overrides the production portal, mainly for testing.
	BaseURL string `yaml:"base_url"`
	// CustomerID skips discovery when the numeric ID is already known.
	CustomerID   string   `yaml:"customer_id"`
	PollInterval Duration `yaml:"poll_interval"`
	// MetricsAddr enables the Prometheus endpoint when set, e.g. ":9190".
	MetricsAddr string `yaml:"metrics_addr"`
}

// Duration accepts Go duration strings like "15m" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)

	return nil
}

// Load reads the YAML file at path ("" skips the file), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	c := &Config{PollInterval: Duration(defaultPollInterval)}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("failed parsing config file: %w", err)
		}
	}

	applyEnv(c)

	if c.PollInterval == 0 {
		c.PollInterval = Duration(defaultPollInterval)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func applyEnv(c *Config) {
	if v, ok := os.LookupEnv("POWERSHOP_EMAIL"); ok {
		c.Email = v
	}
	if v, ok := os.LookupEnv("POWERSHOP_PASSWORD"); ok {
		c.Password = v
	}
	if v, ok := os.LookupEnv("POWERSHOP_BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok := os.LookupEnv("POWERSHOP_CUSTOMER_ID"); ok {
		c.CustomerID = v
	}
	if v, ok := os.LookupEnv("POWERSHOP_METRICS_ADDR"); ok {
		c.MetricsAddr = v
	}
	if v, ok := os.LookupEnv("POWERSHOP_POLL_INTERVAL"); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.PollInterval = Duration(parsed)
		}
	}
}

func (c *Config) Validate() error {
	if c.Email == "" {
		return errors.New("email is required")
	}
	if c.Password == "" {
		return errors.New("password is required")
	}
	if c.PollInterval < 0 {
		return errors.New("poll_interval must be positive")
	}

	return nil
}
