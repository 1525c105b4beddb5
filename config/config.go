package config

import (
	"github.com/skillsenselab/pivotkit/errors"
	"github.com/skillsenselab/pivotkit/logger"
	"github.com/skillsenselab/pivotkit/secrets"
	"github.com/skillsenselab/pivotkit/validation"
)

// Config is the root pivotkit configuration.
type Config struct {
	Logging    logger.Config             `yaml:"logging" mapstructure:"logging"`
	Window     WindowConfig              `yaml:"window" mapstructure:"window"`
	Containers ContainersConfig          `yaml:"containers" mapstructure:"containers"`
	Editor     EditorConfig              `yaml:"editor" mapstructure:"editor"`
	Telemetry  TelemetryConfig           `yaml:"telemetry" mapstructure:"telemetry"`
	Secrets    SecretsConfig             `yaml:"secrets" mapstructure:"secrets"`
	Providers  map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
}

// WindowConfig sets the default rolling query window.
type WindowConfig struct {
	Unit   string `yaml:"unit" mapstructure:"unit"`
	Before int    `yaml:"before" mapstructure:"before"`
	After  int    `yaml:"after" mapstructure:"after"`
}

// ContainersConfig names the containers used by the built-in registration
// steps.
type ContainersConfig struct {
	TI      string `yaml:"ti" mapstructure:"ti"`
	Default string `yaml:"default" mapstructure:"default"`
}

// EditorConfig configures the HTTP window editor.
type EditorConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// SecretsConfig configures sealing of provider API keys.
type SecretsConfig struct {
	// Key is the sealing key. Empty disables sealed value support.
	Key string `yaml:"key" mapstructure:"key"`
}

// ProviderConfig carries connection settings for one provider.
type ProviderConfig struct {
	// APIKey may be a plain value or a sealed one ("enc:..." prefix).
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	URL    string `yaml:"url" mapstructure:"url"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	if c.Window.Unit == "" {
		c.Window.Unit = "day"
	}
	if c.Window.Before == 0 {
		c.Window.Before = 1
	}
	if c.Containers.TI == "" {
		c.Containers.TI = "ti"
	}
	if c.Containers.Default == "" {
		c.Containers.Default = "other"
	}
	if c.Editor.Addr == "" {
		c.Editor.Addr = "localhost:8917"
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
}

// ResolveProviderKey returns the plaintext API key for a named provider,
// opening sealed values ("enc:..." prefix) with the configured sealing key.
func (c *Config) ResolveProviderKey(name string) (string, error) {
	pc, exists := c.Providers[name]
	if !exists {
		return "", errors.ProviderNotFound(name)
	}
	if !secrets.IsSealed(pc.APIKey) {
		return pc.APIKey, nil
	}
	if c.Secrets.Key == "" {
		return "", errors.ConfigError("provider "+name+" has a sealed api_key but secrets.key is not set", nil)
	}
	svc, err := secrets.New(c.Secrets.Key)
	if err != nil {
		return "", errors.ConfigError("cannot initialize sealing service", err)
	}
	return secrets.Resolve(svc, pc.APIKey)
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}

	v := validation.New().
		OneOf("window.unit", c.Window.Unit, []string{"minute", "hour", "day", "week"}).
		Min("window.before", c.Window.Before, 0).
		Min("window.after", c.Window.After, 0).
		Required("containers.ti", c.Containers.TI).
		Required("containers.default", c.Containers.Default).
		Custom(c.Telemetry.SampleRate >= 0 && c.Telemetry.SampleRate <= 1,
			"telemetry.sample_rate", "must be between 0 and 1")

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
