package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/skillsenselab/pivotkit/errors"
)

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// configSearchPaths are the default locations checked for pivotkit.yaml.
var configSearchPaths = []string{
	"./pivotkit.yaml",
	"./config/pivotkit.yaml",
	"../config/pivotkit.yaml",
}

// envSearchPaths are the default locations checked for a .env file.
var envSearchPaths = []string{
	"./.env.pivotkit",
	"./.env",
}

// Load reads configuration into a validated Config. Missing files fall
// back to defaults; an unreadable or undecodable file is an error.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.ConfigFile == "" {
		lc.ConfigFile = firstExisting(configSearchPaths)
	}
	if lc.EnvFile == "" {
		lc.EnvFile = firstExisting(envSearchPaths)
	}

	if lc.EnvFile != "" {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return nil, errors.ConfigError("cannot load env file "+lc.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("PIVOTKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKnownKeys(v)

	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.ConfigError("cannot read config file "+lc.ConfigFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.ConfigError("cannot decode configuration", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindKnownKeys registers every leaf key with viper so AutomaticEnv can
// resolve PIVOTKIT_* variables without a config file present.
func bindKnownKeys(v *viper.Viper) {
	for _, key := range []string{
		"logging.level", "logging.format", "logging.output",
		"logging.no_color", "logging.timestamp", "logging.caller",
		"window.unit", "window.before", "window.after",
		"containers.ti", "containers.default",
		"editor.addr",
		"telemetry.enabled", "telemetry.endpoint", "telemetry.insecure",
		"telemetry.sample_rate",
		"secrets.key",
	} {
		// BindEnv with one argument derives the variable name from the
		// prefix and replacer.
		_ = v.BindEnv(key)
	}
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
