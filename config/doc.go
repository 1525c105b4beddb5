// Package config loads pivotkit configuration from YAML files and
// environment variables.
//
// Load searches standard locations for pivotkit.yaml and a .env file,
// binds PIVOTKIT_* environment variables over file values, and validates
// the result. All settings have working defaults; a missing config file is
// not an error.
package config
