package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a suite run that can be stored in a YAML file.
// Command line flags take precedence over the file.
type Config struct {
	// Log level of the suite logger, e.g. "debug".
	Verbosity string `yaml:"verbosity,omitempty"`

	// Enables Azure DevOps logging commands in the report.
	AzureDevops bool `yaml:"azureDevops,omitempty"`

	// Test cases to run, as <type>.<method>, <type> or glob patterns.
	Filter []string `yaml:"filter,omitempty"`

	// Print the captured logs of failed test cases.
	ShowLogs bool `yaml:"showLogs"`

	// File the Prometheus metrics are written to after the run.
	MetricsFile string `yaml:"metricsFile,omitempty"`
}

func Default() Config {
	return Config{
		ShowLogs: true,
	}
}

// Load reads the configuration file at path. An empty path yields the
// default configuration.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config file '%s': %w", path, err)
	}

	return cfg, nil
}

// Parse decodes a YAML document on top of the default configuration.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err := decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Verbosity != "" {
		if _, err := logrus.ParseLevel(c.Verbosity); err != nil {
			return fmt.Errorf("invalid verbosity: %w", err)
		}
	}

	return nil
}

// Level returns the configured log level, if any.
func (c Config) Level() (logrus.Level, bool) {
	if c.Verbosity == "" {
		return logrus.InfoLevel, false
	}

	level, err := logrus.ParseLevel(c.Verbosity)
	if err != nil {
		return logrus.InfoLevel, false
	}

	return level, true
}
