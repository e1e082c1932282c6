package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DataDir      string        `yaml:"data_dir"`
	Pattern      string        `yaml:"pattern"` // doublestar pattern relative to DataDir
	Workers      int           `yaml:"workers"`
	StrictSensor bool          `yaml:"strict_sensor"`
	LogLevel     string        `yaml:"log_level"`  // "debug" | "info" | "warn" | "error"
	LogFormat    string        `yaml:"log_format"` // "auto" | "console" | "json"
	Port         string        `yaml:"port"`
	TLSCert      string        `yaml:"tls_cert"` // path to this service's certificate
	TLSKey       string        `yaml:"tls_key"`  // path to this service's private key
	TLSCA        string        `yaml:"tls_ca"`   // path to the CA certificate
	Simulate     time.Duration `yaml:"simulate_interval"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		DataDir:   "data",
		Pattern:   "*",
		Workers:   1,
		LogLevel:  "info",
		LogFormat: "auto",
		Port:      "50051",
	}
}

// Load applies, in order, defaults, the optional YAML file at path and
// environment variables. It does not validate: callers layer their own
// overrides first and then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SPECTRUM_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("SPECTRUM_PATTERN"); v != "" {
		c.Pattern = v
	}
	if v := os.Getenv("SPECTRUM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SPECTRUM_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("SPECTRUM_STRICT_SENSOR"); v != "" {
		c.StrictSensor = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("SPECTRUM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SPECTRUM_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("TLS_CERT"); v != "" {
		c.TLSCert = v
	}
	if v := os.Getenv("TLS_KEY"); v != "" {
		c.TLSKey = v
	}
	if v := os.Getenv("TLS_CA"); v != "" {
		c.TLSCA = v
	}
	if v := os.Getenv("SIMULATE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SIMULATE_INTERVAL: %w", err)
		}
		c.Simulate = d
	}
	return nil
}

// Validate checks if the configuration is usable
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Simulate < 0 {
		return fmt.Errorf("simulate interval must not be negative, got %s", c.Simulate)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("tls cert and key must be set together")
	}
	return nil
}
