package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logger"`
	XRPL struct {
		Endpoint  string        `yaml:"endpoint"`
		Transport string        `yaml:"transport"` // http or ws
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
		SeedWidth int64         `yaml:"seed_width"`
	} `yaml:"xrpl"`
	Report struct {
		Kafka struct {
			Enabled      bool          `yaml:"enabled"`
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			MaxAttempts  int           `yaml:"max_attempts"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"kafka"`
	} `yaml:"report"`
	History struct {
		Enabled    bool `yaml:"enabled"`
		ClickHouse struct {
			Host             string        `yaml:"host"`
			Port             int           `yaml:"port"`
			Database         string        `yaml:"database"`
			User             string        `yaml:"user"`
			Password         string        `yaml:"password"`
			UseHTTP          bool          `yaml:"use_http"`
			DialTimeout      time.Duration `yaml:"dial_timeout"`
			ReadTimeout      time.Duration `yaml:"read_timeout"`
			WriteTimeout     time.Duration `yaml:"write_timeout"`
			MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		} `yaml:"clickhouse"`
	} `yaml:"history"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"rate_limit"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("XRPL_ENDPOINT"); v != "" {
		c.XRPL.Endpoint = v
	}
	if v := os.Getenv("XRPL_TRANSPORT"); v != "" {
		c.XRPL.Transport = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Report.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.History.ClickHouse.Host = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.XRPL.Endpoint == "" {
		return fmt.Errorf("xrpl.endpoint is required")
	}
	if c.XRPL.Transport != "http" && c.XRPL.Transport != "ws" {
		return fmt.Errorf("xrpl.transport must be 'http' or 'ws', got '%s'", c.XRPL.Transport)
	}
	if c.XRPL.SeedWidth < 0 {
		return fmt.Errorf("xrpl.seed_width must not be negative")
	}
	if c.Report.Kafka.Enabled && len(c.Report.Kafka.Brokers) == 0 {
		return fmt.Errorf("report.kafka.brokers cannot be empty when kafka reporting is enabled")
	}
	if c.History.Enabled && c.History.ClickHouse.Host == "" {
		return fmt.Errorf("history.clickhouse.host is required when history is enabled")
	}
	return nil
}
