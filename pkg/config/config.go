package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SeriesConfig declares one synthetic series' generation parameters.
// All four numbers are caller-supplied; there are no implicit defaults.
type SeriesConfig struct {
	Name        string  `yaml:"name"`
	Base        float64 `yaml:"base"`
	Trend       float64 `yaml:"trend"`
	Seasonality float64 `yaml:"seasonality"`
	Volatility  float64 `yaml:"volatility"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Generator struct {
		Start   string         `yaml:"start"`   // first month, e.g. "2022-01-31"
		Periods int            `yaml:"periods"` // number of monthly rows
		Seed    int64          `yaml:"seed"`
		Series  []SeriesConfig `yaml:"series"`
	} `yaml:"generator"`
	Analytics struct {
		ZThreshold float64       `yaml:"z_threshold"`
		CacheTTL   time.Duration `yaml:"cache_ttl"`
	} `yaml:"analytics"`
	Reporting struct {
		ServiceURL string        `yaml:"service_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"reporting"`
	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		AsyncInsert  bool          `yaml:"async_insert"`
		WaitForAsync bool          `yaml:"wait_for_async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		InsightTopic string   `yaml:"insight_topic"`
		LogTopic     string   `yaml:"log_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
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

	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_INSIGHT_TOPIC"); v != "" {
		c.Kafka.InsightTopic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REPORTING_SERVICE_URL"); v != "" {
		c.Reporting.ServiceURL = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Generator.Periods <= 0 {
		return fmt.Errorf("generator.periods must be positive")
	}
	if len(c.Generator.Series) == 0 {
		return fmt.Errorf("generator.series cannot be empty")
	}
	for i, s := range c.Generator.Series {
		if s.Name == "" {
			return fmt.Errorf("generator.series[%d].name is required", i)
		}
	}
	if c.Analytics.ZThreshold == 0 {
		c.Analytics.ZThreshold = 2.5
	}
	if c.Analytics.ZThreshold < 0 {
		return fmt.Errorf("analytics.z_threshold must be positive, got %v", c.Analytics.ZThreshold)
	}
	return nil
}
