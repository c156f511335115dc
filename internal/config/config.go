package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
)

type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"readTimeout"`
		WriteTimeout time.Duration `yaml:"writeTimeout"`
		IdleTimeout  time.Duration `yaml:"idleTimeout"`
		CORSOrigins  []string      `yaml:"corsOrigins"`
		RateLimit    struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refillRate"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json | console
	} `yaml:"log"`

	Analysis struct {
		Delay             time.Duration   `yaml:"delay"`
		RatePreset        string          `yaml:"ratePreset"`
		Rates             *analysis.Rates `yaml:"rates"`
		DiscrepancyMode   string          `yaml:"discrepancyMode"`
		VerdictScheme     string          `yaml:"verdictScheme"`
		CriticalDeviation *float64        `yaml:"criticalDeviation"`
	} `yaml:"analysis"`

	Journal struct {
		Capacity int    `yaml:"capacity"`
		Driver   string `yaml:"driver"` // "" | mysql | postgres | sqlite
		DSN      string `yaml:"dsn"`
	} `yaml:"journal"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey  string        `yaml:"apiKey"`
		BaseURL string        `yaml:"baseURL"` // kosong = api.openai.com
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"openai"`
}

// Default returns a config that runs without any external service.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 15 * time.Second
	cfg.Server.IdleTimeout = 60 * time.Second
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Server.RateLimit.Capacity = 60
	cfg.Server.RateLimit.RefillRate = 10
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Analysis.Delay = 2 * time.Second
	cfg.Analysis.RatePreset = "default"
	cfg.Analysis.DiscrepancyMode = string(analysis.DiscrepancyClamp)
	cfg.Analysis.VerdictScheme = string(analysis.SchemeThreeTier)
	cfg.Journal.Capacity = 500
	cfg.OpenAI.Timeout = 30 * time.Second
	return &cfg
}

// Load baca file config.yaml di atas default, lalu override dari env.
// A missing file is not an error when path is empty.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvAsInt("FORENSIC_PORT", c.Server.Port)
	c.Log.Level = getEnv("FORENSIC_LOG_LEVEL", c.Log.Level)
	c.Analysis.Delay = getEnvAsDuration("FORENSIC_ANALYSIS_DELAY", c.Analysis.Delay)
	c.Analysis.RatePreset = getEnv("FORENSIC_RATE_PRESET", c.Analysis.RatePreset)
	c.Analysis.DiscrepancyMode = getEnv("FORENSIC_DISCREPANCY_MODE", c.Analysis.DiscrepancyMode)
	c.Analysis.VerdictScheme = getEnv("FORENSIC_VERDICT_SCHEME", c.Analysis.VerdictScheme)
	c.Journal.Driver = getEnv("FORENSIC_JOURNAL_DRIVER", c.Journal.Driver)
	c.Journal.DSN = getEnv("FORENSIC_JOURNAL_DSN", c.Journal.DSN)
	c.OpenAI.APIKey = getEnv("OPENAI_API_KEY", c.OpenAI.APIKey)
}

// Policy builds the analysis policy. Explicit rates win over the preset.
func (c *Config) Policy() (analysis.Policy, error) {
	p := analysis.DefaultPolicy()
	if c.Analysis.Rates != nil {
		p.Rates = *c.Analysis.Rates
	} else {
		r, err := analysis.PresetRates(c.Analysis.RatePreset)
		if err != nil {
			return analysis.Policy{}, err
		}
		p.Rates = r
	}
	if c.Analysis.DiscrepancyMode != "" {
		p.Discrepancy = analysis.DiscrepancyMode(strings.ToLower(c.Analysis.DiscrepancyMode))
	}
	if c.Analysis.VerdictScheme != "" {
		p.Scheme = analysis.VerdictScheme(strings.ToLower(c.Analysis.VerdictScheme))
	}
	if c.Analysis.CriticalDeviation != nil {
		p.CriticalDeviation = *c.Analysis.CriticalDeviation
	}
	return p, p.Validate()
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Analysis.Delay < 0 {
		return fmt.Errorf("analysis.delay must not be negative")
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	switch c.Journal.Driver {
	case "":
	case "mysql", "postgres", "sqlite":
		if c.Journal.DSN == "" {
			return fmt.Errorf("journal.dsn is required for driver %s", c.Journal.Driver)
		}
	default:
		return fmt.Errorf("journal.driver %q not supported (allowed: mysql, postgres, sqlite)", c.Journal.Driver)
	}
	if c.Minio.Enabled && (c.Minio.Endpoint == "" || c.Minio.BucketName == "") {
		return fmt.Errorf("minio.endpoint and minio.bucketName are required when minio is enabled")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
