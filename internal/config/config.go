package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// storage
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`

	// coach backend
	CoachApiBaseURL            string `toml:"coach_api_base_url"`
	CoachApiCacheExpireSeconds int    `toml:"coach_api_cache_expire_seconds"`
	CoachApiTimeoutSeconds     int    `toml:"coach_api_timeout_seconds"`

	// briefing
	BriefingRateLimitPerMin   int  `toml:"briefing_rate_limit_per_min"`
	HistoryEnabled            bool `toml:"history_enabled"`
	HistoryRetentionDays      int  `toml:"history_retention_days"`
	HistoryCleanupIntervalMin int  `toml:"history_cleanup_interval_min"`

	// upgrade prompt store: "redis" or "memory"
	UpgradePromptStore string `toml:"upgrade_prompt_store"`

	AllowedOrigins []string `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}
	return FromToml(&t, env)
}

func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return FromToml(&t, env)
}

func FromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.CoachApiCacheExpireSeconds == 0 {
		c.CoachApiCacheExpireSeconds = 60
	}
	if c.CoachApiTimeoutSeconds == 0 {
		c.CoachApiTimeoutSeconds = 10
	}
	if c.BriefingRateLimitPerMin == 0 {
		c.BriefingRateLimitPerMin = 120
	}
	if c.HistoryRetentionDays == 0 {
		c.HistoryRetentionDays = 90
	}
	if c.HistoryCleanupIntervalMin == 0 {
		c.HistoryCleanupIntervalMin = 8 * 60
	}
	if c.UpgradePromptStore == "" {
		c.UpgradePromptStore = "redis"
	}
}

func (c *Config) validate() error {
	if c.CoachApiBaseURL == "" {
		return errors.New("coach_api_base_url not set")
	}
	switch c.UpgradePromptStore {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown upgrade_prompt_store: %s", c.UpgradePromptStore)
	}
	if c.HistoryEnabled && (c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "") {
		return errors.New("history enabled, but postgres host, port or db name not set")
	}
	return nil
}
