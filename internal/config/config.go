package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/periodize/internal/training"
	"github.com/2beens/periodize/internal/training/volume"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Host        string
	Port        int
	Environment string
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage
	Storage          string `toml:"storage"`
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresUser     string `toml:"postgres_user"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`
	// redis
	RedisHost          string `toml:"redis_host"`
	RedisPort          string `toml:"redis_port"`
	SummaryCacheTTLSec int    `toml:"summary_cache_ttl_sec"`
	// freecache for the template catalog
	TemplateCacheSizeMB     int `toml:"template_cache_size_mb"`
	TemplateCacheExpireSecs int `toml:"template_cache_expire_secs"`
	// kafka, events are not published when brokers are empty
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
	// http
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
	AllowedOrigins     []string `toml:"allowed_origins"`
	MetricsHost        string   `toml:"metrics_host"`
	MetricsPort        string   `toml:"metrics_port"`

	LandmarkOverrides map[string]map[string]volume.Landmarks `toml:"landmark_overrides"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, fmt.Errorf("missing [development] config section")
		}
		t.Development.Environment = "development"
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, fmt.Errorf("missing [production] config section")
		}
		t.Production.Environment = "production"
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return FromToml(&t, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return FromToml(&t, env)
}

func FromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.Storage == "" {
		c.Storage = StorageMemory
	}
	if c.SummaryCacheTTLSec == 0 {
		c.SummaryCacheTTLSec = 60
	}
	if c.TemplateCacheSizeMB == 0 {
		c.TemplateCacheSizeMB = 8
	}
	if c.TemplateCacheExpireSecs == 0 {
		c.TemplateCacheExpireSecs = 300
	}
	if c.KafkaTopic == "" {
		c.KafkaTopic = "periodize-events"
	}
	if c.PostgresMaxConns == 0 {
		c.PostgresMaxConns = 10
	}
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return fmt.Errorf("storage postgres requires postgres_host and postgres_db_name")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate_limit_per_minute must not be negative")
	}
	if _, err := c.LandmarkTable(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c *Config) SummaryCacheTTL() time.Duration {
	return time.Duration(c.SummaryCacheTTLSec) * time.Second
}

// LandmarkTable merges the configured overrides onto the built-in defaults.
func (c *Config) LandmarkTable() (volume.LandmarkTable, error) {
	table := volume.DefaultLandmarkTable()
	for levelName, groups := range c.LandmarkOverrides {
		level, err := training.ParseTrainingLevel(levelName)
		if err != nil {
			return nil, fmt.Errorf("landmark_overrides: %w", err)
		}
		for groupName, l := range groups {
			mg := training.MuscleGroup(strings.ToLower(groupName))
			if !mg.IsValid() {
				return nil, fmt.Errorf("landmark_overrides.%s: unknown muscle group %q", level, groupName)
			}
			table = table.With(level, mg, l)
		}
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Secrets are never kept in the config file.
type Secrets struct {
	SentryDSN        string `env:"SENTRY_DSN"`
	RedisPassword    string `env:"PERIODIZE_REDIS_PASS"`
	PostgresPassword string `env:"PERIODIZE_POSTGRES_PASS"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED" envDefault:"false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"periodize"`
}

func LoadSecrets() (Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return Secrets{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
