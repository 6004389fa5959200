package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/eca-cli/internal/planner"
	"github.com/sells-group/eca-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Meta     MetaConfig     `yaml:"meta" mapstructure:"meta"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	S3       S3Config       `yaml:"s3" mapstructure:"s3"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb" mapstructure:"dynamodb"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Planner  planner.Rates  `yaml:"planner" mapstructure:"planner"`
	Retry    RetryConfig    `yaml:"retry" mapstructure:"retry"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourceConfig locates the activity export.
type SourceConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	URL      string `yaml:"url" mapstructure:"url"`
	Format   string `yaml:"format" mapstructure:"format"`
	Sheet    string `yaml:"sheet" mapstructure:"sheet"`
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
	SkipRows int    `yaml:"skip_rows" mapstructure:"skip_rows"`
}

// MetaConfig holds the labels written into the payload header.
type MetaConfig struct {
	Source string `yaml:"source" mapstructure:"source"`
	Term   string `yaml:"term" mapstructure:"term"`
}

// OutputConfig configures the JSON file writer.
type OutputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Indent string `yaml:"indent" mapstructure:"indent"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string            `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string            `yaml:"database_url" mapstructure:"database_url"`
	Pool        *store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// S3Config configures the object store writer.
type S3Config struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	Region string `yaml:"region" mapstructure:"region"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// DynamoDBConfig configures the document store writer.
type DynamoDBConfig struct {
	Table  string `yaml:"table" mapstructure:"table"`
	Region string `yaml:"region" mapstructure:"region"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	PayloadPath string   `yaml:"payload_path" mapstructure:"payload_path"`
}

// RetryConfig configures retries of publish targets.
type RetryConfig struct {
	Attempts   int           `yaml:"attempts" mapstructure:"attempts"`
	Backoff    time.Duration `yaml:"backoff" mapstructure:"backoff"`
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml, environment variables, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ECA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	rates := planner.DefaultRates()

	// Defaults
	v.SetDefault("source.path", "")
	v.SetDefault("source.url", "")
	v.SetDefault("source.format", "")
	v.SetDefault("source.sheet", "")
	v.SetDefault("source.encoding", "utf-8")
	v.SetDefault("source.skip_rows", 0)
	v.SetDefault("meta.source", "HeadStart ECA Chaofah City Campus")
	v.SetDefault("meta.term", "Term 2&3 2025-2026")
	v.SetDefault("output.path", "eca_data.json")
	v.SetDefault("output.indent", "  ")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "eca.db")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.prefix", "eca")
	v.SetDefault("dynamodb.table", "")
	v.SetDefault("dynamodb.region", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.payload_path", "")
	v.SetDefault("planner.free_slots", rates.FreeSlots)
	v.SetDefault("planner.extra_fee", rates.ExtraFee)
	v.SetDefault("planner.eal_fee", rates.EALFee)
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.backoff", "500ms")
	v.SetDefault("retry.max_backoff", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "parse":
		if c.Source.Path == "" && c.Source.URL == "" {
			errs = append(errs, "source.path or source.url is required")
		}
		if c.Source.SkipRows < 0 {
			errs = append(errs, "source.skip_rows must be >= 0")
		}
		errs = append(errs, c.validateStore()...)
		errs = append(errs, c.validateRates()...)
	case "runs":
		errs = append(errs, c.validateStore()...)
		if c.Store.Driver == "none" {
			errs = append(errs, "store.driver none keeps no runs")
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
		if c.Server.PayloadPath == "" {
			errs = append(errs, c.validateStore()...)
		}
		errs = append(errs, c.validateRates()...)
	case "plan":
		errs = append(errs, c.validateRates()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateStore() []string {
	switch c.Store.Driver {
	case "none":
		return nil
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required"}
		}
		return nil
	}
	return []string{"store.driver must be sqlite, postgres or none"}
}

func (c *Config) validateRates() []string {
	var errs []string
	if c.Planner.FreeSlots < 0 {
		errs = append(errs, "planner.free_slots must be >= 0")
	}
	if c.Planner.ExtraFee < 0 || c.Planner.EALFee < 0 {
		errs = append(errs, "planner fees must be >= 0")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
