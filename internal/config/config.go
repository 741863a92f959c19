package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnsupportedStorageDriver    = errors.New("unsupported storage driver")
)

// Storage drivers for the language preference store.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`          // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`            // Telegram API token loaded from environment
	CatalogsDir      string   `mapstructure:"catalogs_dir"` // directory with questions.<code>.json; empty uses the bundled catalogs
	RulesPath        string   `mapstructure:"rules_path"`   // traffic rules JSON; empty uses the bundled file
	Storage          Storage  `mapstructure:"storage"`
	DB               DB       `mapstructure:"database"` // database configuration section
	SQLite           SQLite   `mapstructure:"sqlite"`
	Redis            Redis    `mapstructure:"redis"`
	Quiz             Quiz     `mapstructure:"quiz"`
	HTTP             HTTP     `mapstructure:"http"`
	Log              Log      `mapstructure:"log"`
	Telegram         Telegram `mapstructure:"telegram"`
}

// Storage selects the preference store backend.
type Storage struct {
	Driver string `mapstructure:"driver"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type SQLite struct {
	Path string `mapstructure:"path"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	HashKey  string `mapstructure:"hash_key"`
}

// Quiz contains quiz session parameters.
type Quiz struct {
	Presets               []int         `mapstructure:"presets"` // question counts offered before a test
	CorrectAdvanceDelay   time.Duration `mapstructure:"correct_advance_delay"`
	IncorrectAdvanceDelay time.Duration `mapstructure:"incorrect_advance_delay"`
	SessionIdleTTL        time.Duration `mapstructure:"session_idle_ttl"`
	SweepSpec             string        `mapstructure:"sweep_spec"` // cron spec of the idle session sweeper
}

// HTTP configures the health and metrics server. An empty Addr disables it.
type HTTP struct {
	Addr string `mapstructure:"addr"`
}

// Log configures log level and optional file rotation.
type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Telegram struct {
	Debug         bool    `mapstructure:"debug"`
	UpdateTimeout int     `mapstructure:"update_timeout"` // long polling timeout in seconds
	RateLimit     float64 `mapstructure:"rate_limit"`     // updates per second allowed per chat
	RateBurst     int     `mapstructure:"rate_burst"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Variables from .env never override the real environment.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("catalogs_dir", "")
	v.SetDefault("rules_path", "")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("sqlite.path", "data/drivesmart.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.hash_key", "drivesmart:preferences")
	v.SetDefault("quiz.presets", []int{20, 40, 60, 100})
	v.SetDefault("quiz.correct_advance_delay", "500ms")
	v.SetDefault("quiz.incorrect_advance_delay", "2s")
	v.SetDefault("quiz.session_idle_ttl", "30m")
	v.SetDefault("quiz.sweep_spec", "@every 1m")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.update_timeout", 60)
	v.SetDefault("telegram.rate_limit", 2.0)
	v.SetDefault("telegram.rate_burst", 5)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverRedis:
	case DriverPostgres:
		if _, err := c.DB.DSN(); err != nil {
			return fmt.Errorf("%w: DATABASE_URL", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedStorageDriver, c.Storage.Driver)
	}

	for _, n := range c.Quiz.Presets {
		if n <= 0 {
			return fmt.Errorf("invalid quiz preset %d", n)
		}
	}

	return nil
}
