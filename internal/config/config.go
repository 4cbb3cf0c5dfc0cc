package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"cotizador/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	Logging logging.Config `mapstructure:"logging"`
	Storage StorageConfig  `mapstructure:"storage"`
	Quote   QuoteConfig    `mapstructure:"quote"`
	Export  ExportConfig   `mapstructure:"export"`
	Server  ServerConfig   `mapstructure:"server"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// StorageConfig selects and parameterises the history slot backend.
type StorageConfig struct {
	Backend  string         `mapstructure:"backend"`
	Key      string         `mapstructure:"key"`
	File     FileConfig     `mapstructure:"file"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// FileConfig stores the slot as a JSON file.
type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

// SQLiteConfig stores the slot in a local database file.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig encapsulates PostgreSQL connectivity.
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`
	Table           string        `mapstructure:"table"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig stores the slot under a redis key.
type RedisConfig struct {
	URL     string        `mapstructure:"url"`
	Prefix  string        `mapstructure:"prefix"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// QuoteConfig controls how saved quotes are stamped.
type QuoteConfig struct {
	TimestampLayout string `mapstructure:"timestamp_layout"`
	Timezone        string `mapstructure:"timezone"`
}

// ExportConfig sets document output.
type ExportConfig struct {
	Dir         string `mapstructure:"dir"`
	CSVFilename string `mapstructure:"csv_filename"`
	PNGFilename string `mapstructure:"png_filename"`
	ChartWidth  int    `mapstructure:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height"`
}

// ServerConfig holds the local API options.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load builds configuration from an optional .env file, the config file,
// environment variables, and defaults.
func Load(path, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("COTIZADOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFile exports KEY=VALUE pairs from a dotenv file without overriding
// variables already set. A missing default .env is not an error.
func loadEnvFile(envFile string) error {
	if envFile == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("env file %s not found", envFile)
		}
		return fmt.Errorf("load env file %s: %w", envFile, err)
	}
	return nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cotizador")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.time_format", "")
	v.SetDefault("logging.caller", false)
	v.SetDefault("logging.pretty", false)

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.key", "historialCotizaciones")
	v.SetDefault("storage.file.dir", ".cotizador")
	v.SetDefault("storage.sqlite.path", ".cotizador/cotizador.db")
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.postgres.table", "history_slots")
	v.SetDefault("storage.postgres.max_open_conns", 4)
	v.SetDefault("storage.postgres.max_idle_conns", 1)
	v.SetDefault("storage.postgres.conn_max_lifetime", "30m")
	v.SetDefault("storage.redis.url", "")
	v.SetDefault("storage.redis.prefix", "cotizador:")
	v.SetDefault("storage.redis.timeout", "5s")

	v.SetDefault("quote.timestamp_layout", "02/01/2006, 15:04:05")
	v.SetDefault("quote.timezone", "Local")

	v.SetDefault("export.dir", ".")
	v.SetDefault("export.csv_filename", "historial_seleccionado.csv")
	v.SetDefault("export.png_filename", "historial_seleccionado.png")
	v.SetDefault("export.chart_width", 1280)
	v.SetDefault("export.chart_height", 720)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "file", "sqlite", "postgres", "redis", "memory":
	default:
		return fmt.Errorf("storage.backend must be one of file, sqlite, postgres, redis, memory (got %q)", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	switch strings.ToLower(c.Storage.Backend) {
	case "file":
		if c.Storage.File.Dir == "" {
			return fmt.Errorf("storage.file.dir must be configured")
		}
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path must be configured")
		}
	case "postgres":
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn must be configured")
		}
	case "redis":
		if c.Storage.Redis.URL == "" {
			return fmt.Errorf("storage.redis.url must be configured")
		}
	}
	if c.Quote.TimestampLayout == "" {
		return fmt.Errorf("quote.timestamp_layout must not be empty")
	}
	if _, err := c.Quote.Location(); err != nil {
		return err
	}
	if c.Export.ChartWidth < 0 || c.Export.ChartHeight < 0 {
		return fmt.Errorf("export chart size cannot be negative")
	}
	return nil
}

// Location resolves the configured timezone.
func (q QuoteConfig) Location() (*time.Location, error) {
	if q.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return nil, fmt.Errorf("quote.timezone %q: %w", q.Timezone, err)
	}
	return loc, nil
}
