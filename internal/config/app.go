package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Import struct {
	MaxFileBytes      int64 `mapstructure:"max_file_bytes"`
	ValidationWorkers int   `mapstructure:"validation_workers"`
	StoreTimeoutMs    int   `mapstructure:"store_timeout_ms"`
}

func (i Import) StoreTimeout() time.Duration {
	return time.Duration(i.StoreTimeoutMs) * time.Millisecond
}

type Cache struct {
	KnownDealsMaxItems int64 `mapstructure:"known_deals_max_items"`
}

type Retention struct {
	ImportRunsDays int `mapstructure:"import_runs_days"`
	JobIntervalSec int `mapstructure:"job_interval_sec"`
}

func (r Retention) ImportRunsTTL() time.Duration {
	return time.Duration(r.ImportRunsDays) * 24 * time.Hour
}

func (r Retention) JobInterval() time.Duration {
	return time.Duration(r.JobIntervalSec) * time.Second
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	Logging    Logging    `mapstructure:"logging"`
	Import     Import     `mapstructure:"import"`
	Cache      Cache      `mapstructure:"cache"`
	Retention  Retention  `mapstructure:"retention"`
}

// Init reads config.yaml, then lets environment variables (optionally from .env) override it.
func Init() (*AppConfig, error) {
	return load("config.yaml")
}

func load(configFile string) (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("import.max_file_bytes", 10<<20)
	v.SetDefault("import.validation_workers", 4)
	v.SetDefault("import.store_timeout_ms", 5000)
	v.SetDefault("cache.known_deals_max_items", 100000)
	v.SetDefault("retention.import_runs_days", 30)
	v.SetDefault("retention.job_interval_sec", 3600)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// http server env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// logging env vars
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")

	// import pipeline env vars
	_ = v.BindEnv("import.max_file_bytes", "IMPORT_MAX_FILE_BYTES")
	_ = v.BindEnv("import.validation_workers", "IMPORT_VALIDATION_WORKERS")
	_ = v.BindEnv("import.store_timeout_ms", "IMPORT_STORE_TIMEOUT_MS")
	_ = v.BindEnv("cache.known_deals_max_items", "CACHE_KNOWN_DEALS_MAX_ITEMS")
	_ = v.BindEnv("retention.import_runs_days", "RETENTION_IMPORT_RUNS_DAYS")
	_ = v.BindEnv("retention.job_interval_sec", "RETENTION_JOB_INTERVAL_SEC")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *AppConfig) validate() error {
	if cfg.Import.MaxFileBytes <= 0 {
		return errors.New("import.max_file_bytes must be positive")
	}
	if cfg.Cache.KnownDealsMaxItems <= 0 {
		return errors.New("cache.known_deals_max_items must be positive")
	}
	if cfg.Retention.ImportRunsDays <= 0 {
		return errors.New("retention.import_runs_days must be positive")
	}
	return nil
}
