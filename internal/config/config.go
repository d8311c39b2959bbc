package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Supported dataset sources.
const (
	SourceFiles    = "files"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config captures all runtime configuration. Values come from environment
// variables, or from the YAML file named by CONFIG_FILE with environment
// variables taking precedence.
type Config struct {
	Port             string `yaml:"port" env:"PORT" env-default:"8080"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs" env:"SERVER_READ_TIMEOUT" env-default:"15"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs" env:"SERVER_WRITE_TIMEOUT" env-default:"15"`
	IdleTimeoutSecs  int    `yaml:"idle_timeout_secs" env:"SERVER_IDLE_TIMEOUT" env-default:"60"`

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`

	DataSource      string `yaml:"data_source" env:"DATA_SOURCE" env-default:"files"`
	DataDir         string `yaml:"data_dir" env:"DATA_DIR" env-default:"data"`
	DataFormat      string `yaml:"data_format" env:"DATA_FORMAT" env-default:"dat"`
	DataEncoding    string `yaml:"data_encoding" env:"DATA_ENCODING"`
	LoadTimeoutSecs int    `yaml:"load_timeout_secs" env:"LOAD_TIMEOUT_SECS" env-default:"120"`

	DatasetURL         string `yaml:"dataset_url" env:"DATASET_URL"`
	DatasetAPIKey      string `yaml:"-" env:"DATASET_API_KEY"`
	DatasetTimeoutSecs int    `yaml:"dataset_timeout_secs" env:"DATASET_TIMEOUT_SECS" env-default:"30"`

	DBURL             string `yaml:"-" env:"DB_URL"`
	DBMaxConns        int    `yaml:"db_max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	DBMinConns        int    `yaml:"db_min_conns" env:"DB_MIN_CONNS" env-default:"1"`
	DBMaxIdleSecs     int    `yaml:"db_max_conn_idle_secs" env:"DB_MAX_CONN_IDLE_SECS" env-default:"300"`
	DBMaxLifeSecs     int    `yaml:"db_max_conn_lifetime_secs" env:"DB_MAX_CONN_LIFETIME_SECS" env-default:"3600"`
	DBConnTimeoutSecs int    `yaml:"db_conn_timeout_secs" env:"DB_CONN_TIMEOUT_SECS" env-default:"10"`
	DBStatementCache  int    `yaml:"db_statement_cache_capacity" env:"DB_STATEMENT_CACHE_CAPACITY" env-default:"256"`
}

// Load reads configuration, applying defaults and validation.
func Load() (Config, error) {
	var cfg Config
	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and the settings required by the chosen
// data source.
func (cfg Config) Validate() error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if cfg.LoadTimeoutSecs <= 0 {
		return fmt.Errorf("LOAD_TIMEOUT_SECS must be positive")
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	switch strings.ToLower(cfg.DataFormat) {
	case "dat", "csv":
	default:
		return fmt.Errorf("DATA_FORMAT must be dat or csv")
	}
	switch strings.ToLower(cfg.DataEncoding) {
	case "", "utf8", "utf-8", "latin1", "iso-8859-1":
	default:
		return fmt.Errorf("DATA_ENCODING must be utf8 or latin1")
	}

	switch cfg.DataSource {
	case SourceFiles:
		if cfg.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the files source")
		}
	case SourceHTTP:
		if cfg.DatasetURL == "" {
			return fmt.Errorf("DATASET_URL is required for the http source")
		}
		if cfg.DatasetTimeoutSecs <= 0 {
			return fmt.Errorf("DATASET_TIMEOUT_SECS must be positive")
		}
	case SourcePostgres:
		if err := cfg.ValidateDB(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be one of files, http, postgres")
	}
	return nil
}

// ValidateDB checks the postgres settings. It is also used by commands that
// write to postgres regardless of DATA_SOURCE.
func (cfg Config) ValidateDB() error {
	if cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if cfg.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	return nil
}
