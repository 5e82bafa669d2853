// Package config loads and validates harvester configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable bound to a key.
const EnvPrefix = "LAWHARVEST"

// Index backends.
const (
	BackendNone          = "none"
	BackendSQLite        = "sqlite"
	BackendElasticsearch = "elasticsearch"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Fetch         FetchConfig         `mapstructure:"fetch"`
	Crawl         CrawlConfig         `mapstructure:"crawl"`
	Output        OutputConfig        `mapstructure:"output"`
	Index         IndexConfig         `mapstructure:"index"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Log           LogConfig           `mapstructure:"log"`
}

// FetchConfig controls the HTTP fetcher.
type FetchConfig struct {
	RequestDelay       time.Duration `mapstructure:"request_delay"`
	Jitter             time.Duration `mapstructure:"jitter"`
	MaxRetries         int           `mapstructure:"max_retries"`
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxBackoff         time.Duration `mapstructure:"max_backoff"`
	MaxTimeout         time.Duration `mapstructure:"max_timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	RateLimit          float64       `mapstructure:"rate_limit"`
}

// CrawlConfig controls per-run scheduling.
type CrawlConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// OutputConfig locates the bulk files.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// IndexConfig selects where records are indexed.
type IndexConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// ElasticsearchConfig holds the cluster connection.
type ElasticsearchConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Index    string `mapstructure:"index"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// legacyEnv maps keys to the unprefixed variable names older deployments set.
var legacyEnv = map[string]string{
	"fetch.request_delay":    "REQUEST_DELAY",
	"fetch.max_retries":      "MAX_RETRIES",
	"fetch.timeout":          "TIMEOUT",
	"elasticsearch.host":     "ELASTICSEARCH_HOST",
	"elasticsearch.port":     "ELASTICSEARCH_PORT",
	"elasticsearch.index":    "ELASTICSEARCH_INDEX",
	"elasticsearch.username": "ELASTICSEARCH_USERNAME",
	"elasticsearch.password": "ELASTICSEARCH_PASSWORD",
}

// durationKeys accept a bare number of seconds as well as a Go duration.
var durationKeys = []string{
	"fetch.request_delay",
	"fetch.jitter",
	"fetch.timeout",
	"fetch.max_backoff",
	"fetch.max_timeout",
}

// LoadDotEnv loads variables from the given files into the environment
// without overriding variables already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds a Config from defaults, the environment and the optional
// config file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for _, key := range durationKeys {
		if secs, err := strconv.ParseFloat(v.GetString(key), 64); err == nil {
			v.Set(key, time.Duration(secs*float64(time.Second)))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.request_delay", 3*time.Second)
	v.SetDefault("fetch.jitter", 500*time.Millisecond)
	v.SetDefault("fetch.max_retries", 5)
	v.SetDefault("fetch.timeout", 180*time.Second)
	v.SetDefault("fetch.max_backoff", 60*time.Second)
	v.SetDefault("fetch.max_timeout", 600*time.Second)
	v.SetDefault("fetch.insecure_skip_verify", false)
	v.SetDefault("fetch.rate_limit", 1.0)
	v.SetDefault("crawl.concurrency", 10)
	v.SetDefault("output.dir", "output")
	v.SetDefault("index.backend", BackendSQLite)
	v.SetDefault("index.sqlite_path", "output/index.db")
	v.SetDefault("elasticsearch.host", "localhost")
	v.SetDefault("elasticsearch.port", 9200)
	v.SetDefault("elasticsearch.index", "kenya_law")
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Validate enforces required values and reasonable limits.
func (c *Config) Validate() error {
	if c.Fetch.MaxRetries <= 0 {
		return fmt.Errorf("fetch.max_retries must be > 0")
	}
	if c.Fetch.RequestDelay < 0 || c.Fetch.Jitter < 0 {
		return fmt.Errorf("fetch.request_delay and fetch.jitter must be >= 0")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if c.Fetch.MaxTimeout < c.Fetch.Timeout {
		return fmt.Errorf("fetch.max_timeout must be >= fetch.timeout")
	}
	if c.Crawl.Concurrency <= 0 {
		return fmt.Errorf("crawl.concurrency must be > 0")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must be set")
	}
	switch c.Index.Backend {
	case BackendNone:
	case BackendSQLite:
		if c.Index.SQLitePath == "" {
			return fmt.Errorf("index.sqlite_path must be set for the sqlite backend")
		}
	case BackendElasticsearch:
		if c.Elasticsearch.Index == "" {
			return fmt.Errorf("elasticsearch.index must be set for the elasticsearch backend")
		}
		if c.Elasticsearch.Port <= 0 {
			return fmt.Errorf("elasticsearch.port must be > 0")
		}
	default:
		return fmt.Errorf("index.backend must be one of none, sqlite, elasticsearch; got %q", c.Index.Backend)
	}
	return nil
}
