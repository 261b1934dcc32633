// Package config loads application configuration from file and environment.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Acquire AcquireConfig `yaml:"acquire" mapstructure:"acquire"`
	Match   MatchConfig   `yaml:"match" mapstructure:"match"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SearchConfig holds Google Custom Search credentials and pacing.
type SearchConfig struct {
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	EngineID    string        `yaml:"engine_id" mapstructure:"engine_id"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Delay       time.Duration `yaml:"delay" mapstructure:"delay"`
	DailyQuota  int           `yaml:"daily_quota" mapstructure:"daily_quota"`
	MaxRetries  int           `yaml:"max_retries" mapstructure:"max_retries"`
	TimeoutSecs int           `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	NumResults  int           `yaml:"num_results" mapstructure:"num_results"`
}

// AcquireConfig configures profile fetching and extraction.
type AcquireConfig struct {
	MaxRetries       int           `yaml:"max_retries" mapstructure:"max_retries"`
	TimeoutSecs      int           `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Delay            time.Duration `yaml:"delay" mapstructure:"delay"`
	RateLimitWait    time.Duration `yaml:"rate_limit_wait" mapstructure:"rate_limit_wait"`
	MaxContentLength int           `yaml:"max_content_length" mapstructure:"max_content_length"`
}

// MatchConfig configures keyword matching heuristics. The weights are
// carried over from the reference scoring scheme and are not empirically
// validated; override with care.
type MatchConfig struct {
	MinWordLength       int     `yaml:"min_word_length" mapstructure:"min_word_length"`
	MaxContexts         int     `yaml:"max_contexts" mapstructure:"max_contexts"`
	MaxContextLength    int     `yaml:"max_context_length" mapstructure:"max_context_length"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency   int `yaml:"concurrency" mapstructure:"concurrency"`
	ProgressEvery int `yaml:"progress_every" mapstructure:"progress_every"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml and SCOUT_-prefixed environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.path", "profile-scout.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("search.base_url", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("search.delay", 2*time.Second)
	v.SetDefault("search.daily_quota", 100)
	v.SetDefault("search.max_retries", 3)
	v.SetDefault("search.timeout_secs", 30)
	v.SetDefault("search.num_results", 5)
	v.SetDefault("acquire.max_retries", 2)
	v.SetDefault("acquire.timeout_secs", 30)
	v.SetDefault("acquire.delay", 2*time.Second)
	v.SetDefault("acquire.rate_limit_wait", 10*time.Second)
	v.SetDefault("acquire.max_content_length", 15000)
	v.SetDefault("match.min_word_length", 3)
	v.SetDefault("match.max_contexts", 3)
	v.SetDefault("match.max_context_length", 2000)
	v.SetDefault("match.similarity_threshold", 0.7)
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("batch.progress_every", 10)

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
