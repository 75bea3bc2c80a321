package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable Load reads,
// e.g. LUMEN_DATABASE_URL for database.url.
const EnvPrefix = "LUMEN"

// setDefaults registers every key so that AutomaticEnv can resolve it during
// Unmarshal. Keys without a sensible default are registered empty.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.migrate_on_start", false)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("queue.addr", "localhost:6379")
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 0)
	v.SetDefault("queue.name", "task_queue")
	v.SetDefault("queue.consumer_name", "")
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.retry_delay", 5*time.Second)
	v.SetDefault("queue.health_interval", 5*time.Second)
	v.SetDefault("queue.poll_timeout", 5*time.Second)

	v.SetDefault("worker.handler_timeout", 10*time.Minute)
	v.SetDefault("worker.requeue_retryable", false)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.text_model", "gemini-2.5-flash")
	v.SetDefault("llm.embedding_model", "gemini-embedding-001")
	v.SetDefault("llm.embedding_dimensions", 3072)
	v.SetDefault("llm.image_models", []string{"imagen-4.0-generate-001", "gemini-2.5-flash-image"})
	v.SetDefault("llm.tts_model", "gemini-2.5-flash-preview-tts")
	v.SetDefault("llm.tts_voice", "Kore")
	v.SetDefault("llm.content_language", "Spanish")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay", 2*time.Second)
	v.SetDefault("llm.base_url", "")

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.public_url", "")

	v.SetDefault("search.addr", "localhost:6379")
	v.SetDefault("search.password", "")
	v.SetDefault("search.db", 0)
	v.SetDefault("search.key_prefix", "lumen:search")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Queue.ConsumerName == "" {
		cfg.Queue.ConsumerName = defaultConsumerName()
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// defaultConsumerName is unique per process so that two processes on one
// host never share an in-flight list.
func defaultConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}

// Validate checks the struct tags of a populated Config.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
