package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Queue    QueueConfig    `mapstructure:"queue" validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
	Search   SearchConfig   `mapstructure:"search" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// MigrateOnStart runs pending migrations before the API starts listening.
	MigrateOnStart bool `mapstructure:"migrate_on_start"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gt=0"`
}

// QueueConfig configures the Redis-backed message broker.
type QueueConfig struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	// Name is the durable task queue every producer and consumer shares.
	Name string `mapstructure:"name" validate:"required"`
	// ConsumerName identifies this process's in-flight list. Defaults to
	// <hostname>-<pid>; a fixed name must not be shared by live consumers.
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxRetries     int           `mapstructure:"max_retries" validate:"gt=0"`
	RetryDelay     time.Duration `mapstructure:"retry_delay" validate:"gt=0"`
	HealthInterval time.Duration `mapstructure:"health_interval" validate:"gt=0"`
	PollTimeout    time.Duration `mapstructure:"poll_timeout" validate:"gt=0"`
}

// WorkerConfig configures the task dispatcher.
type WorkerConfig struct {
	HandlerTimeout time.Duration `mapstructure:"handler_timeout" validate:"gt=0"`
	// RequeueRetryable puts transient, unrecorded failures back on the queue
	// instead of the dead-letter list.
	RequeueRetryable bool `mapstructure:"requeue_retryable"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey        string        `mapstructure:"gemini_api_key" validate:"required"`
	TextModel           string        `mapstructure:"text_model" validate:"required"`
	EmbeddingModel      string        `mapstructure:"embedding_model" validate:"required"`
	EmbeddingDimensions int           `mapstructure:"embedding_dimensions" validate:"gt=0"`
	ImageModels         []string      `mapstructure:"image_models" validate:"required,min=1,dive,required"`
	TTSModel            string        `mapstructure:"tts_model" validate:"required"`
	TTSVoice            string        `mapstructure:"tts_voice" validate:"required"`
	ContentLanguage     string        `mapstructure:"content_language" validate:"required"`
	MaxRetries          int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelay          time.Duration `mapstructure:"retry_delay" validate:"gt=0"`
	// BaseURL overrides the provider endpoint, mainly for local stubs.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// StorageConfig configures the S3-compatible blob bucket for images and audio.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	Region          string `mapstructure:"region" validate:"required"`
	Bucket          string `mapstructure:"bucket" validate:"required"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PublicURL       string `mapstructure:"public_url" validate:"required,url"`
}

// SearchConfig configures the Redis keyword index for study modules.
type SearchConfig struct {
	Addr      string `mapstructure:"addr" validate:"required,hostname_port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix" validate:"required"`
}
