package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	IsProduction bool
	Server       ServerConfig
	Postgres     PostgresConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	Kafka        KafkaConfig
	MongoDB      MongoDBConfig
	WorkerPool   WorkerPoolConfig
	Logging      LoggingConfig
}

type ServerConfig struct {
	Port               string
	ShutdownTimeout    time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
}

type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

type AuthConfig struct {
	JWTSecret string
}

// RateLimitConfig uses the ulule limiter formatted rate, e.g. "100-M".
type RateLimitConfig struct {
	Rate string
}

type KafkaConfig struct {
	Brokers       []string
	EventsTopic   string
	ConsumerGroup string
	MinBytes      int
	MaxBytes      int
	MaxWait       time.Duration
	MaxAttempts      int
	RetryInterval    time.Duration
	MaxRetryInterval time.Duration
	ActorID          string
}

// MongoDBConfig configures the audit store. An empty URI disables it.
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

type WorkerPoolConfig struct {
	Size int
}

type LoggingConfig struct {
	Level string
}

// LoadConfig loads configuration from .env, ./configs/ledger.env and the environment.
func LoadConfig() (*Config, error) {
	return loadConfig("ledger")
}

func loadConfig(configName string) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("env")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		IsProduction: v.GetBool("IS_PRODUCTION"),
		Server: ServerConfig{
			Port:               v.GetString("PORT"),
			ShutdownTimeout:    v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:        v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:       v.GetDuration("SERVER_WRITE_TIMEOUT"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Postgres: PostgresConfig{
			URL:             v.GetString("PGSQL_URL"),
			MaxConns:        int32(v.GetInt("PGSQL_MAX_CONNS")),
			MinConns:        int32(v.GetInt("PGSQL_MIN_CONNS")),
			ConnMaxLifetime: v.GetDuration("PGSQL_MAX_CONN_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("PGSQL_MAX_CONN_IDLE_TIME"),
			MigrationsPath:  v.GetString("PGSQL_MIGRATIONS_PATH"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			Rate: v.GetString("RATE_LIMIT"),
		},
		Kafka: KafkaConfig{
			Brokers:          splitList(v.GetString("KAFKA_BROKERS")),
			EventsTopic:      v.GetString("KAFKA_EVENTS_TOPIC"),
			ConsumerGroup:    v.GetString("KAFKA_CONSUMER_GROUP"),
			MinBytes:         v.GetInt("KAFKA_CONSUMER_MIN_BYTES"),
			MaxBytes:         v.GetInt("KAFKA_CONSUMER_MAX_BYTES"),
			MaxWait:          v.GetDuration("KAFKA_CONSUMER_MAX_WAIT"),
			MaxAttempts:      v.GetInt("KAFKA_MAX_ATTEMPTS"),
			RetryInterval:    v.GetDuration("KAFKA_RETRY_INTERVAL"),
			MaxRetryInterval: v.GetDuration("KAFKA_MAX_RETRY_INTERVAL"),
			ActorID:          v.GetString("KAFKA_ACTOR_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:             v.GetString("MONGO_URI"),
			Database:        v.GetString("MONGO_DATABASE"),
			Timeout:         v.GetDuration("MONGO_TIMEOUT"),
			MaxPoolSize:     uint64(v.GetInt("MONGO_MAX_POOL_SIZE")),
			MinPoolSize:     uint64(v.GetInt("MONGO_MIN_POOL_SIZE")),
			MaxConnIdleTime: v.GetDuration("MONGO_MAX_CONN_IDLE_TIME"),
		},
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("IS_PRODUCTION", false)

	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PGSQL_MAX_CONNS", 20)
	v.SetDefault("PGSQL_MIN_CONNS", 2)
	v.SetDefault("PGSQL_MAX_CONN_LIFETIME", time.Hour)
	v.SetDefault("PGSQL_MAX_CONN_IDLE_TIME", 30*time.Minute)
	v.SetDefault("PGSQL_MIGRATIONS_PATH", "migrations")

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("RATE_LIMIT", "300-M")

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_EVENTS_TOPIC", "ledger_events")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "coop-ledger")
	v.SetDefault("KAFKA_CONSUMER_MIN_BYTES", 1)
	v.SetDefault("KAFKA_CONSUMER_MAX_BYTES", 10485760)
	v.SetDefault("KAFKA_CONSUMER_MAX_WAIT", time.Second)
	v.SetDefault("KAFKA_MAX_ATTEMPTS", 3)
	v.SetDefault("KAFKA_RETRY_INTERVAL", 2*time.Second)
	v.SetDefault("KAFKA_MAX_RETRY_INTERVAL", time.Minute)
	v.SetDefault("KAFKA_ACTOR_ID", "event-consumer")

	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DATABASE", "coop_ledger")
	v.SetDefault("MONGO_TIMEOUT", 10*time.Second)
	v.SetDefault("MONGO_MAX_POOL_SIZE", 50)
	v.SetDefault("MONGO_MIN_POOL_SIZE", 0)
	v.SetDefault("MONGO_MAX_CONN_IDLE_TIME", 30*time.Minute)

	v.SetDefault("WORKER_POOL_SIZE", 8)
	v.SetDefault("LOG_LEVEL", "info")
}

// validate reports every problem at once.
func (c *Config) validate() error {
	var problems []string

	if c.Postgres.URL == "" {
		problems = append(problems, "PGSQL_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		problems = append(problems, "PGSQL_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns {
		problems = append(problems, "PGSQL_MIN_CONNS cannot exceed PGSQL_MAX_CONNS")
	}
	if c.Server.Port == "" {
		problems = append(problems, "PORT is required")
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		problems = append(problems, "CORS_ALLOWED_ORIGINS is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		problems = append(problems, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	} else if c.IsProduction && len(c.Auth.JWTSecret) < 32 {
		problems = append(problems, "JWT_SECRET must be at least 32 characters in production")
	}
	if c.RateLimit.Rate == "" {
		problems = append(problems, "RATE_LIMIT is required")
	}
	if len(c.Kafka.Brokers) == 0 {
		problems = append(problems, "KAFKA_BROKERS is required")
	}
	if c.Kafka.EventsTopic == "" {
		problems = append(problems, "KAFKA_EVENTS_TOPIC is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		problems = append(problems, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MaxAttempts <= 0 {
		problems = append(problems, "KAFKA_MAX_ATTEMPTS must be greater than 0")
	}
	if c.MongoDB.URI != "" && c.MongoDB.Database == "" {
		problems = append(problems, "MONGO_DATABASE is required when MONGO_URI is set")
	}
	if c.WorkerPool.Size <= 0 {
		problems = append(problems, "WORKER_POOL_SIZE must be greater than 0")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, "LOG_LEVEL must be one of debug, info, warn, error")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
