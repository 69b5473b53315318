package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"

	ClicksModeDirect = "direct"
	ClicksModeKafka  = "kafka"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	Clicks   ClicksConfig
	Kafka    KafkaConfig
	Metrics  MetricsConfig
	Redirect RedirectConfig
	OTel     OTelConfig
}

type AppConfig struct {
	Name     string
	Version  string
	Env      string
	LogLevel string
}

type ServerConfig struct {
	Port string
	Host string
}

type StorageConfig struct {
	// LinksBackend is postgres, mongo or memory.
	LinksBackend   string
	MigrateOnStart bool
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
}

// DSN is the connection string handed to pgx. It is the escaped URL form so
// credentials with spaces or quotes survive.
func (p PostgresConfig) DSN() string {
	return p.URL()
}

// URL is the postgres:// form golang-migrate expects.
func (p PostgresConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	return u.String()
}

type MongoDBConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	MetricsKey string
	// InMemory swaps the Redis counter for a process-local one.
	InMemory bool
}

type ClicksConfig struct {
	Mode    string
	Timeout time.Duration
}

type KafkaConfig struct {
	Brokers        []string
	Topic          string
	GroupID        string
	FetchMaxWait   time.Duration
	OperationTTL   time.Duration
	ConsumeBackoff time.Duration
}

type MetricsConfig struct {
	// Mode is score (range by score value) or rank (top N).
	Mode         string
	DefaultLimit int
}

type RedirectConfig struct {
	Status int // 301 or 302
}

type OTelConfig struct {
	Enabled  bool
	Endpoint string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:     GetEnv("APP_NAME", "short-links"),
			Version:  GetEnv("APP_VERSION", "0.1.0"),
			Env:      GetEnv("APP_ENV", "development"),
			LogLevel: GetEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: GetEnv("APP_PORT", "3333"),
			Host: GetEnv("APP_HOST", "localhost"),
		},
		Storage: StorageConfig{
			LinksBackend:   GetEnv("STORAGE_BACKEND", BackendPostgres),
			MigrateOnStart: GetEnvBool("MIGRATE_ON_START", false),
		},
		Postgres: PostgresConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "5432"),
			User:     GetEnv("DB_USER", "docker"),
			Password: GetEnv("DB_PASSWORD", "docker"),
			Database: GetEnv("DB_NAME", "shortlinks"),
			SSLMode:  GetEnv("DB_SSL_MODE", "disable"),
			MaxConns: GetEnvInt("DB_MAX_CONNS", 10),
		},
		MongoDB: MongoDBConfig{
			URI:      GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: GetEnv("MONGODB_DATABASE", "shortlinks"),
		},
		Redis: RedisConfig{
			Addr:       GetEnv("REDIS_ADDR", "localhost:6379"),
			Password:   GetEnv("REDIS_PASSWORD", ""),
			DB:         GetEnvInt("REDIS_DB", 0),
			PoolSize:   GetEnvInt("REDIS_POOL_SIZE", 10),
			MetricsKey: GetEnv("REDIS_METRICS_KEY", "metrics"),
			InMemory:   GetEnvBool("REDIS_IN_MEMORY", false),
		},
		Clicks: ClicksConfig{
			Mode:    GetEnv("CLICKS_MODE", ClicksModeDirect),
			Timeout: GetEnvDuration("CLICK_TIMEOUT", 2*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:        SplitCSV(GetEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:          GetEnv("KAFKA_CLICK_TOPIC", "clicks.recorded"),
			GroupID:        GetEnv("KAFKA_CLICK_GROUP_ID", "click-counter"),
			FetchMaxWait:   GetEnvDuration("KAFKA_CONSUMER_MAX_WAIT", 500*time.Millisecond),
			OperationTTL:   GetEnvDuration("KAFKA_CONSUMER_OPERATION_TIMEOUT", 5*time.Second),
			ConsumeBackoff: GetEnvDuration("KAFKA_CONSUMER_BACKOFF", 500*time.Millisecond),
		},
		Metrics: MetricsConfig{
			Mode:         GetEnv("METRICS_MODE", "score"),
			DefaultLimit: GetEnvInt("METRICS_DEFAULT_LIMIT", 50),
		},
		Redirect: RedirectConfig{
			Status: GetEnvInt("REDIRECT_STATUS", 301),
		},
		OTel: OTelConfig{
			Enabled:  GetEnvBool("OTEL_ENABLED", false),
			Endpoint: GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Redirect.Status != 301 && c.Redirect.Status != 302 {
		return fmt.Errorf("REDIRECT_STATUS must be 301 or 302 (got %d)", c.Redirect.Status)
	}
	switch c.Storage.LinksBackend {
	case BackendPostgres, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be postgres, mongo or memory (got %q)", c.Storage.LinksBackend)
	}
	switch c.Metrics.Mode {
	case "score", "rank":
	default:
		return fmt.Errorf("METRICS_MODE must be score or rank (got %q)", c.Metrics.Mode)
	}
	if c.Metrics.DefaultLimit <= 0 {
		return fmt.Errorf("METRICS_DEFAULT_LIMIT must be > 0 (got %d)", c.Metrics.DefaultLimit)
	}
	switch c.Clicks.Mode {
	case ClicksModeDirect:
	case ClicksModeKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS must contain at least one broker when CLICKS_MODE=kafka")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("KAFKA_CLICK_TOPIC must not be empty")
		}
	default:
		return fmt.Errorf("CLICKS_MODE must be direct or kafka (got %q)", c.Clicks.Mode)
	}
	if c.Clicks.Timeout <= 0 {
		return fmt.Errorf("CLICK_TIMEOUT must be > 0")
	}
	return nil
}
