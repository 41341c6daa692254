package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-level config
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	LogLevel string `yaml:"level"`
}

// MongoDB connection config
type MongoConfig struct {
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	URI             string        `yaml:"uri"`
	DBName          string        `yaml:"db_name"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
}

// Redis connection config
type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	EnableTLS      bool          `yaml:"enable_tls"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	CertContent    string        `yaml:"cert_content"`
}

// Kafka producer config for the payment ledger event stream
type KafkaConfig struct {
	Server           string        `yaml:"server"`
	PaymentTopic     string        `yaml:"payment_topic"`
	SecurityProtocol string        `yaml:"security_protocol"`
	SASLMechanism    string        `yaml:"sasl_mechanism"`
	SASLUsername     string        `yaml:"sasl_username"`
	SASLPassword     string        `yaml:"sasl_password"`
	SessionTimeoutMs int           `yaml:"session_timeout_ms"`
	ClientID         string        `yaml:"client_id"`
	DeliveryTimeout  time.Duration `yaml:"delivery_timeout"`
}

type PubSubConfig struct {
	ProjectID         string `yaml:"project_id"`
	NotificationTopic string `yaml:"notification_topic"`
}

type GCSConfig struct {
	BucketName string `yaml:"bucket_name"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LedgerConfig tunes chalan generation and payment recording.
type LedgerConfig struct {
	Timezone              string        `yaml:"timezone"`
	MaxWriteRetries       int           `yaml:"max_write_retries"`
	TransactionTimeout    time.Duration `yaml:"transaction_timeout"`
	ChalanNodeID          int64         `yaml:"chalan_node_id"`
	GenerationLockRetries int           `yaml:"generation_lock_retries"`
	GenerationLockBackoff time.Duration `yaml:"generation_lock_backoff"`
	GenerationMarkerTTL   time.Duration `yaml:"generation_marker_ttl"`
	ScheduleCacheTTL      time.Duration `yaml:"schedule_cache_ttl"`
}

type BulkGenerationConfig struct {
	WorkerCount int `yaml:"worker_count"`
	BufferSize  int `yaml:"buffer_size"`
}

type EventRetryConfig struct {
	RetryStartDate string        `yaml:"retry_start_date"`
	WorkerCount    int           `yaml:"worker_count"`
	BufferSize     int           `yaml:"buffer_size"`
	MaxBatchSize   int           `yaml:"max_batch_size"`
	MongoBatchSize int32         `yaml:"mongo_batch_size"`
	FlushInterval  time.Duration `yaml:"flush_interval"`
}

type ReportsConfig struct {
	DefaulterExportCron string `yaml:"defaulter_export_cron"`
}

// AppConfig is the main config struct that holds all configs
type AppConfig struct {
	Server         ServerConfig         `yaml:"server"`
	Logging        LogConfig            `yaml:"logging"`
	Mongo          MongoConfig          `yaml:"mongo"`
	Redis          RedisConfig          `yaml:"redis"`
	Kafka          KafkaConfig          `yaml:"kafka"`
	PubSub         PubSubConfig         `yaml:"pubsub"`
	GCS            GCSConfig            `yaml:"gcs"`
	Otel           OtelConfig           `yaml:"otel"`
	Ledger         LedgerConfig         `yaml:"ledger"`
	BulkGeneration BulkGenerationConfig `yaml:"bulk_generation"`
	EventRetry     EventRetryConfig     `yaml:"event_retry"`
	Reports        ReportsConfig        `yaml:"reports"`
}

// Location returns the school time zone used for date-only comparisons.
func (l LedgerConfig) Location() *time.Location {
	if l.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// nolint: funlen
func assignDefaultConfigValues(cfg *AppConfig) *AppConfig {

	// server config defaults
	cfg.Server.Port = GetEnvOrDefaultAsInt("SERVER_PORT", orInt(cfg.Server.Port, 8080))
	cfg.Server.ShutdownTimeout = GetEnvOrDefaultAsDuration("SERVER_SHUTDOWN_TIMEOUT",
		orDuration(cfg.Server.ShutdownTimeout, 10*time.Second))

	cfg.Logging.LogLevel = GetEnvOrDefaultAsString("LOGGING_LEVEL", cfg.Logging.LogLevel)

	// MongoDB config defaults
	cfg.Mongo.URI = GetEnvOrDefaultAsString("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.DBName = GetEnvOrDefaultAsString("MONGO_DB_NAME", cfg.Mongo.DBName)
	cfg.Mongo.Username = GetEnvOrDefaultAsString("MONGO_USERNAME", cfg.Mongo.Username)
	cfg.Mongo.Password = GetEnvOrDefaultAsString("MONGO_PASSWORD", cfg.Mongo.Password)
	cfg.Mongo.MaxPoolSize = GetEnvOrDefaultAsUint64("MONGO_MAX_POOL_SIZE", orUint64(cfg.Mongo.MaxPoolSize, 20))
	cfg.Mongo.MinPoolSize = GetEnvOrDefaultAsUint64("MONGO_MIN_POOL_SIZE", orUint64(cfg.Mongo.MinPoolSize, 5))
	cfg.Mongo.MaxConnIdleTime = GetEnvOrDefaultAsDuration("MONGO_MAX_CONN_IDLE_TIME",
		orDuration(cfg.Mongo.MaxConnIdleTime, 30*time.Minute))
	cfg.Mongo.ConnectTimeout = GetEnvOrDefaultAsDuration("MONGO_CONNECT_TIMEOUT",
		orDuration(cfg.Mongo.ConnectTimeout, 10*time.Second))

	// Redis config defaults
	cfg.Redis.Addr = GetEnvOrDefaultAsString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnvOrDefaultAsString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvOrDefaultAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.EnableTLS = GetEnvOrDefaultAsBool("REDIS_ENABLE_TLS", cfg.Redis.EnableTLS)
	cfg.Redis.ConnectTimeout = GetEnvOrDefaultAsDuration("REDIS_CONNECT_TIMEOUT",
		orDuration(cfg.Redis.ConnectTimeout, 10*time.Second))
	cfg.Redis.CertContent = GetEnvOrDefaultAsString("REDIS_TLS_CERT", cfg.Redis.CertContent)

	// Kafka config defaults
	cfg.Kafka.Server = GetEnvOrDefaultAsString("KAFKA_SERVER", cfg.Kafka.Server)
	cfg.Kafka.PaymentTopic = GetEnvOrDefaultAsString("KAFKA_PAYMENT_TOPIC", cfg.Kafka.PaymentTopic)
	cfg.Kafka.SecurityProtocol = GetEnvOrDefaultAsString("KAFKA_SECURITY_PROTOCOL",
		orString(cfg.Kafka.SecurityProtocol, "PLAINTEXT"))
	cfg.Kafka.SASLMechanism = GetEnvOrDefaultAsString("KAFKA_SASL_MECHANISM", cfg.Kafka.SASLMechanism)
	cfg.Kafka.SASLUsername = GetEnvOrDefaultAsString("KAFKA_SASL_USERNAME", cfg.Kafka.SASLUsername)
	cfg.Kafka.SASLPassword = GetEnvOrDefaultAsString("KAFKA_SASL_PASSWORD", cfg.Kafka.SASLPassword)
	cfg.Kafka.SessionTimeoutMs = GetEnvOrDefaultAsInt("KAFKA_SESSION_TIMEOUT_MS", orInt(cfg.Kafka.SessionTimeoutMs, 15000))
	cfg.Kafka.ClientID = GetEnvOrDefaultAsString("KAFKA_CLIENT_ID", orString(cfg.Kafka.ClientID, "fee-ledger"))
	cfg.Kafka.DeliveryTimeout = GetEnvOrDefaultAsDuration("KAFKA_DELIVERY_TIMEOUT",
		orDuration(cfg.Kafka.DeliveryTimeout, 10*time.Second))

	// PubSub config defaults
	cfg.PubSub.ProjectID = GetEnvOrDefaultAsString("PROJECT_ID", cfg.PubSub.ProjectID)
	cfg.PubSub.NotificationTopic = GetEnvOrDefaultAsString("PUBSUB_NOTIFICATION_TOPIC", cfg.PubSub.NotificationTopic)

	cfg.GCS.BucketName = GetEnvOrDefaultAsString("GCS_BUCKET_NAME", cfg.GCS.BucketName)

	cfg.Otel.Enabled = GetEnvOrDefaultAsBool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = GetEnvOrDefaultAsString("OTEL_SERVICE_NAME", orString(cfg.Otel.ServiceName, "fee-ledger"))
	cfg.Otel.Endpoint = GetEnvOrDefaultAsString("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Insecure = GetEnvOrDefaultAsBool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	if cfg.Otel.SampleRatio == 0 {
		cfg.Otel.SampleRatio = 1
	}

	// Ledger defaults
	cfg.Ledger.Timezone = GetEnvOrDefaultAsString("LEDGER_TIMEZONE", orString(cfg.Ledger.Timezone, "UTC"))
	cfg.Ledger.MaxWriteRetries = GetEnvOrDefaultAsInt("LEDGER_MAX_WRITE_RETRIES", orInt(cfg.Ledger.MaxWriteRetries, 3))
	cfg.Ledger.TransactionTimeout = GetEnvOrDefaultAsDuration("LEDGER_TRANSACTION_TIMEOUT",
		orDuration(cfg.Ledger.TransactionTimeout, 15*time.Second))
	cfg.Ledger.ChalanNodeID = int64(GetEnvOrDefaultAsInt("LEDGER_CHALAN_NODE_ID", int(cfg.Ledger.ChalanNodeID)))
	cfg.Ledger.GenerationLockRetries = GetEnvOrDefaultAsInt("LEDGER_GENERATION_LOCK_RETRIES",
		orInt(cfg.Ledger.GenerationLockRetries, 5))
	cfg.Ledger.GenerationLockBackoff = GetEnvOrDefaultAsDuration("LEDGER_GENERATION_LOCK_BACKOFF",
		orDuration(cfg.Ledger.GenerationLockBackoff, 200*time.Millisecond))
	cfg.Ledger.GenerationMarkerTTL = GetEnvOrDefaultAsDuration("LEDGER_GENERATION_MARKER_TTL",
		orDuration(cfg.Ledger.GenerationMarkerTTL, 5*time.Minute))
	cfg.Ledger.ScheduleCacheTTL = GetEnvOrDefaultAsDuration("LEDGER_SCHEDULE_CACHE_TTL",
		orDuration(cfg.Ledger.ScheduleCacheTTL, 10*time.Minute))

	cfg.BulkGeneration.WorkerCount = GetEnvOrDefaultAsInt("BULK_GENERATION_WORKER_COUNT",
		orInt(cfg.BulkGeneration.WorkerCount, 8))
	cfg.BulkGeneration.BufferSize = GetEnvOrDefaultAsInt("BULK_GENERATION_BUFFER_SIZE",
		orInt(cfg.BulkGeneration.BufferSize, 100))

	cfg.EventRetry.RetryStartDate = GetEnvOrDefaultAsString("RETRY_START_DATE", cfg.EventRetry.RetryStartDate)
	cfg.EventRetry.WorkerCount = GetEnvOrDefaultAsInt("EVENT_RETRY_WORKER_COUNT", orInt(cfg.EventRetry.WorkerCount, 4))
	cfg.EventRetry.BufferSize = GetEnvOrDefaultAsInt("EVENT_RETRY_BUFFER_SIZE", orInt(cfg.EventRetry.BufferSize, 100))
	cfg.EventRetry.MaxBatchSize = GetEnvOrDefaultAsInt("EVENT_RETRY_MAX_BATCH_SIZE", orInt(cfg.EventRetry.MaxBatchSize, 50))
	cfg.EventRetry.MongoBatchSize = GetEnvOrDefaultAsInt32("EVENT_RETRY_MONGO_BATCH_SIZE",
		orInt32(cfg.EventRetry.MongoBatchSize, 100))
	cfg.EventRetry.FlushInterval = GetEnvOrDefaultAsDuration("EVENT_RETRY_FLUSH_INTERVAL",
		orDuration(cfg.EventRetry.FlushInterval, 500*time.Millisecond))

	cfg.Reports.DefaulterExportCron = GetEnvOrDefaultAsString("DEFAULTER_EXPORT_CRON", cfg.Reports.DefaulterExportCron)
	return cfg
}

// LoadFromConfigFilePath loads and parses config file into AppConfig
func LoadFromConfigFilePath(configPath string) (*AppConfig, error) {

	// #nosec G304: configPath comes from the deployment environment
	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error("Failed to read config file", err, slog.String("path", configPath))
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("Failed to unmarshal config", err)
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaultCfg := assignDefaultConfigValues(&cfg)

	if err := validateConfig(defaultCfg); err != nil {
		logger.Error("Config validation failed", err)
		return nil, err
	}

	logger.Info("Configuration loaded successfully", slog.String("path", configPath))

	return defaultCfg, nil
}

// LoadFromConfig loads a .env file when present and then the config file named by CONFIG_PATH.
func LoadFromConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Failed to load .env file", slog.String("error", err.Error()))
	}

	configPath := GetEnvOrDefaultAsString("CONFIG_PATH", "configs/config.yaml")

	cfg, err := LoadFromConfigFilePath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	return cfg, nil
}

func validateConfig(cfg *AppConfig) error {
	if err := validateMongoConfig(cfg.Mongo); err != nil {
		return err
	}
	if err := validateKafkaConfig(cfg.Kafka); err != nil {
		return err
	}
	if err := validateLedgerConfig(cfg.Ledger); err != nil {
		return err
	}
	if cfg.BulkGeneration.WorkerCount < 1 || cfg.BulkGeneration.WorkerCount > 64 {
		return fmt.Errorf("bulk_generation.worker_count must be between 1 and 64, got %d",
			cfg.BulkGeneration.WorkerCount)
	}
	if cfg.EventRetry.WorkerCount < 1 || cfg.EventRetry.MaxBatchSize < 1 {
		return fmt.Errorf("event_retry.worker_count and event_retry.max_batch_size must be positive")
	}
	return nil
}

func validateMongoConfig(mongo MongoConfig) error {
	if mongo.URI == "" || mongo.DBName == "" {
		return fmt.Errorf("mongo.uri and mongo.db_name are required")
	}

	if mongo.MinPoolSize < 1 || mongo.MinPoolSize > 10 {
		return fmt.Errorf(
			"mongo.min_pool_size must be between 1 and 10, got %d",
			mongo.MinPoolSize,
		)
	}

	if mongo.MaxPoolSize < 10 || mongo.MaxPoolSize > 50 {
		return fmt.Errorf(
			"mongo.max_pool_size must be between 10 and 50, got %d",
			mongo.MaxPoolSize,
		)
	}

	minIdle := 5 * time.Minute
	maxIdle := 30 * time.Minute
	if mongo.MaxConnIdleTime < minIdle || mongo.MaxConnIdleTime > maxIdle {
		return fmt.Errorf(
			"mongo.max_conn_idle_time must be between %v and %v, got %v",
			minIdle,
			maxIdle,
			mongo.MaxConnIdleTime,
		)
	}

	return nil
}

func validateKafkaConfig(kafka KafkaConfig) error {
	if kafka.SessionTimeoutMs < 10000 || kafka.SessionTimeoutMs > 15000 {
		return fmt.Errorf(
			"kafka.session_timeout_ms must be between 10000 and 15000 ms, got %d",
			kafka.SessionTimeoutMs,
		)
	}
	return nil
}

func validateLedgerConfig(ledger LedgerConfig) error {
	if _, err := time.LoadLocation(ledger.Timezone); err != nil {
		return fmt.Errorf("ledger.timezone %q is not a valid IANA zone: %w", ledger.Timezone, err)
	}
	if ledger.MaxWriteRetries < 1 || ledger.MaxWriteRetries > 10 {
		return fmt.Errorf("ledger.max_write_retries must be between 1 and 10, got %d", ledger.MaxWriteRetries)
	}
	// snowflake reserves 10 bits for the node id
	if ledger.ChalanNodeID < 0 || ledger.ChalanNodeID > 1023 {
		return fmt.Errorf("ledger.chalan_node_id must be between 0 and 1023, got %d", ledger.ChalanNodeID)
	}
	if ledger.GenerationLockRetries < 1 {
		return fmt.Errorf("ledger.generation_lock_retries must be positive, got %d", ledger.GenerationLockRetries)
	}
	if ledger.GenerationMarkerTTL < 0 {
		return fmt.Errorf("ledger.generation_marker_ttl must not be negative, got %s", ledger.GenerationMarkerTTL)
	}
	return nil
}

// GetEnvOrDefaultAsInt returns the value of the given env variable
// as an int or the default value if not set or invalid.
func GetEnvOrDefaultAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return int(value)
}

// GetEnvOrDefaultAsString returns the value of the given env variable or the default value if not set.
func GetEnvOrDefaultAsString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		if val != "" {
			return val
		}
	}
	return defaultVal
}

func GetEnvOrDefaultAsUint64(key string, defaultValue uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsInt32(key string, defaultValue int32) int32 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 32)
	if err != nil {
		return defaultValue
	}
	return int32(value)
}

func GetEnvOrDefaultAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvOrDefaultAsDuration accepts Go duration strings such as "500ms" or "10s".
func GetEnvOrDefaultAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orInt32(v, def int32) int32 {
	if v == 0 {
		return def
	}
	return v
}

func orUint64(v, def uint64) uint64 {
	if v == 0 {
		return def
	}
	return v
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	return v
}
