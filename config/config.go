package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Dataset   DatasetConfig
	Scanner   ScannerConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port     string
	GinMode  string
	LogLevel string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// DatasetSource 票券資料來源
type DatasetSource string

const (
	DatasetSourceEmbedded DatasetSource = "embedded"
	DatasetSourceFile     DatasetSource = "file"
	DatasetSourcePostgres DatasetSource = "postgres"
)

type DatasetConfig struct {
	Source DatasetSource
	Path   string
}

// EventQueueBackend 掃描事件隊列實作
type EventQueueBackend string

const (
	EventQueueMemory      EventQueueBackend = "memory"
	EventQueueRedisStream EventQueueBackend = "redis"
	EventQueueKafka       EventQueueBackend = "kafka"
)

type ScannerConfig struct {
	DebounceWindow time.Duration
	EventLabel     string
	QRCodeSize     int
	EventQueue     EventQueueBackend
	QueueBuffer    int
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
	OTLPInsecure bool
}

var AppConfig *Config

// LoadConfig 讀取環境變數（若存在 .env 則先載入）
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}

	AppConfig = &Config{
		Server:    GetServerConfig(),
		Database:  GetDatabaseConfig(),
		Redis:     GetRedisConfig(),
		Kafka:     GetKafkaConfig(),
		Dataset:   GetDatasetConfig(),
		Scanner:   GetScannerConfig(),
		Telemetry: GetTelemetryConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Enabled:  true,
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Enabled:  true,
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "test", LogLevel: "debug"},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Kafka:    KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "ticket.scans.test", GroupID: "checkin-workers-test"},
		Dataset:  DatasetConfig{Source: DatasetSourceEmbedded},
		Scanner: ScannerConfig{
			DebounceWindow: 3 * time.Second,
			EventLabel:     "Farewell 2024-2025",
			QRCodeSize:     200,
			EventQueue:     EventQueueMemory,
			QueueBuffer:    16,
		},
		Telemetry: TelemetryConfig{ServiceName: "ticket-scanner-test"},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "release"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Enabled:  getEnvBool("DB_ENABLED", false),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Enabled:  getEnvBool("REDIS_ENABLED", false),
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetKafkaConfig() KafkaConfig {
	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return KafkaConfig{
		Brokers: brokers,
		Topic:   getEnv("KAFKA_TOPIC", "ticket.scans"),
		GroupID: getEnv("KAFKA_GROUP_ID", "checkin-workers"),
	}
}

func GetDatasetConfig() DatasetConfig {
	return DatasetConfig{
		Source: DatasetSource(getEnv("DATASET_SOURCE", string(DatasetSourceEmbedded))),
		Path:   getEnv("DATASET_PATH", "internal/dataset/ticket_db.json"),
	}
}

func GetScannerConfig() ScannerConfig {
	window, err := time.ParseDuration(getEnv("SCAN_DEBOUNCE", "3s"))
	if err != nil {
		panic(err)
	}
	size, err := strconv.Atoi(getEnv("QR_CODE_SIZE", "200"))
	if err != nil {
		panic(err)
	}
	buffer, err := strconv.Atoi(getEnv("SCAN_QUEUE_BUFFER", "256"))
	if err != nil {
		panic(err)
	}

	return ScannerConfig{
		DebounceWindow: window,
		EventLabel:     getEnv("EVENT_LABEL", "Farewell 2024-2025"),
		QRCodeSize:     size,
		EventQueue:     EventQueueBackend(getEnv("SCAN_EVENT_QUEUE", string(EventQueueMemory))),
		QueueBuffer:    buffer,
	}
}

func GetTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "ticket-scanner"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		panic(err)
	}
	return b
}
