package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Document store
	MongoURL      string
	MongoDatabase string
	MongoTimeout  time.Duration
	Collection    string

	// Artifact store
	ArtifactBaseDir string
	SchemaFilePath  string
	SchemaDomain    string

	// Prediction-log database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	ScoreCacheTTL  time.Duration

	// Run tracking
	KafkaBrokers   []string
	MetricsTopic   string
	ExperimentName string
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1*1024*1024)),

		MongoURL:      getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "loan_recovery"),
		MongoTimeout:  getDuration("MONGODB_TIMEOUT", 10*time.Second),
		Collection:    getEnv("BORROWER_COLLECTION", "borrowers"),

		ArtifactBaseDir: getEnv("ARTIFACT_BASE_DIR", "artifact"),
		SchemaFilePath:  getEnv("SCHEMA_FILE_PATH", "config/schema.yaml"),
		SchemaDomain:    getEnv("SCHEMA_DOMAIN", "loan_recovery"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "recovera"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "recovera123"),
		PostgresDB:       getEnv("POSTGRES_DB", "recovera"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		ScoreCacheTTL: getDuration("SCORE_CACHE_TTL", 5*time.Minute),

		KafkaBrokers:   getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		MetricsTopic:   getEnv("METRICS_TOPIC", "model-metrics"),
		ExperimentName: getEnv("EXPERIMENT_NAME", "LoanRecoveryExperiment"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		brokers := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				brokers = append(brokers, trimmed)
			}
		}
		if len(brokers) > 0 {
			return brokers
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
