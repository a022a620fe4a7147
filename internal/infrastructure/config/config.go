package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	pkgkafka "github.com/Shreyashgol/genAI-capstone-project/pkg/kafka"
	pkgpostgres "github.com/Shreyashgol/genAI-capstone-project/pkg/postgres"
)

// Config holds all configuration for the churn service.
type Config struct {
	// gRPC server port
	GRPCPort int
	// HTTP port for health, metrics and the JSON API
	HTTPPort int
	// Per-tenant request rate on the JSON API; burst is twice this.
	RateLimitRPS int
	// Service name for observability
	ServiceName string
	Environment string

	Database pkgpostgres.Config
	Kafka    KafkaConfig
	Model    ModelConfig
	Auth     AuthConfig
	TLS      TLSConfig
	Log      LogConfig

	// Registers the gRPC reflection service, for grpcurl in development.
	GRPCReflection bool

	// OTLP collector endpoint; tracing is local-only when empty.
	OTLPEndpoint string
	// Overrides the migrations compiled into the binary.
	MigrationsDir string
}

// KafkaConfig holds broker settings and topic names.
type KafkaConfig struct {
	Brokers       []string
	EventsTopic   string
	ScoringTopic  string
	ConsumerGroup string
}

// ModelConfig locates the frozen artifacts and the evaluation datasets.
type ModelConfig struct {
	ArtifactDir     string
	DatasetDir      string
	StrictAlignment bool
}

// AuthConfig configures JWT validation on the gRPC API.
type AuthConfig struct {
	Secret        string
	PublicKeyPEM  string
	PublicKeyFile string
}

// TLSConfig enables TLS on the gRPC listener when both files are set.
// A client CA additionally requires client certificates.
type TLSConfig struct {
	CertFile     string
	KeyFile      string
	ClientCAFile string
}

func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		GRPCPort:     getEnvInt("GRPC_PORT", 9090),
		HTTPPort:     getEnvInt("HTTP_PORT", 8080),
		RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 50),
		ServiceName:  getEnv("SERVICE_NAME", "churn-service"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		Database: pkgpostgres.Config{
			URL:             os.Getenv("DATABASE_URL"),
			ApplicationName: getEnv("SERVICE_NAME", "churn-service"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "churn"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "churn"),
			SSLMode:         getEnv("DB_SSLMODE", "require"),
			MaxConns:        int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns:        int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		Kafka: KafkaConfig{
			Brokers:       pkgkafka.ParseBrokers(getEnv("KAFKA_BROKERS", "localhost:9092")),
			EventsTopic:   getEnv("KAFKA_EVENTS_TOPIC", "churn.events"),
			ScoringTopic:  getEnv("KAFKA_SCORING_TOPIC", "churn.scoring.requests"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "churn-service"),
		},
		Model: ModelConfig{
			ArtifactDir:     getEnv("ARTIFACT_DIR", "models"),
			DatasetDir:      getEnv("DATASET_DIR", "data"),
			StrictAlignment: getEnvBool("STRICT_ALIGNMENT", false),
		},
		Auth: AuthConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			PublicKeyPEM:  os.Getenv("JWT_PUBLIC_KEY"),
			PublicKeyFile: os.Getenv("JWT_PUBLIC_KEY_FILE"),
		},
		TLS: TLSConfig{
			CertFile:     os.Getenv("GRPC_TLS_CERT_FILE"),
			KeyFile:      os.Getenv("GRPC_TLS_KEY_FILE"),
			ClientCAFile: os.Getenv("GRPC_TLS_CLIENT_CA_FILE"),
		},
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
	}
}

// Validate checks required configuration values and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if c.Database.URL == "" && c.Database.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required unless DATABASE_URL is set"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if c.Model.ArtifactDir == "" {
		errs = append(errs, errors.New("ARTIFACT_DIR is required"))
	}
	if c.Auth.Secret == "" && c.Auth.PublicKeyPEM == "" && c.Auth.PublicKeyFile == "" {
		errs = append(errs, errors.New("one of JWT_SECRET, JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE is required"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %d", c.RateLimitRPS))
	}
	for name, port := range map[string]int{"GRPC_PORT": c.GRPCPort, "HTTP_PORT": c.HTTPPort} {
		if port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s %d is out of range", name, port))
		}
	}
	return errors.Join(errs...)
}

// GRPCAddr returns the gRPC listen address.
func (c Config) GRPCAddr() string { return fmt.Sprintf(":%d", c.GRPCPort) }

// HTTPAddr returns the listen address of the HTTP server.
func (c Config) HTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
