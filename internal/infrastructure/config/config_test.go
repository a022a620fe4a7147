package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"GRPC_PORT", "HTTP_PORT", "RATE_LIMIT_RPS", "KAFKA_BROKERS", "ARTIFACT_DIR", "STRICT_ALIGNMENT", "DB_PASSWORD", "JWT_SECRET"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 50, cfg.RateLimitRPS)
	assert.Equal(t, ":9090", cfg.GRPCAddr())
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "churn.events", cfg.Kafka.EventsTopic)
	assert.Equal(t, "churn.scoring.requests", cfg.Kafka.ScoringTopic)
	assert.Equal(t, "churn-service", cfg.Kafka.ConsumerGroup)
	assert.Equal(t, "models", cfg.Model.ArtifactDir)
	assert.Equal(t, "data", cfg.Model.DatasetDir)
	assert.False(t, cfg.Model.StrictAlignment)
	assert.Equal(t, "require", cfg.Database.SSLMode)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("STRICT_ALIGNMENT", "true")
	t.Setenv("ARTIFACT_DIR", "/srv/models")

	cfg := Load()

	assert.Equal(t, 7000, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Model.StrictAlignment)
	assert.Equal(t, "/srv/models", cfg.Model.ArtifactDir)
}

func TestValidate(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_PUBLIC_KEY", "")
	t.Setenv("JWT_PUBLIC_KEY_FILE", "")

	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "signing-key")
	t.Setenv("DATABASE_URL", "postgres://churn:pw@pg:5432/churn")
	cfg := Load()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "postgres://churn:pw@pg:5432/churn", cfg.Database.DSN())

	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_PASSWORD", "secret")
	assert.NoError(t, Load().Validate())
}

func TestValidate_TLSPair(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "signing-key")
	t.Setenv("GRPC_TLS_CERT_FILE", "/etc/churn/tls.crt")
	t.Setenv("GRPC_TLS_KEY_FILE", "")

	cfg := Load()
	assert.False(t, cfg.TLS.Enabled())
	require.Error(t, cfg.Validate())

	t.Setenv("GRPC_TLS_KEY_FILE", "/etc/churn/tls.key")
	cfg = Load()
	assert.True(t, cfg.TLS.Enabled())
	assert.NoError(t, cfg.Validate())
}
