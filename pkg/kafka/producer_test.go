package kafka

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, ParseBrokers(""))
}

func TestNewProducer_UnsupportedSASL(t *testing.T) {
	_, err := NewProducer(Config{Brokers: []string{"k:9092"}, SASLEnabled: true, SASLMechanism: "GSSAPI"})
	require.Error(t, err)
}

func TestNewProducer_SASLAndTLS(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:       []string{"k:9092"},
		TLS:           true,
		SASLEnabled:   true,
		SASLMechanism: "SCRAM-SHA-512",
		SASLUsername:  "churn",
		SASLPassword:  "secret",
	})
	require.NoError(t, err)
	require.NotNil(t, p.transport.TLS)
	assert.Equal(t, "SCRAM-SHA-512", p.transport.SASL.Name())
}

func TestGetOrCreateWriter(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	w1 := p.getOrCreateWriter("churn.events")
	assert.Same(t, w1, p.getOrCreateWriter("churn.events"))
	assert.NotSame(t, w1, p.getOrCreateWriter("churn.scoring.requests"))
	assert.Len(t, p.writers, 2)

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestPublish_NoMessagesIsNoop(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), "churn.events"))
	assert.Empty(t, p.writers)
}

func TestMessageConversion(t *testing.T) {
	km := toKafkaMessage(Message{
		Key:     []byte("cust-1"),
		Value:   []byte(`{"p":0.7}`),
		Headers: map[string]string{"event_type": "churn.prediction.completed"},
	})
	km.Topic, km.Partition, km.Offset = "churn.events", 3, 42

	back := fromKafkaMessage(km)
	assert.Equal(t, []byte("cust-1"), back.Key)
	assert.Equal(t, "churn.prediction.completed", back.Headers["event_type"])
	assert.Equal(t, "churn.events", back.Topic)
	assert.Equal(t, 3, back.Partition)
	assert.Equal(t, int64(42), back.Offset)
}

func TestFromKafkaMessage_NoHeaders(t *testing.T) {
	msg := fromKafkaMessage(kafkago.Message{Value: []byte("x")})
	assert.NotNil(t, msg.Headers)
	assert.Empty(t, msg.Headers)
}
