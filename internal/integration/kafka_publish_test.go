//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/beaconx/disaster-predict/internal/adapter/kafka"
	"github.com/beaconx/disaster-predict/internal/artifact"
	"github.com/beaconx/disaster-predict/internal/artifact/fixture"
	"github.com/beaconx/disaster-predict/internal/config"
	"github.com/beaconx/disaster-predict/internal/domain"
	"github.com/beaconx/disaster-predict/internal/observability"
	"github.com/beaconx/disaster-predict/internal/predictor"
)

const testPredictionsTopic = "test-predictions"

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPredictionEventPublishing runs a real prediction against the demo
// artifact bundle and verifies the event lands on the predictions topic with
// the expected key, headers, and payload.
func TestPredictionEventPublishing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testPredictionsTopic)

	cfg := &config.Config{
		KafkaBrokers:          []string{broker},
		KafkaPredictionsTopic: testPredictionsTopic,
		KafkaEnabled:          true,
	}

	modelDir := t.TempDir()
	require.NoError(t, fixture.WriteBundle(modelDir))

	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()
	registry := artifact.NewRegistry(artifact.NewFileStore(modelDir), logger, metrics)

	publisher := kafkaadapter.NewPublisher(cfg, logger)
	t.Cleanup(func() { _ = publisher.Close() })

	p := predictor.New(registry, publisher, logger, metrics, clockwork.NewRealClock())

	result, err := p.PredictEarthquakeSeverity(ctx, domain.EarthquakeInput{
		Magnitude: 5.5, Depth: 10.0, Latitude: 25.0, Longitude: 80.0,
	})
	require.NoError(t, err)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testPredictionsTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from predictions topic")

	assert.Equal(t, []byte("earthquake_severity"), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "earthquake_severity", headers["use_case"])
	require.Contains(t, headers, "processed_at")
	_, err = time.Parse(time.RFC3339, headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	var event struct {
		UseCase string `json:"use_case"`
		Result  struct {
			Severity string `json:"severity"`
		} `json:"result"`
		ProcessedAt time.Time `json:"processed_at"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal prediction event")
	assert.Equal(t, "earthquake_severity", event.UseCase)
	assert.Equal(t, result.Severity.String(), event.Result.Severity)
	assert.False(t, event.ProcessedAt.IsZero())
}

// TestPublishFailureDoesNotFailPrediction points the publisher at a dead
// broker and verifies the prediction itself still serves.
func TestPublishFailureDoesNotFailPrediction(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := &config.Config{
		KafkaBrokers:          []string{"localhost:1"},
		KafkaPredictionsTopic: testPredictionsTopic,
		KafkaEnabled:          true,
	}

	modelDir := t.TempDir()
	require.NoError(t, fixture.WriteBundle(modelDir))

	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()
	registry := artifact.NewRegistry(artifact.NewFileStore(modelDir), logger, metrics)

	publisher := kafkaadapter.NewPublisher(cfg, logger)
	t.Cleanup(func() { _ = publisher.Close() })

	p := predictor.New(registry, publisher, logger, metrics, clockwork.NewRealClock())

	_, err := p.PredictEarthquakeSeverity(ctx, domain.EarthquakeInput{
		Magnitude: 5.5, Depth: 10.0, Latitude: 25.0, Longitude: 80.0,
	})
	assert.NoError(t, err)
}
