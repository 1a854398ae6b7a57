package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/metno-forecast-etl/internal/config"
	"github.com/couchcryptid/metno-forecast-etl/internal/domain"
)

// Writer produces forecasts to the sink topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes serialized forecasts in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = toMessage(events[i])
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage converts an output event into a Kafka message. Header order is
// fixed so consumers and tests see a stable layout.
func toMessage(event domain.OutputEvent) kafkago.Message {
	msg := kafkago.Message{Key: event.Key, Value: event.Value}
	for _, k := range []string{"request_id", "units", "generated_at"} {
		if v, ok := event.Headers[k]; ok {
			msg.Headers = append(msg.Headers, kafkago.Header{Key: k, Value: []byte(v)})
		}
	}
	return msg
}

// RequestWriter publishes forecast requests to the source topic.
// It implements scheduler.RequestPublisher.
type RequestWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewRequestWriter creates a Kafka producer for the configured source topic.
func NewRequestWriter(cfg *config.Config, logger *slog.Logger) *RequestWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSourceTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &RequestWriter{writer: w, logger: logger}
}

// PublishRequests writes one message per request, keyed by point.
func (w *RequestWriter) PublishRequests(ctx context.Context, reqs []domain.ForecastRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(reqs))
	for i, req := range reqs {
		msg, err := serializeRequest(req)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *RequestWriter) Close() error {
	return w.writer.Close()
}

func serializeRequest(req domain.ForecastRequest) (kafkago.Message, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast request: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(domain.PointKey(req.GeoPoint)),
		Value: data,
	}, nil
}
