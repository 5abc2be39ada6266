package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kart-engine/internal/cart"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the recorder uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaRecorder publishes activities as JSON messages keyed by cart id, so the
// activities of one cart stay ordered within a partition.
type KafkaRecorder struct {
	writer MessageWriter
	topic  string
	logger zerolog.Logger
}

// NewKafkaWriter creates a writer for topic that hashes message keys to partitions.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewKafkaRecorder creates a recorder publishing through writer.
func NewKafkaRecorder(writer MessageWriter, topic string, logger zerolog.Logger) *KafkaRecorder {
	return &KafkaRecorder{
		writer: writer,
		topic:  topic,
		logger: logger.With().Str("component", "activity_kafka").Str("topic", topic).Logger(),
	}
}

func (r *KafkaRecorder) Record(ctx context.Context, activity cart.Activity) error {
	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("failed to encode activity: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(activity.CartID.String()),
		Value: data,
		Time:  activity.OccurredAt,
		Headers: []kafka.Header{
			{Key: "activity-type", Value: []byte(activity.Type)},
		},
	}
	if err := r.writer.WriteMessages(ctx, msg); err != nil {
		r.logger.Error().Err(err).Str("cart_id", activity.CartID.String()).Msg("failed to publish activity")
		return fmt.Errorf("failed to publish activity: %w", err)
	}

	r.logger.Debug().
		Str("cart_id", activity.CartID.String()).
		Str("activity", string(activity.Type)).
		Msg("activity published")
	return nil
}

// Close flushes pending messages and releases the writer.
func (r *KafkaRecorder) Close() error {
	return r.writer.Close()
}
