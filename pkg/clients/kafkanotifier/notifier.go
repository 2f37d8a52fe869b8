package kafkanotifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// event is the wire payload published per notification
type event struct {
	UserID     string    `json:"user_id"`
	Message    string    `json:"message"`
	ActionLink string    `json:"action_link"`
	SentAt     time.Time `json:"sent_at"`
}

// Notifier publishes notification events to a Kafka topic. Delivery to the
// user (telegram, mail, in-app) is someone else's consumer; this side only
// guarantees the event reaches the broker.
type Notifier struct {
	writer *kafka.Writer
}

// NewNotifier creates a Kafka-backed notification sink
func NewNotifier(brokers []string, topic string) *Notifier {
	return &Notifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
		},
	}
}

// Notify publishes one notification event, keyed by user so per-user ordering
// is preserved
func (n *Notifier) Notify(ctx context.Context, userID, message, actionLink string) error {
	payload, err := json.Marshal(event{
		UserID:     userID,
		Message:    message,
		ActionLink: actionLink,
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Close releases the underlying writer
func (n *Notifier) Close() error {
	return n.writer.Close()
}
