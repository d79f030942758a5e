package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/antifraud-service/internal/config"
	"github.com/segmentio/kafka-go"
)

// VerdictEvent is the audit record published for every evaluated transaction
type VerdictEvent struct {
	TransactionID int64     `json:"transaction_id"`
	CardNumber    string    `json:"card_number"`
	Amount        int64     `json:"amount"`
	Region        string    `json:"region"`
	Verdict       string    `json:"verdict"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// VerdictEventProducer publishes verdict events to the audit topic
type VerdictEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewVerdictEventProducer creates the verdict event producer and ensures the topic exists
func NewVerdictEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*VerdictEventProducer, error) {
	if cfg.VerdictTopic == "" {
		return nil, fmt.Errorf("kafka verdict topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for verdict producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.VerdictTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure verdict topic %s exists: %w", cfg.VerdictTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.VerdictTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Audit stream is best-effort, favor throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write verdict events asynchronously", "topic", cfg.VerdictTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote verdict events asynchronously", "topic", cfg.VerdictTopic, "count", len(messages))
			}
		},
	}

	return &VerdictEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.VerdictTopic,
	}, nil
}

func (p *VerdictEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish verdict event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish verdict event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published verdict event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *VerdictEventProducer) Close() error {
	p.logger.Info("Closing verdict event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
