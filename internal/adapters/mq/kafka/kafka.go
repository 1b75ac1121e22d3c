// Package kafka publishes league domain events.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/okian/fcleague/pkg/logger"
	"github.com/okian/fcleague/pkg/metrics"
)

// EventType names a domain event.
type EventType string

// Event types.
const (
	MatchRecorded       EventType = "match.recorded"
	TournamentFinalized EventType = "tournament.finalized"
	CouponsScored       EventType = "coupons.scored"
	ScheduleGenerated   EventType = "schedule.generated"
)

// Event is a domain event. Payload is encoded as JSON.
type Event struct {
	Type         EventType `json:"type"`
	TournamentID string    `json:"tournament_id"`
	OccurredAt   time.Time `json:"occurred_at"`
	Payload      any       `json:"payload,omitempty"`
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops events. It is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// SaramaPublisher sends events synchronously, keyed by tournament so a
// tournament's events stay ordered within a partition.
type SaramaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      logger.Logger
}

// NewConfig returns the producer configuration the publisher needs.
func NewConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	return cfg
}

// Dial connects a sync producer to brokers.
func Dial(brokers []string, topic string, opts ...Option) (*SaramaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewConfig())
	if err != nil {
		return nil, fmt.Errorf("connecting to kafka %v: %w", brokers, err)
	}
	return NewSaramaPublisher(producer, topic, opts...), nil
}

// NewSaramaPublisher wraps an existing producer.
func NewSaramaPublisher(producer sarama.SyncProducer, topic string, opts ...Option) *SaramaPublisher {
	p := &SaramaPublisher{
		producer: producer,
		topic:    topic,
		log:      logger.Named("events"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends e and waits for the broker acknowledgement.
func (p *SaramaPublisher) Publish(ctx context.Context, e Event) error {
	if e.Type == "" || e.TournamentID == "" {
		return ErrBadEvent
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", e.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.TournamentID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(e.Type)},
		},
		Timestamp: e.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		metrics.RecordEventPublishError(string(e.Type))
		p.log.Error(ctx, "event publish failed",
			logger.String("type", string(e.Type)),
			logger.String("tournament_id", e.TournamentID),
			logger.Error(err))
		return fmt.Errorf("publishing %s event: %w", e.Type, err)
	}

	metrics.RecordEventPublished(string(e.Type))
	p.log.Debug(ctx, "event published",
		logger.String("type", string(e.Type)),
		logger.String("tournament_id", e.TournamentID),
		logger.Int("partition", int(partition)),
		logger.Any("offset", offset))
	return nil
}

// Close flushes and closes the producer.
func (p *SaramaPublisher) Close() error {
	return p.producer.Close()
}
