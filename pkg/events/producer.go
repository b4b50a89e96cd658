package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/tulsi/pkg/models"
	"github.com/Ramsey-B/tulsi/pkg/tracing"
)

// Producer emits lifecycle events to a Kafka topic.
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

func (p *Producer) DevoteeCreated(ctx context.Context, devotee *models.Devotee) {
	p.publishDevoteeEvent(ctx, EventDevoteeCreated, devotee)
}

func (p *Producer) DevoteeUpdated(ctx context.Context, devotee *models.Devotee) {
	p.publishDevoteeEvent(ctx, EventDevoteeUpdated, devotee)
}

func (p *Producer) DevoteeDeleted(ctx context.Context, devotee *models.Devotee) {
	p.publishDevoteeEvent(ctx, EventDevoteeDeleted, devotee)
}

func (p *Producer) DevoteesPurged(ctx context.Context, nakshatra string, deleted int64) {
	ctx, span := tracing.StartSpan(ctx, "events.Producer.DevoteesPurged")
	defer span.End()

	event := PurgeEvent{
		EventType: EventDevoteesPurged,
		Nakshatra: nakshatra,
		Deleted:   deleted,
		Timestamp: time.Now().UTC(),
	}
	p.publish(ctx, event.EventType, nakshatra, event)
}

func (p *Producer) ImportCompleted(ctx context.Context, filename string, summary models.ImportSummary) {
	ctx, span := tracing.StartSpan(ctx, "events.Producer.ImportCompleted")
	defer span.End()

	event := ImportEvent{
		EventType:  EventImportCompleted,
		Filename:   filename,
		Created:    summary.Created,
		Duplicates: summary.Duplicates,
		Invalid:    summary.Invalid,
		Timestamp:  time.Now().UTC(),
	}
	p.publish(ctx, event.EventType, filename, event)
}

func (p *Producer) publishDevoteeEvent(ctx context.Context, eventType string, devotee *models.Devotee) {
	ctx, span := tracing.StartSpan(ctx, "events.Producer.publishDevoteeEvent")
	defer span.End()

	data, err := json.Marshal(devotee)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to marshal devotee event payload")
		return
	}

	event := DevoteeEvent{
		EventType: eventType,
		DevoteeID: devotee.ID.String(),
		Nakshatra: devotee.Nakshatra,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	p.publish(ctx, eventType, event.DevoteeID, event)
}

// publish is best-effort: failures are logged and swallowed so a broker
// outage never fails the request that produced the event.
func (p *Producer) publish(ctx context.Context, eventType, key string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error("Failed to marshal event")
		return
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "schema_version", Value: []byte("1.0")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": eventType,
		}).Error("Failed to publish event")
		return
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"event_type": eventType,
	}).Debug("Published event")
}
