package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fxresolver/internal/domain"
	"fxresolver/internal/rate"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RateEvent is the payload of every message on the rates topic.
type RateEvent struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Rate      float64   `json:"rate"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatePublisher emits a RateEvent for each rate fetched from a provider.
// Messages are keyed by pair so one pair always lands on one partition.
type RatePublisher struct {
	rate.NopObserver
	writer messageWriter
}

func (p *RatePublisher) RateUpdated(record domain.RateRecord) {
	if err := p.Publish(context.Background(), record); err != nil {
		logrus.WithError(err).WithField("pair", record.Pair.String()).Error("Failed to publish rate event")
	}
}

func (p *RatePublisher) Publish(ctx context.Context, record domain.RateRecord) error {
	msg, err := json.Marshal(RateEvent{
		From:      record.Pair.Base,
		To:        record.Pair.Quote,
		Rate:      record.Rate,
		Source:    record.Source,
		UpdatedAt: record.LastUpdated,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal rate event for %s: %w", record.Pair, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.Pair.String()),
		Value: msg,
		Time:  record.LastUpdated,
	})
	if err != nil {
		return fmt.Errorf("failed to write rate event for %s: %w", record.Pair, err)
	}
	return nil
}

func (p *RatePublisher) Close() error {
	return p.writer.Close()
}

// NewRatePublisher writes asynchronously so a slow broker never holds up a
// rate resolution; delivery errors are logged from the completion callback.
func NewRatePublisher(brokers []string, topic string) *RatePublisher {
	return &RatePublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
			Async:    true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					logrus.WithError(err).WithField("messages", len(messages)).Error("Failed to deliver rate events")
				}
			},
		},
	}
}
