package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fxresolver/internal/domain"
	"fxresolver/internal/rate"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

var _ rate.Observer = (*RatePublisher)(nil)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestRatePublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &RatePublisher{writer: w}
	at := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

	p.RateUpdated(domain.RateRecord{
		Pair:        domain.RatePair{Base: "USD", Quote: "AED"},
		Rate:        3.6725,
		Source:      "Fixer.io",
		LastUpdated: at,
	})

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	require.Equal(t, "USD/AED", string(msg.Key))
	require.True(t, msg.Time.Equal(at))

	var ev RateEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	require.Equal(t, RateEvent{From: "USD", To: "AED", Rate: 3.6725, Source: "Fixer.io", UpdatedAt: at}, ev)
}

func TestRatePublisher_Publish_WriteError(t *testing.T) {
	p := &RatePublisher{writer: &fakeWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), domain.RateRecord{Pair: domain.RatePair{Base: "USD", Quote: "SAR"}, Rate: 3.75})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to write rate event for USD/SAR")

	// observer hook swallows the error
	require.NotPanics(t, func() {
		p.RateUpdated(domain.RateRecord{Pair: domain.RatePair{Base: "USD", Quote: "SAR"}, Rate: 3.75})
	})
}

func TestRatePublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &RatePublisher{writer: w}
	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestNewRatePublisher_ConfiguresWriter(t *testing.T) {
	p := NewRatePublisher([]string{"localhost:9092"}, "exchange-rates")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	require.Equal(t, "exchange-rates", w.Topic)
	require.True(t, w.Async)
	require.NoError(t, p.Close())
}
