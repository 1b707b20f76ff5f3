// Package stream publishes executed trades to Kafka so downstream consumers
// can follow the account live. Publishing is fire and forget: a broker outage
// must never fail a trade.
package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/trendlab/papertrader"
)

// messageWriter is the part of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits one JSON-encoded message per executed trade, keyed by
// symbol so a partitioned topic keeps per-symbol order. A nil Publisher is
// valid and drops everything.
type Publisher struct {
	w      messageWriter
	logger *zap.Logger
}

// NewPublisher connects a publisher to the given brokers and topic. Returns
// nil when no brokers are configured.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		Dialer: &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
		},
		BatchTimeout: 200 * time.Millisecond,
		RequiredAcks: int(kafka.RequireOne),
	})
	return &Publisher{w: w, logger: logger}
}

// Publish sends one trade. Failures are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, t papertrader.Trade) {
	if p == nil {
		return
	}
	b, err := json.Marshal(t)
	if err != nil {
		p.logger.Warn("encoding trade event", zap.String("trade_id", t.ID), zap.Error(err))
		return
	}
	msg := kafka.Message{Key: []byte(t.Symbol), Value: b, Time: t.Time}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("publishing trade event",
			zap.String("trade_id", t.ID),
			zap.String("ticker", t.Symbol),
			zap.Error(err))
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.w.Close()
}
