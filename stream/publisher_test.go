package stream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trendlab/papertrader"
)

type fakeWriter struct {
	messages []kafka.Message
	writeErr error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testTrade() papertrader.Trade {
	return papertrader.Trade{
		ID:       "a1b2c3d4",
		Symbol:   "ATER",
		Side:     papertrader.SideBuy,
		Shares:   80,
		Price:    papertrader.M(2.5),
		Realized: papertrader.M(0),
		Time:     time.Date(2025, 8, 1, 14, 30, 0, 0, time.UTC),
	}
}

func TestNewPublisher_NoBrokersDisables(t *testing.T) {
	if p := NewPublisher(nil, "papertrader.trades", zap.NewNop()); p != nil {
		t.Fatal("NewPublisher with no brokers should return nil")
	}
}

func TestPublish_KeysMessagesBySymbol(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{w: w, logger: zap.NewNop()}

	tr := testTrade()
	p.Publish(context.Background(), tr)

	if len(w.messages) != 1 {
		t.Fatalf("wrote %d messages, want 1", len(w.messages))
	}
	msg := w.messages[0]
	if string(msg.Key) != "ATER" {
		t.Errorf("message key = %q, want %q", msg.Key, "ATER")
	}
	if !msg.Time.Equal(tr.Time) {
		t.Errorf("message time = %s, want %s", msg.Time, tr.Time)
	}

	var decoded papertrader.Trade
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("message value is not valid JSON: %v", err)
	}
	if decoded.ID != tr.ID || decoded.Symbol != tr.Symbol || decoded.Shares != tr.Shares {
		t.Errorf("decoded trade = %+v, want %+v", decoded, tr)
	}
	if !decoded.Price.Equal(tr.Price) {
		t.Errorf("decoded price = %s, want %s", decoded.Price, tr.Price)
	}
}

func TestPublish_WriteErrorIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	w := &fakeWriter{writeErr: errors.New("broker unreachable")}
	p := &Publisher{w: w, logger: zap.New(core)}

	p.Publish(context.Background(), testTrade())

	if len(w.messages) != 0 {
		t.Fatalf("wrote %d messages despite write error", len(w.messages))
	}
	entries := logs.FilterMessage("publishing trade event").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d warnings, want 1", len(logs.All()))
	}
}

func TestPublisher_NilIsSafe(t *testing.T) {
	var p *Publisher
	p.Publish(context.Background(), testTrade())
	if err := p.Close(); err != nil {
		t.Fatalf("Close() on nil publisher error = %v", err)
	}
}

func TestPublisher_CloseClosesWriter(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{w: w, logger: zap.NewNop()}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !w.closed {
		t.Fatal("Close() did not close the underlying writer")
	}
}
