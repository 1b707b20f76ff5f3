package papertrader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// RecordType is a typed string identifying journal records.
type RecordType string

// Record types written to the journal.
const (
	RecBuy   RecordType = "buy"
	RecSell  RecordType = "sell"
	RecMark  RecordType = "mark"
	RecReset RecordType = "reset"
)

// Record is one line of the journal: a single ledger mutation with the time
// it happened. Replaying all records in order rebuilds the ledger state.
type Record interface {
	What() RecordType // What returns the record type (e.g. "buy", "mark").
	When() time.Time  // When returns the time the mutation was applied.
	Equal(Record) bool
}

type baseRec struct {
	Record RecordType `json:"record"`
	Time   time.Time  `json:"time"`
}

// What returns the record type.
func (r baseRec) What() RecordType { return r.Record }

// When returns the time the record was written.
func (r baseRec) When() time.Time { return r.Time }

// MarshalJSON implements the json.Marshaler interface for baseRec.
func (r baseRec) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", r.Record)
	w.Append("time", r.Time)
	return w.MarshalJSON()
}

func (r baseRec) equal(o baseRec) bool {
	return r.Record == o.Record && r.Time.Equal(o.Time)
}

// tradeRec is the shared shape of buy and sell records.
type tradeRec struct {
	baseRec
	Symbol string `json:"ticker"`
	Shares int64  `json:"shares"`
	Price  Money  `json:"price"`
}

// MarshalJSON implements the json.Marshaler interface for tradeRec.
func (r tradeRec) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(r.baseRec)
	w.Append("ticker", r.Symbol)
	w.Append("shares", r.Shares)
	w.Append("price", r.Price)
	return w.MarshalJSON()
}

func (r tradeRec) equal(o tradeRec) bool {
	return r.baseRec.equal(o.baseRec) && r.Symbol == o.Symbol &&
		r.Shares == o.Shares && r.Price.Equal(o.Price)
}

// BuyRecord journals a filled buy order.
type BuyRecord struct {
	tradeRec
}

// NewBuyRecord creates a buy record for the given fill.
func NewBuyRecord(at time.Time, symbol string, shares int64, price Money) BuyRecord {
	return BuyRecord{tradeRec{baseRec: baseRec{Record: RecBuy, Time: at}, Symbol: symbol, Shares: shares, Price: price}}
}

// MarshalJSON implements the json.Marshaler interface for BuyRecord.
func (r BuyRecord) MarshalJSON() ([]byte, error) { return r.tradeRec.MarshalJSON() }

func (r BuyRecord) Equal(o Record) bool {
	b, ok := o.(BuyRecord)
	return ok && r.tradeRec.equal(b.tradeRec)
}

// SellRecord journals a filled sell order.
type SellRecord struct {
	tradeRec
}

// NewSellRecord creates a sell record for the given fill.
func NewSellRecord(at time.Time, symbol string, shares int64, price Money) SellRecord {
	return SellRecord{tradeRec{baseRec: baseRec{Record: RecSell, Time: at}, Symbol: symbol, Shares: shares, Price: price}}
}

// MarshalJSON implements the json.Marshaler interface for SellRecord.
func (r SellRecord) MarshalJSON() ([]byte, error) { return r.tradeRec.MarshalJSON() }

func (r SellRecord) Equal(o Record) bool {
	s, ok := o.(SellRecord)
	return ok && r.tradeRec.equal(s.tradeRec)
}

// MarkRecord journals a price mark on an open position.
type MarkRecord struct {
	baseRec
	Symbol string `json:"ticker"`
	Price  Money  `json:"price"`
}

// NewMarkRecord creates a mark record for the given symbol and price.
func NewMarkRecord(at time.Time, symbol string, price Money) MarkRecord {
	return MarkRecord{baseRec: baseRec{Record: RecMark, Time: at}, Symbol: symbol, Price: price}
}

// MarshalJSON implements the json.Marshaler interface for MarkRecord.
func (r MarkRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(r.baseRec)
	w.Append("ticker", r.Symbol)
	w.Append("price", r.Price)
	return w.MarshalJSON()
}

func (r MarkRecord) Equal(o Record) bool {
	m, ok := o.(MarkRecord)
	return ok && r.baseRec.equal(m.baseRec) && r.Symbol == m.Symbol && r.Price.Equal(m.Price)
}

// ResetRecord journals a full account reset to a fresh cash balance.
type ResetRecord struct {
	baseRec
	Cash Money `json:"cash"`
}

// NewResetRecord creates a reset record with the new starting cash.
func NewResetRecord(at time.Time, cash Money) ResetRecord {
	return ResetRecord{baseRec: baseRec{Record: RecReset, Time: at}, Cash: cash}
}

// MarshalJSON implements the json.Marshaler interface for ResetRecord.
func (r ResetRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(r.baseRec)
	w.Append("cash", r.Cash)
	return w.MarshalJSON()
}

func (r ResetRecord) Equal(o Record) bool {
	t, ok := o.(ResetRecord)
	return ok && r.baseRec.equal(t.baseRec) && r.Cash.Equal(t.Cash)
}

// NewTradeRecord converts an executed trade into its journal record.
func NewTradeRecord(t Trade) Record {
	if t.Side == SideSell {
		return NewSellRecord(t.Time, t.Symbol, t.Shares, t.Price)
	}
	return NewBuyRecord(t.Time, t.Symbol, t.Shares, t.Price)
}

// Journal holds the ordered list of records read from or destined for a
// JSONL journal file.
type Journal struct {
	records []Record
}

// NewJournal returns an empty journal.
func NewJournal() *Journal { return &Journal{} }

// Append adds records to the end of the journal.
func (j *Journal) Append(recs ...Record) { j.records = append(j.records, recs...) }

// Records returns the journal's records in order.
func (j *Journal) Records() []Record { return j.records }

// Encode writes the journal as JSONL, one record per line.
func (j *Journal) Encode(w io.Writer) error {
	for _, rec := range j.records {
		if err := EncodeRecord(w, rec); err != nil {
			return err
		}
	}
	return nil
}

// EncodeRecord writes a single record as one JSONL line.
func EncodeRecord(w io.Writer, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", rec.What(), err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s record: %w", rec.What(), err)
	}
	return nil
}

// DecodeJournal reads a JSONL stream and decodes each line into its record
// type. Empty lines are skipped.
func DecodeJournal(r io.Reader) (*Journal, error) {
	journal := NewJournal()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Record RecordType `json:"record"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(line), err)
		}

		var rec Record
		switch identifier.Record {
		case RecBuy:
			var b BuyRecord
			if err := json.Unmarshal(line, &b.tradeRec); err != nil {
				return nil, err
			}
			rec = b
		case RecSell:
			var s SellRecord
			if err := json.Unmarshal(line, &s.tradeRec); err != nil {
				return nil, err
			}
			rec = s
		case RecMark:
			var m MarkRecord
			if err := json.Unmarshal(line, &m); err != nil {
				return nil, err
			}
			rec = m
		case RecReset:
			var t ResetRecord
			if err := json.Unmarshal(line, &t); err != nil {
				return nil, err
			}
			rec = t
		default:
			return nil, fmt.Errorf("unknown record type %q in line %q", identifier.Record, string(line))
		}
		journal.Append(rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return journal, nil
}

// Replay applies every record in order to a fresh ledger and returns it.
// Timestamps on the rebuilt trades and equity curve come from the records,
// not the wall clock.
func (j *Journal) Replay() (*Ledger, error) {
	ledger, err := NewLedger(DefaultStartingCash)
	if err != nil {
		return nil, err
	}
	for _, rec := range j.records {
		at := rec.When()
		ledger.now = func() time.Time { return at }

		switch r := rec.(type) {
		case BuyRecord:
			_, err = ledger.Buy(r.Symbol, r.Shares, r.Price)
		case SellRecord:
			_, err = ledger.Sell(r.Symbol, r.Shares, r.Price)
		case MarkRecord:
			err = ledger.MarkPrice(r.Symbol, r.Price)
		case ResetRecord:
			err = ledger.Reset(r.Cash)
		default:
			err = fmt.Errorf("unknown record type %q", rec.What())
		}
		if err != nil {
			return nil, fmt.Errorf("replaying %s record at %s: %w", rec.What(), at.Format(time.RFC3339), err)
		}
	}
	ledger.now = time.Now
	return ledger, nil
}
