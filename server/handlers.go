package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trendlab/papertrader"
	"github.com/trendlab/papertrader/feed"
	"github.com/trendlab/papertrader/renderer"
)

type scanRequest struct {
	Source       string   `json:"source"`
	MaxPrice     *float64 `json:"price_max"`
	MinDollarVol *float64 `json:"min_dollar_vol"`
	Equity       *float64 `json:"account_equity"`
	RiskPerTrade *float64 `json:"risk_per_trade"`
	MaxPositions *int     `json:"max_positions"`
	MinSentiment *float64 `json:"min_sentiment"`
	MinMentions  *int     `json:"min_mentions"`
	Predict      bool     `json:"predict"`
	Execute      bool     `json:"execute"`
}

type rejectedOrder struct {
	Order  papertrader.Order `json:"order"`
	Reason string            `json:"reason"`
}

type scanResponse struct {
	Candidates  []papertrader.Candidate  `json:"candidates"`
	Predictions []papertrader.Prediction `json:"predictions,omitempty"`
	Orders      []papertrader.Order      `json:"orders"`
	Executed    []papertrader.Trade      `json:"executed,omitempty"`
	Rejected    []rejectedOrder          `json:"rejected,omitempty"`
	Export      string                   `json:"export,omitempty"`
}

// scan runs the full pipeline: feed, screen, rank, optional predictions,
// size, and with execute set, orders straight into the ledger. Orders the
// ledger rejects are reported per order and do not fail the scan.
func (s *Server) scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: "invalid JSON body: " + err.Error()})
		return
	}
	ctx := c.Request.Context()

	source := s.source
	if req.Source != "" {
		override, err := newSource(req.Source, s.cfg, s.provider)
		if err != nil {
			c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: err.Error()})
			return
		}
		source = override
	}

	raw, err := source.Candidates(ctx)
	if err != nil {
		s.fail(c, fmt.Errorf("scanning %s: %w", source.Name(), err))
		return
	}

	screenCfg := feed.DefaultScreenConfig()
	if req.MaxPrice != nil {
		screenCfg.MaxPrice = *req.MaxPrice
	}
	if req.MinDollarVol != nil {
		screenCfg.MinDollarVolume = *req.MinDollarVol
	}

	ranked, err := papertrader.Rank(feed.Screen(raw, screenCfg))
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := scanResponse{Candidates: ranked}

	if req.Predict {
		symbols := make([]string, len(ranked))
		for i, cand := range ranked {
			symbols[i] = cand.Symbol
		}
		resp.Predictions, _ = s.predictAll(ctx, symbols, 30)
	}

	sizerCfg := papertrader.DefaultSizerConfig()
	sizerCfg.Equity = s.ledger.Snapshot().Equity.Float64()
	if req.Equity != nil {
		sizerCfg.Equity = *req.Equity
	}
	if req.RiskPerTrade != nil {
		sizerCfg.RiskPerTrade = *req.RiskPerTrade
	}
	if req.MaxPositions != nil {
		sizerCfg.MaxPositions = *req.MaxPositions
	}
	if req.MinSentiment != nil {
		sizerCfg.MinSentiment = *req.MinSentiment
	}
	if req.MinMentions != nil {
		sizerCfg.MinMentions = *req.MinMentions
	}

	orders, err := papertrader.Size(sizerCfg, ranked)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp.Orders = orders

	if req.Execute {
		for _, o := range orders {
			t, err := s.ledger.Execute(o)
			if err != nil {
				resp.Rejected = append(resp.Rejected, rejectedOrder{Order: o, Reason: err.Error()})
				continue
			}
			resp.Executed = append(resp.Executed, t)
			s.archive(ctx, t)
		}
	}

	resp.Export = s.exportCandidates(ranked)
	c.JSON(http.StatusOK, resp)
}

// exportCandidates writes the ranked list as CSV and returns the file name,
// or "" when the export cannot be written.
func (s *Server) exportCandidates(ranked []papertrader.Candidate) string {
	if err := os.MkdirAll(s.cfg.ExportDir, 0o755); err != nil {
		s.logger.Warn("creating export dir", zap.Error(err))
		return ""
	}
	name := fmt.Sprintf("candidates-%s.csv", time.Now().UTC().Format("20060102-150405"))
	f, err := os.Create(filepath.Join(s.cfg.ExportDir, name))
	if err != nil {
		s.logger.Warn("creating export", zap.String("name", name), zap.Error(err))
		return ""
	}
	defer f.Close()
	if err := renderer.WriteCandidatesCSV(f, ranked); err != nil {
		s.logger.Warn("writing export", zap.String("name", name), zap.Error(err))
		return ""
	}
	return name
}

// archive records an executed trade in the store and on the topic. Neither
// failure reaches the client; the trade is already committed.
func (s *Server) archive(ctx context.Context, t papertrader.Trade) {
	if s.store != nil {
		if err := s.store.SaveTrade(ctx, t); err != nil {
			s.logger.Warn("archiving trade", zap.String("trade_id", t.ID), zap.Error(err))
		}
		if curve := s.ledger.EquityCurve(); len(curve) > 0 {
			if err := s.store.SaveEquityPoint(ctx, curve[len(curve)-1]); err != nil {
				s.logger.Warn("archiving equity point", zap.Error(err))
			}
		}
	}
	s.publisher.Publish(ctx, t)
}

type tradeRequest struct {
	Symbol string  `json:"ticker"`
	Side   string  `json:"side"`
	Shares int64   `json:"shares"`
	Price  float64 `json:"price"`
}

type tradeResponse struct {
	Trade     papertrader.Trade    `json:"trade"`
	Portfolio papertrader.Snapshot `json:"portfolio"`
}

func (s *Server) trade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: "invalid JSON body: " + err.Error()})
		return
	}

	side, err := papertrader.ParseSide(req.Side)
	if err != nil {
		s.fail(c, err)
		return
	}

	var t papertrader.Trade
	switch side {
	case papertrader.SideBuy:
		t, err = s.ledger.Buy(req.Symbol, req.Shares, papertrader.M(req.Price))
	case papertrader.SideSell:
		t, err = s.ledger.Sell(req.Symbol, req.Shares, papertrader.M(req.Price))
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.archive(c.Request.Context(), t)
	c.JSON(http.StatusOK, tradeResponse{Trade: t, Portfolio: s.ledger.Snapshot()})
}

func (s *Server) portfolio(c *gin.Context) {
	c.JSON(http.StatusOK, s.ledger.Snapshot())
}

type historyResponse struct {
	Trades      []papertrader.Trade       `json:"trades"`
	EquityCurve []papertrader.EquityPoint `json:"equity_curve"`
}

// history serves the archived history when a store is configured, so it
// spans restarts; otherwise it falls back to the in-memory ledger.
func (s *Server) history(c *gin.Context) {
	ticker := papertrader.NormalizeSymbol(c.Query("ticker"))
	ctx := c.Request.Context()

	if s.store == nil {
		resp := historyResponse{Trades: s.ledger.Trades(), EquityCurve: s.ledger.EquityCurve()}
		if ticker != "" {
			kept := resp.Trades[:0:0]
			for _, t := range resp.Trades {
				if t.Symbol == ticker {
					kept = append(kept, t)
				}
			}
			resp.Trades = kept
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	var (
		trades []papertrader.Trade
		err    error
	)
	if ticker != "" {
		trades, err = s.store.TradesFor(ctx, ticker)
	} else {
		trades, err = s.store.Trades(ctx)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	curve, err := s.store.EquityCurve(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, historyResponse{Trades: trades, EquityCurve: curve})
}

type predictionsRequest struct {
	Symbols []string `json:"symbols"`
	Days    int      `json:"days"`
}

type predictionsResponse struct {
	Predictions []papertrader.Prediction `json:"predictions"`
	Failed      map[string]string        `json:"failed,omitempty"`
}

func (s *Server) predictions(c *gin.Context) {
	var req predictionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: "invalid JSON body: " + err.Error()})
		return
	}
	if len(req.Symbols) == 0 {
		c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: "symbols is required"})
		return
	}
	days := req.Days
	if days <= 0 {
		days = 30
	}

	predictions, failed := s.predictAll(c.Request.Context(), req.Symbols, days)
	c.JSON(http.StatusOK, predictionsResponse{Predictions: predictions, Failed: failed})
}

// predictAll analyzes symbols concurrently on a small worker pool and returns
// predictions in input order. Symbols whose data cannot be fetched end up in
// the failed map instead.
func (s *Server) predictAll(ctx context.Context, symbols []string, days int) ([]papertrader.Prediction, map[string]string) {
	type outcome struct {
		symbol     string
		prediction papertrader.Prediction
		err        error
	}

	jobs := make(chan string)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for range min(4, len(symbols)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				p, err := s.predictOne(ctx, symbol, days)
				results <- outcome{symbol: symbol, prediction: p, err: err}
			}
		}()
	}
	go func() {
		for _, symbol := range symbols {
			jobs <- papertrader.NormalizeSymbol(symbol)
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	bySymbol := make(map[string]papertrader.Prediction, len(symbols))
	failed := make(map[string]string)
	for r := range results {
		if r.err != nil {
			failed[r.symbol] = r.err.Error()
			continue
		}
		bySymbol[r.symbol] = r.prediction
	}

	predictions := make([]papertrader.Prediction, 0, len(bySymbol))
	for _, symbol := range symbols {
		symbol = papertrader.NormalizeSymbol(symbol)
		if p, ok := bySymbol[symbol]; ok {
			predictions = append(predictions, p)
			delete(bySymbol, symbol)
		}
	}
	if len(failed) == 0 {
		failed = nil
	}
	return predictions, failed
}

func (s *Server) predictOne(ctx context.Context, symbol string, days int) (papertrader.Prediction, error) {
	bars, err := s.provider.History(ctx, symbol, days)
	if err != nil {
		return papertrader.Prediction{}, fmt.Errorf("history for %s: %w", symbol, err)
	}
	closes := feed.Closes(bars)

	current, err := s.provider.Quote(ctx, symbol)
	if err != nil || current <= 0 {
		if len(closes) == 0 {
			return papertrader.Prediction{}, fmt.Errorf("no price data for %s", symbol)
		}
		current = closes[len(closes)-1]
	}

	p := papertrader.Predict(closes, current)
	p.Symbol = symbol
	return p, nil
}

type resetRequest struct {
	StartingCash float64 `json:"starting_cash"`
}

func (s *Server) reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: "invalid JSON body: " + err.Error()})
		return
	}

	if err := s.ledger.Reset(papertrader.M(req.StartingCash)); err != nil {
		s.fail(c, err)
		return
	}
	if s.store != nil {
		if err := s.store.Clear(c.Request.Context()); err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, s.ledger.Snapshot())
}

// export serves one CSV export. The name is restricted to a bare file name
// so the handler cannot walk out of the export directory.
func (s *Server) export(c *gin.Context) {
	name := c.Param("name")
	if name == "" || name != filepath.Base(name) || name[0] == '.' {
		c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: "invalid export name"})
		return
	}
	path := filepath.Join(s.cfg.ExportDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, apiError{Code: "not_found", Message: "no such export"})
		return
	}
	c.File(path)
}
