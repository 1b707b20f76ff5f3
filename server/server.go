// Package server exposes the simulator over HTTP: scanning, trading, account
// state, predictions and a websocket snapshot stream.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/trendlab/papertrader"
	"github.com/trendlab/papertrader/feed"
	"github.com/trendlab/papertrader/store"
	"github.com/trendlab/papertrader/stream"
)

// Server owns the ledger and its supporting services for one account.
type Server struct {
	R *gin.Engine

	cfg       Config
	ledger    *papertrader.Ledger
	source    feed.Source
	provider  feed.Provider
	store     *store.Store
	publisher *stream.Publisher
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// New wires the router, ledger, data source, store and publisher. The store
// is disabled when cfg.DBPath is empty, the publisher when no brokers are
// configured.
func New(cfg Config, logger *zap.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ledger, err := papertrader.NewLedger(papertrader.M(cfg.StartingCash))
	if err != nil {
		return nil, err
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	source, err := newSource(cfg.DataSource, cfg, provider)
	if err != nil {
		return nil, err
	}

	var st *store.Store
	if cfg.DBPath != "" {
		if st, err = store.Open(cfg.DBPath); err != nil {
			return nil, err
		}
	}

	s := &Server{
		cfg:       cfg,
		ledger:    ledger,
		source:    source,
		provider:  provider,
		store:     st,
		publisher: stream.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger),
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	g := gin.New()
	g.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	})
	g.Use(gin.Recovery())

	g.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	g.POST("/scan", s.scan)
	g.POST("/trade", s.trade)
	g.GET("/portfolio", s.portfolio)
	g.GET("/history", s.history)
	g.POST("/predictions", s.predictions)
	g.POST("/reset", s.reset)
	g.GET("/exports/:name", s.export)
	g.GET("/ws", s.ws)
	s.R = g

	return s, nil
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
	return s.R.Run(s.cfg.Addr)
}

// Close releases the store and the publisher.
func (s *Server) Close() error {
	err := s.store.Close()
	if perr := s.publisher.Close(); err == nil {
		err = perr
	}
	return err
}

// newProvider picks the price history provider for the configured source.
// Live sources quote through Yahoo, the fixture stays fully offline.
func newProvider(cfg Config) (feed.Provider, error) {
	if cfg.DataSource == "fixture" {
		return feed.FixtureProvider{}, nil
	}
	p, err := feed.NewYahooProvider(15 * time.Minute)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newSource(name string, cfg Config, provider feed.Provider) (feed.Source, error) {
	switch name {
	case "fixture":
		return feed.Fixture{}, nil
	case "mentions":
		return feed.NewMentions(cfg.MentionsURL, provider), nil
	case "screener":
		return feed.NewScreener(cfg.ScreenerURL), nil
	}
	return nil, fmt.Errorf("unknown data source %q", name)
}

// fail maps domain errors onto HTTP statuses: invalid input is a 400, an
// order the account cannot honor is a 422, everything else is a 500.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, papertrader.ErrMalformedCandidate),
		errors.Is(err, papertrader.ErrInvalidConfig),
		errors.Is(err, papertrader.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: err.Error()})
	case errors.Is(err, papertrader.ErrInsufficientFunds),
		errors.Is(err, papertrader.ErrNoPosition),
		errors.Is(err, papertrader.ErrOversell):
		c.JSON(http.StatusUnprocessableEntity, apiError{Code: "rejected", Message: err.Error()})
	default:
		s.logger.Error("internal_error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: "internal server error"})
	}
}
