package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/trendlab/papertrader/server"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "runs the paper-trading HTTP server" }
func (*serveCmd) Usage() string {
	return `ptrade serve [-addr <host:port>]:
  Runs the HTTP server with the scan, trade, portfolio and prediction
  endpoints and the websocket portfolio stream. Configured from the
  environment (PAPERTRADER_* variables, .env honored).
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address (overrides PAPERTRADER_ADDR)")
}

func (c *serveCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := server.Load()
	if err != nil {
		return fail(err)
	}
	if c.addr != "" {
		cfg.Addr = c.addr
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fail(err)
	}
	defer logger.Sync()

	s, err := server.New(cfg, logger)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.Run(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
