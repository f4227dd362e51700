// Package app wires configuration into exchange clients and the
// aggregation service. Both binaries share it.
package app

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"cexbot/internal/aggregate"
	"cexbot/internal/config"
	"cexbot/internal/exchange/gate"
	"cexbot/internal/exchange/mexc"
	"cexbot/internal/httpx"
	"cexbot/internal/market"
	"cexbot/internal/ratelimit"
)

// App holds the long-lived dependencies.
type App struct {
	HTTP      *httpx.Client
	Proxy     *url.URL
	MEXC      *mexc.Client
	Gate      *gate.Client
	Aggregate *aggregate.Service
}

// NewLogger builds the process logger from the configured level.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// New builds the HTTP client, both exchange clients and the aggregation
// service. Local request budgets wrap the clients when configured.
func New(cfg config.Config, log logrus.FieldLogger) (*App, error) {
	proxy, err := httpx.ParseProxy(cfg.Proxy)
	if err != nil {
		return nil, err
	}
	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec)*time.Second, httpx.WithProxy(proxy))
	if proxy != nil {
		log.WithField("proxy", proxy.Redacted()).Info("using HTTP proxy")
	}

	mx, err := mexc.NewClient(
		mexc.WithHTTPClient(httpClient),
		mexc.WithSpotURL(cfg.MEXC.SpotURL),
		mexc.WithFuturesURL(cfg.MEXC.FuturesURL),
		mexc.WithWebURL(cfg.MEXC.WebURL),
		mexc.WithCredentials(cfg.MEXC.APIKey, cfg.MEXC.APISecret),
		mexc.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("mexc client: %w", err)
	}
	gt, err := gate.NewClient(
		gate.WithHTTPClient(httpClient),
		gate.WithBaseURL(cfg.Gate.BaseURL),
		gate.WithWebURL(cfg.Gate.WebURL),
		gate.WithCredentials(cfg.Gate.APIKey, cfg.Gate.APISecret),
		gate.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("gate client: %w", err)
	}

	clients := []market.Client{
		ratelimit.Wrap(mx, bucket(cfg.MEXC.MaxRequestsPerMinute, cfg.MEXC.Burst)),
		ratelimit.Wrap(gt, bucket(cfg.Gate.MaxRequestsPerMinute, cfg.Gate.Burst)),
	}
	svc := aggregate.New(time.Duration(cfg.Server.ExchangeTimeoutSec)*time.Second, log, clients...)

	return &App{HTTP: httpClient, Proxy: proxy, MEXC: mx, Gate: gt, Aggregate: svc}, nil
}

func bucket(rpm, burst int) *ratelimit.TokenBucket {
	if rpm <= 0 {
		return nil
	}
	return ratelimit.PerMinute(rpm, burst)
}

// NetworkListers returns the clients able to list coin networks. MEXC needs
// API credentials for it.
func (a *App) NetworkListers() map[market.Exchange]market.NetworkLister {
	out := map[market.Exchange]market.NetworkLister{market.Gate: a.Gate}
	if a.MEXC.HasCredentials() {
		out[market.MEXC] = a.MEXC
	}
	return out
}

// ContractInspectors returns the clients that expose contract metadata.
// These calls bypass the local request budget like network lookups do.
func (a *App) ContractInspectors() map[market.Exchange]market.ContractInspector {
	return map[market.Exchange]market.ContractInspector{market.MEXC: a.MEXC, market.Gate: a.Gate}
}

// SyncMEXCTime keeps the MEXC clock offset fresh until ctx is done. It only
// matters for signed requests, so it is a no-op without credentials.
func (a *App) SyncMEXCTime(ctx context.Context, every time.Duration, log logrus.FieldLogger) {
	if !a.MEXC.HasCredentials() || every <= 0 {
		return
	}
	sync := func() {
		c, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := a.MEXC.SyncTime(c); err != nil {
			log.WithError(err).Warn("mexc time sync failed")
		}
	}
	sync()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sync()
		}
	}
}

