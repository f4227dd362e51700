package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"cexbot/internal/aggregate"
	"cexbot/internal/app"
	"cexbot/internal/config"
	"cexbot/internal/market"
	"cexbot/internal/render"
)

func main() {
	var exchange, symbolRaw, marketRaw, configPath string
	var asJSON bool
	var timeout int

	flag.StringVar(&exchange, "exchange", "all", "mexc, gate or all")
	flag.StringVar(&symbolRaw, "symbol", "BTC_USDT", "symbol, e.g. BTC, eth_usdt, SOL/USDC")
	flag.StringVar(&marketRaw, "market", "futures", "spot or futures")
	flag.BoolVar(&asJSON, "json", false, "print JSON instead of MarkdownV2 text")
	flag.IntVar(&timeout, "timeout", 0, "overall timeout seconds (0 uses config)")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := app.NewLogger(cfg.Log.Level)

	symbol, err := market.ParseSymbol(symbolRaw, cfg.DefaultQuote)
	if err != nil {
		log.Fatalf("symbol: %v", err)
	}
	mkt, err := market.ParseMarket(marketRaw)
	if err != nil {
		log.Fatalf("market: %v", err)
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	if timeout <= 0 {
		timeout = cfg.Server.CommandTimeoutSec
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := run(ctx, os.Stdout, a.Aggregate, exchange, symbol, mkt, asJSON); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, w io.Writer, svc *aggregate.Service, exchange string, symbol market.Symbol, mkt market.Market, asJSON bool) error {
	if exchange == "" || exchange == "all" {
		res := svc.Aggregate(ctx, symbol, mkt)
		if asJSON {
			return writeJSON(w, res)
		}
		_, err := fmt.Fprintln(w, render.Aggregate(res))
		return err
	}

	ex, err := market.ParseExchange(exchange)
	if err != nil {
		return err
	}
	client, ok := svc.Client(ex)
	if !ok {
		return fmt.Errorf("%s is not configured", ex.DisplayName())
	}
	q, err := svc.Fetch(ctx, client, symbol, mkt)
	if asJSON {
		return writeJSON(w, aggregate.Entry{Exchange: ex, Quote: quotePtr(q, err), Err: err})
	}
	if err != nil {
		_, werr := fmt.Fprintln(w, render.FetchError(ex, err))
		return werr
	}
	_, err = fmt.Fprintln(w, render.Quote(q, render.Details{}))
	return err
}

func quotePtr(q market.Quote, err error) *market.Quote {
	if err != nil {
		return nil
	}
	return &q
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
