package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"cexbot/internal/app"
	"cexbot/internal/bot"
	"cexbot/internal/config"
	"cexbot/internal/httpx"
)

func main() {
	// Config
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := app.NewLogger(cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	opts := []bot.HandlerOption{
		bot.WithHandlerLogger(log),
		bot.WithDefaultQuote(cfg.DefaultQuote),
		bot.WithCommandTimeout(time.Duration(cfg.Server.CommandTimeoutSec) * time.Second),
	}
	for ex, l := range a.NetworkListers() {
		opts = append(opts, bot.WithNetworks(ex, l))
	}
	for ex, ci := range a.ContractInspectors() {
		opts = append(opts, bot.WithContracts(ex, ci))
	}
	handler := bot.NewHandler(a.Aggregate, opts...)

	// Long polling holds requests open for up to bot.PollTimeout.
	tgHTTP := httpx.New(2*bot.PollTimeout,
		httpx.WithProxy(a.Proxy),
		httpx.WithResponseHeaderTimeout(bot.PollTimeout+10*time.Second))
	tg, err := bot.NewTelegram(cfg.Telegram.Token, tgHTTP, handler, log)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.SyncMEXCTime(ctx, time.Duration(cfg.MEXC.TimeSyncIntervalSec)*time.Second, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newMux(a.Aggregate, cfg.DefaultQuote, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.Infof("ops server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	if err := tg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("telegram loop stopped")
	}

	// graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("bye")
}

