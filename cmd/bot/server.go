package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"cexbot/internal/aggregate"
	"cexbot/internal/market"
)

// Aggregator is the part of aggregate.Service the ops API needs.
type Aggregator interface {
	Aggregate(ctx context.Context, symbol market.Symbol, mkt market.Market) aggregate.Result
}

type errorResponse struct {
	Error string `json:"error"`
}

func newMux(agg Aggregator, defaultQuote string, log logrus.FieldLogger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/api/cex", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{"method not allowed"})
			return
		}
		handleCEX(w, r, agg, defaultQuote)
	})
	return withJSONHeaders(withGzip(recoverPanic(log, limitBody(mux))))
}

func handleCEX(w http.ResponseWriter, r *http.Request, agg Aggregator, defaultQuote string) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("symbol")) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{"missing symbol query param"})
		return
	}
	symbol, err := market.ParseSymbol(q.Get("symbol"), defaultQuote)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}
	mkt := market.Futures
	if v := q.Get("market"); v != "" {
		if mkt, err = market.ParseMarket(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	res := agg.Aggregate(ctx, symbol, mkt)

	status := http.StatusOK
	if res.AllFailed() && !res.NotFound() {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
	var gzPool = sync.Pool{New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		return w
	}}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		gz := gzPool.Get().(*gzip.Writer)
		gz.Reset(w)
		defer func() {
			_ = gz.Close()
			gz.Reset(io.Discard)
			gzPool.Put(gz)
		}()
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
	return g.Writer.Write(b)
}

// limitBody caps request body size; the API takes no bodies.
func limitBody(next http.Handler) http.Handler {
	const maxBody = 1 << 10
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

// recoverPanic protects handlers from panics.
func recoverPanic(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithField("panic", rec).WithField("path", r.URL.Path).Error("handler panicked")
				writeJSON(w, http.StatusInternalServerError, errorResponse{"internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
