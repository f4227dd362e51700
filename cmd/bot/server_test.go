package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"cexbot/internal/aggregate"
	"cexbot/internal/market"
)

type fakeAggregator struct {
	calls int
	fn    func(symbol market.Symbol, mkt market.Market) aggregate.Result
}

func (f *fakeAggregator) Aggregate(_ context.Context, symbol market.Symbol, mkt market.Market) aggregate.Result {
	f.calls++
	return f.fn(symbol, mkt)
}

type cexResponse struct {
	Symbol  string `json:"symbol"`
	Market  string `json:"market"`
	Entries []struct {
		Exchange string `json:"exchange"`
		Quote    *struct {
			LastPrice string `json:"last_price"`
		} `json:"quote"`
		Error *struct {
			Kind string `json:"kind"`
		} `json:"error"`
	} `json:"entries"`
}

func newTestMux(agg Aggregator) http.Handler {
	logger, _ := test.NewNullLogger()
	return newMux(agg, "USDT", logger)
}

func TestCEX_PartialResult(t *testing.T) {
	t.Parallel()

	agg := &fakeAggregator{fn: func(symbol market.Symbol, mkt market.Market) aggregate.Result {
		q := market.Quote{Exchange: market.Gate, Symbol: symbol, Market: mkt, LastPrice: decimal.RequireFromString("3200.5")}
		return aggregate.Result{Symbol: symbol, Market: mkt, Entries: []aggregate.Entry{
			{Exchange: market.MEXC, Err: market.NewFetchError(market.MEXC, market.KindTimeout, "")},
			{Exchange: market.Gate, Quote: &q},
		}}
	}}

	rr := httptest.NewRecorder()
	newTestMux(agg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cex?symbol=eth&market=spot", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

	var resp cexResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "ETH_USDT", resp.Symbol)
	require.Equal(t, "spot", resp.Market)
	require.Len(t, resp.Entries, 2)
	require.Equal(t, "timeout", resp.Entries[0].Error.Kind)
	require.Equal(t, "3200.5", resp.Entries[1].Quote.LastPrice)
}

func TestCEX_AllFailedIsBadGateway(t *testing.T) {
	t.Parallel()

	agg := &fakeAggregator{fn: func(symbol market.Symbol, mkt market.Market) aggregate.Result {
		return aggregate.Result{Symbol: symbol, Market: mkt, Entries: []aggregate.Entry{
			{Exchange: market.MEXC, Err: market.NewFetchError(market.MEXC, market.KindRateLimited, "")},
			{Exchange: market.Gate, Err: market.NewFetchError(market.Gate, market.KindNotFound, "")},
		}}
	}}
	rr := httptest.NewRecorder()
	newTestMux(agg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cex?symbol=BTC_USDT", nil))
	require.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestCEX_NotFoundEverywhereIsOK(t *testing.T) {
	t.Parallel()

	agg := &fakeAggregator{fn: func(symbol market.Symbol, mkt market.Market) aggregate.Result {
		return aggregate.Result{Symbol: symbol, Market: mkt, Entries: []aggregate.Entry{
			{Exchange: market.MEXC, Err: market.NewFetchError(market.MEXC, market.KindNotFound, "")},
			{Exchange: market.Gate, Err: market.NewFetchError(market.Gate, market.KindNotFound, "")},
		}}
	}}
	rr := httptest.NewRecorder()
	newTestMux(agg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cex?symbol=NOPE", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestCEX_BadRequests(t *testing.T) {
	t.Parallel()

	agg := &fakeAggregator{}
	mux := newTestMux(agg)
	for _, target := range []string{"/api/cex", "/api/cex?symbol=a/b/c", "/api/cex?symbol=BTC&market=options"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/cex?symbol=BTC", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.Zero(t, agg.calls)
}

func TestHealthzAndGzip(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&fakeAggregator{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.NewDecoder(zr).Decode(&body))
	require.Equal(t, "ok", body["status"])
}

func TestRecoverPanic(t *testing.T) {
	t.Parallel()

	agg := &fakeAggregator{fn: func(market.Symbol, market.Market) aggregate.Result { panic("boom") }}
	rr := httptest.NewRecorder()
	newTestMux(agg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cex?symbol=BTC", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
