package gate_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cexbot/internal/exchange/gate"
	"cexbot/internal/market"
)

func newClient(t *testing.T, do func(req *http.Request) (*http.Response, error)) *gate.Client {
	t.Helper()
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).DoAndReturn(do).AnyTimes()

	client, err := gate.NewClient(gate.WithHTTPClient(httpClient))
	require.NoError(t, err)
	return client
}

func TestFetch_Futures(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "api.gateio.ws", req.URL.Host)
		require.Equal(t, "/api/v4/futures/usdt/tickers", req.URL.Path)
		require.Equal(t, "ETH_USDT", req.URL.Query().Get("contract"))
		return respond(http.StatusOK, `[{"contract":"ETH_USDT","last":"3200.5","mark_price":"3200.61",
			"index_price":"3200.4","funding_rate":"-0.000025","volume_24h_base":"152000","volume_24h_quote":"486000000"}]`), nil
	})

	q, err := client.Fetch(t.Context(), market.Symbol{Base: "ETH", Quote: "USDT"}, market.Futures)
	require.NoError(t, err)
	require.Equal(t, market.Gate, q.Exchange)
	require.Equal(t, market.Futures, q.Market)
	require.Equal(t, "3200.5", q.LastPrice.String())
	require.Equal(t, "3200.61", q.MarkPrice.Decimal.String())
	require.Equal(t, "-0.000025", q.FundingRate.Decimal.String())
	require.Equal(t, "152000", q.Volume24h.Decimal.String())
	require.Equal(t, "486000000", q.Turnover24h.Decimal.String())
}

func TestFetch_Spot(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(req *http.Request) (*http.Response, error) {
		require.Equal(t, "/api/v4/spot/tickers", req.URL.Path)
		return respond(http.StatusOK, `[{"currency_pair":"BTC_USDT","last":"65000.12","base_volume":"","quote_volume":"98800000"}]`), nil
	})

	q, err := client.Fetch(t.Context(), market.Symbol{Base: "BTC", Quote: "USDT"}, market.Spot)
	require.NoError(t, err)
	require.Equal(t, "65000.12", q.LastPrice.String())
	require.False(t, q.Volume24h.Valid)
	require.True(t, q.Turnover24h.Valid)
	require.False(t, q.MarkPrice.Valid)
}

func TestFetch_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		market market.Market
		status int
		body   string
		err    error
		want   *market.FetchError
	}{
		{name: "empty futures list", market: market.Futures, status: 200, body: `[]`, want: market.ErrNotFound},
		{name: "contract not found", market: market.Futures, status: 400, body: `{"label":"CONTRACT_NOT_FOUND","message":"contract not found"}`, want: market.ErrNotFound},
		{name: "invalid pair", market: market.Spot, status: 400, body: `{"label":"INVALID_CURRENCY_PAIR","message":"Invalid currency pair DOGE_USDT"}`, want: market.ErrNotFound},
		{name: "http 429", market: market.Spot, status: 429, body: ``, want: market.ErrRateLimited},
		{name: "rate label", market: market.Spot, status: 403, body: `{"label":"TOO_MANY_REQUESTS","message":"slow down"}`, want: market.ErrRateLimited},
		{name: "other label", market: market.Spot, status: 400, body: `{"label":"INVALID_PARAM_VALUE","message":"bad"}`, want: market.ErrUnknown},
		{name: "server error", market: market.Futures, status: 503, body: `<html>`, want: market.ErrUnknown},
		{name: "object instead of list", market: market.Futures, status: 200, body: `{"contract":"BTC_USDT"}`, want: market.ErrMalformedResponse},
		{name: "missing last", market: market.Futures, status: 200, body: `[{"contract":"BTC_USDT","last":""}]`, want: market.ErrMalformedResponse},
		{name: "deadline", market: market.Futures, err: context.DeadlineExceeded, want: market.ErrTimeout},
		{name: "transport", market: market.Futures, err: errors.New("connection reset"), want: market.ErrUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			client := newClient(t, func(req *http.Request) (*http.Response, error) {
				if c.err != nil {
					return nil, c.err
				}
				return respond(c.status, c.body), nil
			})

			_, err := client.Fetch(t.Context(), market.Symbol{Base: "BTC", Quote: "USDT"}, c.market)
			require.ErrorIs(t, err, c.want)

			var fe *market.FetchError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, market.Gate, fe.Exchange)
		})
	}
}

func TestNetworks(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(req *http.Request) (*http.Response, error) {
		switch req.URL.Path {
		case "/api/v4/spot/currencies/USDT":
			return respond(http.StatusOK, `{"currency":"USDT","chains":[
				{"name":"TRX","addr":"TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t","deposit_disabled":false,"withdraw_disabled":false},
				{"name":"ETH","addr":"0xdac17f958d2ee523a2206206994597c13d831ec7","deposit_disabled":true,"withdraw_disabled":false}]}`), nil
		case "/api/v4/spot/currencies/NOPE":
			return respond(http.StatusNotFound, `{"label":"CURRENCY_NOT_FOUND","message":"currency not found"}`), nil
		}
		t.Fatalf("unexpected path %s", req.URL.Path)
		return nil, nil
	})

	nets, err := client.Networks(t.Context(), "usdt")
	require.NoError(t, err)
	require.Len(t, nets, 2)
	require.Equal(t, "TRX", nets[0].Name)
	require.True(t, nets[0].DepositEnabled)
	require.False(t, nets[1].DepositEnabled)
	require.True(t, nets[1].WithdrawEnabled)

	_, err = client.Networks(t.Context(), "nope")
	require.ErrorIs(t, err, market.ErrNotFound)
}
