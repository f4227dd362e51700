package mexc

import (
	"context"
	"time"

	"cexbot/internal/market"
)

// Exchange implements market.Client.
func (c *Client) Exchange() market.Exchange { return market.MEXC }

// Fetch implements market.Client.
func (c *Client) Fetch(ctx context.Context, symbol market.Symbol, mkt market.Market) (market.Quote, error) {
	switch mkt {
	case market.Futures:
		t, err := c.FuturesTicker(ctx, FuturesSymbol(symbol))
		if err != nil {
			return market.Quote{}, err
		}
		return futuresQuote(symbol, t, time.Now().UTC())
	case market.Spot:
		t, err := c.SpotTicker24h(ctx, SpotSymbol(symbol))
		if err != nil {
			return market.Quote{}, err
		}
		return spotQuote(symbol, t, time.Now().UTC())
	}
	return market.Quote{}, market.NewFetchError(market.MEXC, market.KindUnknown, "unsupported market %q", mkt)
}

// FuturesSymbol is the contract name: BTC_USDT.
func FuturesSymbol(s market.Symbol) string { return s.Base + "_" + s.Quote }

// SpotSymbol is the spot pair without separator: BTCUSDT.
func SpotSymbol(s market.Symbol) string { return s.Base + s.Quote }

func futuresQuote(symbol market.Symbol, t *FuturesTicker, now time.Time) (market.Quote, error) {
	if !t.LastPrice.Valid {
		return market.Quote{}, market.NewFetchError(market.MEXC, market.KindMalformedResponse, "ticker %s has no lastPrice", FuturesSymbol(symbol))
	}
	return market.Quote{
		Exchange:    market.MEXC,
		Symbol:      symbol,
		Market:      market.Futures,
		LastPrice:   t.LastPrice.Decimal,
		MarkPrice:   t.FairPrice.NullDecimal,
		IndexPrice:  t.IndexPrice.NullDecimal,
		FundingRate: t.FundingRate.NullDecimal,
		Volume24h:   t.Volume24.NullDecimal,
		Turnover24h: t.Amount24.NullDecimal,
		Timestamp:   now,
	}, nil
}

func spotQuote(symbol market.Symbol, t *SpotTicker, now time.Time) (market.Quote, error) {
	if !t.LastPrice.Valid {
		return market.Quote{}, market.NewFetchError(market.MEXC, market.KindMalformedResponse, "ticker %s has no lastPrice", SpotSymbol(symbol))
	}
	return market.Quote{
		Exchange:    market.MEXC,
		Symbol:      symbol,
		Market:      market.Spot,
		LastPrice:   t.LastPrice.Decimal,
		Volume24h:   t.Volume.NullDecimal,
		Turnover24h: t.QuoteVolume.NullDecimal,
		Timestamp:   now,
	}, nil
}
