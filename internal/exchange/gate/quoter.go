package gate

import (
	"context"
	"time"

	"cexbot/internal/market"
)

// Exchange implements market.Client.
func (c *Client) Exchange() market.Exchange { return market.Gate }

// Fetch implements market.Client.
func (c *Client) Fetch(ctx context.Context, symbol market.Symbol, mkt market.Market) (market.Quote, error) {
	switch mkt {
	case market.Futures:
		t, err := c.FuturesTicker(ctx, Symbol(symbol))
		if err != nil {
			return market.Quote{}, err
		}
		return futuresQuote(symbol, t, time.Now().UTC())
	case market.Spot:
		t, err := c.SpotTicker(ctx, Symbol(symbol))
		if err != nil {
			return market.Quote{}, err
		}
		return spotQuote(symbol, t, time.Now().UTC())
	}
	return market.Quote{}, market.NewFetchError(market.Gate, market.KindUnknown, "unsupported market %q", mkt)
}

// Symbol is the Gate.io name for both contracts and currency pairs: BTC_USDT.
func Symbol(s market.Symbol) string { return s.Base + "_" + s.Quote }

func futuresQuote(symbol market.Symbol, t *FuturesTicker, now time.Time) (market.Quote, error) {
	if !t.Last.Valid {
		return market.Quote{}, market.NewFetchError(market.Gate, market.KindMalformedResponse, "ticker %s has no last price", t.Contract)
	}
	return market.Quote{
		Exchange:    market.Gate,
		Symbol:      symbol,
		Market:      market.Futures,
		LastPrice:   t.Last.Decimal,
		MarkPrice:   t.MarkPrice.NullDecimal,
		IndexPrice:  t.IndexPrice.NullDecimal,
		FundingRate: t.FundingRate.NullDecimal,
		Volume24h:   t.Volume24hBase.NullDecimal,
		Turnover24h: t.Volume24hQuote.NullDecimal,
		Timestamp:   now,
	}, nil
}

func spotQuote(symbol market.Symbol, t *SpotTicker, now time.Time) (market.Quote, error) {
	if !t.Last.Valid {
		return market.Quote{}, market.NewFetchError(market.Gate, market.KindMalformedResponse, "ticker %s has no last price", t.CurrencyPair)
	}
	return market.Quote{
		Exchange:    market.Gate,
		Symbol:      symbol,
		Market:      market.Spot,
		LastPrice:   t.Last.Decimal,
		Volume24h:   t.BaseVolume.NullDecimal,
		Turnover24h: t.QuoteVolume.NullDecimal,
		Timestamp:   now,
	}, nil
}
