package mexc

import (
	"context"
	"net/url"
	"strings"

	"cexbot/internal/market"
)

// SpotTicker is the 24h rolling ticker from /api/v3/ticker/24hr.
type SpotTicker struct {
	Symbol      string        `json:"symbol"`
	LastPrice   market.Number `json:"lastPrice"`
	Volume      market.Number `json:"volume"`
	QuoteVolume market.Number `json:"quoteVolume"`
}

// SpotTicker24h retrieves the 24h ticker of a spot pair, e.g. BTCUSDT.
func (c *Client) SpotTicker24h(ctx context.Context, pair string) (*SpotTicker, error) {
	query := url.Values{}
	query.Set("symbol", pair)

	var t SpotTicker
	if err := c.get(ctx, c.spotURL, "/api/v3/ticker/24hr", query.Encode(), nil, &t); err != nil {
		return nil, err
	}
	if !strings.EqualFold(t.Symbol, pair) {
		return nil, market.NewFetchError(market.MEXC, market.KindNotFound, "spot pair %s", pair)
	}
	return &t, nil
}
