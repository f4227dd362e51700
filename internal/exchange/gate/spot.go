package gate

import (
	"context"
	"net/url"
	"strings"

	"cexbot/internal/market"
)

// SpotTicker is one entry of /spot/tickers.
type SpotTicker struct {
	CurrencyPair string        `json:"currency_pair"`
	Last         market.Number `json:"last"`
	BaseVolume   market.Number `json:"base_volume"`
	QuoteVolume  market.Number `json:"quote_volume"`
}

// SpotTicker retrieves the ticker of one currency pair, e.g. BTC_USDT.
func (c *Client) SpotTicker(ctx context.Context, pair string) (*SpotTicker, error) {
	query := url.Values{}
	query.Set("currency_pair", pair)

	var list []SpotTicker
	if err := c.get(ctx, "/spot/tickers", query.Encode(), &list); err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].CurrencyPair, pair) {
			return &list[i], nil
		}
	}
	return nil, market.NewFetchError(market.Gate, market.KindNotFound, "currency pair %s", pair)
}
