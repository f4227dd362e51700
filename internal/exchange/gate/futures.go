package gate

import (
	"context"
	"net/url"
	"strings"

	"cexbot/internal/market"
)

// FuturesTicker is one entry of /futures/usdt/tickers.
type FuturesTicker struct {
	Contract    string        `json:"contract"`
	Last        market.Number `json:"last"`
	MarkPrice   market.Number `json:"mark_price"`
	IndexPrice  market.Number `json:"index_price"`
	FundingRate market.Number `json:"funding_rate"`
	// Volume24hBase is counted in the base currency, Volume24hQuote in USDT.
	Volume24hBase  market.Number `json:"volume_24h_base"`
	Volume24hQuote market.Number `json:"volume_24h_quote"`
}

// FuturesTicker retrieves the ticker of one USDT-settled contract, e.g. BTC_USDT.
func (c *Client) FuturesTicker(ctx context.Context, contract string) (*FuturesTicker, error) {
	query := url.Values{}
	query.Set("contract", contract)

	var list []FuturesTicker
	if err := c.get(ctx, "/futures/usdt/tickers", query.Encode(), &list); err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Contract, contract) {
			return &list[i], nil
		}
	}
	return nil, market.NewFetchError(market.Gate, market.KindNotFound, "contract %s", contract)
}
