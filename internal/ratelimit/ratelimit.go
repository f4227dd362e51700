package ratelimit

import (
	"context"
	"time"

	"cexbot/internal/market"
)

// Client wraps a market.Client and rejects calls once the local request
// budget for the exchange is spent. Rejected calls never reach the network
// and fail with a RateLimited FetchError; nothing is queued.
type Client struct {
	market.Client
	TB *TokenBucket
}

// Wrap returns c gated by tb, or c itself when tb is nil.
func Wrap(c market.Client, tb *TokenBucket) market.Client {
	if tb == nil {
		return c
	}
	return &Client{Client: c, TB: tb}
}

// Fetch implements market.Client.
func (c *Client) Fetch(ctx context.Context, symbol market.Symbol, mkt market.Market) (market.Quote, error) {
	if c.TB != nil && !c.TB.Allow() {
		return market.Quote{}, market.NewFetchError(c.Exchange(), market.KindRateLimited,
			"local request budget exhausted, retry in %s", c.TB.RetryAfter().Round(100*time.Millisecond))
	}
	return c.Client.Fetch(ctx, symbol, mkt)
}
