package mexc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"cexbot/internal/market"
)

// FuturesTicker is one contract ticker from /api/v1/contract/ticker.
type FuturesTicker struct {
	Symbol      string        `json:"symbol"`
	LastPrice   market.Number `json:"lastPrice"`
	FairPrice   market.Number `json:"fairPrice"`
	IndexPrice  market.Number `json:"indexPrice"`
	FundingRate market.Number `json:"fundingRate"`
	// Volume24 is counted in contracts, Amount24 in the quote currency.
	Volume24 market.Number `json:"volume24"`
	Amount24 market.Number `json:"amount24"`
}

// futuresResponse is the envelope every contract endpoint uses.
type futuresResponse struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// err maps an unsuccessful envelope to a *market.FetchError.
func (r *futuresResponse) err(contract string) error {
	if r.Success {
		return nil
	}
	switch {
	case r.Code == codeTooFrequent:
		return market.NewFetchError(market.MEXC, market.KindRateLimited, "%s", r.Message)
	case r.Code == codeContractNotExist, r.Code == codeContractNotActivate,
		strings.Contains(strings.ToLower(r.Message), "not exist"):
		return market.NewFetchError(market.MEXC, market.KindNotFound, "contract %s", contract)
	}
	return market.NewFetchError(market.MEXC, market.KindUnknown, "code=%d msg=%q", r.Code, r.Message)
}

// Contract API codes.
const (
	codeTooFrequent         = 510
	codeContractNotExist    = 1001
	codeContractNotActivate = 1002
)

// FuturesTicker retrieves the ticker of one perpetual contract, e.g. BTC_USDT.
func (c *Client) FuturesTicker(ctx context.Context, contract string) (*FuturesTicker, error) {
	query := url.Values{}
	query.Set("symbol", contract)

	var body futuresResponse
	if err := c.get(ctx, c.futuresURL, "/api/v1/contract/ticker", query.Encode(), nil, &body); err != nil {
		return nil, err
	}

	if err := body.err(contract); err != nil {
		return nil, err
	}

	ticker, err := pickTicker(body.Data, contract)
	if err != nil {
		return nil, err
	}
	if ticker == nil {
		return nil, market.NewFetchError(market.MEXC, market.KindNotFound, "contract %s", contract)
	}
	return ticker, nil
}

// pickTicker accepts data as a single object or as a list (the endpoint
// returns every contract when the symbol is ignored upstream).
func pickTicker(data json.RawMessage, contract string) (*FuturesTicker, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	if data[0] == '[' {
		var list []FuturesTicker
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, market.NewFetchError(market.MEXC, market.KindMalformedResponse, "decoding ticker list: %v", err)
		}
		for i := range list {
			if strings.EqualFold(list[i].Symbol, contract) {
				return &list[i], nil
			}
		}
		return nil, nil
	}

	var t FuturesTicker
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, market.NewFetchError(market.MEXC, market.KindMalformedResponse, "decoding ticker: %v", err)
	}
	if t.Symbol != "" && !strings.EqualFold(t.Symbol, contract) {
		return nil, nil
	}
	if t.Symbol == "" && !t.LastPrice.Valid {
		return nil, nil
	}
	return &t, nil
}
