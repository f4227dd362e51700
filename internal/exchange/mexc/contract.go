package mexc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"cexbot/internal/market"
)

// ContractDetail is one contract from /api/v1/contract/detail.
type ContractDetail struct {
	Symbol       string        `json:"symbol"`
	BaseCoin     string        `json:"baseCoin"`
	QuoteCoin    string        `json:"quoteCoin"`
	ContractSize market.Number `json:"contractSize"`
	MaxVol       market.Number `json:"maxVol"`
}

// IndexSource is one exchange feeding the MEXC index price.
type IndexSource struct {
	MarketName string `json:"marketName"`
	// Weight is spelled "wight" upstream.
	Weight market.Number `json:"wight"`
}

// IndexComposition is the body of contract/market_price_v2.
type IndexComposition struct {
	// ShowIndexSymbolWeight is 1 when IndexPrice holds a real breakdown.
	ShowIndexSymbolWeight int           `json:"showIndexSymbolWeight"`
	IndexPrice            []IndexSource `json:"indexPrice"`
}

// ContractDetail retrieves the specification of one perpetual contract.
func (c *Client) ContractDetail(ctx context.Context, contract string) (*ContractDetail, error) {
	query := url.Values{}
	query.Set("symbol", contract)

	var body futuresResponse
	if err := c.get(ctx, c.futuresURL, "/api/v1/contract/detail", query.Encode(), nil, &body); err != nil {
		return nil, err
	}
	if err := body.err(contract); err != nil {
		return nil, err
	}

	data := bytes.TrimSpace(body.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, market.NewFetchError(market.MEXC, market.KindNotFound, "contract %s", contract)
	}
	var list []ContractDetail
	if data[0] == '[' {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, market.NewFetchError(market.MEXC, market.KindMalformedResponse, "decoding contract list: %v", err)
		}
	} else {
		var d ContractDetail
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, market.NewFetchError(market.MEXC, market.KindMalformedResponse, "decoding contract: %v", err)
		}
		list = append(list, d)
	}
	for i := range list {
		if strings.EqualFold(list[i].Symbol, contract) {
			return &list[i], nil
		}
	}
	return nil, market.NewFetchError(market.MEXC, market.KindNotFound, "contract %s", contract)
}

// IndexComposition retrieves the sources of a contract's index price. The
// endpoint belongs to the website, not the public contract API.
func (c *Client) IndexComposition(ctx context.Context, contract string) (*IndexComposition, error) {
	query := url.Values{}
	query.Set("symbol", contract)

	var body futuresResponse
	if err := c.get(ctx, c.webURL, "/api/platform/futures/api/v1/contract/market_price_v2", query.Encode(), nil, &body); err != nil {
		return nil, err
	}
	if err := body.err(contract); err != nil {
		return nil, err
	}
	var ic IndexComposition
	if data := bytes.TrimSpace(body.Data); len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		if err := json.Unmarshal(data, &ic); err != nil {
			return nil, market.NewFetchError(market.MEXC, market.KindMalformedResponse, "decoding index weights: %v", err)
		}
	}
	return &ic, nil
}

// Contract implements market.ContractInspector.
func (c *Client) Contract(ctx context.Context, symbol market.Symbol) (market.Contract, error) {
	d, err := c.ContractDetail(ctx, FuturesSymbol(symbol))
	if err != nil {
		return market.Contract{}, err
	}
	return market.Contract{
		Exchange:     market.MEXC,
		Symbol:       symbol,
		MaxVolume:    d.MaxVol.NullDecimal,
		ContractSize: d.ContractSize.NullDecimal,
	}, nil
}

// IndexWeights implements market.ContractInspector. An index without a
// published breakdown is priced from MEXC alone.
func (c *Client) IndexWeights(ctx context.Context, symbol market.Symbol) ([]market.IndexWeight, error) {
	ic, err := c.IndexComposition(ctx, FuturesSymbol(symbol))
	if err != nil {
		return nil, err
	}
	var out []market.IndexWeight
	if ic.ShowIndexSymbolWeight == 1 {
		for _, src := range ic.IndexPrice {
			if !src.Weight.Valid || !src.Weight.Decimal.IsPositive() {
				continue
			}
			out = append(out, market.IndexWeight{Source: src.MarketName, Weight: src.Weight.Decimal})
		}
	}
	if len(out) == 0 {
		out = append(out, market.IndexWeight{Source: market.MEXC.DisplayName(), Weight: decimal.NewFromInt(1)})
	}
	return out, nil
}
