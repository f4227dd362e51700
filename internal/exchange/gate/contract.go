package gate

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"cexbot/internal/market"
)

// FuturesContract is the body of /futures/usdt/contracts/{contract}.
type FuturesContract struct {
	Name string `json:"name"`
	// QuantoMultiplier is the base amount one contract represents.
	QuantoMultiplier market.Number `json:"quanto_multiplier"`
	OrderSizeMax     market.Number `json:"order_size_max"`
}

// Constituent is one exchange feeding a Gate.io index.
type Constituent struct {
	Exchange string        `json:"exchange"`
	Price    market.Number `json:"price"`
	Weight   market.Number `json:"weight"`
}

// IndexBreakdown is the data of the website's index breakdown endpoint.
type IndexBreakdown struct {
	Constituents []Constituent `json:"constituents"`
	Value        market.Number `json:"value"`
}

// breakdownResponse wraps IndexBreakdown; Code is 200 on success.
type breakdownResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    *IndexBreakdown `json:"data"`
}

// FuturesContract retrieves the specification of one USDT-settled contract.
func (c *Client) FuturesContract(ctx context.Context, contract string) (*FuturesContract, error) {
	var fc FuturesContract
	if err := c.get(ctx, "/futures/usdt/contracts/"+url.PathEscape(contract), "", &fc); err != nil {
		return nil, err
	}
	if fc.Name != "" && !strings.EqualFold(fc.Name, contract) {
		return nil, market.NewFetchError(market.Gate, market.KindNotFound, "contract %s", contract)
	}
	return &fc, nil
}

// IndexBreakdown retrieves the constituents of a contract's index price.
// The public v4 API lists constituents without weights, so this uses the
// website endpoint.
func (c *Client) IndexBreakdown(ctx context.Context, contract string) (*IndexBreakdown, error) {
	query := url.Values{}
	query.Set("index", contract)
	header := http.Header{}
	header.Set("Referer", c.webURL+"/")

	var body breakdownResponse
	if err := c.getFrom(ctx, c.webURL, "/apiw/v2/futures/common/index/breakdown", query.Encode(), header, &body); err != nil {
		return nil, err
	}
	if body.Code != 0 && body.Code != http.StatusOK {
		return nil, market.NewFetchError(market.Gate, market.KindUnknown, "index breakdown: code=%d msg=%q", body.Code, body.Message)
	}
	if body.Data == nil {
		return &IndexBreakdown{}, nil
	}
	return body.Data, nil
}

// Contract implements market.ContractInspector.
func (c *Client) Contract(ctx context.Context, symbol market.Symbol) (market.Contract, error) {
	fc, err := c.FuturesContract(ctx, symbol.String())
	if err != nil {
		return market.Contract{}, err
	}
	return market.Contract{
		Exchange:     market.Gate,
		Symbol:       symbol,
		MaxVolume:    fc.OrderSizeMax.NullDecimal,
		ContractSize: fc.QuantoMultiplier.NullDecimal,
	}, nil
}

// IndexWeights implements market.ContractInspector. An index without
// constituents is priced from Gate.io alone.
func (c *Client) IndexWeights(ctx context.Context, symbol market.Symbol) ([]market.IndexWeight, error) {
	b, err := c.IndexBreakdown(ctx, symbol.String())
	if err != nil {
		return nil, err
	}
	var out []market.IndexWeight
	for _, con := range b.Constituents {
		if !con.Weight.Valid || !con.Weight.Decimal.IsPositive() {
			continue
		}
		out = append(out, market.IndexWeight{Source: con.Exchange, Weight: con.Weight.Decimal})
	}
	if len(out) == 0 {
		out = append(out, market.IndexWeight{Source: market.Gate.DisplayName(), Weight: decimal.NewFromInt(1)})
	}
	return out, nil
}
