package gate

import (
	"context"
	"net/url"
	"strings"

	"cexbot/internal/market"
)

// Chain is one network a currency can move on.
type Chain struct {
	Name             string `json:"name"`
	Addr             string `json:"addr"`
	DepositDisabled  bool   `json:"deposit_disabled"`
	WithdrawDisabled bool   `json:"withdraw_disabled"`
}

// Currency is the body of /spot/currencies/{currency}.
type Currency struct {
	Currency string  `json:"currency"`
	Chains   []Chain `json:"chains"`
}

// Currency retrieves details of one currency, including its chains.
func (c *Client) Currency(ctx context.Context, coin string) (*Currency, error) {
	var cur Currency
	if err := c.get(ctx, "/spot/currencies/"+url.PathEscape(strings.ToUpper(coin)), "", &cur); err != nil {
		return nil, err
	}
	return &cur, nil
}

// Networks implements market.NetworkLister.
func (c *Client) Networks(ctx context.Context, coin string) ([]market.Network, error) {
	cur, err := c.Currency(ctx, coin)
	if err != nil {
		return nil, err
	}
	out := make([]market.Network, 0, len(cur.Chains))
	for _, ch := range cur.Chains {
		out = append(out, market.Network{
			Name:            ch.Name,
			Contract:        ch.Addr,
			DepositEnabled:  !ch.DepositDisabled,
			WithdrawEnabled: !ch.WithdrawDisabled,
		})
	}
	return out, nil
}
