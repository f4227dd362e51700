package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Exchange identifies a supported exchange.
type Exchange string

const (
	MEXC Exchange = "MEXC"
	Gate Exchange = "GATE"
)

// Exchanges returns the known exchanges in presentation order.
func Exchanges() []Exchange { return []Exchange{MEXC, Gate} }

// DisplayName is the human-facing exchange label.
func (e Exchange) DisplayName() string {
	switch e {
	case MEXC:
		return "MEXC"
	case Gate:
		return "Gate.io"
	}
	return string(e)
}

// ParseExchange accepts exchange names case-insensitively ("gate", "gateio", "mexc").
func ParseExchange(s string) (Exchange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mexc":
		return MEXC, nil
	case "gate", "gateio", "gate.io":
		return Gate, nil
	}
	return "", fmt.Errorf("unknown exchange %q", s)
}

// Market selects between the spot and the perpetual futures book.
type Market string

const (
	Spot    Market = "spot"
	Futures Market = "futures"
)

// ParseMarket accepts "spot", "futures" and a few short aliases.
func ParseMarket(s string) (Market, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spot", "s":
		return Spot, nil
	case "futures", "future", "fut", "perp", "f":
		return Futures, nil
	}
	return "", fmt.Errorf("unknown market %q", s)
}

// Quote is the normalized snapshot returned by every exchange client.
// Optional fields are invalid NullDecimals when the exchange did not provide
// them (spot has no mark price or funding rate).
type Quote struct {
	Exchange    Exchange            `json:"exchange"`
	Symbol      Symbol              `json:"symbol"`
	Market      Market              `json:"market"`
	LastPrice   decimal.Decimal     `json:"last_price"`
	MarkPrice   decimal.NullDecimal `json:"mark_price"`
	IndexPrice  decimal.NullDecimal `json:"index_price"`
	FundingRate decimal.NullDecimal `json:"funding_rate"`
	Volume24h   decimal.NullDecimal `json:"volume_24h"`
	Turnover24h decimal.NullDecimal `json:"turnover_24h"`
	// Timestamp is the local fetch time, not exchange time.
	Timestamp time.Time `json:"timestamp"`
}

// Network is a deposit/withdraw chain for a coin on one exchange.
type Network struct {
	Name            string `json:"name"`
	Contract        string `json:"contract,omitempty"`
	DepositEnabled  bool   `json:"deposit_enabled"`
	WithdrawEnabled bool   `json:"withdraw_enabled"`
}

// Client fetches a single quote from one exchange.
// Errors returned by Fetch are *FetchError.
//
//go:generate mockgen -package=mocks -destination=mocks/mock_client.go -source=market.go
type Client interface {
	Exchange() Exchange
	Fetch(ctx context.Context, symbol Symbol, mkt Market) (Quote, error)
}

// NetworkLister is implemented by clients that can list a coin's chains.
type NetworkLister interface {
	Networks(ctx context.Context, coin string) ([]Network, error)
}

// ContractInspector is implemented by clients that expose perpetual contract
// metadata. Both calls are futures-only.
type ContractInspector interface {
	Contract(ctx context.Context, symbol Symbol) (Contract, error)
	IndexWeights(ctx context.Context, symbol Symbol) ([]IndexWeight, error)
}
