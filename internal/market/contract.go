package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Contract is the subset of perpetual contract metadata the bot shows.
type Contract struct {
	Exchange Exchange `json:"exchange"`
	Symbol   Symbol   `json:"symbol"`
	// MaxVolume is the largest single order, in contracts.
	MaxVolume decimal.NullDecimal `json:"max_volume"`
	// ContractSize is the amount of base asset one contract represents.
	ContractSize decimal.NullDecimal `json:"contract_size"`
}

// MaxPosition is MaxVolume × ContractSize in base units. ok is false when
// either is unknown or the product is not positive.
func (c Contract) MaxPosition() (decimal.Decimal, bool) {
	if !c.MaxVolume.Valid || !c.ContractSize.Valid {
		return decimal.Zero, false
	}
	p := c.MaxVolume.Decimal.Mul(c.ContractSize.Decimal)
	return p, p.IsPositive()
}

// BuyLimit values the largest position at price, in the quote currency.
func (c Contract) BuyLimit(price decimal.Decimal) (decimal.Decimal, bool) {
	p, ok := c.MaxPosition()
	if !ok || !price.IsPositive() {
		return decimal.Zero, false
	}
	return p.Mul(price), true
}

// IndexWeight is one source of an exchange's index price. Weight is a
// fraction of one.
type IndexWeight struct {
	Source string          `json:"source"`
	Weight decimal.Decimal `json:"weight"`
}

// TradeURL is the exchange's web trading page for symbol.
func (e Exchange) TradeURL(s Symbol, m Market) string {
	switch {
	case e == MEXC && m == Futures:
		return "https://futures.mexc.com/exchange/" + s.String()
	case e == MEXC:
		return "https://www.mexc.com/exchange/" + s.String()
	case e == Gate && m == Futures:
		return "https://www.gate.io/futures/usdt/" + s.String()
	case e == Gate:
		return "https://www.gate.io/trade/" + s.String()
	}
	return ""
}

// ScannerLinks returns DexScreener and GMGN token pages for a contract
// address deployed on network. Unrecognized networks fall back to BSC.
func ScannerLinks(network, address string) (dexScreener, gmgn string) {
	dex, gm := "bsc", "bsc"
	n := strings.ToUpper(network)
	switch {
	case strings.Contains(n, "ETH") || strings.Contains(n, "ERC20"):
		dex, gm = "ethereum", "eth"
	case strings.Contains(n, "POLYGON") || strings.Contains(n, "MATIC"):
		dex, gm = "polygon", "polygon"
	case strings.Contains(n, "ARB"):
		dex, gm = "arbitrum", "arbitrum"
	case strings.Contains(n, "OP"):
		dex, gm = "optimism", "optimism"
	case strings.Contains(n, "BSC") || strings.Contains(n, "BNB"):
	case strings.Contains(n, "SOL"):
		dex, gm = "solana", "solana"
	case strings.Contains(n, "TRON") || strings.Contains(n, "TRC20"):
		dex = "tron"
	}
	return "https://dexscreener.com/" + dex + "/" + address, "https://gmgn.ai/" + gm + "/token/" + address
}
