package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"cexbot/internal/aggregate"
	"cexbot/internal/market"
)

// missing stands in for optional values an exchange did not provide.
const missing = "—"

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
)

// Details is optional context shown under a single-exchange quote. Any
// part may be empty.
type Details struct {
	Networks []market.Network
	Contract *market.Contract
	Index    []market.IndexWeight
}

// Quote renders a single-exchange reply.
func Quote(q market.Quote, d Details) SafeText {
	lines := []SafeText{
		Bold(q.Exchange.DisplayName()) + " " + Escape("· "+q.Symbol.String()+" "+string(q.Market)),
	}
	lines = append(lines, quoteLines(q)...)
	if d.Contract != nil {
		if limit, ok := d.Contract.BuyLimit(q.LastPrice); ok {
			lines = append(lines, field("Buy Limit", Code("$"+Abbreviate(limit))))
		}
	}
	if idx := formatIndex(d.Index); idx != "" {
		lines = append(lines, Escape("Index weights: "+idx))
	}
	if len(d.Networks) > 0 {
		lines = append(lines, "", Bold("Networks"))
		lines = append(lines, networkLines(d.Networks)...)
	}
	if u := q.Exchange.TradeURL(q.Symbol, q.Market); u != "" {
		lines = append(lines, "", "🔗 "+Link("Trade", u))
	}
	if !q.Timestamp.IsZero() {
		lines = append(lines, Italic("as of "+q.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC")))
	}
	return Join(lines...)
}

// Aggregate renders both exchanges side by side in a single message.
func Aggregate(res aggregate.Result) SafeText {
	if res.NotFound() {
		return Escape(res.Symbol.String() + " not found on any exchange")
	}
	lines := []SafeText{Bold(res.Symbol.String()) + " " + Escape("· "+string(res.Market))}
	for _, e := range res.Entries {
		lines = append(lines, "")
		if e.Err != nil {
			lines = append(lines, Bold(e.Exchange.DisplayName()), "⚠️ "+FetchError(e.Exchange, e.Err))
			continue
		}
		lines = append(lines, Bold(e.Exchange.DisplayName()))
		lines = append(lines, quoteLines(*e.Quote)...)
	}
	if spread, ok := crossSpread(res); ok {
		lines = append(lines, "", Escape("MEXC vs Gate.io: ")+Code(spread))
	}
	return Join(lines...)
}

// FetchError renders err as a short phrase naming the exchange.
func FetchError(ex market.Exchange, err error) SafeText {
	name := ex.DisplayName()
	switch market.KindOf(err) {
	case market.KindNotFound:
		return Escape("symbol not found on " + name)
	case market.KindTimeout:
		return Escape(name + " timed out")
	case market.KindRateLimited:
		return Escape("rate limited by " + name)
	case market.KindMalformedResponse:
		return Escape("unexpected response from " + name)
	}
	msg := "unknown error"
	var fe *market.FetchError
	switch {
	case errors.As(err, &fe) && fe.Message != "":
		msg = fe.Message
	case fe == nil && err != nil:
		msg = err.Error()
	}
	return Escape(name + " request failed: " + msg)
}

// Usage explains the arguments of cmd (without the leading slash).
func Usage(cmd string) SafeText {
	return Join(
		Escape("Usage: ")+Code("/"+cmd+" <symbol> [spot|futures]"),
		Escape("Example: ")+Code("/"+cmd+" BTC_USDT")+Escape(" or ")+Code("/"+cmd+" eth spot"),
	)
}

// Start is the greeting for /start and /help.
func Start() SafeText {
	return Join(
		Bold("CEX price bot"),
		Escape("Quotes from MEXC and Gate.io. Market defaults to futures."),
		"",
		Code("/mexc <symbol> [spot|futures]")+Escape(" MEXC quote"),
		Code("/gate <symbol> [spot|futures]")+Escape(" Gate.io quote"),
		Code("/cex <symbol> [spot|futures]")+Escape(" both exchanges"),
	)
}

// InternalError is the reply for anything unexpected.
func InternalError() SafeText {
	return Escape("something went wrong, please try again later")
}

func quoteLines(q market.Quote) []SafeText {
	return []SafeText{
		field("Last", Code(q.LastPrice.String())),
		field("Mark", price(q.MarkPrice)),
		field("Index", price(q.IndexPrice)),
		field("Spread", spread(q)),
		field("Funding", percent(q.FundingRate, 4)),
		field("Volume 24h", volume(q.Volume24h)),
		field("Turnover 24h", volume(q.Turnover24h)),
	}
}

func field(label string, value SafeText) SafeText {
	return Escape(label+": ") + value
}

func price(d decimal.NullDecimal) SafeText {
	if !d.Valid {
		return missing
	}
	return Code(d.Decimal.String())
}

func percent(d decimal.NullDecimal, places int32) SafeText {
	if !d.Valid {
		return missing
	}
	return Code(d.Decimal.Mul(hundred).StringFixed(places) + "%")
}

// spread is last relative to mark, in percent.
func spread(q market.Quote) SafeText {
	if !q.MarkPrice.Valid || q.MarkPrice.Decimal.IsZero() {
		return missing
	}
	pct := q.LastPrice.Sub(q.MarkPrice.Decimal).Div(q.MarkPrice.Decimal).Mul(hundred)
	return Code(signed(pct, 3) + "%")
}

// crossSpread compares the first two successful last prices.
func crossSpread(res aggregate.Result) (string, bool) {
	quotes := res.Quotes()
	if len(quotes) < 2 || quotes[1].LastPrice.IsZero() {
		return "", false
	}
	a, b := quotes[0].LastPrice, quotes[1].LastPrice
	return signed(a.Sub(b).Div(b).Mul(hundred), 3) + "%", true
}

func signed(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	if d.Round(places).IsPositive() {
		s = "+" + s
	}
	return s
}

// volume abbreviates large amounts: 1.23K, 4.56M, 7.89B.
func volume(d decimal.NullDecimal) SafeText {
	if !d.Valid {
		return missing
	}
	return Code(Abbreviate(d.Decimal))
}

// Abbreviate formats d with a K/M/B suffix and two decimals.
func Abbreviate(d decimal.Decimal) string {
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return d.Div(thousand).StringFixed(2) + "K"
	}
	return d.Round(2).String()
}

// formatIndex lists positive weights, heaviest first: "Binance 40.0% • OKX 60.0%".
func formatIndex(weights []market.IndexWeight) string {
	ws := make([]market.IndexWeight, 0, len(weights))
	for _, w := range weights {
		if w.Weight.IsPositive() {
			ws = append(ws, w)
		}
	}
	slices.SortStableFunc(ws, func(a, b market.IndexWeight) int { return b.Weight.Cmp(a.Weight) })
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = w.Source + " " + w.Weight.Mul(hundred).StringFixed(1) + "%"
	}
	return strings.Join(parts, " • ")
}

// networkLines gives each chain its deposit/withdraw state and, when the
// token has a contract there, the address with DEX scanner links.
func networkLines(networks []market.Network) []SafeText {
	var lines []SafeText
	for _, n := range networks {
		lines = append(lines, Escape(fmt.Sprintf("%s: D %s | W %s", n.Name, flag(n.DepositEnabled), flag(n.WithdrawEnabled))))
		if n.Contract == "" {
			continue
		}
		dex, gmgn := market.ScannerLinks(n.Name, n.Contract)
		lines = append(lines, Code(n.Contract), Link("DexScreener", dex)+Escape(" | ")+Link("GMGN", gmgn))
	}
	return lines
}

func flag(on bool) string {
	if on {
		return "✅"
	}
	return "❌"
}
