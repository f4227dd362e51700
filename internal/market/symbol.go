package market

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultQuote is appended when only a base asset is given.
const DefaultQuote = "USDT"

// ErrInvalidSymbol is returned by ParseSymbol for malformed input.
var ErrInvalidSymbol = errors.New("invalid symbol")

// Symbol is a trading pair in canonical BASE_QUOTE form.
type Symbol struct {
	Base  string
	Quote string
}

func (s Symbol) String() string { return s.Base + "_" + s.Quote }

// MarshalText renders the canonical form so Symbol encodes as a JSON string.
func (s Symbol) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses canonical BASE_QUOTE text.
func (s *Symbol) UnmarshalText(b []byte) error {
	v, err := ParseSymbol(string(b), "")
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSymbol normalizes user input into a Symbol.
// Input is case-insensitive; '-' and '/' are accepted as separators. A bare
// base asset gets defaultQuote; when defaultQuote is empty a separator is
// required.
func ParseSymbol(raw, defaultQuote string) (Symbol, error) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("-", "_", "/", "_").Replace(s)
	if s == "" {
		return Symbol{}, fmt.Errorf("%w: empty", ErrInvalidSymbol)
	}

	parts := strings.Split(s, "_")
	switch len(parts) {
	case 1:
		if defaultQuote == "" {
			return Symbol{}, fmt.Errorf("%w: %q has no quote currency", ErrInvalidSymbol, raw)
		}
		parts = append(parts, defaultQuote)
	case 2:
	default:
		return Symbol{}, fmt.Errorf("%w: %q has more than one separator", ErrInvalidSymbol, raw)
	}

	for _, p := range parts {
		if p == "" {
			return Symbol{}, fmt.Errorf("%w: %q has an empty side", ErrInvalidSymbol, raw)
		}
		if !isAlnum(p) {
			return Symbol{}, fmt.Errorf("%w: %q contains invalid characters", ErrInvalidSymbol, raw)
		}
	}
	return Symbol{Base: strings.ToUpper(parts[0]), Quote: strings.ToUpper(parts[1])}, nil
}

// isAlnum accepts ASCII letters and digits only. It runs before upper-casing
// so that letters like 'ı' or 'ſ' cannot fold into ASCII.
func isAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
