package market

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Number decodes a JSON number or numeric string leniently. Missing, null,
// empty or unparseable values leave it invalid instead of failing the whole
// document, so one odd field never sinks a quote.
type Number struct {
	decimal.NullDecimal
}

func (n *Number) UnmarshalJSON(b []byte) error {
	n.NullDecimal = decimal.NullDecimal{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(b)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	n.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

