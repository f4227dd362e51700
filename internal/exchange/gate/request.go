package gate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"cexbot/internal/market"
)

// apiError is the error body Gate.io returns for non-2xx responses.
type apiError struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// Labels with a dedicated outcome.
const (
	labelContractNotFound    = "CONTRACT_NOT_FOUND"
	labelInvalidCurrencyPair = "INVALID_CURRENCY_PAIR"
	labelInvalidCurrency     = "INVALID_CURRENCY"
	labelCurrencyNotFound    = "CURRENCY_NOT_FOUND"
	labelTooManyRequests     = "TOO_MANY_REQUESTS"
)

// get performs a GET of baseURL+path?rawQuery and decodes a 2xx body into out.
// Every failure comes back as a *market.FetchError.
func (c *Client) get(ctx context.Context, path, rawQuery string, out any) error {
	return c.getFrom(ctx, c.baseURL, path, rawQuery, nil, out)
}

// getFrom is get against an arbitrary base URL with extra headers.
func (c *Client) getFrom(ctx context.Context, base, path, rawQuery string, header http.Header, out any) error {
	url := base + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return market.NewFetchError(market.Gate, market.KindUnknown, "creating request: %v", err)
	}
	req.Header = c.header.Clone()
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return market.TransportError(market.Gate, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		var ae apiError
		_ = json.Unmarshal(b, &ae)
		log := c.log.WithField("path", path).WithField("status", res.StatusCode).WithField("label", ae.Label)

		switch {
		case res.StatusCode == http.StatusTooManyRequests || ae.Label == labelTooManyRequests:
			log.Warn("rate limited")
			return market.NewFetchError(market.Gate, market.KindRateLimited, "HTTP %d", res.StatusCode)
		case ae.Label == labelContractNotFound, ae.Label == labelInvalidCurrencyPair,
			ae.Label == labelInvalidCurrency, ae.Label == labelCurrencyNotFound:
			return market.NewFetchError(market.Gate, market.KindNotFound, "%s", ae.Message)
		case ae.Label != "":
			log.Warn("request rejected")
			return market.NewFetchError(market.Gate, market.KindUnknown, "%s: %s", ae.Label, ae.Message)
		}
		log.Warn("unexpected status code")
		return market.NewFetchError(market.Gate, market.KindUnknown, "unexpected status code: %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return market.TransportError(market.Gate, ctx.Err())
		}
		return market.NewFetchError(market.Gate, market.KindMalformedResponse, "decoding %s: %v", path, err)
	}
	return nil
}
