package mexc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"cexbot/internal/market"
)

// apiError is the error body of the spot API.
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Spot API error codes that mean the symbol is unknown.
const (
	codeInvalidSymbol = -1121
	codeBadSymbol     = 10007
)

// get performs a GET of base+path?rawQuery and decodes a 200 body into out.
// Every failure comes back as a *market.FetchError.
func (c *Client) get(ctx context.Context, base, path, rawQuery string, header http.Header, out any) error {
	url := base + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return market.NewFetchError(market.MEXC, market.KindUnknown, "creating request: %v", err)
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
		return market.TransportError(market.MEXC, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusTooManyRequests, http.StatusTeapot:
		c.log.WithField("path", path).WithField("status", res.StatusCode).Warn("rate limited")
		return market.NewFetchError(market.MEXC, market.KindRateLimited, "HTTP %d", res.StatusCode)

	case http.StatusBadRequest, http.StatusNotFound:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		var ae apiError
		_ = json.Unmarshal(b, &ae)
		c.log.WithField("path", path).WithField("status", res.StatusCode).WithField("code", ae.Code).Warn("request rejected")
		if ae.Code == codeInvalidSymbol || ae.Code == codeBadSymbol || res.StatusCode == http.StatusNotFound {
			return market.NewFetchError(market.MEXC, market.KindNotFound, "%s", strings.TrimSpace(ae.Msg))
		}
		if ae.Msg != "" {
			return market.NewFetchError(market.MEXC, market.KindUnknown, "HTTP %d: %s", res.StatusCode, ae.Msg)
		}
		return market.NewFetchError(market.MEXC, market.KindUnknown, "HTTP %d", res.StatusCode)

	default:
		c.log.WithField("path", path).WithField("status", res.StatusCode).Warn("unexpected status code")
		return market.NewFetchError(market.MEXC, market.KindUnknown, "unexpected status code: %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return market.TransportError(market.MEXC, ctx.Err())
		}
		return market.NewFetchError(market.MEXC, market.KindMalformedResponse, "decoding %s: %v", path, err)
	}
	return nil
}
