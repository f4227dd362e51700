package mexc

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cexbot/internal/market"
)

// ErrNoCredentials is returned by signed endpoints when no API key pair is set.
var ErrNoCredentials = errors.New("mexc: API credentials not configured")

const recvWindow = "60000"

// NetworkConfig is one chain entry of /api/v3/capital/config/getall.
type NetworkConfig struct {
	Network        string `json:"network"`
	Contract       string `json:"contract"`
	DepositEnable  bool   `json:"depositEnable"`
	WithdrawEnable bool   `json:"withdrawEnable"`
}

// CoinConfig lists the chains of one coin.
type CoinConfig struct {
	Coin        string          `json:"coin"`
	Name        string          `json:"name"`
	NetworkList []NetworkConfig `json:"networkList"`
}

type serverTime struct {
	ServerTime int64 `json:"serverTime"`
}

// SyncTime refreshes the offset between the MEXC server clock and the local
// clock. Concurrent callers share one request.
func (c *Client) SyncTime(ctx context.Context) error {
	_, err, _ := c.sf.Do("time", func() (any, error) {
		var st serverTime
		before := time.Now()
		if err := c.get(ctx, c.spotURL, "/api/v3/time", "", nil, &st); err != nil {
			return nil, err
		}
		if st.ServerTime <= 0 {
			return nil, market.NewFetchError(market.MEXC, market.KindMalformedResponse, "missing serverTime")
		}
		// Assume the server stamped the midpoint of the round trip.
		local := before.Add(time.Since(before) / 2).UnixMilli()
		c.offsetMs.Store(st.ServerTime - local)
		c.log.WithField("offset_ms", st.ServerTime-local).Debug("server time synchronized")
		return nil, nil
	})
	return err
}

// now returns the local time corrected by the last known server offset.
func (c *Client) now() time.Time {
	return time.Now().Add(time.Duration(c.offsetMs.Load()) * time.Millisecond)
}

// sign appends timestamp, recvWindow and the HMAC-SHA256 signature of the
// resulting query string.
func (c *Client) sign(query url.Values) string {
	query.Set("timestamp", strconv.FormatInt(c.now().UnixMilli(), 10))
	query.Set("recvWindow", recvWindow)
	encoded := query.Encode()
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(encoded))
	return encoded + "&signature=" + hex.EncodeToString(mac.Sum(nil))
}

// CoinConfigs retrieves deposit/withdraw configuration for every coin.
// It is a signed endpoint.
func (c *Client) CoinConfigs(ctx context.Context) ([]CoinConfig, error) {
	if !c.HasCredentials() {
		return nil, ErrNoCredentials
	}
	header := http.Header{}
	header.Set("X-MEXC-APIKEY", c.apiKey)

	var out []CoinConfig
	if err := c.get(ctx, c.spotURL, "/api/v3/capital/config/getall", c.sign(url.Values{}), header, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Networks implements market.NetworkLister.
func (c *Client) Networks(ctx context.Context, coin string) ([]market.Network, error) {
	configs, err := c.CoinConfigs(ctx)
	if err != nil {
		return nil, err
	}
	for _, cc := range configs {
		if !strings.EqualFold(cc.Coin, coin) {
			continue
		}
		out := make([]market.Network, 0, len(cc.NetworkList))
		for _, n := range cc.NetworkList {
			out = append(out, market.Network{
				Name:            n.Network,
				Contract:        n.Contract,
				DepositEnabled:  n.DepositEnable,
				WithdrawEnabled: n.WithdrawEnable,
			})
		}
		return out, nil
	}
	return nil, market.NewFetchError(market.MEXC, market.KindNotFound, "coin %s", strings.ToUpper(coin))
}
