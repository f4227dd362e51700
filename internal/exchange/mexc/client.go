package mexc

import (
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	spotBaseURL    = "https://api.mexc.com"
	futuresBaseURL = "https://contract.mexc.com"
	webBaseURL     = "https://www.mexc.com"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=mexc_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the MEXC spot and contract REST APIs.
type Client struct {
	// spotURL is the base URL of the spot API (api.mexc.com).
	spotURL string
	// futuresURL is the base URL of the contract API (contract.mexc.com).
	futuresURL string
	// webURL is the base URL of the website API, which serves index weights.
	webURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header

	apiKey    string
	apiSecret string

	log logrus.FieldLogger

	// offsetMs is server time minus local time, used for signed requests.
	offsetMs atomic.Int64
	sf       singleflight.Group
}

// ClientOption is a configuration option for the MEXC client.
type ClientOption func(*Client)

// WithSpotURL sets the base URL for the spot API.
func WithSpotURL(u string) ClientOption {
	return func(c *Client) {
		c.spotURL = strings.TrimRight(u, "/")
	}
}

// WithFuturesURL sets the base URL for the contract API.
func WithFuturesURL(u string) ClientOption {
	return func(c *Client) {
		c.futuresURL = strings.TrimRight(u, "/")
	}
}

// WithWebURL sets the base URL for the website API (www.mexc.com).
func WithWebURL(u string) ClientOption {
	return func(c *Client) {
		c.webURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithCredentials sets the API key pair used for signed endpoints.
// Public market data never needs it.
func WithCredentials(key, secret string) ClientOption {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
		c.apiSecret = strings.TrimSpace(secret)
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a new MEXC client.
func NewClient(options ...ClientOption) (*Client, error) {
	var client = &Client{
		spotURL:    spotBaseURL,
		futuresURL: futuresBaseURL,
		webURL:     webBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		log:        logrus.StandardLogger(),
	}
	for _, option := range options {
		option(client)
	}
	if client.spotURL == "" || client.futuresURL == "" || client.webURL == "" {
		return nil, errors.New("mexc: base URLs must not be empty")
	}
	client.log = client.log.WithField("exchange", "mexc")
	return client, nil
}

// HasCredentials reports whether signed endpoints can be used.
func (c *Client) HasCredentials() bool {
	return c.apiKey != "" && c.apiSecret != ""
}
