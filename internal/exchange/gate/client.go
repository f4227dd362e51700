package gate

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	baseURL    = "https://api.gateio.ws/api/v4"
	webBaseURL = "https://www.gate.com"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=gate_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Gate.io v4 REST API. Only public endpoints are used.
type Client struct {
	// baseURL is the base URL of the API, including the /api/v4 prefix.
	baseURL string
	// webURL is the base URL of the website API, which serves index breakdowns.
	webURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header

	// apiKey and apiSecret are accepted for symmetry with MEXC; no
	// endpoint in use requires signing.
	apiKey    string
	apiSecret string

	log logrus.FieldLogger
}

// ClientOption is a configuration option for the Gate.io client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithWebURL sets the base URL for the website API (www.gate.com).
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

// WithCredentials stores the API key pair.
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

// NewClient creates a new Gate.io client.
func NewClient(options ...ClientOption) (*Client, error) {
	var client = &Client{
		baseURL:    baseURL,
		webURL:     webBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		log:        logrus.StandardLogger(),
	}
	for _, option := range options {
		option(client)
	}
	if client.baseURL == "" || client.webURL == "" {
		return nil, errors.New("gate: base URLs must not be empty")
	}
	client.log = client.log.WithField("exchange", "gate")
	return client, nil
}

// HasCredentials reports whether an API key pair was configured.
func (c *Client) HasCredentials() bool {
	return c.apiKey != "" && c.apiSecret != ""
}
