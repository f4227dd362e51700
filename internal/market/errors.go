package market

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorKind classifies why a fetch failed.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindTimeout
	KindRateLimited
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindTimeout:
		return "timeout"
	case KindRateLimited:
		return "rate limited"
	case KindMalformedResponse:
		return "malformed response"
	}
	return "unknown"
}

// FetchError is the only error type exchange clients return.
type FetchError struct {
	Kind     ErrorKind
	Exchange Exchange
	// Message is safe to show to users: it never carries request URLs or
	// credentials.
	Message string
}

func (e *FetchError) Error() string {
	var b strings.Builder
	if e.Exchange != "" {
		b.WriteString(e.Exchange.DisplayName())
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is matches any FetchError of the same kind, so errors.Is(err, ErrTimeout)
// works regardless of exchange and message.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound          = &FetchError{Kind: KindNotFound}
	ErrTimeout           = &FetchError{Kind: KindTimeout}
	ErrRateLimited       = &FetchError{Kind: KindRateLimited}
	ErrMalformedResponse = &FetchError{Kind: KindMalformedResponse}
	ErrUnknown           = &FetchError{Kind: KindUnknown}
)

// NewFetchError builds a FetchError with a formatted message.
func NewFetchError(ex Exchange, kind ErrorKind, format string, args ...any) *FetchError {
	return &FetchError{Kind: kind, Exchange: ex, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind of err, or KindUnknown when err is not a
// FetchError.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// TransportError maps an error from an HTTP round trip into a FetchError.
// Deadlines become Timeout; the URL (and with it any signed query) is
// stripped from the message.
func TransportError(ex Exchange, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: KindTimeout, Exchange: ex, Message: "request deadline exceeded"}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &FetchError{Kind: KindTimeout, Exchange: ex, Message: "request timed out"}
	}
	if errors.Is(err, context.Canceled) {
		return &FetchError{Kind: KindUnknown, Exchange: ex, Message: "request canceled"}
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return &FetchError{Kind: KindUnknown, Exchange: ex, Message: ue.Err.Error()}
	}
	return &FetchError{Kind: KindUnknown, Exchange: ex, Message: err.Error()}
}
