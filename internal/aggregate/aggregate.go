package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"cexbot/internal/market"
)

// Entry is the outcome of one exchange: exactly one of Quote and Err is set.
type Entry struct {
	Exchange market.Exchange
	Quote    *market.Quote
	Err      error
}

// Result holds one Entry per known exchange, in market.Exchanges() order.
type Result struct {
	Symbol  market.Symbol `json:"symbol"`
	Market  market.Market `json:"market"`
	Entries []Entry       `json:"entries"`
}

// AllFailed reports whether no exchange returned a quote.
func (r Result) AllFailed() bool {
	for _, e := range r.Entries {
		if e.Err == nil {
			return false
		}
	}
	return true
}

// NotFound reports whether every exchange said the symbol does not exist.
func (r Result) NotFound() bool {
	if len(r.Entries) == 0 {
		return false
	}
	for _, e := range r.Entries {
		if e.Err == nil || market.KindOf(e.Err) != market.KindNotFound {
			return false
		}
	}
	return true
}

// Quotes returns the successful quotes in entry order.
func (r Result) Quotes() []market.Quote {
	out := make([]market.Quote, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Quote != nil {
			out = append(out, *e.Quote)
		}
	}
	return out
}

// Service queries every exchange concurrently.
type Service struct {
	clients map[market.Exchange]market.Client
	timeout time.Duration
	log     logrus.FieldLogger
}

// New builds a Service. timeout bounds each exchange independently; zero
// disables the per-exchange deadline.
func New(timeout time.Duration, log logrus.FieldLogger, clients ...market.Client) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := make(map[market.Exchange]market.Client, len(clients))
	for _, c := range clients {
		m[c.Exchange()] = c
	}
	return &Service{clients: m, timeout: timeout, log: log}
}

// Client returns the client registered for ex.
func (s *Service) Client(ex market.Exchange) (market.Client, bool) {
	c, ok := s.clients[ex]
	return c, ok
}

// Aggregate fetches symbol from every known exchange. It never fails as a
// whole: each exchange's error lands in its own Entry and a slow exchange
// never delays another exchange's result beyond its own timeout.
func (s *Service) Aggregate(ctx context.Context, symbol market.Symbol, mkt market.Market) Result {
	exchanges := market.Exchanges()
	res := Result{Symbol: symbol, Market: mkt, Entries: make([]Entry, len(exchanges))}

	var g errgroup.Group
	for i, ex := range exchanges {
		res.Entries[i].Exchange = ex
		client, ok := s.clients[ex]
		if !ok {
			res.Entries[i].Err = market.NewFetchError(ex, market.KindUnknown, "exchange not configured")
			continue
		}
		g.Go(func() error {
			q, err := s.Fetch(ctx, client, symbol, mkt)
			if err != nil {
				res.Entries[i].Err = err
				return nil
			}
			res.Entries[i].Quote = &q
			return nil
		})
	}
	_ = g.Wait()
	return res
}

// Fetch runs one client call under the per-exchange timeout. A client that
// ignores its context is abandoned once the deadline passes. Panics are
// converted into an Unknown FetchError.
func (s *Service) Fetch(ctx context.Context, client market.Client, symbol market.Symbol, mkt market.Market) (market.Quote, error) {
	ex := client.Exchange()
	log := s.log.WithFields(logrus.Fields{"exchange": ex, "symbol": symbol.String(), "market": mkt})

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type outcome struct {
		q   market.Quote
		err error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithField("panic", rec).WithField("stack", string(debug.Stack())).Error("exchange client panicked")
				done <- outcome{err: market.NewFetchError(ex, market.KindUnknown, "internal error")}
			}
		}()
		q, err := client.Fetch(ctx, symbol, mkt)
		done <- outcome{q: q, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}

	log = log.WithField("duration", time.Since(start))
	if out.err != nil {
		err := market.TransportError(ex, out.err)
		log.WithError(err).Debug("fetch failed")
		return market.Quote{}, err
	}
	log.Debug("fetch ok")
	return out.q, nil
}

// String renders a compact one-line summary, handy for logs.
func (r Result) String() string {
	s := fmt.Sprintf("%s %s:", r.Symbol, r.Market)
	for _, e := range r.Entries {
		if e.Err != nil {
			s += fmt.Sprintf(" %s=error(%s)", e.Exchange, market.KindOf(e.Err))
			continue
		}
		s += fmt.Sprintf(" %s=%s", e.Exchange, e.Quote.LastPrice)
	}
	return s
}

type entryJSON struct {
	Exchange market.Exchange `json:"exchange"`
	Quote    *market.Quote   `json:"quote,omitempty"`
	Error    *errorJSON      `json:"error,omitempty"`
}

type errorJSON struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// MarshalJSON reports errors as {kind, message} objects.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{Exchange: e.Exchange, Quote: e.Quote}
	if e.Err != nil {
		out.Error = &errorJSON{Kind: market.KindOf(e.Err).String(), Message: e.Err.Error()}
	}
	return json.Marshal(out)
}
