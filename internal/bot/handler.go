package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"cexbot/internal/aggregate"
	"cexbot/internal/market"
	"cexbot/internal/render"
)

// Handler answers chat commands. Each call is independent; the Handler
// itself holds no per-request state.
type Handler struct {
	svc       *aggregate.Service
	networks  map[market.Exchange]market.NetworkLister
	contracts map[market.Exchange]market.ContractInspector
	parser    Parser
	timeout   time.Duration
	log       logrus.FieldLogger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithNetworks lets single-exchange replies list the coin's chains on ex.
func WithNetworks(ex market.Exchange, l market.NetworkLister) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.networks[ex] = l
		}
	}
}

// WithContracts lets single-exchange futures replies show the buy limit and
// index composition from ex.
func WithContracts(ex market.Exchange, ci market.ContractInspector) HandlerOption {
	return func(h *Handler) {
		if ci != nil {
			h.contracts[ex] = ci
		}
	}
}

// WithCommandTimeout bounds a whole command, network lookups included.
func WithCommandTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) { h.timeout = d }
}

// WithDefaultQuote sets the quote asset appended to bare symbols.
func WithDefaultQuote(q string) HandlerOption {
	return func(h *Handler) {
		if q != "" {
			h.parser.DefaultQuote = q
		}
	}
}

// WithBotName makes the handler ignore commands addressed to other bots.
func WithBotName(name string) HandlerOption {
	return func(h *Handler) { h.parser.BotName = name }
}

// WithHandlerLogger sets the logger.
func WithHandlerLogger(l logrus.FieldLogger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHandler builds a Handler on top of the aggregation service.
func NewHandler(svc *aggregate.Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:       svc,
		networks:  map[market.Exchange]market.NetworkLister{},
		contracts: map[market.Exchange]market.ContractInspector{},
		parser:    Parser{DefaultQuote: market.DefaultQuote},
		timeout:   15 * time.Second,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle answers text sent in chatID. ok is false when text is not a
// command this bot knows; otherwise reply is always non-empty.
func (h *Handler) Handle(ctx context.Context, chatID int64, text string) (reply render.SafeText, ok bool) {
	cmd, ok, err := h.parser.Parse(text)
	if !ok {
		return "", false
	}

	log := h.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"command":    cmd.Name,
		"chat_id":    chatID,
	})
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			err = &CommandError{Kind: InternalError, Command: cmd.Name, Err: fmt.Errorf("panic: %v", rec)}
			log.WithField("stack", string(debug.Stack())).WithError(err).Error("command panicked")
			reply = render.InternalError()
		}
		log.WithField("duration", time.Since(start)).Info("command handled")
	}()

	if err == nil {
		reply, err = h.run(ctx, cmd)
	}

	var ce *CommandError
	switch {
	case err == nil:
		return reply, true
	case errors.As(err, &ce) && ce.Kind == UsageError:
		log.WithError(err).Debug("usage error")
		return render.Usage(cmd.Name), true
	}
	log.WithError(err).Error("command failed")
	return render.InternalError(), true
}

func (h *Handler) run(ctx context.Context, cmd Command) (render.SafeText, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	switch cmd.Name {
	case CmdStart, CmdHelp:
		return render.Start(), nil
	case CmdCEX:
		res := h.svc.Aggregate(ctx, cmd.Symbol, cmd.Market)
		return render.Aggregate(res), nil
	}

	ex, ok := cmd.Exchange()
	if !ok {
		return "", &CommandError{Kind: InternalError, Command: cmd.Name, Err: errors.New("no exchange for command")}
	}
	return h.single(ctx, ex, cmd)
}

// single fetches the quote and, when available, the coin's networks and the
// contract's metadata concurrently. A failed extra only drops its lines.
func (h *Handler) single(ctx context.Context, ex market.Exchange, cmd Command) (render.SafeText, error) {
	client, ok := h.svc.Client(ex)
	if !ok {
		return render.FetchError(ex, market.NewFetchError(ex, market.KindUnknown, "exchange not configured")), nil
	}

	var (
		q    market.Quote
		qErr error
		d    render.Details
	)
	var g errgroup.Group
	g.Go(func() error {
		q, qErr = h.svc.Fetch(ctx, client, cmd.Symbol, cmd.Market)
		return nil
	})
	if lister, ok := h.networks[ex]; ok {
		h.extra(&g, ex, "networks", func() error {
			nets, err := lister.Networks(ctx, cmd.Symbol.Base)
			if err == nil {
				d.Networks = nets
			}
			return err
		})
	}
	if ci, ok := h.contracts[ex]; ok && cmd.Market == market.Futures {
		h.extra(&g, ex, "contract", func() error {
			c, err := ci.Contract(ctx, cmd.Symbol)
			if err == nil {
				d.Contract = &c
			}
			return err
		})
		h.extra(&g, ex, "index weights", func() error {
			ws, err := ci.IndexWeights(ctx, cmd.Symbol)
			if err == nil {
				d.Index = ws
			}
			return err
		})
	}
	_ = g.Wait()

	if qErr != nil {
		return render.FetchError(ex, qErr), nil
	}
	return render.Quote(q, d), nil
}

// extra runs an optional lookup on g. Its errors and panics are logged and
// never fail the command.
func (h *Handler) extra(g *errgroup.Group, ex market.Exchange, what string, fn func() error) {
	log := h.log.WithField("exchange", ex).WithField("lookup", what)
	g.Go(func() error {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithField("panic", rec).Error("lookup panicked")
			}
		}()
		if err := fn(); err != nil {
			log.WithError(err).Debug("lookup failed")
		}
		return nil
	})
}
