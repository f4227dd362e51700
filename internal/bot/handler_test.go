package bot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cexbot/internal/aggregate"
	"cexbot/internal/bot"
	"cexbot/internal/market"
	"cexbot/internal/market/mocks"
)

type fixture struct {
	mexc    *mocks.MockClient
	gate    *mocks.MockClient
	handler *bot.Handler
}

func newFixture(t *testing.T, opts ...bot.HandlerOption) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{mexc: mocks.NewMockClient(ctrl), gate: mocks.NewMockClient(ctrl)}
	f.mexc.EXPECT().Exchange().Return(market.MEXC).AnyTimes()
	f.gate.EXPECT().Exchange().Return(market.Gate).AnyTimes()

	logger, _ := test.NewNullLogger()
	svc := aggregate.New(100*time.Millisecond, logger, f.mexc, f.gate)
	f.handler = bot.NewHandler(svc, append([]bot.HandlerOption{bot.WithHandlerLogger(logger)}, opts...)...)
	return f
}

func TestHandle_MissingArgument_NoNetworkCalls(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.mexc.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.gate.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	reply, ok := f.handler.Handle(t.Context(), 42, "/mexc")
	require.True(t, ok)
	require.Contains(t, reply.String(), "Usage:")
	require.Contains(t, reply.String(), "/mexc <symbol>")
}

func TestHandle_SingleExchange(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	btc := market.Symbol{Base: "BTC", Quote: "USDT"}
	f.mexc.EXPECT().Fetch(gomock.Any(), btc, market.Futures).Return(market.Quote{
		Exchange:  market.MEXC,
		Symbol:    btc,
		Market:    market.Futures,
		LastPrice: decimal.RequireFromString("65000.12"),
	}, nil)

	reply, ok := f.handler.Handle(t.Context(), 42, "/mexc BTC_USDT")
	require.True(t, ok)
	require.Contains(t, reply.String(), "65000.12")
	require.Contains(t, reply.String(), "*MEXC*")
	require.Contains(t, reply.String(), "Funding: —")
}

func TestHandle_Aggregate_OneTimesOut(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	eth := market.Symbol{Base: "ETH", Quote: "USDT"}
	f.mexc.EXPECT().Fetch(gomock.Any(), eth, market.Futures).DoAndReturn(
		func(ctx context.Context, _ market.Symbol, _ market.Market) (market.Quote, error) {
			<-ctx.Done()
			return market.Quote{}, ctx.Err()
		})
	f.gate.EXPECT().Fetch(gomock.Any(), eth, market.Futures).Return(market.Quote{
		Exchange:  market.Gate,
		Symbol:    eth,
		Market:    market.Futures,
		LastPrice: decimal.RequireFromString("3200.5"),
	}, nil)

	reply, ok := f.handler.Handle(t.Context(), 42, "/cex ETH")
	require.True(t, ok)
	require.Contains(t, reply.String(), "3200.5")
	require.Contains(t, reply.String(), "MEXC timed out")
}

func TestHandle_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.gate.EXPECT().Fetch(gomock.Any(), market.Symbol{Base: "DOGE", Quote: "USDT"}, market.Futures).
		Return(market.Quote{}, market.NewFetchError(market.Gate, market.KindNotFound, "contract DOGE_USDT"))

	reply, ok := f.handler.Handle(t.Context(), 42, "/gate DOGE_USDT")
	require.True(t, ok)
	require.Equal(t, `symbol not found on Gate\.io`, reply.String())
}

func TestHandle_UnknownCommandIsIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reply, ok := f.handler.Handle(t.Context(), 42, "/price BTC")
	require.False(t, ok)
	require.Empty(t, reply)

	_, ok = f.handler.Handle(t.Context(), 42, "just chatting")
	require.False(t, ok)
}

func TestHandle_Start(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reply, ok := f.handler.Handle(t.Context(), 42, "/start")
	require.True(t, ok)
	require.Contains(t, reply.String(), "/cex")
}

func TestHandle_ClientPanicIsContained(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lister := mocks.NewMockNetworkLister(ctrl)
	lister.EXPECT().Networks(gomock.Any(), "BTC").Return(nil, errors.New("unused")).AnyTimes()

	f := newFixture(t, bot.WithNetworks(market.MEXC, lister))
	f.mexc.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, market.Symbol, market.Market) (market.Quote, error) {
			panic("boom")
		})

	// Client panics are contained by the aggregation layer.
	reply, ok := f.handler.Handle(t.Context(), 42, "/mexc btc")
	require.True(t, ok)
	require.Contains(t, reply.String(), "MEXC request failed")
}

func TestHandle_NetworksIncludedAndFailureTolerated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mexcNets := mocks.NewMockNetworkLister(ctrl)
	mexcNets.EXPECT().Networks(gomock.Any(), "PEPE").Return([]market.Network{
		{Name: "ERC20", DepositEnabled: true, WithdrawEnabled: true},
	}, nil)
	gateNets := mocks.NewMockNetworkLister(ctrl)
	gateNets.EXPECT().Networks(gomock.Any(), "PEPE").Return(nil, market.NewFetchError(market.Gate, market.KindTimeout, ""))

	f := newFixture(t, bot.WithNetworks(market.MEXC, mexcNets), bot.WithNetworks(market.Gate, gateNets))
	pepe := market.Symbol{Base: "PEPE", Quote: "USDT"}
	f.mexc.EXPECT().Fetch(gomock.Any(), pepe, market.Spot).Return(market.Quote{
		Exchange: market.MEXC, Symbol: pepe, Market: market.Spot, LastPrice: decimal.RequireFromString("0.00001234"),
	}, nil)
	f.gate.EXPECT().Fetch(gomock.Any(), pepe, market.Spot).Return(market.Quote{
		Exchange: market.Gate, Symbol: pepe, Market: market.Spot, LastPrice: decimal.RequireFromString("0.00001235"),
	}, nil)

	reply, ok := f.handler.Handle(t.Context(), 1, "/mexc pepe spot")
	require.True(t, ok)
	require.Contains(t, reply.String(), "*Networks*\nERC20: D ✅ \\| W ✅")

	reply, ok = f.handler.Handle(t.Context(), 1, "/gate pepe spot")
	require.True(t, ok)
	require.Contains(t, reply.String(), "0.00001235")
	require.NotContains(t, reply.String(), "Networks")
}

func TestHandle_FuturesContractDetails(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	btc := market.Symbol{Base: "BTC", Quote: "USDT"}
	mexcContracts := mocks.NewMockContractInspector(ctrl)
	mexcContracts.EXPECT().Contract(gomock.Any(), btc).Return(market.Contract{
		Exchange:     market.MEXC,
		Symbol:       btc,
		MaxVolume:    decimal.NewNullDecimal(decimal.NewFromInt(1_000_000)),
		ContractSize: decimal.NewNullDecimal(decimal.RequireFromString("0.0001")),
	}, nil)
	mexcContracts.EXPECT().IndexWeights(gomock.Any(), btc).Return([]market.IndexWeight{
		{Source: "Binance", Weight: decimal.RequireFromString("0.5")},
		{Source: "OKX", Weight: decimal.RequireFromString("0.5")},
	}, nil)
	gateContracts := mocks.NewMockContractInspector(ctrl)
	gateContracts.EXPECT().Contract(gomock.Any(), btc).Return(market.Contract{}, market.NewFetchError(market.Gate, market.KindTimeout, ""))
	gateContracts.EXPECT().IndexWeights(gomock.Any(), btc).DoAndReturn(
		func(context.Context, market.Symbol) ([]market.IndexWeight, error) {
			panic("boom")
		})

	f := newFixture(t, bot.WithContracts(market.MEXC, mexcContracts), bot.WithContracts(market.Gate, gateContracts))
	f.mexc.EXPECT().Fetch(gomock.Any(), btc, market.Futures).Return(market.Quote{
		Exchange: market.MEXC, Symbol: btc, Market: market.Futures, LastPrice: decimal.NewFromInt(65000),
	}, nil)
	f.gate.EXPECT().Fetch(gomock.Any(), btc, market.Futures).Return(market.Quote{
		Exchange: market.Gate, Symbol: btc, Market: market.Futures, LastPrice: decimal.NewFromInt(64990),
	}, nil)

	reply, ok := f.handler.Handle(t.Context(), 1, "/mexc btc")
	require.True(t, ok)
	require.Contains(t, reply.String(), "Buy Limit: `$6.50M`")
	require.Contains(t, reply.String(), `Index weights: Binance 50\.0% • OKX 50\.0%`)
	require.Contains(t, reply.String(), "[Trade](https://futures.mexc.com/exchange/BTC_USDT)")

	// Failed or panicking lookups only drop their lines.
	reply, ok = f.handler.Handle(t.Context(), 1, "/gate btc")
	require.True(t, ok)
	require.Contains(t, reply.String(), "64990")
	require.NotContains(t, reply.String(), "Buy Limit")
	require.NotContains(t, reply.String(), "Index weights")
}

func TestHandle_SpotSkipsContractDetails(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	contracts := mocks.NewMockContractInspector(ctrl)
	contracts.EXPECT().Contract(gomock.Any(), gomock.Any()).Times(0)
	contracts.EXPECT().IndexWeights(gomock.Any(), gomock.Any()).Times(0)

	f := newFixture(t, bot.WithContracts(market.MEXC, contracts))
	btc := market.Symbol{Base: "BTC", Quote: "USDT"}
	f.mexc.EXPECT().Fetch(gomock.Any(), btc, market.Spot).Return(market.Quote{
		Exchange: market.MEXC, Symbol: btc, Market: market.Spot, LastPrice: decimal.NewFromInt(65000),
	}, nil)

	reply, ok := f.handler.Handle(t.Context(), 1, "/mexc btc spot")
	require.True(t, ok)
	require.Contains(t, reply.String(), "[Trade](https://www.mexc.com/exchange/BTC_USDT)")
}

type fakeSender struct {
	sent []tgbotapi.Chattable
	// errs are returned by successive calls; err once they run out.
	errs []error
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return tgbotapi.Message{}, err
	}
	return tgbotapi.Message{}, f.err
}

func TestTelegramDispatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	logger, hook := test.NewNullLogger()
	sender := &fakeSender{}
	tg := bot.NewTelegramForTest(sender, f.handler, logger)

	msg := &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: 99}, Text: "/gate"}
	bot.Dispatch(tg, t.Context(), msg)

	require.Len(t, sender.sent, 1)
	m, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	require.Equal(t, int64(99), m.ChatID)
	require.Equal(t, 7, m.ReplyToMessageID)
	require.Equal(t, tgbotapi.ModeMarkdownV2, m.ParseMode)
	require.True(t, m.DisableWebPagePreview)
	require.Contains(t, m.Text, "/gate <symbol>")

	// Non-commands produce no message.
	bot.Dispatch(tg, t.Context(), &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 99}, Text: "hi"})
	require.Len(t, sender.sent, 1)

	// Send failures are logged, not fatal.
	sender.err = errors.New("network down")
	bot.Dispatch(tg, t.Context(), msg)
	require.Len(t, sender.sent, 3)
	require.Equal(t, "sending reply failed", hook.LastEntry().Message)
}

func TestTelegramDispatch_ResendsPlainTextWhenMarkupRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	logger, hook := test.NewNullLogger()
	sender := &fakeSender{errs: []error{
		errors.New("Bad Request: can't parse entities: character '.' is reserved and must be escaped"),
	}}
	tg := bot.NewTelegramForTest(sender, f.handler, logger)

	bot.Dispatch(tg, t.Context(), &tgbotapi.Message{MessageID: 3, Chat: &tgbotapi.Chat{ID: 5}, Text: "/mexc"})

	require.Len(t, sender.sent, 2)
	first := sender.sent[0].(tgbotapi.MessageConfig)
	require.Equal(t, tgbotapi.ModeMarkdownV2, first.ParseMode)

	second := sender.sent[1].(tgbotapi.MessageConfig)
	require.Empty(t, second.ParseMode)
	require.Equal(t, int64(5), second.ChatID)
	require.Equal(t, 3, second.ReplyToMessageID)
	require.Contains(t, second.Text, "Usage: /mexc <symbol> [spot|futures]")
	require.NotContains(t, second.Text, "`")
	require.NotContains(t, second.Text, "\\")

	// The plain resend went through, so nothing is logged as failed.
	require.Len(t, hook.AllEntries(), 1)
	require.Equal(t, "markdown reply rejected, resending as plain text", hook.LastEntry().Message)
}
