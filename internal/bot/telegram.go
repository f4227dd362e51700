package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"cexbot/internal/render"
)

// PollTimeout is how long Telegram may hold a getUpdates request.
const PollTimeout = 30 * time.Second

// Sender delivers messages to Telegram.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram connects a Handler to the Telegram Bot API via long polling.
type Telegram struct {
	api     *tgbotapi.BotAPI
	sender  Sender
	handler *Handler
	log     logrus.FieldLogger
	wg      sync.WaitGroup
}

// Commands advertised in the Telegram client's command menu.
var menu = []tgbotapi.BotCommand{
	{Command: CmdMEXC, Description: "MEXC quote: /mexc BTC [spot|futures]"},
	{Command: CmdGate, Description: "Gate.io quote: /gate BTC [spot|futures]"},
	{Command: CmdCEX, Description: "Both exchanges: /cex BTC [spot|futures]"},
	{Command: CmdHelp, Description: "How to use this bot"},
}

// NewTelegram authenticates with token. httpClient carries the shared
// transport (and proxy, if any).
func NewTelegram(token string, httpClient tgbotapi.HTTPClient, handler *Handler, log logrus.FieldLogger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	handler.parser.BotName = api.Self.UserName
	t := &Telegram{api: api, sender: api, handler: handler, log: log.WithField("bot", api.Self.UserName)}
	if _, err := api.Request(tgbotapi.NewSetMyCommands(menu...)); err != nil {
		t.log.WithError(err).Warn("setting command menu failed")
	}
	return t, nil
}

// Run polls for updates until ctx is done, handling each message in its own
// goroutine. It waits for in-flight commands before returning.
func (t *Telegram) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(PollTimeout / time.Second)
	updates := t.api.GetUpdatesChan(u)
	t.log.Info("polling for updates")

	defer t.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			if upd.Message == nil || upd.Message.Text == "" {
				continue
			}
			msg := upd.Message
			t.wg.Add(1)
			go func() {
				defer t.wg.Done()
				t.dispatch(ctx, msg)
			}()
		}
	}
}

// dispatch answers one incoming message. A reply Telegram refuses is sent
// once more as plain text; errors are logged and never stop the loop.
func (t *Telegram) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			t.log.WithField("panic", rec).Error("dispatch panicked")
		}
	}()
	if msg.Chat == nil {
		return
	}
	reply, ok := t.handler.Handle(ctx, msg.Chat.ID, msg.Text)
	if !ok {
		return
	}
	log := t.log.WithField("chat_id", msg.Chat.ID)
	m := newReply(msg, reply)
	_, err := t.sender.Send(m)
	if err == nil {
		return
	}
	// Telegram rejects the whole message on a markup error, so resend it
	// without a parse mode rather than leave the command unanswered.
	log.WithError(err).Warn("markdown reply rejected, resending as plain text")
	m.ParseMode = ""
	m.Text = reply.Plain()
	if _, err := t.sender.Send(m); err != nil {
		log.WithError(err).Error("sending reply failed")
	}
}

func newReply(msg *tgbotapi.Message, text render.SafeText) tgbotapi.MessageConfig {
	m := tgbotapi.NewMessage(msg.Chat.ID, text.String())
	m.ParseMode = tgbotapi.ModeMarkdownV2
	m.DisableWebPagePreview = true
	m.ReplyToMessageID = msg.MessageID
	return m
}
