package bot

import "github.com/sirupsen/logrus"

// NewTelegramForTest builds a Telegram without contacting the API.
func NewTelegramForTest(sender Sender, handler *Handler, log logrus.FieldLogger) *Telegram {
	return &Telegram{sender: sender, handler: handler, log: log}
}

// Dispatch exposes dispatch.
var Dispatch = (*Telegram).dispatch
