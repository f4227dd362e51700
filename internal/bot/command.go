package bot

import (
	"errors"
	"fmt"
	"strings"

	"cexbot/internal/market"
)

// Command names.
const (
	CmdStart = "start"
	CmdHelp  = "help"
	CmdMEXC  = "mexc"
	CmdGate  = "gate"
	CmdCEX   = "cex"
)

// Command is a parsed chat command.
type Command struct {
	Name   string
	Symbol market.Symbol
	Market market.Market
}

// Exchange returns the exchange a single-exchange command targets.
func (c Command) Exchange() (market.Exchange, bool) {
	switch c.Name {
	case CmdMEXC:
		return market.MEXC, true
	case CmdGate:
		return market.Gate, true
	}
	return "", false
}

// ErrorKind classifies command failures.
type ErrorKind int

const (
	// UsageError means the user sent a malformed argument.
	UsageError ErrorKind = iota
	// InternalError is anything the user cannot fix.
	InternalError
)

// CommandError is the failure of one command.
type CommandError struct {
	Kind    ErrorKind
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	kind := "usage error"
	if e.Kind == InternalError {
		kind = "internal error"
	}
	if e.Err == nil {
		return fmt.Sprintf("/%s: %s", e.Command, kind)
	}
	return fmt.Sprintf("/%s: %s: %v", e.Command, kind, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

func usageErr(cmd string, err error) *CommandError {
	return &CommandError{Kind: UsageError, Command: cmd, Err: err}
}

var errMissingSymbol = errors.New("missing symbol")

// Parser turns message text into commands.
type Parser struct {
	// BotName is the bot's username. Commands addressed to another bot
	// (/cex@otherbot) are ignored. Empty accepts any suffix.
	BotName string
	// DefaultQuote completes bare base assets.
	DefaultQuote string
}

// Parse returns ok=false when text is not a command for this bot. A known
// command with a bad argument returns a *CommandError of kind UsageError.
func (p Parser) Parse(text string) (cmd Command, ok bool, err error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{}, false, nil
	}
	name, target, _ := strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	if target != "" && p.BotName != "" && !strings.EqualFold(target, p.BotName) {
		return Command{}, false, nil
	}
	name = strings.ToLower(name)
	args := fields[1:]

	switch name {
	case CmdStart, CmdHelp:
		return Command{Name: name}, true, nil
	case CmdMEXC, CmdGate, CmdCEX:
	default:
		return Command{}, false, nil
	}

	cmd = Command{Name: name, Market: market.Futures}
	switch len(args) {
	case 0:
		return cmd, true, usageErr(name, errMissingSymbol)
	case 1, 2:
	default:
		return cmd, true, usageErr(name, fmt.Errorf("too many arguments: %d", len(args)))
	}

	cmd.Symbol, err = market.ParseSymbol(args[0], p.DefaultQuote)
	if err != nil {
		return cmd, true, usageErr(name, err)
	}
	if len(args) == 2 {
		cmd.Market, err = market.ParseMarket(args[1])
		if err != nil {
			return cmd, true, usageErr(name, err)
		}
	}
	return cmd, true, nil
}
