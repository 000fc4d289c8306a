// Package command is the control surface of the transmitter: the frame
// counter, rate changes and channel toggles, and the single-key commands
// mapped onto them.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robotalks/irtx/pkg/baud"
	"github.com/robotalks/irtx/pkg/channel"
	fx "github.com/robotalks/irtx/pkg/framework"
)

// Tags of the message sources.
const (
	TaskTag = "TaskUI"
	BaudTag = "  BaudControl"
)

// InvalidText is printed for unknown keys.
const InvalidText = "Invalid command. Type h for help."

var (
	// ErrUnknownCommand indicates a key not bound to any command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidChannel indicates a channel index out of range.
	ErrInvalidChannel = channel.ErrInvalidID
)

// Op is a command operation.
type Op int

// Operations.
const (
	OpCount Op = iota
	OpIncrease
	OpDecrease
	OpToggle
	OpVersion
	OpReset
	OpHelp
)

var opNames = []string{"count", "increase", "decrease", "toggle", "version", "reset", "help"}

// String implements fmt.Stringer.
func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Command is a parsed command.
type Command struct {
	Key byte
	Op  Op
	// Channel is the channel toggled by OpToggle.
	Channel int
}

type binding struct {
	key  byte
	op   Op
	line uint
	help string
}

// Toggle keys select carrier lines 1, 3, 5 and 7 in order.
var bindings = []binding{
	{key: 'c', op: OpCount, help: "counter"},
	{key: 'a', op: OpIncrease, help: "increase baud rate"},
	{key: 'z', op: OpDecrease, help: "decrease baud rate"},
	{key: '1', op: OpToggle, line: 1},
	{key: '2', op: OpToggle, line: 3},
	{key: '3', op: OpToggle, line: 5},
	{key: '4', op: OpToggle, line: 7},
	{key: 'v', op: OpVersion, help: "version"},
	{key: 'r', op: OpReset, help: "reset"},
	{key: 'h', op: OpHelp, help: "help"},
}

// Parse maps a key to a command. Letters are case-insensitive.
func Parse(key byte, channels []channel.Channel) (Command, error) {
	lower := key
	if lower >= 'A' && lower <= 'Z' {
		lower += 'a' - 'A'
	}
	for _, b := range bindings {
		if b.key != lower {
			continue
		}
		cmd := Command{Key: key, Op: b.op}
		if b.op == OpToggle {
			c, ok := channel.ByCarrierLine(channels, b.line)
			if !ok {
				return cmd, ErrInvalidChannel
			}
			cmd.Channel = c.ID
		}
		return cmd, nil
	}
	return Command{Key: key}, ErrUnknownCommand
}

// KeyFor returns the key bound to an operation, and for OpToggle to the
// channel.
func KeyFor(op Op, id int, channels []channel.Channel) (byte, bool) {
	for _, b := range bindings {
		if b.op != op {
			continue
		}
		if op == OpToggle {
			if c, ok := channel.ByCarrierLine(channels, b.line); !ok || c.ID != id {
				continue
			}
		}
		return b.key, true
	}
	return 0, false
}

// HelpText lists the keys.
func HelpText(channels []channel.Channel) string {
	var sb strings.Builder
	sb.WriteString("Allowed Commands: ")
	for _, b := range bindings {
		help := b.help
		if b.op == OpToggle {
			if c, ok := channel.ByCarrierLine(channels, b.line); ok {
				help = fmt.Sprintf("toggle signal '%c'", c.Payload)
			}
		}
		fmt.Fprintf(&sb, "\r\n %c:%s ", b.key, help)
	}
	return strings.TrimSuffix(sb.String(), " ")
}

// Line is one tagged message.
type Line struct {
	Tag  string
	Text string
}

// Result is the outcome of a command.
type Result struct {
	Command Command
	Lines   []Line
	Count   uint32
	Rate    baud.Rate
	Enabled bool
	Text    string
	Reset   bool
	Err     error
}

// Print writes the lines of the result.
func (r *Result) Print(p fx.Printer) {
	for _, l := range r.Lines {
		p.Printf(l.Tag, "%s", l.Text)
	}
}
