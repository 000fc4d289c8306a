package command

import (
	"fmt"

	"github.com/robotalks/irtx/pkg/baud"
	"github.com/robotalks/irtx/pkg/channel"
	"github.com/robotalks/irtx/pkg/engine"
	fx "github.com/robotalks/irtx/pkg/framework"
)

// Version is the firmware version.
const Version = "3.0"

// BuildTime is set at link time with -ldflags "-X".
var BuildTime string

// FrameCounter provides the number of transmitted frames.
type FrameCounter interface {
	FrameCount() uint32
}

// Surface exposes the runtime state of the transmitter.
type Surface struct {
	Frames   FrameCounter
	Baud     *baud.Controller
	Mask     *channel.Mask
	Channels []channel.Channel
}

// New creates the Surface of an engine.
func New(e *engine.Engine) *Surface {
	return &Surface{
		Frames:   e,
		Baud:     e.Baud,
		Mask:     e.Mask,
		Channels: e.Channels,
	}
}

// FrameCount returns the number of transmitted frames.
func (s *Surface) FrameCount() uint32 {
	return s.Frames.FrameCount()
}

// IncreaseBaud selects the next faster rate.
func (s *Surface) IncreaseBaud() (baud.Rate, error) {
	return s.Baud.Increase()
}

// DecreaseBaud selects the next slower rate.
func (s *Surface) DecreaseBaud() (baud.Rate, error) {
	return s.Baud.Decrease()
}

// Rate returns the current rate.
func (s *Surface) Rate() baud.Rate {
	return s.Baud.Current()
}

// ToggleChannel flips the carrier of a channel and returns whether it is
// now enabled.
func (s *Surface) ToggleChannel(id int) (bool, error) {
	return s.Mask.Toggle(id)
}

// ChannelEnabled reports whether the carrier of a channel is enabled.
func (s *Surface) ChannelEnabled(id int) bool {
	return s.Mask.Enabled(id)
}

// Version returns the version string.
func (s *Surface) Version() string {
	if BuildTime == "" {
		return Version
	}
	return Version + " built " + BuildTime + "."
}

// Help returns the key list.
func (s *Surface) Help() string {
	return HelpText(s.Channels)
}

// Reset returns fx.ErrReset. The caller restarts the transmitter.
func (s *Surface) Reset() error {
	return fx.ErrReset
}

// ExecKey parses and executes a key.
func (s *Surface) ExecKey(key byte) Result {
	cmd, err := Parse(key, s.Channels)
	if err != nil {
		return Result{
			Command: cmd,
			Lines:   []Line{{Text: InvalidText}},
			Text:    InvalidText,
			Err:     err,
		}
	}
	return s.Exec(cmd)
}

// Exec executes a command.
func (s *Surface) Exec(cmd Command) Result {
	r := Result{Command: cmd}
	say := func(tag, format string, args ...interface{}) {
		r.Lines = append(r.Lines, Line{Tag: tag, Text: fmt.Sprintf(format, args...)})
	}
	key := cmd.Key
	if key == 0 {
		key, _ = KeyFor(cmd.Op, cmd.Channel, s.Channels)
	}
	switch cmd.Op {
	case OpCount:
		r.Count = s.FrameCount()
		r.Text = fmt.Sprintf("Counter: %2d signal blocks have been transmitted.", r.Count)
		say(TaskTag, "%c: %s", key, r.Text)
	case OpIncrease:
		say(TaskTag, "%c: Increasing baud rate...", key)
		r.Rate, r.Err = s.IncreaseBaud()
		r.Text = rateText(r.Rate, r.Err, "increased")
		say(BaudTag, "%s", r.Text)
	case OpDecrease:
		say(TaskTag, "%c: Decreasing baud rate...", key)
		r.Rate, r.Err = s.DecreaseBaud()
		r.Text = rateText(r.Rate, r.Err, "decreased")
		say(BaudTag, "%s", r.Text)
	case OpToggle:
		c, err := s.channel(cmd.Channel)
		if err != nil {
			r.Err, r.Text = err, err.Error()
			say(TaskTag, "%c: %s", key, r.Text)
			break
		}
		r.Enabled, _ = s.ToggleChannel(c.ID)
		r.Text = fmt.Sprintf("C%d: Carrier wave for '%c' toggled", c.CarrierBit, c.Payload)
		say(TaskTag, "%c: %s", key, r.Text)
	case OpVersion:
		r.Text = s.Version()
		say(TaskTag, "%c: Version: %s", key, r.Text)
	case OpReset:
		r.Reset, r.Text = true, "Resetting."
		say(TaskTag, "%c: %s", key, r.Text)
	case OpHelp:
		r.Text = s.Help()
		say(TaskTag, "%c: %s", key, r.Text)
	default:
		r.Err, r.Text = ErrUnknownCommand, InvalidText
		say("", "%s", r.Text)
	}
	return r
}

func (s *Surface) channel(id int) (channel.Channel, error) {
	for _, c := range s.Channels {
		if c.ID == id {
			return c, nil
		}
	}
	return channel.Channel{}, ErrInvalidChannel
}

func rateText(rate baud.Rate, err error, verb string) string {
	if err == nil {
		return fmt.Sprintf("Baud rate %s to %d bps.", verb, rate.BPS)
	}
	if e, ok := err.(*baud.LimitError); ok {
		if e.Upper {
			return fmt.Sprintf("Baud rate cannot go beyond %d bps.", e.BPS)
		}
		return fmt.Sprintf("Baud rate cannot go below %d bps.", e.BPS)
	}
	return err.Error()
}

// Status is a snapshot of the transmitter state.
type Status struct {
	Frames  uint32
	Rate    baud.Rate
	Enabled uint8
}

// Status takes a snapshot.
func (s *Surface) Status() Status {
	return Status{
		Frames:  s.FrameCount(),
		Rate:    s.Rate(),
		Enabled: s.Mask.Bits(),
	}
}
