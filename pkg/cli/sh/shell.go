// Package sh is the interactive remote console of transmitters.
package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"reflect"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/irtx/pkg/remote"
	env "github.com/robotalks/irtx/pkg/remote/connector"
	"github.com/robotalks/irtx/pkg/remote/msgs"
)

// CommandTimeout bounds waiting for a reply.
const CommandTimeout = 2 * time.Second

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *ConnRun
}

// ConnRun is a running connection to a transmitter.
type ConnRun struct {
	Ctx    context.Context
	Cancel func()
	ID     string
	Client remote.Client
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&CountCmd,
		&UpCmd,
		&DownCmd,
		&ToggleCmd,
		&KeyCmd,
		&StatusCmd,
		&VersionCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatInfo prints Info into friendly string for display.
func FormatInfo(info remote.Info) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", info.ID)
	if info.Meta.Description != "" {
		fmt.Fprintf(&w, ": %s", info.Meta.Description)
	}
	if info.Meta.Version != "" {
		fmt.Fprintf(&w, " (v%s)", info.Meta.Version)
	}
	return w.String()
}

// FormatResult prints a reply for display.
func FormatResult(msg msgs.Message) string {
	switch m := msg.(type) {
	case *msgs.CommandOK:
		return "OK"
	case *msgs.Result:
		return fmt.Sprintf("%s [frames %d, %d bps, enabled %04b]", m.Text, m.Frames, m.Bps, m.Enabled)
	case *msgs.Status:
		return fmt.Sprintf("frames %d, %d bps, enabled %04b, v%s", m.Frames, m.Bps, m.Enabled, m.Version)
	}
	return fmt.Sprintf("%s %s",
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		msg.(msgs.SerializableMessage).Serializable().String())
}

// DoCommand runs a command and waits for result.
func DoCommand(c *ishell.Context, msg msgs.Message) (err error) {
	s := ShellFrom(c)
	if s.Conn == nil {
		err = fmt.Errorf("not connected")
		c.Err(err)
		return
	}
	f := s.Conn.Client.DoCommand(msg)
	select {
	case res := <-f.ResultChan():
		if res.Err != nil {
			c.Err(res.Err)
			return res.Err
		}
		if s.OutputJSON {
			out, err := json.Marshal(res.Msg.(msgs.SerializableMessage).Serializable())
			if err != nil {
				c.Err(err)
				return err
			}
			c.Println(string(out))
			return nil
		}
		c.Println(FormatResult(res.Msg))
	case <-time.After(CommandTimeout):
		c.Err(fmt.Errorf("command timeout"))
		return context.DeadlineExceeded
	}
	return nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Discover discovers transmitters.
func (s *Shell) Discover() ([]remote.Info, error) {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return nil, err
	}
	return connector.Discover(context.TODO())
}

// SelectTransmitter discovers transmitters and asks for a choice.
func (s *Shell) SelectTransmitter() (*remote.Info, error) {
	infoList, err := s.Discover()
	if err != nil {
		return nil, err
	}
	if len(infoList) == 0 {
		return nil, nil
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 transmitters discovered in non-interactive mode")
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to connect?")
	}
	return &infoList[index], nil
}

// Connect connects a transmitter.
func (s *Shell) Connect(id string) error {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return err
	}
	run := &ConnRun{ID: id}
	run.Ctx, run.Cancel = context.WithCancel(context.Background())
	if run.Client, err = connector.Connect(run.Ctx, id); err != nil {
		run.Cancel()
		return err
	}
	if s.Conn != nil {
		s.Conn.Cancel()
	}
	s.Conn = run
	go run.Client.Run(run.Ctx)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", id))
	return nil
}

// Disconnect disconnects current transmitter.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Cancel()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect {
		if _, err := s.autoConnect(); err != nil {
			log.Fatalf("connect failed: %v", err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

func (s *Shell) autoConnect() (bool, error) {
	id := s.Config.ID
	if id == "" {
		connector, err := s.Config.NewConnector()
		if err != nil {
			return false, err
		}
		direct, ok := connector.(*env.Direct)
		if !ok {
			return false, nil
		}
		id = direct.ID()
	}
	if s.Interactive {
		s.Shell.Printf("Connecting %s ...\n", id)
	}
	return true, s.Connect(id)
}

func keyCmd(key string) func(c *ishell.Context) {
	return MustBeConnected(func(c *ishell.Context) {
		DoCommand(c, &msgs.Key{Key: key})
	})
}

var (
	// DiscoverCmd discovers transmitters.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infoList, err := s.Discover()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infoList) == 0 {
					// in case infoList is nil, make it empty slice.
					infoList = []remote.Info{}
				}
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No transmitters found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a transmitter.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"conn"},
		Help:    "[ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var id string
			if len(c.Args) >= 1 {
				id = c.Args[0]
			} else {
				info, err := s.SelectTransmitter()
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no transmitter discovered"))
					return
				}
				id = info.ID
			}
			if err := s.Connect(id); err != nil {
				c.Err(err)
				return
			}
		},
	}

	// DisconnectCmd disconnects current transmitter.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// CountCmd queries the frame counter.
	CountCmd = ishell.Cmd{
		Name:    "count",
		Aliases: []string{"c"},
		Help:    "frames transmitted",
		Func:    keyCmd("c"),
	}

	// UpCmd increases the baud rate.
	UpCmd = ishell.Cmd{
		Name:    "up",
		Aliases: []string{"a"},
		Help:    "increase baud rate",
		Func: MustBeConnected(func(c *ishell.Context) {
			DoCommand(c, &msgs.Baud{Increase: true})
		}),
	}

	// DownCmd decreases the baud rate.
	DownCmd = ishell.Cmd{
		Name:    "down",
		Aliases: []string{"z"},
		Help:    "decrease baud rate",
		Func: MustBeConnected(func(c *ishell.Context) {
			DoCommand(c, &msgs.Baud{})
		}),
	}

	// ToggleCmd toggles the carrier of a channel.
	ToggleCmd = ishell.Cmd{
		Name:    "toggle",
		Aliases: []string{"t"},
		Help:    "CHANNEL (0-3)",
		Func: MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("channel expected"))
				return
			}
			ch, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid channel %q", c.Args[0]))
				return
			}
			DoCommand(c, &msgs.Toggle{Channel: int32(ch)})
		}),
	}

	// KeyCmd sends raw console keys.
	KeyCmd = ishell.Cmd{
		Name:    "key",
		Aliases: []string{"k"},
		Help:    "KEYS, e.g. key 2 c",
		Func: MustBeConnected(func(c *ishell.Context) {
			for _, arg := range c.Args {
				for _, key := range arg {
					if DoCommand(c, &msgs.Key{Key: string(key)}) != nil {
						return
					}
				}
			}
		}),
	}

	// StatusCmd queries the transmitter state.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "",
		Func: MustBeConnected(func(c *ishell.Context) {
			DoCommand(c, &msgs.StatusQuery{})
		}),
	}

	// VersionCmd queries the firmware version.
	VersionCmd = ishell.Cmd{
		Name:    "version",
		Aliases: []string{"v"},
		Help:    "",
		Func:    keyCmd("v"),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
