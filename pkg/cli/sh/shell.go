package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/streams.go/pkg/env"
	"github.com/robotalks/streams.go/pkg/publish/pb"
	"github.com/robotalks/streams.go/pkg/streams/formatfile"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	*Session

	Interactive bool
	OutputJSON  bool

	Shell *ishell.Shell
}

const (
	shellKey = "$shell"
	prompt   = "streams > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands []*ishell.Cmd
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(session *Session) *Shell {
	s := &Shell{
		Session:     session,
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell: ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// PrintJSON prints v as JSON.
func PrintJSON(c *ishell.Context, v interface{}) error {
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return err
	}
	c.Println(string(out))
	return nil
}

// FormatMatch renders a match for display.
func FormatMatch(m *pb.Match) string {
	str := fmt.Sprintf("%s[%d]", m.Format, m.Branch)
	for _, f := range m.Fields {
		str += fmt.Sprintf(" %s=%x", f.Name, f.Value)
	}
	if m.Rejected > 0 {
		str += fmt.Sprintf(" rejected=%d", m.Rejected)
	}
	return str
}

// Quote renders bytes as a quoted string.
func Quote(data []byte) string {
	return strconv.Quote(string(data))
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exitln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exitln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	set, err := formatfile.Load(env.Default().Formats)
	if err != nil {
		glog.Exitf("load formats: %v", err)
	}
	session, err := NewSession(set)
	if err != nil {
		glog.Exitf("formats: %v", err)
	}
	New(session).Run(flag.Args()...)
}
