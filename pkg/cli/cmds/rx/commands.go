// Package rx provides shell commands feeding the receive buffer.
package rx

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/streams.go/pkg/cli/sh"
)

// ParseText decodes Go escapes, e.g. \r\n or \x02.
func ParseText(args []string) ([]byte, error) {
	str, err := strconv.Unquote(`"` + strings.ReplaceAll(strings.Join(args, " "), `"`, `\"`) + `"`)
	if err != nil {
		return nil, err
	}
	return []byte(str), nil
}

// ParseHex decodes hex bytes, spaces are ignored.
func ParseHex(args []string) ([]byte, error) {
	return hex.DecodeString(strings.Join(args, ""))
}

func push(c *ishell.Context, data []byte) {
	s := sh.ShellFrom(c)
	n := s.Push(data)
	if s.OutputJSON {
		sh.PrintJSON(c, map[string]int{"pushed": n, "dropped": len(data) - n})
		return
	}
	if n < len(data) {
		c.Printf("%d byte(s) pushed, %d dropped\n", n, len(data)-n)
		return
	}
	c.Printf("%d byte(s) pushed\n", n)
}

var (
	// PushCmd pushes text.
	PushCmd = ishell.Cmd{
		Name:    "push",
		Aliases: []string{"p"},
		Help:    "TEXT (Go escapes allowed)",
		Func: func(c *ishell.Context) {
			data, err := ParseText(c.Args)
			if err != nil {
				c.Err(fmt.Errorf("Invalid TEXT: %v", err))
				return
			}
			push(c, data)
		},
	}

	// PushHexCmd pushes hex encoded bytes.
	PushHexCmd = ishell.Cmd{
		Name:    "pushhex",
		Aliases: []string{"px"},
		Help:    "HEX...",
		Func: func(c *ishell.Context) {
			data, err := ParseHex(c.Args)
			if err != nil {
				c.Err(fmt.Errorf("Invalid HEX: %v", err))
				return
			}
			push(c, data)
		},
	}

	// BufferCmd shows the buffered bytes.
	BufferCmd = ishell.Cmd{
		Name:    "buffer",
		Aliases: []string{"b"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			data := s.Contents()
			if s.OutputJSON {
				sh.PrintJSON(c, map[string]interface{}{
					"size": len(data), "cap": s.Buffer.Cap(), "data": data,
				})
				return
			}
			c.Printf("%d/%d %s\n", len(data), s.Buffer.Cap(), sh.Quote(data))
		},
	}

	// ClearCmd empties the buffer and the chunk store.
	ClearCmd = ishell.Cmd{
		Name: "clear",
		Help: "",
		Func: func(c *ishell.Context) {
			sh.ShellFrom(c).Clear()
		},
	}
)

func init() {
	sh.AddCmds(
		&PushCmd,
		&PushHexCmd,
		&BufferCmd,
		&ClearCmd,
	)
}
