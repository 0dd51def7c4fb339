// Package frames provides shell commands scanning the receive buffer.
package frames

import (
	"github.com/abiosoft/ishell"

	"github.com/robotalks/streams.go/pkg/cli/sh"
	"github.com/robotalks/streams.go/pkg/publish/pb"
)

var (
	// ScanCmd scans until no format matches.
	ScanCmd = ishell.Cmd{
		Name:    "scan",
		Aliases: []string{"s"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			matches, last := s.ScanAll()
			if s.OutputJSON {
				if matches == nil {
					matches = []*pb.Match{}
				}
				sh.PrintJSON(c, map[string]interface{}{
					"matches": matches,
					"outcome": last.Outcome.String(),
					"dropped": last.Dropped,
				})
				return
			}
			for _, m := range matches {
				c.Println(sh.FormatMatch(m))
			}
			c.Printf("%s, %d byte(s) dropped, %d left\n", last.Outcome, last.Dropped, s.Buffer.Size())
		},
	}

	// ChunksCmd reads out the stored chunks.
	ChunksCmd = ishell.Cmd{
		Name:    "chunks",
		Aliases: []string{"c"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			chunks := s.DrainChunks()
			if s.OutputJSON {
				if chunks == nil {
					chunks = [][]byte{}
				}
				sh.PrintJSON(c, chunks)
				return
			}
			if len(chunks) == 0 {
				c.Println("No chunks")
				return
			}
			for n, data := range chunks {
				c.Printf("%d: %s\n", n, sh.Quote(data))
			}
		},
	}

	// FormatsCmd lists the formats.
	FormatsCmd = ishell.Cmd{
		Name:    "formats",
		Aliases: []string{"f"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			names := s.Formats.Names()
			if s.OutputJSON {
				sh.PrintJSON(c, names)
				return
			}
			for n, name := range names {
				c.Printf("%d: %s %v\n", n, name, s.Formats.Fields(n))
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&ScanCmd,
		&ChunksCmd,
		&FormatsCmd,
	)
}
