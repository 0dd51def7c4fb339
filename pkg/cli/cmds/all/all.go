// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/streams.go/pkg/cli/cmds/frames"
	_ "github.com/robotalks/streams.go/pkg/cli/cmds/rx"
)
