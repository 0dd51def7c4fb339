package main

import (
	"github.com/robotalks/streams.go/pkg/cli/sh"
	"github.com/robotalks/streams.go/pkg/env"

	_ "github.com/robotalks/streams.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFormatsFlag()
	env.LogToStderr()
}

func main() {
	sh.Main()
}
