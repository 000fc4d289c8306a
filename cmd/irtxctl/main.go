package main

import (
	"github.com/robotalks/irtx/pkg/cli/sh"
	env "github.com/robotalks/irtx/pkg/remote/connector"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
