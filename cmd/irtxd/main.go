package main

import (
	"errors"
	"flag"
	"os"
	"syscall"

	"github.com/golang/glog"

	"github.com/robotalks/irtx/pkg/engine"
	fx "github.com/robotalks/irtx/pkg/framework"
	"github.com/robotalks/irtx/pkg/transmitter"
	"github.com/robotalks/irtx/pkg/uart"
)

func init() {
	transmitter.SetupFlags()
}

func run() error {
	conf := transmitter.NewConfig()
	dev, err := transmitter.OpenDevices(conf, uart.NewConfig())
	if err != nil {
		return err
	}
	defer dev.Close()
	tx, err := transmitter.New(conf, engine.NewConfig(), dev)
	if err != nil {
		return err
	}
	runner := fx.NewRunner().HandleSignals()
	tx.Start(runner)
	return runner.Wait()
}

// restart replaces the process with a fresh copy, all state reinitialized.
func restart() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	glog.Infof("restarting %s", exe)
	glog.Flush()
	return syscall.Exec(exe, os.Args, os.Environ())
}

func main() {
	if err := transmitter.ParseFlags(flag.CommandLine, os.Args[1:]); err != nil {
		glog.Exit(err)
	}
	err := run()
	if errors.Is(err, fx.ErrReset) {
		err = restart()
	}
	glog.Flush()
	if err != nil {
		glog.Exit(err)
	}
}
