package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/photostudio/photostudio/cmd"
)

// Set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "0.1.0"
	commit  = ""
)

// shutdownSignals cancel the command context so a running upload batch stops
// before its next request. SIGKILL cannot be caught and is not listed.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	root := cmd.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithCommit(commit),
		fang.WithNotifySignal(shutdownSignals...),
	); err != nil {
		os.Exit(1)
	}
}
