//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// shutdownSignals cancel the running session. SIGHUP covers a closed terminal.
var shutdownSignals = []os.Signal{os.Interrupt, unix.SIGTERM, unix.SIGHUP}
