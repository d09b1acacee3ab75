//go:build !windows

package signals

import (
	"os"
	"syscall"
)

var interruptSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
