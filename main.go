package main

import (
	"fmt"
	"os"

	"github.com/udpchat/udpchat/lib/util/logger"
)

var log = logger.GetLogger()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Debug("udpchat exited with error")
		fmt.Fprintln(os.Stderr, "udpchat:", err)
		os.Exit(1)
	}
}
