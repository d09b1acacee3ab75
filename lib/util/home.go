package util

import (
	"os"

	"github.com/udpchat/udpchat/lib/util/logger"
)

var log = logger.GetLogger()

// UserHome returns the current user's home directory.
// Falls back to $HOME / USERPROFILE and finally the working directory, so a
// missing home never stops the chat from starting.
func UserHome() string {
	homeDir, err := os.UserHomeDir()
	if err == nil {
		return homeDir
	}
	if home := os.Getenv("HOME"); home != "" {
		log.WithError(err).Warn("os.UserHomeDir failed, falling back to $HOME")
		return home
	}
	if home := os.Getenv("USERPROFILE"); home != "" {
		log.WithError(err).Warn("os.UserHomeDir failed, falling back to USERPROFILE")
		return home
	}
	if wd, wdErr := os.Getwd(); wdErr == nil {
		log.WithError(err).Warn("no home directory; falling back to working directory")
		return wd
	}
	return "."
}
