package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *Logger
	once sync.Once
)

// Fields is an alias so callers do not need to import logrus directly.
type Fields = logrus.Fields

type Logger struct {
	*logrus.Logger
}

func (l *Logger) Warn(args ...interface{}) {
	warnFatal(args...)
	l.Logger.Warn(args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	l.Logger.Warnf(format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	warnFatal(args...)
	l.Logger.Error(args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	l.Logger.Errorf(format, args...)
}

func warnFatal(args ...interface{}) {
	if failFast != "" {
		log.Fatal(args...)
	}
}

func warnFatalf(format string, args ...interface{}) {
	if failFast != "" {
		log.Fatalf(format, args...)
	}
}

var failFast string

// ParseLevel maps the strings accepted in DEBUG_UDPCHAT and the log_level
// config key to a logrus level. Unknown values enable debug output.
func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return logrus.ErrorLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

func InitializeLogger() {
	once.Do(func() {
		log = &Logger{}
		log.Logger = logrus.New()
		// The chat owns stdout, so nothing is logged by default
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
		if logLevel := os.Getenv("DEBUG_UDPCHAT"); logLevel != "" {
			failFast = os.Getenv("WARNFAIL_UDPCHAT")
			if failFast != "" {
				logLevel = "debug"
			}
			Enable(os.Stderr, ParseLevel(logLevel))
			log.WithField("level", log.GetLevel()).Debug("Logging enabled.")
		}
	})
}

// Enable routes log output to w at the given level. Used by the CLI when
// --debug or log_level is set.
func Enable(w io.Writer, level logrus.Level) {
	l := GetLogger()
	l.SetOutput(w)
	l.SetLevel(level)
}

// GetLogger returns the initialized Logger
func GetLogger() *Logger {
	if log == nil {
		InitializeLogger()
	}
	return log
}

func init() {
	InitializeLogger()
}
