// Package console connects a chat session to the terminal: readline for
// input and a lipgloss-styled printer for output.
package console

import (
	"errors"
	"io"

	"github.com/chzyer/readline"
	"github.com/samber/oops"

	"github.com/udpchat/udpchat/lib/util/logger"
)

var log = logger.GetLogger()

const DefaultPrompt = "message: "

// Console reads user lines with readline. Output written through Printer
// does not clobber the line being typed.
type Console struct {
	rl      *readline.Instance
	printer *Printer
}

func New(prompt string) (*Console, error) {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return nil, oops.Wrapf(err, "failed to open terminal")
	}
	return &Console{
		rl:      rl,
		printer: NewPrinter(rl.Stdout()),
	}, nil
}

// ReadLine returns the next line. Ctrl-C and Ctrl-D both end input with
// io.EOF.
func (c *Console) ReadLine() (string, error) {
	line, err := c.rl.Readline()
	if err == nil {
		return line, nil
	}
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		log.WithError(err).Debug("Console input ended")
		return "", io.EOF
	}
	return "", oops.Wrapf(err, "failed to read line")
}

func (c *Console) Printer() *Printer {
	return c.printer
}

// Close restores the terminal and unblocks a pending ReadLine.
func (c *Console) Close() error {
	return c.rl.Close()
}
