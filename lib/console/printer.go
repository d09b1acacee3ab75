package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/udpchat/udpchat/lib/chat"
)

// Printer implements chat.Printer. Colors are dropped automatically when w
// is not a terminal.
type Printer struct {
	mu   sync.Mutex
	w    io.Writer
	chat lipgloss.Style
	info lipgloss.Style
	warn lipgloss.Style
}

var _ chat.Printer = (*Printer)(nil)

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:    w,
		chat: r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		info: r.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		warn: r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (p *Printer) Chat(text string) {
	p.println(p.chat.Render(chat.ChatPrefix) + text)
}

func (p *Printer) Info(text string) {
	p.println(p.info.Render(text))
}

func (p *Printer) Warn(text string) {
	p.println(p.warn.Render("warning: " + text))
}

func (p *Printer) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, line)
}
