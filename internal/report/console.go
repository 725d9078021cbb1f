package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Console writes entries as tagged lines. Tags are coloured and Markdown
// details are rendered only when the writer is a terminal.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	tty    bool
	styles map[Level]lipgloss.Style
	md     *glamour.TermRenderer
}

// NewConsole creates a console sink writing to w.
func NewConsole(w io.Writer) *Console {
	c := &Console{w: w, tty: IsTerminal(w)}
	r := lipgloss.NewRenderer(w)
	tag := r.NewStyle().Bold(true).Width(8)
	c.styles = map[Level]lipgloss.Style{
		Notice:  tag.Foreground(lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}),
		Success: tag.Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}),
		Warning: tag.Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}),
		Error:   tag.Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}),
	}
	if c.tty {
		if md, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80)); err == nil {
			c.md = md
		}
	}
	return c
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Emit implements Sink.
func (c *Console) Emit(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tag := string(e.Level)
	if c.tty {
		if st, ok := c.styles[e.Level]; ok {
			tag = st.Render(tag)
		}
	}
	fmt.Fprintf(c.w, "%-8s %s\n", tag, e.Message)
	if e.Detail == "" {
		return
	}
	detail := e.Detail
	if c.md != nil {
		if out, err := c.md.Render(e.Detail); err == nil {
			detail = out
		}
	}
	fmt.Fprintln(c.w, strings.TrimRight(detail, "\n"))
}
