package upgrade

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTick  = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleCross = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	styleWarn  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Progress is the shared reporting sink for one resolution run. Worker
// goroutines advance the done counter while the dispatch loop grows the
// total and prints result lines; a mutex serializes all of it with the
// status line redraws. The total only ever increases, and it is increased
// strictly before the corresponding worker is spawned.
type Progress struct {
	mu    sync.Mutex
	w     io.Writer
	pad   int
	total int
	done  int
	shown int // width of the currently displayed status line
}

func newProgress(w io.Writer, pad int) *Progress {
	return &Progress{w: w, pad: pad}
}

// AddTotal grows the expected work count by n.
func (p *Progress) AddTotal(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total += n
	p.redraw()
}

// Inc records one completed fetch, successful or not.
func (p *Progress) Inc() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.redraw()
}

// Tick prints a success line for a resolved mod.
func (p *Progress) Tick(name, filename string) {
	p.println(fmt.Sprintf("%s %-*s  %s",
		styleTick.Render("✓"), p.pad, name, styleDim.Render(filename)))
}

// Fail prints a failure line for a mod that could not be resolved.
func (p *Progress) Fail(name string, err error) {
	p.println(styleCross.Render(fmt.Sprintf("✗ %-*s  %v", p.pad, name, err)))
}

// Warnf prints a warning line above the status line.
func (p *Progress) Warnf(format string, args ...any) {
	p.println(styleWarn.Render("Warning:") + " " + fmt.Sprintf(format, args...))
}

// Clear wipes the status line, leaving only the printed result lines.
func (p *Progress) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLine()
}

func (p *Progress) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLine()
	fmt.Fprintln(p.w, line)
	p.redraw()
}

func (p *Progress) redraw() {
	p.clearLine()
	status := fmt.Sprintf("resolving %d/%d", p.done, p.total)
	fmt.Fprint(p.w, status)
	p.shown = len(status)
}

func (p *Progress) clearLine() {
	if p.shown > 0 {
		fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", p.shown))
		p.shown = 0
	}
}
