// Package tui renders a live terminal view of a running Monte Carlo
// mobility average.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/PuffyDucks/elph/internal/engine"
	"github.com/PuffyDucks/elph/internal/localization"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type sampleMsg struct {
	index  int
	sample localization.Lengths
}

type doneMsg struct {
	run *engine.Run
	err error
}

type model struct {
	eng    *engine.Engine
	cancel context.CancelFunc

	total     int
	done      int
	sumLx2    float64
	sumLy2    float64
	history   []float64 // running mean of Lx2
	run       *engine.Run
	err       error
	finished  bool
	cancelled bool
}

// Run executes the engine under a live bubbletea view and returns the
// finished run. Quitting the view cancels the computation.
func Run(ctx context.Context, eng *engine.Engine) (*engine.Run, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := &model{
		eng:     eng,
		cancel:  cancel,
		total:   eng.Realizations(),
		history: make([]float64, 0, eng.Realizations()),
	}
	p := tea.NewProgram(m)

	go func() {
		run, err := eng.RunWithProgress(runCtx, func(i int, s localization.Lengths) {
			p.Send(sampleMsg{index: i, sample: s})
		})
		p.Send(doneMsg{run: run, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	fm := final.(*model)
	if fm.err != nil {
		return nil, fm.err
	}
	return fm.run, nil
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			m.cancel()
			return m, nil
		}
	case sampleMsg:
		m.done++
		m.sumLx2 += msg.sample.Lx2
		m.sumLy2 += msg.sample.Ly2
		m.history = append(m.history, m.sumLx2/float64(m.done))
		return m, nil
	case doneMsg:
		m.run = msg.run
		m.err = msg.err
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render("elph") + dim.Render(" · transient localization mobility") + "\n\n")
	b.WriteString(fmt.Sprintf("  sites: %s   realizations: %s\n\n",
		yellow.Render(fmt.Sprintf("%d", m.eng.Sites())),
		yellow.Render(fmt.Sprintf("%d/%d", m.done, m.total))))

	b.WriteString("  " + progressBar(m.done, m.total, 40) + "\n\n")

	if m.done > 0 {
		b.WriteString(fmt.Sprintf("  <Lx2> = %s   <Ly2> = %s\n\n",
			green.Render(fmt.Sprintf("%.4f", m.sumLx2/float64(m.done))),
			green.Render(fmt.Sprintf("%.4f", m.sumLy2/float64(m.done)))))
	}

	if len(m.history) > 1 {
		b.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("running mean Lx2"),
		))
		b.WriteString("\n\n")
	}

	switch {
	case m.cancelled:
		b.WriteString(red.Render("  cancelling...") + "\n")
	case m.finished:
		b.WriteString(green.Render("  done") + "\n")
	default:
		b.WriteString(dim.Render("  q to abort") + "\n")
	}
	return b.String()
}

func progressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) +
		fmt.Sprintf("] %3d%%", done*100/total)
}
