package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// progressUI receives load-phase progress and runs the generation under
// whatever display is appropriate for the terminal.
type progressUI interface {
	OnProgress(done, total int)
	Run(generate func() error) error
}

// logUI logs progress lines; used for non-TTY output and verbose mode.
type logUI struct {
	logger *slog.Logger
}

func newLogUI(logger *slog.Logger) *logUI {
	return &logUI{logger: logger}
}

func (u *logUI) OnProgress(done, total int) {
	u.logger.Info("loading tiles", "done", done, "total", total)
}

func (u *logUI) Run(generate func() error) error {
	return generate()
}

// barUI renders an animated progress bar while tiles load.
type barUI struct {
	prog *tea.Program
}

func newBarUI() *barUI {
	m := barModel{
		bar: progress.New(progress.WithDefaultGradient()),
	}
	return &barUI{
		prog: tea.NewProgram(m, tea.WithOutput(os.Stderr)),
	}
}

func (u *barUI) OnProgress(done, total int) {
	u.prog.Send(progressMsg{done: done, total: total})
}

func (u *barUI) Run(generate func() error) error {
	result := make(chan error, 1)
	go func() {
		err := generate()
		result <- err
		u.prog.Send(doneMsg{})
	}()

	if _, err := u.prog.Run(); err != nil {
		// Terminal trouble: fall through and report the pipeline result.
		fmt.Fprintln(os.Stderr, "progress display failed:", err)
	}
	return <-result
}

type progressMsg struct{ done, total int }

type doneMsg struct{}

type barModel struct {
	bar   progress.Model
	done  int
	total int
}

func (m barModel) Init() tea.Cmd { return nil }

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.done, m.total = msg.done, msg.total
		pct := 1.0
		if msg.total > 0 {
			pct = float64(msg.done) / float64(msg.total)
		}
		return m, m.bar.SetPercent(pct)
	case doneMsg:
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 20
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

var countStyle = lipgloss.NewStyle().Faint(true)

func (m barModel) View() string {
	return fmt.Sprintf("%s %s\n",
		m.bar.View(),
		countStyle.Render(fmt.Sprintf("%d/%d tiles", m.done, m.total)),
	)
}
