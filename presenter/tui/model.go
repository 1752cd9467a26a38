package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// dismissDelay is how long the overlay must be shown before esc/q hides it.
	dismissDelay = time.Second

	minBarWidth = 20
	maxBarWidth = 60
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2) //nolint:mnd
	messageStyle = lipgloss.NewStyle().Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

type (
	loadingMsg string
	percentMsg int
	failureMsg string
	clearMsg   struct{}
	visibleMsg bool
	armMsg     int // generation the arm timer belongs to
)

// model is the overlay: headline, bar, optional failure line.
type model struct {
	bar       progress.Model
	message   string
	percent   int
	failure   string
	visible   bool
	armed     bool
	gen       int
	delay     time.Duration
	interrupt func()
}

func newModel(delay time.Duration, interrupt func()) model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40 //nolint:mnd
	return model{bar: bar, delay: delay, interrupt: interrupt}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-20, minBarWidth), maxBarWidth) //nolint:mnd
		return m, nil

	case loadingMsg:
		m.message = string(msg)
		return m, nil

	case percentMsg:
		m.percent = min(max(int(msg), 0), 100) //nolint:mnd
		return m, nil

	case failureMsg:
		m.failure = string(msg)
		return m, nil

	case clearMsg:
		m.failure = ""
		return m, nil

	case visibleMsg:
		return m.setVisible(bool(msg))

	case armMsg:
		if int(msg) == m.gen && m.visible {
			m.armed = true
		}
		return m, nil
	}
	return m, nil
}

func (m model) setVisible(visible bool) (tea.Model, tea.Cmd) {
	if visible == m.visible {
		return m, nil
	}
	m.visible = visible
	m.armed = false
	m.gen++
	if !visible {
		return m, nil
	}
	gen := m.gen
	return m, tea.Tick(m.delay, func(time.Time) tea.Msg { return armMsg(gen) })
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.interrupt != nil {
			m.interrupt()
		}
		m.visible = false
		return m, tea.Quit
	case "esc", "q":
		if !m.armed {
			return m, nil
		}
		// Same as Loader.Hide: hide, drop the failure line, reset the bar.
		m.visible = false
		m.armed = false
		m.failure = ""
		m.percent = 0
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	if !m.visible {
		return ""
	}
	var b strings.Builder
	b.WriteString(messageStyle.Render(m.message))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(float64(m.percent) / 100)) //nolint:mnd
	if m.failure != "" {
		b.WriteString("\n")
		b.WriteString(failureStyle.Render(m.failure))
	}
	if m.armed {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("esc to dismiss"))
	}
	return boxStyle.Render(b.String()) + "\n"
}
