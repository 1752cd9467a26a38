package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func TestModelHiddenRendersNothing(t *testing.T) {
	m := newModel(time.Millisecond, nil)
	m, _ = update(t, m, loadingMsg("Loading 3 images"))
	assert.Empty(t, m.View())
}

func TestModelRendersSession(t *testing.T) {
	m := newModel(time.Millisecond, nil)
	m, cmd := update(t, m, visibleMsg(true))
	require.NotNil(t, cmd)
	m, _ = update(t, m, loadingMsg("Loading 3 images"))
	m, _ = update(t, m, percentMsg(33))
	m, _ = update(t, m, failureMsg("1 failures"))

	view := m.View()
	assert.Contains(t, view, "Loading 3 images")
	assert.Contains(t, view, "33%")
	assert.Contains(t, view, "1 failures")

	m, _ = update(t, m, clearMsg{})
	assert.NotContains(t, m.View(), "1 failures")
}

func TestModelClampsPercent(t *testing.T) {
	m := newModel(time.Millisecond, nil)
	m, _ = update(t, m, percentMsg(150))
	assert.Equal(t, 100, m.percent)
	m, _ = update(t, m, percentMsg(-3))
	assert.Equal(t, 0, m.percent)
}

func TestModelDismissNeedsArm(t *testing.T) {
	m := newModel(time.Millisecond, nil)
	m, _ = update(t, m, visibleMsg(true))
	m, _ = update(t, m, percentMsg(50))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.visible, "esc before the overlay is armed must be ignored")

	m, _ = update(t, m, armMsg(m.gen))
	assert.True(t, m.armed)
	assert.Contains(t, m.View(), "esc to dismiss")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.visible)
	assert.Equal(t, 0, m.percent)
}

func TestModelStaleArmIgnored(t *testing.T) {
	m := newModel(time.Millisecond, nil)
	m, _ = update(t, m, visibleMsg(true))
	stale := m.gen
	m, _ = update(t, m, visibleMsg(false))
	m, _ = update(t, m, visibleMsg(true))

	m, _ = update(t, m, armMsg(stale))
	assert.False(t, m.armed)
}

func TestModelInterrupt(t *testing.T) {
	called := false
	m := newModel(time.Millisecond, func() { called = true })
	m, _ = update(t, m, visibleMsg(true))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, called)
	assert.False(t, m.visible)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelWindowSize(t *testing.T) {
	m := newModel(time.Millisecond, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10})
	assert.Equal(t, minBarWidth, m.bar.Width)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 500})
	assert.Equal(t, maxBarWidth, m.bar.Width)
}
