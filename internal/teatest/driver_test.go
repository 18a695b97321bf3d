package teatest

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type echoMsg string

type slowMsg struct{}

// recorder collects typed runes and any echoMsg that comes back from a Cmd.
type recorder struct {
	typed   string
	echoed  []string
	width   int
	slowHit bool
	quit    bool
}

func (r recorder) Init() tea.Cmd {
	return func() tea.Msg { return echoMsg("init") }
}

func (r recorder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
	case echoMsg:
		r.echoed = append(r.echoed, string(msg))
	case slowMsg:
		r.slowHit = true
	case tea.QuitMsg:
		r.quit = true
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyRunes:
			r.typed += string(msg.Runes)
		case tea.KeyEnter:
			return r, tea.Batch(
				func() tea.Msg { return echoMsg("a") },
				func() tea.Msg { return echoMsg("b") },
			)
		case tea.KeyTab:
			return r, func() tea.Msg {
				time.Sleep(200 * time.Millisecond)
				return slowMsg{}
			}
		case tea.KeyCtrlC:
			return r, tea.Quit
		}
	}
	return r, nil
}

func (r recorder) View() string {
	return fmt.Sprintf("typed=%s width=%d", r.typed, r.width)
}

func model(d *Driver) recorder { return d.Model.(recorder) }

func TestDriver_InitAndSize(t *testing.T) {
	d := New(t, recorder{}, WithSize(80, 24))
	d.DrainInit()

	assert.Equal(t, []string{"init"}, model(d).echoed)
	assert.True(t, d.ViewContains("width=80"))
}

func TestDriver_TypeAndBatch(t *testing.T) {
	d := New(t, recorder{})
	d.Type("abc")
	d.PressEnter()

	assert.True(t, d.ViewContains("typed=abc"))
	assert.False(t, d.ViewContains("typed=abc", "missing"))
	assert.Equal(t, []string{"a", "b"}, model(d).echoed)
}

func TestDriver_SlowCmdDropped(t *testing.T) {
	d := New(t, recorder{})
	d.PressTab()
	assert.False(t, model(d).slowHit)

	d = New(t, recorder{}, WithCmdTimeout(time.Second))
	d.PressTab()
	assert.True(t, model(d).slowHit)
}

func TestDriver_QuitStopsInput(t *testing.T) {
	d := New(t, recorder{})
	d.PressCtrlC()
	assert.True(t, d.Quitting)
	assert.True(t, model(d).quit)

	d.Type("x")
	assert.Empty(t, model(d).typed)
}
