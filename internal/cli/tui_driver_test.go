package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/waterfall/internal/teatest"
	"github.com/stretchr/testify/require"
)

// TestDriver wraps teatest.Driver with access to appModel internals the
// generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver loads path (or the startup plan when empty) the way the tui
// command does, sizes the terminal and drains Init.
func NewTestDriver(t *testing.T, a *App, path string, opts ...teatest.Option) *TestDriver {
	t.Helper()

	ctrl, err := loadController(context.Background(), a, path)
	require.NoError(t, err)
	m := newAppModel(newState(a, ctrl, path))
	d := teatest.New(t, m, append([]teatest.Option{teatest.WithSize(140, 40)}, opts...)...)
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Status returns the status line without styling.
func (d *TestDriver) Status() string {
	return stripANSI(d.appModel().status)
}

func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting
}

// Editor returns the editor view at the bottom of the stack.
func (d *TestDriver) Editor() *editorView {
	return d.appModel().viewStack[0].(*editorView)
}

// PlainView renders the screen without styling.
func (d *TestDriver) PlainView() string {
	return stripANSI(d.View())
}
