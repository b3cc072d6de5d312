package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep"
	"github.com/stretchr/testify/require"

	"github.com/jask/panelkit/internal/config"
	"github.com/jask/panelkit/internal/cue"
	"github.com/jask/panelkit/internal/panel"
)

type recordingPlayer struct{ kinds []cue.Kind }

func (r *recordingPlayer) Play(kind cue.Kind, _ beep.Streamer) { r.kinds = append(r.kinds, kind) }

func newTestApp(t *testing.T) (*App, *panel.Manager, *Focus, *recordingPlayer) {
	t.Helper()
	cat, err := panel.NewCatalog(
		panel.Template{ID: "confirm", Group: "modal", DefaultFocus: "ok"},
		panel.Template{ID: "pause", Group: "menu", DefaultFocus: "resume", CloseOnCancel: true},
		panel.Template{ID: "settings", Group: "menu", CloseOnCancel: true},
		panel.Template{ID: "hud"},
	)
	require.NoError(t, err)

	factory := NewFactory(8, 2, 2)
	focus := NewFocus(panel.Pointer)
	m, err := panel.NewManager(panel.Options{Catalog: cat, Factory: factory, Focus: focus, Logger: panel.DiscardLogger()})
	require.NoError(t, err)

	rec := &recordingPlayer{}
	cues := cue.New(rec, 1)
	cues.Attach(m)

	cfg := config.Config{Host: config.HostConfig{FPS: 60, FlashFrames: 3}}
	app := New(cfg, Host{Manager: m, Factory: factory, Focus: focus, Cues: cues})
	return app, m, focus, rec
}

func press(a *App, key string) {
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	a.Update(msg)
}

func frames(a *App, n int) {
	for i := 0; i < n; i++ {
		a.Update(frameMsg{})
	}
}

func TestAppOpenAnimatesToShown(t *testing.T) {
	app, m, _, rec := newTestApp(t)

	press(app, "3")
	st, ok := m.StateOf("pause")
	require.True(t, ok)
	require.Equal(t, panel.Showing, st)
	require.Equal(t, []cue.Kind{cue.KindOpen}, rec.kinds)

	frames(app, 1)
	st, _ = m.StateOf("pause")
	require.Equal(t, panel.Showing, st)

	frames(app, 1)
	st, _ = m.StateOf("pause")
	require.Equal(t, panel.Shown, st)
	require.Contains(t, app.View(), "pause [menu]")
}

func TestAppStartingShownRendersFullSize(t *testing.T) {
	app, m, _, _ := newTestApp(t)

	_, err := m.Open("pause", &panel.Config{StartingState: panel.Shown, Group: panel.InGroup("modal")})
	require.NoError(t, err)
	layers := app.factory.Layers()
	require.Len(t, layers, 1)
	require.Equal(t, 1.0, layers[0].Level)
	require.Equal(t, "modal", layers[0].Group)
	require.False(t, layers[0].Animating)

	require.NoError(t, m.Close("pause"))
	frames(app, 1)
	require.InDelta(t, 0.5, app.factory.Layers()[0].Level, 1e-9)
	frames(app, 1)
	require.False(t, m.IsActive("pause"))
}

func TestAppReplaceInGroup(t *testing.T) {
	app, m, _, rec := newTestApp(t)

	press(app, "3")
	frames(app, 2)
	press(app, "4")
	st, _ := m.StateOf("pause")
	require.Equal(t, panel.Hiding, st)

	frames(app, 2)
	require.False(t, m.IsActive("pause"))
	st, _ = m.StateOf("settings")
	require.Equal(t, panel.Shown, st)
	require.Equal(t, "settings", m.Front("menu").ID())
	require.Equal(t, []cue.Kind{cue.KindOpen, cue.KindOpen, cue.KindClose}, rec.kinds)
	require.Equal(t, 1, app.factory.Stats().InUse)
}

func TestAppNoneRefusesAndFlashes(t *testing.T) {
	app, m, _, rec := newTestApp(t)

	press(app, "3")
	for app.Limit() != panel.None {
		press(app, "l")
	}
	press(app, "4")
	require.Equal(t, "refused: settings", app.Status())
	require.False(t, m.IsActive("settings"))
	require.Equal(t, []cue.Kind{cue.KindOpen, cue.KindRefuse}, rec.kinds)

	_, ok := app.effects.Active()
	require.True(t, ok)
	frames(app, 3)
	_, ok = app.effects.Active()
	require.False(t, ok)
	require.Empty(t, app.Status())
}

func TestAppWaitQueuesAndPromotes(t *testing.T) {
	app, m, _, _ := newTestApp(t)
	for app.Limit() != panel.Wait {
		press(app, "l")
	}

	press(app, "3")
	press(app, "4")
	frames(app, 2)
	st, _ := m.StateOf("settings")
	require.Equal(t, panel.Hidden, st)

	press(app, "esc")
	frames(app, 2)
	require.False(t, m.IsActive("pause"))
	st, _ = m.StateOf("settings")
	require.Equal(t, panel.Showing, st)
	frames(app, 2)
	st, _ = m.StateOf("settings")
	require.Equal(t, panel.Shown, st)
}

func TestAppDirectionalSchemeDelegatesFocus(t *testing.T) {
	app, _, focus, _ := newTestApp(t)

	press(app, "tab")
	require.Equal(t, panel.Directional, focus.ControlScheme())
	press(app, "3")
	frames(app, 2)
	require.Equal(t, "resume", focus.Target())

	press(app, "tab")
	require.Empty(t, focus.Target())
}

func TestAppCloseAllAndMute(t *testing.T) {
	app, m, _, rec := newTestApp(t)
	for app.Limit() != panel.Add {
		press(app, "l")
	}

	press(app, "m")
	press(app, "1")
	press(app, "2")
	frames(app, 2)
	require.Equal(t, 2, m.CountActive())
	require.Empty(t, rec.kinds)

	press(app, "c")
	frames(app, 2)
	require.Zero(t, m.CountActive())
	require.Empty(t, app.factory.Layers())
}

func TestAppCloseNewestSkipsClosing(t *testing.T) {
	app, m, _, _ := newTestApp(t)

	press(app, "1")
	press(app, "2")
	press(app, "x")
	require.True(t, m.IsClosing("hud"))
	press(app, "x")
	require.True(t, m.IsClosing("confirm"))
}

func TestAppCycledLimitIsSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("PANELKIT_CONFIG", path)
	app, _, _, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	require.Equal(t, panel.Wait, app.Limit())
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.Equal(t, "default limit saved: wait", app.Status())

	loaded, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "wait", loaded.Panels.DefaultLimit)
	require.Equal(t, 60, loaded.Host.FPS)
}

func TestAppQuit(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
