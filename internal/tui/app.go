package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/panelkit/internal/config"
	"github.com/jask/panelkit/internal/cue"
	"github.com/jask/panelkit/internal/panel"
)

const maxEventLog = 8

// App is the terminal host: it drives the panel manager once per frame and
// maps keys onto open/close requests.
type App struct {
	manager *panel.Manager
	factory *Factory
	focus   *Focus
	effects *EffectDriver
	cues    *cue.Cues
	keys    *KeyRegistry
	cfg     config.Config

	templates   []string
	limit       panel.LimitOverride
	frame       time.Duration
	flashFrames int
	status      string
	events      []string
	width       int
}

// Host bundles the collaborators the app drives.
type Host struct {
	Manager *panel.Manager
	Factory *Factory
	Focus   *Focus
	Effects *EffectDriver
	Cues    *cue.Cues // optional
}

type frameMsg time.Time

type statusMsg string

type errMsg struct{ err error }

func New(cfg config.Config, host Host) *App {
	fps := cfg.Host.FPS
	if fps <= 0 {
		fps = 30
	}
	if host.Effects == nil {
		host.Effects = &EffectDriver{}
	}
	if host.Focus == nil {
		host.Focus = NewFocus(panel.Pointer)
	}
	a := &App{
		manager:     host.Manager,
		factory:     host.Factory,
		focus:       host.Focus,
		effects:     host.Effects,
		cues:        host.Cues,
		keys:        NewKeyRegistry(DefaultBindings()),
		cfg:         cfg,
		templates:   host.Manager.Catalog().IDs(),
		limit:       host.Manager.DefaultLimit(),
		frame:       time.Second / time.Duration(fps),
		flashFrames: cfg.Host.FlashFrames,
	}
	a.manager.Subscribe(a.record)
	return a
}

func (a *App) Init() tea.Cmd {
	return a.tick()
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case frameMsg:
		a.step()
		return a, a.tick()
	case tea.WindowSizeMsg:
		a.width = m.Width
	case tea.KeyMsg:
		return a.handleKey(m)
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.err.Error()
	}
	return a, nil
}

// step advances one frame: visuals first so completions they resolve are
// observed by the manager in the same frame.
func (a *App) step() {
	a.factory.Step()
	a.effects.Step()
	a.manager.Update()
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.Action(m) {
	case actionQuit:
		return a, tea.Quit
	case actionOpen:
		idx := int(m.String()[0] - '1')
		if idx < len(a.templates) {
			a.open(a.templates[idx])
		}
	case actionLimit:
		a.limit = (a.limit + 1) % (panel.None + 1)
		a.status = "limit: " + a.limit.String()
		return a, a.saveLimitCmd()
	case actionCancel:
		if !a.manager.Cancel() {
			a.status = "nothing to cancel"
		}
	case actionClose:
		a.closeNewest()
	case actionCloseAll:
		a.manager.CloseAll()
	case actionScheme:
		a.status = "scheme: " + a.focus.Toggle().String()
	case actionMute:
		if a.cues != nil {
			a.cues.SetMuted(!a.cues.Muted())
		}
	}
	return a, nil
}

func (a *App) open(id string) {
	p, err := a.manager.Open(id, &panel.Config{LimitOverride: a.limit})
	if err != nil {
		if errors.Is(err, panel.ErrGroupAtLimit) {
			a.status = "refused: " + id
			if a.cues != nil {
				a.cues.Play(cue.KindRefuse)
			}
			a.flash(flashRefuse)
			return
		}
		a.status = "error: " + err.Error()
		return
	}
	a.status = fmt.Sprintf("opened %s (%s)", p.ID(), a.limit)
	a.flash(flashOpen)
}

// saveLimitCmd persists the cycled limit as the default for the next run.
func (a *App) saveLimitCmd() tea.Cmd {
	a.cfg.Panels.DefaultLimit = strings.ToLower(a.limit.String())
	cfg := a.cfg
	return func() tea.Msg {
		if err := config.Save(cfg); err != nil {
			return errMsg{err}
		}
		return statusMsg("default limit saved: " + cfg.Panels.DefaultLimit)
	}
}

// flash tints the border and clears the status line once the effect ends.
func (a *App) flash(c lipgloss.Color) {
	done := a.effects.ApplyEffect(Effect{Color: c, Frames: a.flashFrames})
	status := a.status
	a.manager.Scheduler().Start(func() bool {
		if !done.Ready() {
			return false
		}
		if a.status == status {
			a.status = ""
		}
		return true
	})
}

func (a *App) closeNewest() {
	active := a.manager.Active()
	for i := len(active) - 1; i >= 0; i-- {
		id := active[i].ID()
		if a.manager.IsClosing(id) {
			continue
		}
		if err := a.manager.Close(id); err != nil {
			a.status = "error: " + err.Error()
		}
		return
	}
}

func (a *App) record(ev panel.Event) {
	var line string
	switch ev.Type {
	case panel.EventStateChanged:
		line = fmt.Sprintf("%s %s -> %s", ev.ID, ev.Previous, ev.State)
	default:
		line = fmt.Sprintf("%s %s", ev.Type, ev.ID)
	}
	a.events = append(a.events, line)
	if n := len(a.events); n > maxEventLog {
		a.events = a.events[n-maxEventLog:]
	}
}

// Status returns the current status line.
func (a *App) Status() string { return a.status }

// Limit is the override applied to key-driven opens.
func (a *App) Limit() panel.LimitOverride { return a.limit }

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (a *App) View() string {
	var b strings.Builder
	frame := boxStyle
	if e, ok := a.effects.Active(); ok {
		frame = frame.BorderForeground(e.Color)
	}

	b.WriteString(titleStyle.Render("Panels"))
	b.WriteString("\n")
	b.WriteString(a.renderLayers())
	b.WriteString("\n")
	b.WriteString(a.renderRegistry())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Join(a.events, "\n")))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("limit %s | scheme %s | focus %q | pool %d/%d\n",
		a.limit, a.focus.ControlScheme(), a.focus.Target(), a.factory.Stats().InUse, a.factory.Stats().Created))
	if a.status != "" {
		b.WriteString(a.status + "\n")
	}
	b.WriteString(dimStyle.Render(a.help()))
	return frame.Render(b.String())
}

func (a *App) renderLayers() string {
	layers := a.factory.Layers()
	if len(layers) == 0 {
		return dimStyle.Render("(no panels)")
	}
	width := a.width - 8
	if width < 24 {
		width = 24
	}
	rows := make([]string, 0, len(layers))
	// Topmost sibling is drawn first.
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		w := 8 + int(l.Level*float64(width-8))
		label := l.Template
		if l.Group != "" {
			label += " [" + l.Group + "]"
		}
		style := boxStyle.Width(w)
		if !l.Interactable {
			style = style.Faint(true)
		}
		rows = append(rows, style.Render(label))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderRegistry() string {
	var out []string
	for _, g := range a.manager.Groups() {
		stack := a.manager.Stack(g)
		names := make([]string, 0, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			names = append(names, a.describe(stack[i]))
		}
		out = append(out, fmt.Sprintf("%s: %s", g, strings.Join(names, " < ")))
	}
	for _, p := range a.manager.Active() {
		if p.Group() == "" {
			out = append(out, "-: "+a.describe(p))
		}
	}
	return strings.Join(out, "\n")
}

func (a *App) describe(p *panel.Instance) string {
	s := fmt.Sprintf("%s %s", p.ID(), p.State())
	if a.manager.IsClosing(p.ID()) {
		s += " (closing)"
	}
	return s
}

func (a *App) help() string {
	var keys []string
	for i, id := range a.templates {
		if i == 9 {
			break
		}
		keys = append(keys, fmt.Sprintf("[%d] %s", i+1, id))
	}
	return strings.Join(keys, "  ") + "\n" + a.keys.Help()
}
