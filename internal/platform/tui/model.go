package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/engine"
)

// Layout rows around the playfield.
const (
	hudRows    = 1
	helpRows   = 1
	statusRows = 9 // table header + border + 6 rows + summary
	minRows    = 3
)

var (
	hudStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// frameBuffer receives snapshots from the engine. The engine only renders
// from inside Tick, which the model calls from Update, so no locking.
type frameBuffer struct {
	snap engine.Snapshot
	ok   bool
}

func (f *frameBuffer) Render(s engine.Snapshot) {
	f.snap = s
	f.ok = true
}

// Model is the Bubble Tea model of the debug playground.
type Model struct {
	eng        *engine.Engine
	frame      *frameBuffer
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	sensor     Sensor
	keyMapper  *KeyMapper
	help       help.Model
	status     table.Model
	showStatus bool
	quitting   bool
}

// NewModel creates a playground with its own engine. opts.Renderer, if
// set, receives every snapshot after the playground's own renderer.
func NewModel(cfg config.EngineConfig, rt core.RuntimeConfig, opts engine.Options) Model {
	frame := &frameBuffer{}
	var renderer engine.Renderer = frame
	if next := opts.Renderer; next != nil {
		renderer = engine.RendererFunc(func(s engine.Snapshot) {
			frame.Render(s)
			next.Render(s)
		})
	}
	opts.Renderer = renderer
	if opts.Seed == 0 && rt.Seed != 0 {
		opts.Seed = uint64(rt.Seed)
	}

	h := help.New()
	h.ShowAll = false

	m := Model{
		eng:        engine.New(cfg, opts),
		frame:      frame,
		config:     rt,
		inputFrame: core.NewInputFrame(),
		sensor:     NewSensor(),
		keyMapper:  NewKeyMapper(),
		help:       h,
		status:     newStatusTable(rt.ScreenW),
	}
	m.screen = core.NewScreen(rt.ScreenW, m.playfieldRows())
	m.eng.SetAspect(m.playfieldConfig().Aspect())
	return m
}

// Engine returns the playground's engine.
func (m Model) Engine() *engine.Engine {
	return m.eng
}

// Sensor returns the simulated sensor state.
func (m Model) Sensor() Sensor {
	return m.sensor
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey applies sensor changes at once and queues debug actions for
// the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if m.sensor.Apply(action) {
		return m, nil
	}
	if action == core.ActionStatus {
		m.showStatus = !m.showStatus
		m.relayout()
		return m, nil
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleMouse moves the simulated hand; the left button pinches.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	cols, rows := m.screen.Width(), m.screen.Height()
	if cols > 0 && rows > 0 {
		x := (float64(msg.X) + 0.5) / float64(cols)
		y := (float64(msg.Y-hudRows) + 0.5) / float64(rows)
		m.sensor.PointAt(x, y)
	}
	if msg.Button == tea.MouseButtonLeft {
		switch msg.Action {
		case tea.MouseActionPress:
			m.sensor.Pinching = true
		case tea.MouseActionRelease:
			m.sensor.Pinching = false
		}
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.status = newStatusTable(msg.Width)
	m.relayout()
	return m, nil
}

// relayout resizes the playfield and tells the engine the new aspect.
func (m *Model) relayout() {
	m.screen.Resize(m.config.ScreenW, m.playfieldRows())
	m.eng.Submit(engine.ResizeCommand{Aspect: m.playfieldConfig().Aspect()})
}

// handleTick replays the queued debug actions in order, then runs one
// engine frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	for _, action := range m.inputFrame.Order {
		switch action {
		case core.ActionClear:
			m.eng.ClearAll()
		case core.ActionSpawnApple:
			m.eng.SpawnTestApple()
		case core.ActionSpawnBanana:
			m.eng.SpawnTestBanana()
		}
	}
	m.inputFrame.Clear()

	m.eng.Submit(m.sensor.Frame(m.eng.Now().UnixMilli()))
	m.eng.Tick()

	if m.showStatus {
		m.refreshStatus()
	}
	return m, tickCmd(m.config.TickRate)
}

func (m Model) playfieldRows() int {
	rows := m.config.ScreenH - hudRows - helpRows
	if m.showStatus {
		rows -= statusRows
	}
	return max(rows, minRows)
}

func (m Model) playfieldConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = m.playfieldRows()
	return cfg
}

func newStatusTable(width int) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Kind", Width: 7},
		{Title: "Position", Width: 20},
		{Title: "Scale", Width: 6},
		{Title: "Bites", Width: 6},
		{Title: "Grab", Width: 5},
		{Title: "Carved", Width: 6},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(statusRows-3),
		table.WithWidth(min(width, 70)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t
}

// refreshStatus reloads the status table from the engine.
func (m *Model) refreshStatus() {
	st := m.eng.Status()
	rows := make([]table.Row, len(st.Entities))
	for i, e := range st.Entities {
		rows[i] = table.Row{
			fmt.Sprintf("%d", e.ID),
			e.Kind.String(),
			fmt.Sprintf("%.2f, %.2f, %.2f", e.X, e.Y, e.Z),
			fmt.Sprintf("%.2f", e.Scale),
			fmt.Sprintf("%d/%d", e.BiteCount, e.MaxBites),
			yesNo(e.Grabbed),
			yesNo(e.Carved),
		}
	}
	m.status.SetRows(rows)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// hud renders the one-line score and grab summary.
func (m Model) hud() string {
	snap := m.frame.snap
	grab := "none"
	for _, e := range snap.Entities {
		if e.Grabbed {
			grab = fmt.Sprintf("#%d %s", e.ID, e.Kind)
			break
		}
	}
	hand := "hidden"
	if !m.sensor.HandHidden {
		hand = fmt.Sprintf("%.2f,%.2f", m.sensor.HandX, m.sensor.HandY)
		if m.sensor.Pinching {
			hand += " pinch"
		}
	}
	mouth := "shut"
	if m.sensor.MouthOpen {
		mouth = "open"
	}
	return hudStyle.Render(fmt.Sprintf("SCORE %d", snap.Score)) +
		labelStyle.Render(fmt.Sprintf("  fruit %d  grab %s  hand %s  mouth %s",
			len(snap.Entities), grab, hand, mouth))
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawSnapshot(m.screen, m.frame.snap)

	var b strings.Builder
	b.WriteString(m.hud())
	b.WriteString("\n")
	b.WriteString(RenderScreen(m.screen))
	if m.showStatus {
		summary, _, _ := strings.Cut(m.eng.Status().String(), "\n")
		b.WriteString("\n")
		b.WriteString(m.status.View())
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(summary))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keyMapper.Keys())))
	return b.String()
}

// Run starts the Bubble Tea program with a fresh playground.
func Run(cfg config.EngineConfig, rt core.RuntimeConfig, opts engine.Options) error {
	model := NewModel(cfg, rt, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),      // Use alternate screen buffer
		tea.WithMouseAllMotion(), // The pointer is the hand
	)

	_, err := p.Run()
	return err
}
