package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/fieldsim/internal/arena"
	"github.com/san-kum/fieldsim/internal/engine"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/particle"
	"github.com/san-kum/fieldsim/internal/scoring"
)

const (
	width           = 72
	height          = 22
	historyCapacity = 600

	// FieldLimit bounds the strengths reachable from the keyboard.
	FieldLimit       = 10.0
	DefaultFieldStep = 1.0
	DefaultFPS       = 30
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// LiveConfig is everything the preview needs to drive one engine.
type LiveConfig struct {
	Title     string
	Engine    *engine.Engine
	Factory   particle.Factory
	Fields    field.Parameters
	Arena     arena.Arena
	Dt        float64
	Score     scoring.Func
	Gate      scoring.Gate
	FieldStep float64
	FPS       int
}

// Model is the bubbletea model of the live preview. The engine is shared
// by every copy of the model; bubbletea runs Update on one goroutine.
type Model struct {
	cfg        LiveConfig
	canvas     *Canvas
	snap       engine.Snapshot
	collisions []float64
	outcome    *scoring.Outcome
	notice     string
	err        error
}

// NewModel resets the engine to the configured initial state.
func NewModel(cfg LiveConfig) (Model, error) {
	if cfg.Engine == nil {
		return Model{}, fmt.Errorf("live view needs an engine")
	}
	if cfg.Dt <= 0 {
		return Model{}, fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Score == nil {
		cfg.Score = scoring.DefaultKnowledge().Func()
	}
	if cfg.FieldStep <= 0 {
		cfg.FieldStep = DefaultFieldStep
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}

	m := Model{
		cfg:        cfg,
		canvas:     NewCanvas(width, height),
		collisions: make([]float64, 0, historyCapacity),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.toggle()
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "up", "k":
			m.adjust(m.cfg.FieldStep, 0)
		case "down", "j":
			m.adjust(-m.cfg.FieldStep, 0)
		case "right", "l":
			m.adjust(0, m.cfg.FieldStep)
		case "left", "h":
			m.adjust(0, -m.cfg.FieldStep)
		case "c":
			m.complete()
		}
	case TickMsg:
		if m.cfg.Engine.Running() {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) toggle() {
	if m.outcome != nil {
		m.notice = "completed, r to restart"
		return
	}
	if m.cfg.Engine.Running() {
		m.cfg.Engine.Stop()
	} else {
		m.cfg.Engine.Start()
	}
	m.snap = m.cfg.Engine.Snapshot()
}

func (m *Model) step() {
	snap, err := m.cfg.Engine.Tick(m.cfg.Dt)
	if err != nil {
		m.err = err
		m.cfg.Engine.Stop()
		return
	}
	m.snap = snap
	m.collisions = append(m.collisions, float64(snap.CollisionCount))
	if len(m.collisions) > historyCapacity {
		m.collisions = m.collisions[1:]
	}
}

func (m *Model) reset() error {
	snap, err := m.cfg.Engine.Reset(m.cfg.Factory, m.cfg.Fields, m.cfg.Arena)
	if err != nil {
		return err
	}
	m.snap = snap
	m.collisions = m.collisions[:0]
	m.outcome = nil
	m.err = nil
	return nil
}

func clampField(v float64) float64 {
	return math.Max(-FieldLimit, math.Min(FieldLimit, v))
}

func (m *Model) adjust(dE, dB float64) {
	f := m.cfg.Engine.Fields()
	m.cfg.Engine.SetFieldParameters(clampField(f.Electric+dE), clampField(f.Magnetic+dB))
	m.snap = m.cfg.Engine.Snapshot()
}

func (m *Model) complete() {
	if m.outcome != nil {
		return
	}
	out, ok := scoring.Complete(m.snap, m.cfg.Gate, m.cfg.Score)
	if !ok {
		m.notice = fmt.Sprintf("gate opens in %.0f", m.cfg.Gate.MinElapsed-m.snap.Time)
		return
	}
	m.cfg.Engine.Stop()
	m.snap = m.cfg.Engine.Snapshot()
	m.outcome = &out
}

// Outcome returns the completed run's outcome, if any.
func (m Model) Outcome() (scoring.Outcome, bool) {
	if m.outcome == nil {
		return scoring.Outcome{}, false
	}
	return *m.outcome, true
}

func (m Model) Snapshot() engine.Snapshot { return m.snap }

func (m *Model) draw() {
	c := m.canvas
	c.Reset()
	c.Frame()

	w, h := m.snap.Arena.Width, m.snap.Arena.Height
	if w <= 0 || h <= 0 {
		return
	}
	for _, p := range m.snap.Particles {
		for i := 1; i < len(p.Trail); i++ {
			x0, y0 := c.Project(p.Trail[i-1].X, p.Trail[i-1].Y, w, h)
			x1, y1 := c.Project(p.Trail[i].X, p.Trail[i].Y, w, h)
			c.Segment(x0, y0, x1, y1)
		}
	}
	for _, p := range m.snap.Particles {
		x, y := c.Project(p.X, p.Y, w, h)
		r, _ := c.Project(p.Radius, 0, w, h)
		c.Disc(x, y, r/2)
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusError.Render("ERROR " + m.err.Error())
	case m.outcome != nil:
		return StatusDone.Render("COMPLETED")
	case m.snap.Running:
		return StatusRunning.Render("RUNNING")
	default:
		return StatusPaused.Render("STOPPED")
	}
}

func stat(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value) + "\n"
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	title := m.cfg.Title
	if title == "" {
		title = "fieldsim"
	}
	s.WriteString(HeaderStyle.Render(strings.ToUpper(title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(stat("Time", fmt.Sprintf("%.1f", m.snap.Time)))
	s.WriteString(stat("Particles", fmt.Sprintf("%d", len(m.snap.Particles))))
	s.WriteString(stat("Collisions", fmt.Sprintf("%d", m.snap.CollisionCount)))
	s.WriteString(stat("Electric", fmt.Sprintf("%+.1f", m.snap.Fields.Electric)))
	s.WriteString(stat("Magnetic", fmt.Sprintf("%+.1f", m.snap.Fields.Magnetic)))
	s.WriteString(stat("Score", fmt.Sprintf("%d", m.cfg.Score(m.snap))))
	if m.snap.Repairs > 0 {
		s.WriteString(stat("Repairs", fmt.Sprintf("%d", m.snap.Repairs)))
	}

	s.WriteString("\n" + Subtle.Render("collisions") + "\n")
	s.WriteString(SparklineChart(m.collisions, 30) + "\n")

	progress := 1.0
	if m.cfg.Gate.MinElapsed > 0 {
		progress = m.snap.Time / m.cfg.Gate.MinElapsed
	}
	s.WriteString("\n" + Subtle.Render("complete") + "\n")
	s.WriteString(ProgressBar(progress, 30) + "\n")

	if m.outcome != nil {
		s.WriteString("\n" + StatusDone.Render(fmt.Sprintf("+%d knowledge", m.outcome.Score)) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + KeyHint.Render(m.notice) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Start/Stop R:Reset Q:Quit\n↑↓:Electric ←→:Magnetic C:Complete"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
