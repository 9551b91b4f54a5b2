// Package tui renders the running simulation in the terminal and
// hosts the command console. It is a thin caller of the engine: all
// mutation goes through the command dispatcher or the engine's typed
// requests, one physics step per frame tick.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/funny233-github/paticle-life/internal/command"
	"github.com/funny233-github/paticle-life/internal/particle"
	"github.com/funny233-github/paticle-life/internal/sim"
)

var (
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	accent  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	warn    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errText = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	prompt  = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// typeStyles maps each particle type to a terminal color roughly
// matching its name.
var typeStyles = [particle.TypeCount]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // Amber
	lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // Blue
	lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // Cyan
	lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // Emerald
	lipgloss.NewStyle().Foreground(lipgloss.Color("201")), // Fuchsia
	lipgloss.NewStyle().Foreground(lipgloss.Color("40")),  // Green
	lipgloss.NewStyle().Foreground(lipgloss.Color("63")),  // Indigo
	lipgloss.NewStyle().Foreground(lipgloss.Color("118")), // Lime
	lipgloss.NewStyle().Foreground(lipgloss.Color("208")), // Orange
	lipgloss.NewStyle().Foreground(lipgloss.Color("212")), // Pink
	lipgloss.NewStyle().Foreground(lipgloss.Color("129")), // Purple
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // Red
	lipgloss.NewStyle().Foreground(lipgloss.Color("211")), // Rose
	lipgloss.NewStyle().Foreground(lipgloss.Color("117")), // Sky
	lipgloss.NewStyle().Foreground(lipgloss.Color("44")),  // Teal
	lipgloss.NewStyle().Foreground(lipgloss.Color("99")),  // Violet
	lipgloss.NewStyle().Foreground(lipgloss.Color("226")), // Yellow
}

const maxLog = 6

type Model struct {
	engine     *sim.Engine
	dispatcher *command.Dispatcher
	frameRate  int

	console bool
	input   string
	log     []string

	lastFrame time.Time
	fps       float64

	width  int
	height int
}

// New builds the live view. matrixPath is handed to the console's
// reset_interaction command.
func New(engine *sim.Engine, matrixPath string, frameRate int) *Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &Model{
		engine:     engine,
		dispatcher: &command.Dispatcher{Engine: engine, MatrixPath: matrixPath},
		frameRate:  frameRate,
		width:      80,
		height:     24,
	}
}

// Run starts the bubbletea program and blocks until quit.
func Run(engine *sim.Engine, matrixPath string, frameRate int) error {
	p := tea.NewProgram(New(engine, matrixPath, frameRate), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type tickMsg time.Time

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		now := time.Now()
		if !m.lastFrame.IsZero() {
			if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
				m.fps = 1.0 / dt
			}
		}
		m.lastFrame = now
		m.engine.Step()
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.console {
		switch msg.Type {
		case tea.KeyEsc:
			m.console = false
			m.input = ""
		case tea.KeyEnter:
			m.execute(m.input)
			m.input = ""
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		case tea.KeyRunes:
			s := string(msg.Runes)
			if s == "`" && m.input == "" {
				m.console = false
				return m, nil
			}
			m.input += s
		case tea.KeySpace:
			m.input += " "
		case tea.KeyCtrlC:
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "`":
		m.console = true
	case "t", " ":
		m.engine.TogglePause()
	case "r":
		m.engine.Respawn()
	}
	return m, nil
}

func (m *Model) execute(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	reply, err := m.dispatcher.Execute(line)
	if err != nil {
		m.push(errText.Render("error: " + err.Error()))
		return
	}
	for _, l := range strings.Split(reply, "\n") {
		m.push(l)
	}
}

func (m *Model) push(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLog {
		m.log = m.log[len(m.log)-maxLog:]
	}
}

func (m *Model) View() string {
	fieldH := m.height - 2
	if m.console {
		fieldH -= len(m.log) + 1
	}
	if fieldH < 1 {
		fieldH = 1
	}
	fieldW := m.width
	if fieldW < 1 {
		fieldW = 1
	}

	var b strings.Builder
	b.WriteString(m.renderField(fieldW, fieldH))
	b.WriteString("\n")
	b.WriteString(m.statusLine())

	if m.console {
		b.WriteString("\n")
		for _, l := range m.log {
			b.WriteString(l)
			b.WriteString("\n")
		}
		b.WriteString(prompt.Render("> ") + m.input + accent.Render("_"))
	} else {
		b.WriteString("\n")
		b.WriteString(dim.Render("`=console  t=pause  r=respawn  q=quit"))
	}
	return b.String()
}

// renderField projects the map onto the terminal cell grid. Each cell
// shows the type of the last particle that landed in it; terminal
// cells are roughly twice as tall as wide, which the y scale absorbs.
func (m *Model) renderField(w, h int) string {
	cfg := m.engine.Config()
	ps := m.engine.Particles()

	type cell struct {
		count int
		t     particle.Type
	}
	cells := make([]cell, w*h)

	sx := float64(w) / cfg.MapWidth
	sy := float64(h) / cfg.MapHeight
	for i := range ps {
		cx := int(ps[i].Pos.X() * sx)
		cy := int(ps[i].Pos.Y() * sy)
		if cx < 0 || cx >= w || cy < 0 || cy >= h {
			continue
		}
		c := &cells[cy*w+cx]
		c.count++
		c.t = ps[i].Type
	}

	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			switch {
			case c.count == 0:
				b.WriteByte(' ')
			case c.count == 1:
				b.WriteString(typeStyles[c.t].Render("·"))
			case c.count < 4:
				b.WriteString(typeStyles[c.t].Render("•"))
			default:
				b.WriteString(typeStyles[c.t].Render("●"))
			}
		}
		if y < h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) statusLine() string {
	state := accent.Render("running")
	if m.engine.Paused() {
		state = warn.Render("paused")
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		state,
		dim.Render(fmt.Sprintf("step %d", m.engine.StepCount())),
		dim.Render(fmt.Sprintf("%d particles", m.engine.Count())),
		dim.Render(fmt.Sprintf("%.0f fps", m.fps)),
	)
}
