package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravlab/internal/body"
	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/engine"
	"github.com/san-kum/gravlab/internal/spawn"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	blue    = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
)

var scenarioInfo = map[string]string{
	"calm_belts":    "star with quiet asteroid belts",
	"binary_mayhem": "two suns, elastic debris",
	"star_nursery":  "collapsing proto-cluster",
	"bh_arena":      "greedy merges breed a black hole",
}

type classGlyph struct {
	r     rune
	style lipgloss.Style
}

var classGlyphs = [...]classGlyph{
	body.Asteroid:  {'·', blue},
	body.Planet:    {'o', cyan},
	body.Star:      {'☼', yellow},
	body.BlackHole: {'◉', magenta},
}

type state int

const (
	stateMenu state = iota
	stateConfig
	stateSim
)

type model struct {
	state     state
	cursor    int
	scenarios []string
	selected  string

	params      map[string]float64
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string

	running   bool
	world     *engine.World
	hazards   *spawn.Hazards
	simDt     float64
	speed     float64
	history   []float64
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

func NewInteractiveApp() *model {
	scenarios := config.ListPresets()
	sort.Strings(scenarios)
	return &model{
		state:     stateMenu,
		scenarios: scenarios,
		params: map[string]float64{
			"g": config.DefaultG, "dt": config.DefaultDt,
			"theta": config.DefaultTheta, "softening": config.DefaultSoftening,
			"restitution": 0.8, "absorb_bias": 0.03, "time_scale": 1.0,
		},
		paramNames: []string{"g", "dt", "theta", "softening", "restitution", "absorb_bias", "time_scale"},
		speed:      1.0,
		history:    make([]float64, 0, 60),
		width:      80,
		height:     24,
	}
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		if m.running && m.world != nil {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				dt := now.Sub(m.lastFrame).Seconds()
				if dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now
			steps := int(m.speed)
			if steps < 1 {
				steps = 1
			}
			for i := 0; i < steps; i++ {
				m.step()
			}
		}
		if m.running && m.state == stateSim {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenarios)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.scenarios[m.cursor]
		m.state = stateConfig
		m.paramCursor = 0
		m.loadPresetParams()
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			fmt.Sscanf(m.editBuf, "%f", &val)
			m.params[m.paramNames[m.paramCursor]] = val
			m.editing = false
			m.editBuf = ""
		case "escape":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "escape":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = fmt.Sprintf("%.3f", m.params[m.paramNames[m.paramCursor]])
	case "s":
		m.start()
		m.state = stateSim
		return m, tea.Batch(tea.ClearScreen, tick())
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(+1)
	}
	return m, nil
}

// nudge scales the adjustment to the parameter's magnitude; dt moves in
// thousandths while g moves in tens.
func (m *model) nudge(dir float64) {
	name := m.paramNames[m.paramCursor]
	step := 0.1
	switch name {
	case "g":
		step = 10
	case "dt":
		step = 0.001
	case "softening":
		step = 0.5
	case "absorb_bias":
		step = 0.01
	}
	v := m.params[name] + dir*step
	if v < 0 {
		v = 0
	}
	m.params[name] = v
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "escape":
		m.running = false
		m.state = stateMenu
		m.reset()
		return m, tea.ClearScreen
	case " ", "p":
		if m.world != nil {
			m.world.Settings.Running = !m.world.Settings.Running
		}
	case "r":
		m.start()
		return m, tea.ClearScreen
	case "c":
		m.running = false
		m.state = stateConfig
		m.reset()
		return m, tea.ClearScreen
	case "b":
		if m.world != nil {
			spawn.Burst{
				Center:   mgl64.Vec2{},
				Radius:   400,
				Count:    60,
				BaseMass: 30,
				Speed:    120,
			}.Spawn(m.world)
		}
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

func (m *model) loadPresetParams() {
	cfg := config.GetPreset(m.selected)
	if cfg == nil {
		return
	}
	m.params["g"] = cfg.G
	m.params["dt"] = cfg.Dt
	m.params["theta"] = cfg.Theta
	m.params["softening"] = cfg.Softening
	m.params["restitution"] = cfg.Restitution
	m.params["absorb_bias"] = cfg.AbsorbBias
	m.params["time_scale"] = cfg.TimeScale
}

func (m *model) start() {
	cfg := config.GetPreset(m.selected)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	edited := *cfg
	edited.G = m.params["g"]
	edited.Dt = m.params["dt"]
	edited.Theta = m.params["theta"]
	edited.Softening = m.params["softening"]
	edited.Restitution = m.params["restitution"]
	edited.AbsorbBias = m.params["absorb_bias"]
	edited.TimeScale = m.params["time_scale"]

	settings, err := edited.Settings()
	if err != nil {
		settings = engine.DefaultSettings()
	}
	m.world = engine.NewWorld(settings)
	edited.Populate(m.world)

	m.hazards = nil
	if edited.Hazards {
		m.hazards = spawn.NewHazards()
	}

	m.simDt = settings.Dt * settings.TimeScale
	m.history = make([]float64, 0, 60)
	m.speed = 1.0
	m.lastFrame = time.Time{}
	m.running = true
}

func (m *model) reset() {
	m.world = nil
	m.hazards = nil
	m.history = nil
}

func (m *model) step() {
	m.world.Step()
	if m.hazards != nil {
		m.hazards.Update(m.world, m.simDt, mgl64.Vec2{})
	}

	m.history = append(m.history, float64(len(m.world.Bodies)))
	if len(m.history) > 60 {
		m.history = m.history[1:]
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("g r a v l a b") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.scenarios {
		desc := scenarioInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected) + "  " + dim.Render(scenarioInfo[m.selected]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 34)) + "\n\n")

	for i, name := range m.paramNames {
		val := fmt.Sprintf("%10.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%10s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dim.Render(val) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s start  esc back") + "\n")

	return b.String()
}

func (m model) viewSim() string {
	cw := m.width - 6
	ch := m.height - 9
	if cw < 50 {
		cw = 50
	}
	if ch < 12 {
		ch = 12
	}

	canvas := make([][]classGlyph, ch)
	for i := range canvas {
		canvas[i] = make([]classGlyph, cw)
	}
	if m.world != nil {
		m.drawWorld(canvas, cw, ch)
	}

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.world != nil && !m.world.Settings.Running {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		statusIcon, cyan.Render(m.selected), statusText,
		dim.Render(fmt.Sprintf("×%.2g  %.0ffps", m.speed, m.fps))))

	if m.world != nil {
		b.WriteString(fmt.Sprintf("   %s %s   %s %s   %s %s\n",
			dim.Render("t"), white.Render(fmt.Sprintf("%.1fs", m.world.Time())),
			dim.Render("bodies"), white.Render(fmt.Sprintf("%d", len(m.world.Bodies))),
			dim.Render("mass"), white.Render(fmt.Sprintf("%.3g", m.world.TotalMass()))))
	}
	b.WriteString("\n")

	for _, row := range canvas {
		b.WriteString("   ")
		for _, cell := range row {
			if cell.r == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteString(cell.style.Render(string(cell.r)))
			}
		}
		b.WriteString("\n")
	}

	if len(m.history) > 1 {
		spark := sparkline(m.history, 28)
		b.WriteString(fmt.Sprintf("\n   %s %s\n", dim.Render("n"), cyan.Render(spark)))
	}

	b.WriteString("\n" + dim.Render("   space pause  ±speed  b burst  r reset  c config  q quit") + "\n")

	return b.String()
}

// drawWorld projects body positions onto the rune canvas, centered on
// the center of mass. A terminal cell is roughly twice as tall as it
// is wide, so y is compressed by half.
func (m model) drawWorld(canvas [][]classGlyph, w, h int) {
	bodies := m.world.Bodies
	if len(bodies) == 0 {
		return
	}

	var com mgl64.Vec2
	total := 0.0
	maxR := 1.0
	for i := range bodies {
		com = com.Add(bodies[i].Pos.Mul(bodies[i].Mass))
		total += bodies[i].Mass
	}
	if total > 0 {
		com = com.Mul(1 / total)
	}
	for i := range bodies {
		if r := bodies[i].Pos.Sub(com).Len(); r > maxR {
			maxR = r
		}
	}

	scale := float64(w) / (2.2 * maxR)
	for i := range bodies {
		rel := bodies[i].Pos.Sub(com)
		x := w/2 + int(rel.X()*scale)
		y := h/2 - int(rel.Y()*scale/2)
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		g := classGlyphs[bodies[i].Class]
		// Heavier classes win a contested cell.
		if canvas[y][x].r == 0 || bodies[i].Class >= classOf(canvas[y][x].r) {
			canvas[y][x] = g
		}
	}
}

func classOf(r rune) body.Class {
	for c, g := range classGlyphs {
		if g.r == r {
			return body.Class(c)
		}
	}
	return body.Asteroid
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func RunInteractive() error {
	p := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
