package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravlab/internal/engine"
)

const (
	liveWidth   = 70
	liveHeight  = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a plain ANSI frame writer for headless runs. It
// implements engine.Observer, throttled to the requested frame rate.
type LiveRenderer struct {
	scenario  string
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
}

func NewLiveRenderer(scenario string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, liveHeight)
	for i := range canvas {
		canvas[i] = make([]rune, liveWidth)
	}
	return &LiveRenderer{
		scenario:  scenario,
		frameRate: frameRate,
		canvas:    canvas,
	}
}

func (r *LiveRenderer) OnStep(w *engine.World, t float64) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.clear()
	r.drawBodies(w)
	r.render(w, t)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < liveWidth && y >= 0 && y < liveHeight {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) drawBodies(w *engine.World) {
	if len(w.Bodies) == 0 {
		return
	}

	var com mgl64.Vec2
	total := 0.0
	for i := range w.Bodies {
		com = com.Add(w.Bodies[i].Pos.Mul(w.Bodies[i].Mass))
		total += w.Bodies[i].Mass
	}
	if total > 0 {
		com = com.Mul(1 / total)
	}

	maxR := 1.0
	for i := range w.Bodies {
		if d := w.Bodies[i].Pos.Sub(com).Len(); d > maxR {
			maxR = d
		}
	}
	scale := float64(liveWidth) / (2.2 * maxR)

	for i := range w.Bodies {
		rel := w.Bodies[i].Pos.Sub(com)
		x := liveWidth/2 + int(rel.X()*scale)
		y := liveHeight/2 - int(rel.Y()*scale/2)
		r.set(x, y, classGlyphs[w.Bodies[i].Class].r)
	}
}

func (r *LiveRenderer) render(w *engine.World, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs  bodies=%d\n", r.scenario, t, len(w.Bodies)))
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")
	b.WriteString(fmt.Sprintf("  mass=%.3g  |p|=%.3g\n", w.TotalMass(), w.Momentum().Len()))

	fmt.Print(b.String())
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor) }
