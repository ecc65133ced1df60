package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravlab/internal/body"
	"github.com/san-kum/gravlab/internal/engine"
)

func classColor(c body.Class) string {
	switch c {
	case body.Asteroid:
		return "#bfccff"
	case body.Planet:
		return "#99e6ff"
	case body.Star:
		return "#ffeb99"
	case body.BlackHole:
		return "#1a1a2e"
	}
	return "#ffffff"
}

// SnapshotSVG renders the current body positions as an SVG scene.
// World coordinates are fit to the viewport with uniform scaling and a
// 10% margin; y is flipped so up in the world is up on screen.
func SnapshotSVG(w *engine.World, width, height int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(w.Bodies) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	minX, maxX := w.Bodies[0].Pos.X(), w.Bodies[0].Pos.X()
	minY, maxY := w.Bodies[0].Pos.Y(), w.Bodies[0].Pos.Y()
	for i := range w.Bodies {
		p := w.Bodies[i].Pos
		if p.X() < minX {
			minX = p.X()
		}
		if p.X() > maxX {
			maxX = p.X()
		}
		if p.Y() < minY {
			minY = p.Y()
		}
		if p.Y() > maxY {
			maxY = p.Y()
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	span := rangeX
	if rangeY > span {
		span = rangeY
	}
	if span == 0 {
		span = 1
	}
	span *= 1.2

	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	fit := float64(width)
	if float64(height) < fit {
		fit = float64(height)
	}
	scale := fit / span

	for i := range w.Bodies {
		b := &w.Bodies[i]
		x := float64(width)/2 + (b.Pos.X()-cx)*scale
		y := float64(height)/2 - (b.Pos.Y()-cy)*scale

		r := b.Radius() * scale
		if r < 0.6 {
			r = 0.6
		}

		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, classColor(b.Class)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
