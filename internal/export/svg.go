package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/fieldsim/internal/engine"
	"github.com/san-kum/fieldsim/internal/particle"
)

var kindColors = map[particle.Kind]string{
	particle.Light:    "#4fc3f7",
	particle.Heavy:    "#ef5350",
	particle.Neutral:  "#bdbdbd",
	particle.Massless: "#ffee58",
}

func kindColor(k particle.Kind) string {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return "#00ff00"
}

// SnapshotToSVG draws the arena, every particle trail and every particle
// at its current position. Arena units map to scale pixels.
func SnapshotToSVG(snap engine.Snapshot, scale float64) string {
	if scale <= 0 {
		scale = 1
	}
	width := snap.Arena.Width * scale
	height := snap.Arena.Height * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, p := range snap.Particles {
		if len(p.Trail) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-opacity="0.4" stroke-width="1" d="M`, kindColor(p.Kind))
		for i, pt := range p.Trail {
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", pt.X*scale, pt.Y*scale)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", pt.X*scale, pt.Y*scale)
			}
		}
		sb.WriteString("\"/>\n")
	}

	for _, p := range snap.Particles {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%s</title></circle>
`, p.X*scale, p.Y*scale, p.Radius*scale, kindColor(p.Kind), p.ID)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// SeriesToSVG plots ys against their index as a single line.
func SeriesToSVG(ys []float64, width, height int, strokeColor string) string {
	if len(ys) < 2 {
		return ""
	}

	minY, maxY := ys[0], ys[0]
	for _, y := range ys {
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2
	stepX := float64(width) / float64(len(ys)-1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, y := range ys {
		px := float64(i) * stepX
		py := float64(height) - (y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", px, py)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", px, py)
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}

func WriteFile(path, svg string) error {
	return os.WriteFile(path, []byte(svg), 0644)
}
