// Package export renders runs as standalone SVG images.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravwell/internal/sim"
)

// Series is one polyline of a chart.
type Series struct {
	Label  string
	Color  string
	Values []float64
}

// SeriesToSVG draws each series scaled to its own range across the full
// chart, sharing the time axis.
func SeriesToSVG(series []Series, width, height int) string {
	if len(series) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, s := range series {
		if len(s.Values) < 2 {
			continue
		}
		minY, maxY := s.Values[0], s.Values[0]
		for _, v := range s.Values {
			minY = min(minY, v)
			maxY = max(maxY, v)
		}
		rangeY := maxY - minY
		if rangeY == 0 {
			rangeY = 1
		}
		// Leave a tenth of the height free above and below.
		minY -= rangeY * 0.1
		rangeY *= 1.2

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color)
		for j, v := range s.Values {
			x := float64(j) / float64(len(s.Values)-1) * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, `<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16*(i+1), s.Color, s.Label)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SceneToSVG draws a top-down view of a snapshot: the grab radius around
// the anchor and every body, grabbed ones filled.
func SceneToSVG(s *sim.Snapshot, size int) string {
	if s == nil || size <= 0 {
		return ""
	}
	half := s.Radius * 1.5
	for _, b := range s.Bodies {
		half = max(half, abs(b.Center.X()-s.Anchor.X())+b.Radius, abs(b.Center.Z()-s.Anchor.Z())+b.Radius)
	}
	scale := float64(size) / (2 * half)
	px := func(x, origin float64) float64 { return (x-origin)*scale + float64(size)/2 }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#3c3c3c" stroke-dasharray="4 4"/>
`, size, size, size, size, float64(size)/2, float64(size)/2, s.Radius*scale)

	for _, b := range s.Bodies {
		fill := "none"
		if b.Grabbed {
			fill = "#ffffff"
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="#b4b4b4"/>
`, px(b.Center.X(), s.Anchor.X()), px(b.Center.Z(), s.Anchor.Z()), max(b.Radius*scale, 1), fill)
	}

	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="#78c8ff"/>
</svg>`, float64(size)/2, float64(size)/2)
	return sb.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// LastFrame is an observer that keeps the most recent snapshot.
type LastFrame struct {
	Snapshot *sim.Snapshot
}

func (l *LastFrame) OnStep(s *sim.Snapshot) { l.Snapshot = s }
