package pattern

import (
	"fmt"
	"time"

	"github.com/glowshed/stripctl/internal/font"
	"github.com/glowshed/stripctl/internal/strip"
)

func init() {
	Register("SUMMARY", func() Pattern {
		return &summaryPattern{color: RGBW{255, 255, 255, 255}, brightness: 100, lastKey: -1}
	})
}

// summaryPattern renders a three-line date card: weekday abbreviation,
// month abbreviation, and the day with its ordinal suffix ("11th").
// Lines sit on an 8-pixel cadence and each centers itself horizontally;
// the whole block centers vertically on panels taller than 24 rows.
type summaryPattern struct {
	color       RGBW
	brightness  int
	lastKey     int
	needsRender bool
}

func (p *summaryPattern) Name() string { return "SUMMARY" }

func (p *summaryPattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.brightness = k.BrightnessPercent
	if k.ColorSet {
		p.color = k.Color
	}
	p.needsRender = true
}

func (p *summaryPattern) Reset(s strip.Strip, now time.Time) {
	p.lastKey = -1
	p.render(s, now)
}

func (p *summaryPattern) Update(s strip.Strip, now time.Time) {
	key := int(now.Weekday())*10000 + int(now.Month())*100 + now.Day()
	if p.lastKey == -1 || p.needsRender || key != p.lastKey {
		p.lastKey = key
		p.needsRender = false
		p.render(s, now)
	}
}

func (p *summaryPattern) render(s strip.Strip, now time.Time) {
	s.Clear()

	lines := []string{
		now.Weekday().String()[:3],
		now.Month().String()[:3],
		fmt.Sprintf("%d%s", now.Day(), daySuffix(now.Day())),
	}

	rows, cols := s.Rows(), s.Cols()
	top := 0
	if h := len(lines) * font.CellWidth; rows > h {
		top = (rows - h) / 2
	}
	c := scaleColor(p.color, p.brightness)
	for i, line := range lines {
		left := 0
		if w := len(line) * font.CellWidth; cols > w {
			left = (cols - w) / 2
		}
		font.DrawText(s, line, top+i*font.CellWidth, left, c.R, c.G, c.B, c.W)
	}
}

func daySuffix(d int) string {
	if m := d % 100; m >= 11 && m <= 13 {
		return "th"
	}
	switch d % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
