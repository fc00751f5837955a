package pattern

import (
	"time"

	"github.com/glowshed/stripctl/internal/font"
	"github.com/glowshed/stripctl/internal/strip"
)

func init() {
	Register("CLOCK", func() Pattern {
		return &clockPattern{color: RGBW{255, 255, 255, 255}, brightness: 100, lastKey: -1}
	})
}

// clockPattern renders the 12-hour HH/MM as four font digits, one per
// grid quadrant on a 16x16 panel, with the seconds running clockwise
// around the perimeter in 60 segments. The frame is redrawn only when
// the displayed minute or a knob changes, so the perimeter ring catches
// up in minute-sized jumps.
type clockPattern struct {
	color       RGBW
	brightness  int
	lastKey     int
	needsRender bool
}

func (p *clockPattern) Name() string { return "CLOCK" }

func (p *clockPattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.brightness = k.BrightnessPercent
	if k.ColorSet {
		p.color = k.Color
	}
	p.needsRender = true
}

func (p *clockPattern) Reset(s strip.Strip, now time.Time) {
	p.lastKey = -1
	p.render(s, now)
}

func (p *clockPattern) Update(s strip.Strip, now time.Time) {
	key := now.Hour()*60 + now.Minute()
	if p.lastKey == -1 || p.needsRender || key != p.lastKey {
		p.lastKey = key
		p.needsRender = false
		p.render(s, now)
	}
}

func (p *clockPattern) render(s strip.Strip, now time.Time) {
	s.Clear()

	hh12 := (now.Hour()+11)%12 + 1
	mm := now.Minute()
	c := scaleColor(p.color, p.brightness)

	font.DrawDigit(s, hh12/10%10, 0, 0, c.R, c.G, c.B, c.W)
	font.DrawDigit(s, hh12%10, 0, 8, c.R, c.G, c.B, c.W)
	font.DrawDigit(s, mm/10%10, 8, 0, c.R, c.G, c.B, c.W)
	font.DrawDigit(s, mm%10, 8, 8, c.R, c.G, c.B, c.W)

	p.drawSecondsRing(s, now, c)
}

// drawSecondsRing lights perimeter cells clockwise from the top-left
// corner, one per elapsed second-of-minute segment. The edge walk covers
// 2*rows+2*cols-4 cells, exactly 60 on a 16x16 grid.
func (p *clockPattern) drawSecondsRing(s strip.Strip, now time.Time, c RGBW) {
	rows, cols := s.Rows(), s.Cols()
	if rows == 0 || cols == 0 {
		return
	}
	frac := (float64(now.Second()) + float64(now.Nanosecond())/1e9) / 60
	segments := int(frac*60 + 0.5)

	set := func(row, col int) {
		s.SetPixel(s.IndexForRowCol(row, col), c.R, c.G, c.B, c.W)
	}
	drawn := 0
	for x := 0; drawn < segments && x < cols; x, drawn = x+1, drawn+1 {
		set(0, x)
	}
	for y := 1; drawn < segments && y < rows; y, drawn = y+1, drawn+1 {
		set(y, cols-1)
	}
	for xi := 1; drawn < segments && xi < cols; xi, drawn = xi+1, drawn+1 {
		set(rows-1, cols-1-xi)
	}
	for yi := 1; drawn < segments && yi < rows-1; yi, drawn = yi+1, drawn+1 {
		set(rows-1-yi, 0)
	}
}
