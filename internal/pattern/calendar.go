package pattern

import (
	"fmt"
	"time"

	"github.com/glowshed/stripctl/internal/font"
	"github.com/glowshed/stripctl/internal/strip"
)

func init() {
	Register("CALENDAR", func() Pattern {
		return &calendarPattern{color: RGBW{255, 255, 255, 255}, brightness: 100, lastKey: -1}
	})
}

// calendarPattern shows the month on the top half of the panel and the
// day of month on the bottom half, both zero-padded to two digits. It
// redraws only when the date or a knob changes.
type calendarPattern struct {
	color       RGBW
	brightness  int
	lastKey     int
	needsRender bool
}

func (p *calendarPattern) Name() string { return "CALENDAR" }

func (p *calendarPattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.brightness = k.BrightnessPercent
	if k.ColorSet {
		p.color = k.Color
	}
	p.needsRender = true
}

func (p *calendarPattern) Reset(s strip.Strip, now time.Time) {
	p.lastKey = -1
	p.render(s, now)
}

func (p *calendarPattern) Update(s strip.Strip, now time.Time) {
	key := int(now.Month())*100 + now.Day()
	if p.lastKey == -1 || p.needsRender || key != p.lastKey {
		p.lastKey = key
		p.needsRender = false
		p.render(s, now)
	}
}

func (p *calendarPattern) render(s strip.Strip, now time.Time) {
	s.Clear()
	c := scaleColor(p.color, p.brightness)
	font.DrawText(s, fmt.Sprintf("%02d", int(now.Month())), 0, 0, c.R, c.G, c.B, c.W)
	font.DrawText(s, fmt.Sprintf("%02d", now.Day()), 8, 0, c.R, c.G, c.B, c.W)
}
