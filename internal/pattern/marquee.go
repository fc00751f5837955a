package pattern

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glowshed/stripctl/internal/font"
	"github.com/glowshed/stripctl/internal/strip"
)

func init() {
	Register("MARQUEE", func() Pattern {
		return &marqueePattern{speed: 50, brightness: 100, color: RGBW{255, 255, 255, 0}}
	})
}

// marqueePattern scrolls the start-string right to left, one pixel per
// step, vertically centered. The text is padded with a screen-width gap
// on both ends so it runs fully off before wrapping around.
type marqueePattern struct {
	message    string
	speed      int
	brightness int
	color      RGBW

	scroll   int
	lastStep time.Time
}

func (p *marqueePattern) Name() string { return "MARQUEE" }

func (p *marqueePattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.speed = k.SpeedPercent
	p.brightness = k.BrightnessPercent
	if k.ColorSet {
		p.color = k.Color
	}
	if k.Start != p.message {
		p.message = k.Start
		p.scroll = 0
	}
}

func (p *marqueePattern) Reset(s strip.Strip, now time.Time) {
	// Start aligned with the left edge so text shows up right away
	// instead of crawling in across a full blank screen.
	p.scroll = s.Cols()
	p.lastStep = now
	p.render(s)
}

func (p *marqueePattern) Update(s strip.Strip, now time.Time) {
	if p.lastStep.IsZero() || now.Sub(p.lastStep) >= marqueeStepInterval(p.speed) {
		p.lastStep = now
		p.scroll++
		p.render(s)
	}
}

// marqueeStepInterval maps speed 0..100 onto 800ms down to 30ms per
// one-pixel step.
func marqueeStepInterval(speed int) time.Duration {
	if speed <= 0 {
		return 800 * time.Millisecond
	}
	if speed >= 100 {
		return 30 * time.Millisecond
	}
	span := 800*time.Millisecond - 30*time.Millisecond
	return 800*time.Millisecond - span*time.Duration(speed)/100
}

func (p *marqueePattern) render(s strip.Strip) {
	rows, cols := s.Rows(), s.Cols()
	if rows == 0 || cols == 0 {
		return
	}
	s.Clear()
	if p.message == "" {
		return
	}

	visibleCells := (cols + font.CellWidth - 1) / font.CellWidth
	if visibleCells < 1 {
		visibleCells = 1
	}
	pad := strings.Repeat(" ", visibleCells)
	padded := pad + p.message + pad

	textPx := utf8.RuneCountInString(padded) * font.CellWidth
	cyclePx := textPx + cols
	if p.scroll >= cyclePx || p.scroll < 0 {
		p.scroll = 0
	}
	startX := cols - p.scroll

	top := 0
	if rows > font.CellWidth {
		top = (rows - font.CellWidth) / 2
	}
	c := scaleColor(p.color, p.brightness)
	font.DrawText(s, padded, top, startX, c.R, c.G, c.B, c.W)
}
