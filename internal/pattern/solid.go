package pattern

import (
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("SOLID", func() Pattern { return &solidPattern{brightness: 100} }) }

// solidPattern expresses brightness spatially: p% lights exactly
// floor(len*p/100) pixels at the raw configured color, spaced as evenly
// as the integer grid allows. A nonzero speed walks the lit set along
// the strip. Nothing draws until a color is configured.
type solidPattern struct {
	color      RGBW
	colorSet   bool
	speed      int
	brightness int

	offset      int
	lastAdvance time.Time
}

func (p *solidPattern) Name() string { return "SOLID" }

func (p *solidPattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.speed = k.SpeedPercent
	p.brightness = k.BrightnessPercent
	if k.ColorSet {
		p.color = k.Color
		p.colorSet = true
	}
}

func (p *solidPattern) Reset(strip.Strip, time.Time) {}

func (p *solidPattern) Update(s strip.Strip, now time.Time) {
	if s.HasEnablePin() {
		s.SetPowerEnabled(true)
	}
	if !p.colorSet {
		return
	}
	total := s.Len()
	if total == 0 {
		return
	}
	if p.brightness <= 0 {
		s.Clear()
		return
	}
	if p.brightness >= 100 {
		p.fill(s, total)
		return
	}

	onCount := total * p.brightness / 100
	if onCount <= 0 {
		s.Clear()
		return
	}
	if onCount >= total {
		p.fill(s, total)
		return
	}

	if p.shouldAdvance(now) {
		p.offset = (p.offset + 1) % total
		p.lastAdvance = now
	}

	// Bresenham-style accumulator keeps the lit pixels evenly spaced for
	// any onCount/total ratio.
	acc := 0
	for i := 0; i < total; i++ {
		pos := (i + p.offset) % total
		acc += onCount
		if acc >= total {
			acc -= total
			s.SetPixel(pos, p.color.R, p.color.G, p.color.B, p.color.W)
		} else {
			s.SetPixel(pos, 0, 0, 0, 0)
		}
	}
}

func (p *solidPattern) fill(s strip.Strip, total int) {
	for i := 0; i < total; i++ {
		s.SetPixel(i, p.color.R, p.color.G, p.color.B, p.color.W)
	}
}

func (p *solidPattern) shouldAdvance(now time.Time) bool {
	if p.speed <= 0 {
		return false
	}
	if p.speed >= 100 {
		return true
	}
	return p.lastAdvance.IsZero() || now.Sub(p.lastAdvance) >= chaseStepInterval(p.speed)
}

// chaseStepInterval maps speed 1..99 onto 200ms down to 10ms per step.
func chaseStepInterval(speed int) time.Duration {
	iv := 200*time.Millisecond - 190*time.Millisecond*time.Duration(speed)/100
	if iv < 10*time.Millisecond {
		iv = 10 * time.Millisecond
	}
	return iv
}
