package pattern

import (
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() {
	Register("CHASE", func() Pattern {
		return &chasePattern{speed: 50, brightness: 100, base: RGBW{255, 255, 255, 0}, lastIdx: -1}
	})
}

// chasePattern runs a single lit pixel along the strip. The step period
// shrinks from 800ms at speed 0 to the 20ms floor near speed 100; the
// strip is only repainted on the tick where the pixel moves.
type chasePattern struct {
	speed      int
	brightness int
	base       RGBW
	start      time.Time
	lastIdx    int
}

func (p *chasePattern) Name() string { return "CHASE" }

func (p *chasePattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.speed = k.SpeedPercent
	p.brightness = k.BrightnessPercent
	if k.ColorSet && !k.Color.Zero() {
		p.base = k.Color
	}
}

func (p *chasePattern) Reset(_ strip.Strip, now time.Time) {
	p.start = now
	p.lastIdx = -1
}

func (p *chasePattern) Update(s strip.Strip, now time.Time) {
	if s.HasEnablePin() {
		s.SetPowerEnabled(true)
	}
	total := s.Len()
	if total == 0 {
		return
	}
	step := time.Duration(800000-p.speed*7700) * time.Microsecond
	if step < 20*time.Millisecond {
		step = 20 * time.Millisecond
	}
	idx := int(now.Sub(p.start)/step) % total
	if idx == p.lastIdx {
		return
	}
	p.lastIdx = idx
	c := scaleColor(p.base, p.brightness)
	s.Clear()
	s.SetPixel(idx, c.R, c.G, c.B, c.W)
}
