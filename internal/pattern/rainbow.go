package pattern

import (
	"math"
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("RAINBOW", func() Pattern { return &rainbowPattern{speed: 50, brightness: 100} }) }

// rainbowPattern spreads a full hue wheel across the strip and rotates
// it at 60 degrees per second, scaled by the speed knob.
type rainbowPattern struct {
	speed      int
	brightness int
	start      time.Time
}

func (p *rainbowPattern) Name() string { return "RAINBOW" }

func (p *rainbowPattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.speed = k.SpeedPercent
	p.brightness = k.BrightnessPercent
}

func (p *rainbowPattern) Reset(_ strip.Strip, now time.Time) { p.start = now }

func (p *rainbowPattern) Update(s strip.Strip, now time.Time) {
	if s.HasEnablePin() {
		s.SetPowerEnabled(true)
	}
	total := s.Len()
	if total == 0 {
		return
	}
	speed := 0.01
	if p.speed > 0 {
		speed = float64(p.speed) / 100
	}
	t := now.Sub(p.start).Seconds() * speed
	for i := 0; i < total; i++ {
		hue := math.Mod(float64(i)*360/float64(total)+t*60, 360)
		c := scaleColor(hsvColor(hue), p.brightness)
		s.SetPixel(i, c.R, c.G, c.B, 0)
	}
}
