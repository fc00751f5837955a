package pattern

import (
	"math"
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() {
	Register("COLOR_ROTATION", func() Pattern { return &colorRotationPattern{speed: 50, brightness: 100} })
}

// colorRotationPattern paints the whole strip one hue and walks that hue
// around the wheel. The speed knob compresses both the timebase and the
// cycle length, so perceived rotation grows quadratically with speed.
type colorRotationPattern struct {
	speed      int
	brightness int
	start      time.Time
}

func (p *colorRotationPattern) Name() string { return "COLOR_ROTATION" }

func (p *colorRotationPattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.speed = k.SpeedPercent
	p.brightness = k.BrightnessPercent
}

func (p *colorRotationPattern) Reset(_ strip.Strip, now time.Time) { p.start = now }

func (p *colorRotationPattern) Update(s strip.Strip, now time.Time) {
	speed := 0.01
	if p.speed > 0 {
		speed = float64(p.speed) / 100
	}
	t := now.Sub(p.start).Seconds() * speed
	cycle := 10 / speed
	hue := math.Mod(t*360/cycle, 360)
	c := scaleColor(hsvColor(hue), p.brightness)
	for i := 0; i < s.Len(); i++ {
		s.SetPixel(i, c.R, c.G, c.B, 0)
	}
}
