package pattern

import (
	"math"
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("FADE", func() Pattern { return &fadePattern{base: RGBW{255, 255, 255, 0}} }) }

// fadePattern breathes the whole strip through a sine cycle of the base
// color, 2s per cycle at full speed. Brightness is expressed by the sine
// itself so the brightness knob is ignored.
type fadePattern struct {
	base  RGBW
	speed int
	start time.Time
}

func (p *fadePattern) Name() string { return "FADE" }

func (p *fadePattern) ApplyKnobs(k Knobs) {
	p.speed = k.Clamp().SpeedPercent
	if k.ColorSet && !k.Color.Zero() {
		p.base = k.Color
	}
}

func (p *fadePattern) Reset(_ strip.Strip, now time.Time) { p.start = now }

func (p *fadePattern) Update(s strip.Strip, now time.Time) {
	if s.HasEnablePin() {
		s.SetPowerEnabled(true)
	}
	speed := 0.01
	if p.speed > 0 {
		speed = float64(p.speed) / 100
	}
	phase := math.Mod(now.Sub(p.start).Seconds()*speed/2, 1)
	level := 0.5 * (1 + math.Sin(phase*2*math.Pi))
	r := uint8(float64(p.base.R) * level)
	g := uint8(float64(p.base.G) * level)
	b := uint8(float64(p.base.B) * level)
	w := uint8(float64(p.base.W) * level)
	for i := 0; i < s.Len(); i++ {
		s.SetPixel(i, r, g, b, w)
	}
}
