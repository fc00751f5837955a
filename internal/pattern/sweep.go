package pattern

import (
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("SWEEP", func() Pattern { return &sweepPattern{targetBrightness: 100} }) }

// sweepPattern repaints the strip front-to-back whenever the configured
// color or brightness changes, taking `speed` whole seconds to cross.
// Brightness uses the same spatial duty as SOLID, applied independently
// to the already-swept and not-yet-swept populations, so a sweep between
// two dim levels keeps both sides evenly dithered.
type sweepPattern struct {
	target           RGBW
	targetBrightness int
	speed            int

	base           RGBW
	baseBrightness int
	lastTarget     RGBW
	lastBrightness int

	length     int
	sweeping   bool
	sweepStart time.Time
	sweepTime  time.Duration
}

func (p *sweepPattern) Name() string { return "SWEEP" }

func (p *sweepPattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.speed = k.SpeedPercent
	p.targetBrightness = k.BrightnessPercent
	if k.ColorSet {
		p.target = k.Color
	}
}

func (p *sweepPattern) Reset(s strip.Strip, now time.Time) {
	p.length = s.Len()
	p.sweepStart = now
	p.sweepTime = 0
	// The first change sweeps up from an all-off baseline.
	p.base = RGBW{}
	p.baseBrightness = 0
	p.lastTarget = p.target
	p.lastBrightness = p.targetBrightness
	p.sweeping = false
}

func (p *sweepPattern) Update(s strip.Strip, now time.Time) {
	if s.Len() != p.length {
		p.length = s.Len()
	}
	if p.length == 0 {
		return
	}

	if p.target != p.lastTarget || p.targetBrightness != p.lastBrightness {
		p.sweepStart = now
		p.sweepTime = p.duration()
		p.lastTarget = p.target
		p.lastBrightness = p.targetBrightness
		p.sweeping = true
	}
	if !p.sweeping {
		return
	}
	if p.sweepTime == 0 {
		p.sweepTime = p.duration()
	}

	frac := float64(now.Sub(p.sweepStart)) / float64(p.sweepTime)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	sweepPos := int(float64(p.length) * frac)
	if sweepPos > p.length {
		sweepPos = p.length
	}

	total := p.length
	onPrev := total * p.baseBrightness / 100
	onNew := total * p.targetBrightness / 100
	accPrev, accNew := 0, 0
	for i := 0; i < total; i++ {
		prevOn := dutyStep(p.baseBrightness, onPrev, total, &accPrev)
		newOn := dutyStep(p.targetBrightness, onNew, total, &accNew)
		switch {
		case i < sweepPos && newOn:
			s.SetPixel(i, p.target.R, p.target.G, p.target.B, p.target.W)
		case i >= sweepPos && prevOn:
			s.SetPixel(i, p.base.R, p.base.G, p.base.B, p.base.W)
		default:
			s.SetPixel(i, 0, 0, 0, 0)
		}
	}

	if sweepPos >= p.length {
		p.base = p.target
		p.baseBrightness = p.targetBrightness
		p.sweeping = false
	}
}

// duration interprets the speed knob as whole seconds per sweep.
func (p *sweepPattern) duration() time.Duration {
	seconds := p.speed
	if seconds <= 0 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

// dutyStep advances one pixel of SOLID's even-spacing accumulator and
// reports whether this pixel is lit at the given brightness duty.
func dutyStep(brightness, onCount, total int, acc *int) bool {
	if brightness <= 0 {
		return false
	}
	if brightness >= 100 {
		return true
	}
	*acc += onCount
	if *acc >= total {
		*acc -= total
		return true
	}
	return false
}
