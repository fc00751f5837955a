package pattern

import (
	"math"
	"math/rand"
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("METEOR", func() Pattern { return &meteorPattern{durationSeconds: 10, brightness: 100} }) }

// activeMeteorTarget is the number of concurrent shells the spawner aims
// for; spawn spacing of duration/target keeps their starts staggered.
const activeMeteorTarget = 5

// meteorPattern pops bright white shells at random positions. A shell
// starts as a single pixel, expands to a fifth of the strip, and fades
// out over its lifetime; overlapping shells take the per-pixel maximum.
// The speed knob is the shell lifetime in seconds.
type meteorPattern struct {
	durationSeconds int
	brightness      int

	length    int
	lastSpawn time.Time
	meteors   []meteor
}

type meteor struct {
	start  time.Time
	center float64
}

func (p *meteorPattern) Name() string { return "METEOR" }

func (p *meteorPattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.durationSeconds = k.SpeedPercent
	p.brightness = k.BrightnessPercent
}

func (p *meteorPattern) Reset(s strip.Strip, now time.Time) {
	p.length = s.Len()
	p.meteors = p.meteors[:0]
	p.lastSpawn = now
}

func (p *meteorPattern) lifetime() time.Duration {
	s := p.durationSeconds
	if s <= 0 {
		s = 1
	}
	return time.Duration(s) * time.Second
}

func (p *meteorPattern) Update(s strip.Strip, now time.Time) {
	p.length = s.Len()
	if p.length == 0 {
		return
	}
	if p.brightness <= 0 {
		s.Clear()
		p.meteors = p.meteors[:0]
		return
	}

	dur := p.lifetime()

	live := p.meteors[:0]
	for _, m := range p.meteors {
		if now.Sub(m.start) < dur {
			live = append(live, m)
		}
	}
	p.meteors = live

	if len(p.meteors) < activeMeteorTarget && now.Sub(p.lastSpawn) >= dur/activeMeteorTarget {
		p.meteors = append(p.meteors, meteor{start: now, center: float64(rand.Intn(p.length))})
		p.lastSpawn = now
	}

	scale := float64(p.brightness) / 100
	maxRadius := math.Max(2, float64(p.length)*0.2)
	for i := 0; i < p.length; i++ {
		best := 0.0
		pos := float64(i)
		for _, m := range p.meteors {
			prog := float64(now.Sub(m.start)) / float64(dur)
			if prog >= 1 {
				continue
			}
			radius := maxRadius * prog
			dist := math.Abs(pos - m.center)
			if dist > radius {
				continue
			}
			// Strongest at the shell center, gone at the rim, fading as
			// the shell ages.
			amp := (1 - dist/(radius+1)) * (1 - prog)
			if amp > best {
				best = amp
			}
		}
		if best <= 0 {
			s.SetPixel(i, 0, 0, 0, 0)
			continue
		}
		v := best * scale
		if v > 1 {
			v = 1
		}
		val := uint8(v*255 + 0.5)
		s.SetPixel(i, val, val, val, 0)
	}
}
