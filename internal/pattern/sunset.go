package pattern

import (
	"math"
	"math/rand"
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("SUNSET", func() Pattern { return &sunsetPattern{speed: 50, brightness: 100} }) }

// sunsetPattern overlays three wide Gaussian lobes (orange, deep red,
// pink) that drift sinusoidally around the strip with randomized phase
// and a little per-lobe speed jitter, under a slow breathing intensity
// modulation. Channel sums are normalized so overlapping lobes saturate
// to the brightest lobe instead of clipping to white.
type sunsetPattern struct {
	speed      int
	brightness int

	length int
	start  time.Time
	lobes  []sunsetLobe
}

type sunsetLobe struct {
	baseCenter float64
	amplitude  float64
	phase      float64
	speed      float64 // rad/s
	r, g, b    float64
}

func (p *sunsetPattern) Name() string { return "SUNSET" }

func (p *sunsetPattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.speed = k.SpeedPercent
	p.brightness = k.BrightnessPercent
}

func (p *sunsetPattern) Reset(s strip.Strip, now time.Time) {
	p.length = s.Len()
	p.start = now
	p.initLobes()
}

func (p *sunsetPattern) initLobes() {
	p.lobes = p.lobes[:0]
	if p.length == 0 {
		return
	}
	colors := [3][3]float64{
		{255, 120, 0},  // orange
		{255, 40, 0},   // red
		{255, 90, 160}, // pink
	}
	length := float64(p.length)
	for i := 0; i < 3; i++ {
		p.lobes = append(p.lobes, sunsetLobe{
			baseCenter: length * float64(i+1) / 4,
			amplitude:  length * 0.25,
			phase:      rand.Float64() * 2 * math.Pi,
			speed:      0.03 + (rand.Float64()-0.5)*0.02,
			r:          colors[i][0],
			g:          colors[i][1],
			b:          colors[i][2],
		})
	}
}

// effectiveTime scales elapsed wall time by the speed knob, 0.2x at
// speed 0 up to 2x at speed 100.
func (p *sunsetPattern) effectiveTime(now time.Time) float64 {
	t := now.Sub(p.start).Seconds()
	if t < 0 {
		t = 0
	}
	return t * (0.2 + float64(p.speed)/100*1.8)
}

func (p *sunsetPattern) Update(s strip.Strip, now time.Time) {
	p.length = s.Len()
	if p.length == 0 || len(p.lobes) == 0 {
		return
	}

	t := p.effectiveTime(now)
	length := float64(p.length)
	breathe := 0.75 + 0.25*math.Sin(t*0.25)
	globalScale := float64(p.brightness) / 100 * breathe
	sigma := length * 0.25

	for i := 0; i < p.length; i++ {
		pos := float64(i)
		var sumR, sumG, sumB float64

		for _, l := range p.lobes {
			center := l.baseCenter + l.amplitude*math.Sin(l.speed*t+l.phase)
			if center < 0 {
				center += length
			}
			if center >= length {
				center -= length
			}
			dist := math.Abs(pos - center)
			if dist > length*0.5 {
				dist = length - dist
			}
			x := dist / sigma
			weight := math.Exp(-0.5 * x * x)
			sumR += l.r * weight
			sumG += l.g * weight
			sumB += l.b * weight
		}

		if maxC := math.Max(math.Max(sumR, sumG), math.Max(sumB, 1)); maxC > 255 {
			inv := 255 / maxC
			sumR *= inv
			sumG *= inv
			sumB *= inv
		}
		sumR *= globalScale
		sumG *= globalScale
		sumB *= globalScale

		s.SetPixel(i, clampByte(sumR), clampByte(sumG), clampByte(sumB), 0)
	}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
