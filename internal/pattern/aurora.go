package pattern

import (
	"math"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("AURORA", func() Pattern { return &auroraPattern{speed: 50, brightness: 100} }) }

// auroraPalette runs green through violet into the rare pink and orange
// fringes, in rough order of how often each shows in a real aurora.
var auroraPalette = []colorful.Color{
	auroraRGB(0, 255, 146),
	auroraRGB(0, 255, 100),
	auroraRGB(50, 255, 50),
	auroraRGB(0, 150, 255),
	auroraRGB(100, 50, 255),
	auroraRGB(150, 0, 255),
	auroraRGB(255, 50, 150),
	auroraRGB(255, 100, 0),
}

func auroraRGB(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// auroraPattern drifts a looping palette gradient along the strip while
// layered sine "curtains" modulate brightness, with a power curve to
// push the bright bands brighter and the gaps darker. Adjacent palette
// stops are blended in Lab so the gradient holds perceived lightness
// between stops.
type auroraPattern struct {
	speed      int
	brightness int
	start      time.Time
}

func (p *auroraPattern) Name() string { return "AURORA" }

func (p *auroraPattern) ApplyKnobs(k Knobs) {
	k = k.Clamp()
	p.speed = k.SpeedPercent
	p.brightness = k.BrightnessPercent
}

func (p *auroraPattern) Reset(_ strip.Strip, now time.Time) { p.start = now }

func (p *auroraPattern) Update(s strip.Strip, now time.Time) {
	total := s.Len()
	if total == 0 {
		return
	}
	speed := 0.01
	if p.speed > 0 {
		speed = float64(p.speed) / 100
	}
	t := now.Sub(p.start).Seconds() * speed

	n := len(auroraPalette)
	for i := 0; i < total; i++ {
		position := float64(i) / float64(total)

		// Scaling by n rather than n-1 lets the gradient wrap seamlessly.
		colorPos := math.Mod(position*2+t*0.1, 1)
		indexF := colorPos * float64(n)
		idx := int(indexF) % n
		next := (idx + 1) % n
		base := auroraPalette[idx].BlendLab(auroraPalette[next], indexF-math.Floor(indexF)).Clamped()

		level := auroraLevel(position*10, t)
		r, g, b := base.RGB255()
		c := scaleColor(RGBW{
			R: uint8(float64(r) * level),
			G: uint8(float64(g) * level),
			B: uint8(float64(b) * level),
		}, p.brightness)
		s.SetPixel(i, c.R, c.G, c.B, 0)
	}
}

// auroraLevel layers slow waves, two counter-moving hotspots, and a
// breathing term, then applies a power curve for contrast. The result
// stays in [0.02, 1].
func auroraLevel(position, t float64) float64 {
	combined := math.Sin(position*0.4+t*0.25)*0.6 +
		math.Sin(position*1.1+t*0.6)*0.4 +
		math.Sin(position*2.3+t*0.15)*0.3 +
		math.Sin(position*0.8-t*0.4)*0.5 +
		math.Sin(position*1.5+t*0.3)*0.4 +
		math.Sin(t*0.8)*0.2

	normalized := 0.05 + (combined+2)*0.475
	if normalized < 0 {
		normalized = 0
	}
	contrast := math.Pow(normalized, 1.8)
	return math.Max(0.02, math.Min(1, contrast))
}
