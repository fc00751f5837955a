package transition

import (
	"time"

	"github.com/glowshed/stripctl/internal/pattern"
	"github.com/glowshed/stripctl/internal/strip"
)

// expandTransition grows the incoming pattern outward from the strip
// midpoint. The center pixel flips immediately; the far edge flips last.
type expandTransition struct {
	base
}

func (t *expandTransition) Name() string { return "EXPAND" }

func (t *expandTransition) Update(s strip.Strip, from, to pattern.Pattern, now time.Time) bool {
	return t.run(s, from, to, now, func(i int, p float64) bool {
		maxRadius := t.length / 2
		radius := int(p * float64(maxRadius+1))
		return centerDistance(t.length, i) <= radius
	})
}

// contractTransition is the inverse: the incoming pattern closes in from
// both edges toward the midpoint.
type contractTransition struct {
	base
}

func (t *contractTransition) Name() string { return "CONTRACT" }

func (t *contractTransition) Update(s strip.Strip, from, to pattern.Pattern, now time.Time) bool {
	return t.run(s, from, to, now, func(i int, p float64) bool {
		maxRadius := t.length / 2
		radius := maxRadius - int(p*float64(maxRadius+1))
		return centerDistance(t.length, i) > radius
	})
}

// centerDistance is the pixel distance from the strip midpoint. The
// midpoint sits at length/2, which is also the distance to the farther
// edge for both parities.
func centerDistance(length, i int) int {
	c := length / 2
	if i <= c {
		return c - i
	}
	return i - c
}
