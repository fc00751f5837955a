package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/glowshed/stripctl/internal/strip"
)

func TestFadeBreathes(t *testing.T) {
	p, err := New("FADE")
	if err != nil {
		t.Fatalf("New(FADE): %v", err)
	}
	p.ApplyKnobs(Knobs{SpeedPercent: 50, BrightnessPercent: 100, Color: RGBW{R: 255}, ColorSet: true, Restart: true})

	s := strip.NewBufferDims(1, 6, strip.WS2812, 1, 6)
	t0 := time.Unix(8000, 0)
	p.Reset(s, t0)

	// Speed 50 runs a four second cycle starting at the midpoint.
	p.Update(s, t0)
	r, _, _, _, _ := s.Pixel(0)
	assert.Equal(t, byte(127), r, "cycle starts at half level")

	p.Update(s, t0.Add(time.Second))
	r, _, _, _, _ = s.Pixel(0)
	assert.GreaterOrEqual(t, r, byte(254), "peak one second in")

	p.Update(s, t0.Add(3*time.Second))
	assert.Zero(t, litCount(s), "trough three seconds in")

	// Every pixel breathes together.
	p.Update(s, t0.Add(5*time.Second))
	first, _, _, _, _ := s.Pixel(0)
	for i := 1; i < s.Len(); i++ {
		ri, _, _, _, _ := s.Pixel(i)
		assert.Equal(t, first, ri, "pixel %d matches pixel 0", i)
	}
	assert.GreaterOrEqual(t, first, byte(254), "next peak four seconds later")
}
