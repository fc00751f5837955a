package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/glowshed/stripctl/internal/strip"
)

func singleLit(t *testing.T, s strip.Strip) int {
	t.Helper()
	idx := -1
	for i := 0; i < s.Len(); i++ {
		r, g, b, w, _ := s.Pixel(i)
		if r|g|b|w != 0 {
			if idx != -1 {
				t.Fatalf("more than one lit pixel: %d and %d", idx, i)
			}
			idx = i
		}
	}
	return idx
}

func TestChaseSinglePixelAdvances(t *testing.T) {
	p, err := New("CHASE")
	if err != nil {
		t.Fatalf("New(CHASE): %v", err)
	}
	p.ApplyKnobs(Knobs{SpeedPercent: 100, BrightnessPercent: 100, Color: RGBW{R: 255}, ColorSet: true, Restart: true})

	s := &countingStrip{Strip: strip.NewBufferDims(1, 10, strip.WS2812, 1, 10)}
	t0 := time.Unix(9000, 0)
	p.Reset(s, t0)

	// Speed 100 steps every 30ms.
	p.Update(s, t0)
	assert.Equal(t, 0, singleLit(t, s))

	p.Update(s, t0.Add(30*time.Millisecond))
	assert.Equal(t, 1, singleLit(t, s))

	// Between steps the frame is left alone.
	before := s.writes
	p.Update(s, t0.Add(45*time.Millisecond))
	assert.Equal(t, before, s.writes)
	assert.Equal(t, 1, singleLit(t, s))

	// One full lap wraps back to the head.
	p.Update(s, t0.Add(300*time.Millisecond))
	assert.Equal(t, 0, singleLit(t, s))
}
