package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/glowshed/stripctl/internal/strip"
)

func TestMarqueeStepInterval(t *testing.T) {
	cases := []struct {
		speed int
		want  time.Duration
	}{
		{0, 800 * time.Millisecond},
		{50, 415 * time.Millisecond},
		{100, 30 * time.Millisecond},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, marqueeStepInterval(tc.speed), "speed %d", tc.speed)
	}
}

func TestMarqueeScrollsTextIn(t *testing.T) {
	p, err := New("MARQUEE")
	if err != nil {
		t.Fatalf("New(MARQUEE): %v", err)
	}
	p.ApplyKnobs(Knobs{SpeedPercent: 50, BrightnessPercent: 100, Start: "HI", Restart: true})

	s := &countingStrip{Strip: strip.NewBufferDims(1, 256, strip.SK6812, 16, 16)}
	t0 := time.Unix(7000, 0)
	p.Reset(s, t0)
	// The leading screen-width pad means a fresh marquee starts blank.
	assert.Zero(t, litCount(s))
	after := s.writes
	assert.NotZero(t, after, "reset paints the initial frame")

	// Before the step interval elapses nothing advances or repaints.
	p.Update(s, t0.Add(100*time.Millisecond))
	assert.Equal(t, after, s.writes)

	// Two steps bring the first glyph column onto the right edge.
	p.Update(s, t0.Add(500*time.Millisecond))
	assert.Zero(t, litCount(s), "first step still inside the pad")
	p.Update(s, t0.Add(1000*time.Millisecond))
	assert.NotZero(t, litCount(s), "text enters from the right")

	// Same start string keeps the scroll position across knob pushes.
	p.ApplyKnobs(Knobs{SpeedPercent: 50, BrightnessPercent: 40, Start: "HI", Restart: true})
	p.Update(s, t0.Add(1500*time.Millisecond))
	assert.NotZero(t, litCount(s), "text keeps scrolling after a brightness tweak")

	// A new start string rewinds to the leading pad.
	p.ApplyKnobs(Knobs{SpeedPercent: 50, BrightnessPercent: 100, Start: "YO", Restart: true})
	p.Update(s, t0.Add(2000*time.Millisecond))
	assert.Zero(t, litCount(s), "new message starts back inside the pad")
}
