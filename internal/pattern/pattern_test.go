package pattern

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/glowshed/stripctl/internal/strip"
)

func litCount(s strip.Strip) int {
	n := 0
	for i := 0; i < s.Len(); i++ {
		r, g, b, w, _ := s.Pixel(i)
		if r|g|b|w != 0 {
			n++
		}
	}
	return n
}

func TestRegistryLookup(t *testing.T) {
	p, err := New("solid")
	assert.NoError(t, err)
	assert.Equal(t, "SOLID", p.Name())

	p, err = New("  Life ")
	assert.NoError(t, err)
	assert.Equal(t, "LIFE", p.Name())

	_, err = New("NOPE")
	if err == nil {
		t.Fatal("expected an error for an unknown pattern")
	}
	assert.Contains(t, err.Error(), "unknown pattern")
	assert.Contains(t, err.Error(), "SOLID")
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	assert.True(t, sort.StringsAreSorted(names), "Names() must be sorted: %v", names)

	want := []string{
		"AURORA", "CALENDAR", "CHASE", "CLOCK", "COLOR_ROTATION",
		"CROSS_FADE", "FADE", "LIFE", "MARQUEE", "METEOR", "OFF",
		"POSITION", "RAINBOW", "SOLID", "STATUS", "SUMMARY", "SUNSET",
		"SWEEP",
	}
	assert.Equal(t, want, names)
}

func TestKnobsClamp(t *testing.T) {
	cases := []struct {
		name     string
		in       Knobs
		outSpeed int
		outBri   int
	}{
		{"in range", Knobs{SpeedPercent: 30, BrightnessPercent: 70}, 30, 70},
		{"negative", Knobs{SpeedPercent: -5, BrightnessPercent: -1}, 0, 0},
		{"too high", Knobs{SpeedPercent: 250, BrightnessPercent: 101}, 100, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Clamp()
			assert.Equal(t, tc.outSpeed, got.SpeedPercent)
			assert.Equal(t, tc.outBri, got.BrightnessPercent)
		})
	}
}

func TestDefaultKnobs(t *testing.T) {
	k := DefaultKnobs()
	assert.Equal(t, 50, k.SpeedPercent)
	assert.Equal(t, 100, k.BrightnessPercent)
	assert.True(t, k.Restart)
	assert.False(t, k.ColorSet)
}

// Every registered pattern must survive a reset and a handful of updates
// on both a square panel and a bare strip without panicking.
func TestCatalogRendersEverywhere(t *testing.T) {
	grids := []struct {
		name       string
		rows, cols int
	}{
		{"panel16x16", 16, 16},
		{"strip1x10", 1, 10},
	}
	for _, g := range grids {
		for _, name := range Names() {
			t.Run(g.name+"/"+name, func(t *testing.T) {
				p, err := New(name)
				if err != nil {
					t.Fatalf("New(%s): %v", name, err)
				}
				k := DefaultKnobs()
				k.Color = RGBW{R: 200, G: 40, B: 10}
				k.ColorSet = true
				k.Start = "HI"
				p.ApplyKnobs(k)

				s := strip.NewBufferDims(4, g.rows*g.cols, strip.SK6812, g.rows, g.cols)
				now := time.Date(2026, 8, 23, 10, 30, 15, 0, time.UTC)
				p.Reset(s, now)
				for i := 0; i < 5; i++ {
					now = now.Add(250 * time.Millisecond)
					p.Update(s, now)
				}
			})
		}
	}
}

func TestOffClearsEveryTick(t *testing.T) {
	p, err := New("OFF")
	if err != nil {
		t.Fatal(err)
	}
	s := strip.NewBufferDims(1, 8, strip.WS2812, 1, 8)
	s.SetPixel(3, 10, 20, 30, 0)

	p.Update(s, time.Now())
	assert.Zero(t, litCount(s))
}

func TestStatusFollowsProvider(t *testing.T) {
	defer SetLinkStateProvider(nil)
	state := LinkConnecting
	SetLinkStateProvider(func() LinkState { return state })

	p, err := New("STATUS")
	if err != nil {
		t.Fatal(err)
	}
	s := strip.NewBufferDims(1, 4, strip.WS2812, 1, 4)

	p.Update(s, time.Now())
	r, g, b, _, _ := s.Pixel(0)
	assert.Equal(t, [3]byte{0, 0, 64}, [3]byte{r, g, b}, "connecting shows blue")

	state = LinkBrokerError
	p.Update(s, time.Now())
	r, g, b, _, _ = s.Pixel(0)
	assert.Equal(t, [3]byte{64, 0, 0}, [3]byte{r, g, b}, "broker error shows red")

	state = LinkReady
	p.Update(s, time.Now())
	r, g, b, _, _ = s.Pixel(0)
	assert.Equal(t, [3]byte{0, 64, 0}, [3]byte{r, g, b}, "ready shows green")
}

func TestCanonicalNames(t *testing.T) {
	assert.Equal(t, "COLOR_ROTATION", Canonical("color_rotation"))
	assert.Equal(t, "LIFE", Canonical("\tlife\n"))
	assert.True(t, strings.HasPrefix(Canonical("SOLIDx"), "SOLID"))
}
