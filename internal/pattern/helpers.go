package pattern

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// scaleChannel applies a 0..100 percentage to a single channel value.
func scaleChannel(c uint8, percent int) uint8 {
	return uint8(int(c) * clampPercent(percent) / 100)
}

func scaleColor(c RGBW, percent int) RGBW {
	if percent >= 100 {
		return c
	}
	return RGBW{
		R: scaleChannel(c.R, percent),
		G: scaleChannel(c.G, percent),
		B: scaleChannel(c.B, percent),
		W: scaleChannel(c.W, percent),
	}
}

// hsvColor converts a hue in degrees, at full saturation and value, to
// channel bytes. The white channel stays zero so color patterns look the
// same on RGB and RGBW chips.
func hsvColor(hue float64) RGBW {
	r, g, b := colorful.Hsv(hue, 1, 1).RGB255()
	return RGBW{R: r, G: g, B: b}
}
