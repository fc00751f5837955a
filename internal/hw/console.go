package hw

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"periph.io/x/extra/devices/screen"
)

// consoleChannel renders frames as a row of ANSI colour blocks on
// stdout, the zero-hardware stand-in for a real strip. White channel
// values are folded into the visible colour.
type consoleChannel struct {
	*pump
	dev *screen.Dev
}

func openConsole(o Options) (Channel, error) {
	if o.Pixels <= 0 {
		return nil, errors.New("console channel needs a pixel count")
	}
	channels := o.Channels
	if channels != 4 {
		channels = 3
	}
	dev := screen.New(o.Pixels)
	c := &consoleChannel{dev: dev}
	c.pump = newPump(o.QueueDepth(), "console", func(frame []byte) error {
		img := image.NewNRGBA(image.Rect(0, 0, o.Pixels, 1))
		for i := 0; i < o.Pixels; i++ {
			off := i * channels
			if off+channels > len(frame) {
				break
			}
			px := color.NRGBA{R: frame[off], G: frame[off+1], B: frame[off+2], A: 0xFF}
			if channels == 4 {
				px.R = addClamp(px.R, frame[off+3])
				px.G = addClamp(px.G, frame[off+3])
				px.B = addClamp(px.B, frame[off+3])
			}
			img.SetNRGBA(i, 0, px)
		}
		return dev.Draw(dev.Bounds(), img, image.Point{})
	})
	return c, nil
}

func addClamp(a, b byte) byte {
	if int(a)+int(b) > 0xFF {
		return 0xFF
	}
	return a + b
}

func (c *consoleChannel) SetPower(bool) error { return nil }

func (c *consoleChannel) Close() error {
	c.drain()
	return c.dev.Halt()
}
