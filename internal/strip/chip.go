package strip

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Chip identifies the LED driver silicon on a strip. It decides how many
// driver bytes each addressable unit takes and how logical RGBW channels
// are ordered on the wire.
type Chip uint8

const (
	// WS2812 is the common 3-channel chip, GRB on the wire.
	WS2812 Chip = iota
	// SK6812 adds a dedicated white channel, GRBW on the wire.
	SK6812
	// WS2814 is RGBW silicon whose channel wiring differs from the driver's
	// native GRBW order; desired colors are remapped before serialization.
	WS2814
	// Flipdot is a mechanical dot panel: one on/off byte per logical dot,
	// three logical dots packed into one physical LED frame slot.
	Flipdot
)

const (
	// nrzBitPeriod is the on-wire duration of one NRZ data bit (800 kHz).
	nrzBitPeriod = 1250 * time.Nanosecond
	// resetGap is the latch gap appended after every frame.
	resetGap = 80 * time.Microsecond
)

func ParseChip(s string) (Chip, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "WS2812", "WS2812B":
		return WS2812, nil
	case "SK6812":
		return SK6812, nil
	case "WS2814":
		return WS2814, nil
	case "FLIPDOT":
		return Flipdot, nil
	}
	return WS2812, errors.Errorf("unknown chip %q", s)
}

func (c Chip) String() string {
	switch c {
	case SK6812:
		return "SK6812"
	case WS2814:
		return "WS2814"
	case Flipdot:
		return "FLIPDOT"
	default:
		return "WS2812"
	}
}

// HasWhite reports whether the chip carries a usable white channel.
func (c Chip) HasWhite() bool { return c == SK6812 || c == WS2814 }

// BytesPerLED is the driver payload size per physical LED.
func (c Chip) BytesPerLED() int {
	switch c {
	case SK6812, WS2814:
		return 4
	default:
		return 3
	}
}

// BitsPerLED is the number of NRZ bits per physical LED on the wire.
func (c Chip) BitsPerLED() int { return c.BytesPerLED() * 8 }

// PhysicalLen converts a logical pixel count to physical LEDs. Flipdot
// packs three logical dots per physical LED; everything else is 1:1.
func (c Chip) PhysicalLen(logical int) int {
	if c == Flipdot {
		return (logical + 2) / 3
	}
	return logical
}

// TransmitTime returns the expected on-wire time for one frame of the
// given logical length, including the reset gap.
func (c Chip) TransmitTime(logical int) time.Duration {
	bits := time.Duration(c.BitsPerLED()) * time.Duration(c.PhysicalLen(logical))
	return bits*nrzBitPeriod + resetGap
}

// AppendFrame serializes the logical RGBA buffer (4 bytes per logical
// pixel) into the per-LED argument stream the NRZ driver consumes and
// appends it to dst. The driver owns the final wire order (GRB/GRBW), so
// LED chips pass channels through in logical order.
//
// WS2814 carries RGBW data but its channels sit on different wire slots
// than SK6812: handing the GRBW serializer argR=R, argG=W, argB=G, argW=B
// lands W,R,G,B on the wire, which is what the chip expects.
func (c Chip) AppendFrame(dst []byte, rgba []byte) []byte {
	n := len(rgba) / 4
	switch c {
	case SK6812:
		for i := 0; i < n; i++ {
			px := rgba[i*4 : i*4+4]
			dst = append(dst, px[0], px[1], px[2], px[3])
		}
	case WS2814:
		for i := 0; i < n; i++ {
			px := rgba[i*4 : i*4+4]
			dst = append(dst, px[0], px[3], px[1], px[2])
		}
	case Flipdot:
		// Three logical dots fill one physical LED's R,G,B slots; the
		// tail group is zero-padded.
		for i := 0; i < n; i += 3 {
			var grp [3]byte
			for j := 0; j < 3 && i+j < n; j++ {
				if rgba[(i+j)*4] != 0 {
					grp[j] = 0xFF
				}
			}
			dst = append(dst, grp[0], grp[1], grp[2])
		}
	default: // WS2812
		for i := 0; i < n; i++ {
			px := rgba[i*4 : i*4+4]
			dst = append(dst, px[0], px[1], px[2])
		}
	}
	return dst
}
