package strip

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/glowshed/stripctl/internal/hw"
)

func newTestDevice(o DeviceOpts) (*Device, *hw.Fake) {
	fake := hw.NewFake(o.Chip.PhysicalLen(o.Length) * o.Chip.BytesPerLED())
	return NewDevice(fake, o), fake
}

func TestFlushGating(t *testing.T) {
	dev, fake := newTestDevice(DeviceOpts{Pin: 4, Length: 8, Chip: WS2812})
	t0 := time.Unix(1000, 0)

	// A never-flushed strip transmits once even with dark pixels, so the
	// hardware starts from a known frame.
	assert.True(t, dev.FlushIfDirty(t0, 0))
	assert.True(t, dev.Transmitting())
	assert.Len(t, fake.Frames(), 1)

	// While a frame is in flight nothing new goes out.
	dev.SetPixel(0, 1, 2, 3, 0)
	assert.False(t, dev.FlushIfDirty(t0.Add(time.Millisecond), 0))

	fake.Complete(t0.Add(2 * time.Millisecond))
	assert.False(t, dev.Transmitting())

	// Dirty pixels flush as soon as the wire is free.
	assert.True(t, dev.FlushIfDirty(t0.Add(3*time.Millisecond), 0))
	assert.Len(t, fake.Frames(), 2)

	fake.Complete(t0.Add(4 * time.Millisecond))

	// Clean and recently flushed: nothing to do.
	assert.False(t, dev.FlushIfDirty(t0.Add(5*time.Millisecond), 0))
	assert.Len(t, fake.Frames(), 2)
}

func TestFlushSelfHealsMissedCompletion(t *testing.T) {
	dev, fake := newTestDevice(DeviceOpts{Length: 8, Chip: WS2812})
	t0 := time.Unix(1000, 0)
	estimate := WS2812.TransmitTime(8)

	assert.True(t, dev.FlushIfDirty(t0, 0))
	dev.SetPixel(0, 9, 0, 0, 0)

	// The completion callback never fires. Before the estimate elapses
	// the strip stays blocked, after it the flag clears and the dirty
	// frame goes out.
	assert.False(t, dev.FlushIfDirty(t0.Add(estimate/2), 0))
	assert.True(t, dev.FlushIfDirty(t0.Add(estimate+time.Microsecond), 0))
	assert.Len(t, fake.Frames(), 2)
}

func TestFlushQuiescentRefresh(t *testing.T) {
	dev, fake := newTestDevice(DeviceOpts{Length: 4, Chip: WS2812})
	t0 := time.Unix(1000, 0)

	assert.True(t, dev.FlushIfDirty(t0, 0))
	fake.Complete(t0.Add(time.Millisecond))

	// Clean strips retransmit only once the quiescent window expires.
	assert.False(t, dev.FlushIfDirty(t0.Add(9*time.Second), 0))
	assert.True(t, dev.FlushIfDirty(t0.Add(DefaultMaxQuiescent+time.Millisecond), 0))
	assert.Len(t, fake.Frames(), 2)
}

func TestSubmitFailureKeepsPixels(t *testing.T) {
	dev, fake := newTestDevice(DeviceOpts{Length: 4, Chip: WS2812})
	t0 := time.Unix(1000, 0)

	fake.FailNext(errors.New("queue full"))
	dev.SetPixel(2, 0xAA, 0, 0, 0)
	assert.False(t, dev.FlushIfDirty(t0, 0))
	assert.Empty(t, fake.Frames())

	// The strip backs off even after the channel recovers, then sends
	// the frame it was holding.
	fake.FailNext(nil)
	assert.False(t, dev.FlushIfDirty(t0.Add(transmitBackoff/2), 0))
	assert.True(t, dev.FlushIfDirty(t0.Add(transmitBackoff+time.Millisecond), 0))

	frame := fake.Last()
	assert.Equal(t, byte(0xAA), frame[2*3])
}

func TestDeviceFramePacking(t *testing.T) {
	dev, fake := newTestDevice(DeviceOpts{Length: 2, Chip: WS2814})
	dev.SetPixel(0, 1, 2, 3, 4)
	dev.SetPixel(1, 5, 6, 7, 8)
	assert.True(t, dev.FlushIfDirty(time.Unix(1000, 0), 0))
	assert.Equal(t, []byte{1, 4, 2, 3, 5, 8, 6, 7}, fake.Last())
}

func TestDeviceFlipdotFrame(t *testing.T) {
	dev, fake := newTestDevice(DeviceOpts{Length: 7, Chip: Flipdot})
	dev.SetPixel(0, 1, 0, 0, 0)
	dev.SetPixel(6, 0, 0, 0, 1)
	assert.True(t, dev.FlushIfDirty(time.Unix(1000, 0), 0))

	// Seven dots pack into three physical LEDs, nine driver bytes.
	assert.Equal(t, []byte{0xFF, 0, 0, 0, 0, 0, 0xFF, 0, 0}, fake.Last())
}

func TestSetPowerEnabledDedupes(t *testing.T) {
	dev, fake := newTestDevice(DeviceOpts{Length: 4, Chip: WS2812, EnablePin: true})

	dev.SetPowerEnabled(true)
	dev.SetPowerEnabled(true)
	on, ops := fake.Power()
	assert.True(t, on)
	assert.Equal(t, 1, ops)

	dev.SetPowerEnabled(false)
	on, ops = fake.Power()
	assert.False(t, on)
	assert.Equal(t, 2, ops)

	// Without an enable pin the channel is never touched.
	plain, plainFake := newTestDevice(DeviceOpts{Length: 4, Chip: WS2812})
	plain.SetPowerEnabled(true)
	_, ops = plainFake.Power()
	assert.Equal(t, 0, ops)
}
