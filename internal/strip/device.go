package strip

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/glowshed/stripctl/internal/hw"
)

// transmitBackoff is how long a strip sits out after the channel
// rejects a frame. The pixels stay dirty so nothing is lost.
const transmitBackoff = 100 * time.Millisecond

// DeviceOpts carries the geometry and wiring of one physical strip.
type DeviceOpts struct {
	Pin         int
	Length      int
	Chip        Chip
	Rows        int
	Cols        int
	Layout      Layout
	SegmentRows int
	DMA         bool
	EnablePin   bool
}

// Device is a Strip bound to a hardware channel. Pixel writes happen on
// the render goroutine; only the transmit bookkeeping is shared with the
// channel's completion callback, so that is all the mutex covers.
type Device struct {
	grid
	ch        hw.Channel
	dma       bool
	enablePin bool
	log       zerolog.Logger

	// wire is the reusable packing buffer handed to the channel. The
	// channel copies it, so one buffer per strip is enough.
	wire []byte

	powerKnown bool
	powerOn    bool

	mu           sync.Mutex
	transmitting bool
	lastFlush    time.Time
	expectedDone time.Time
	retryAfter   time.Time
}

// NewDevice wraps a channel in a Strip and registers for its completion
// callbacks.
func NewDevice(ch hw.Channel, o DeviceOpts) *Device {
	d := &Device{
		grid:      newGrid(o.Pin, o.Length, o.Chip, o.Rows, o.Cols, o.Layout, o.SegmentRows),
		ch:        ch,
		dma:       o.DMA,
		enablePin: o.EnablePin,
		log:       log.With().Int("pin", o.Pin).Str("chip", o.Chip.String()).Logger(),
	}
	ch.OnComplete(d.CompleteTransmit)
	return d
}

func (d *Device) UsesDMA() bool      { return d.dma }
func (d *Device) HasEnablePin() bool { return d.enablePin }

// FlushIfDirty packs and submits the frame when the pixels changed or
// the strip has been quiet past maxQuiescent. It self-heals a stuck
// transmitting flag once the estimated wire time has passed, and it
// never blocks: a busy or failing channel just means no flush this tick.
func (d *Device) FlushIfDirty(now time.Time, maxQuiescent time.Duration) bool {
	if maxQuiescent <= 0 {
		maxQuiescent = DefaultMaxQuiescent
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.transmitting {
		if !now.After(d.expectedDone) {
			return false
		}
		// Completion callback never came; assume the frame is long gone.
		d.transmitting = false
		d.log.Debug().Time("expected_done", d.expectedDone).Msg("transmit completion missed, self-healing")
	}
	if !d.dirty && now.Sub(d.lastFlush) < maxQuiescent {
		return false
	}
	if now.Before(d.retryAfter) {
		return false
	}

	d.wire = d.chip.AppendFrame(d.wire[:0], d.pixels)
	if err := d.ch.Submit(d.wire); err != nil {
		// Keep the pixels dirty; they go out once the channel recovers.
		d.retryAfter = now.Add(transmitBackoff)
		d.log.Warn().Err(err).Msg("frame submit failed")
		return false
	}
	d.transmitting = true
	d.lastFlush = now
	d.dirty = false
	d.expectedDone = now.Add(d.chip.TransmitTime(d.length))
	return true
}

// Transmitting reports whether a flushed frame is still believed to be
// on the wire.
func (d *Device) Transmitting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transmitting
}

// CompleteTransmit records that the channel finished writing. A late
// completion pushes expectedDone forward so the estimate only ever
// grows toward reality.
func (d *Device) CompleteTransmit(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transmitting = false
	if now.After(d.expectedDone) {
		d.expectedDone = now
	}
}

// SetPowerEnabled drives the supply enable line, deduplicating repeat
// calls with the same state.
func (d *Device) SetPowerEnabled(on bool) {
	if !d.enablePin {
		return
	}
	if d.powerKnown && d.powerOn == on {
		return
	}
	if err := d.ch.SetPower(on); err != nil {
		d.log.Warn().Err(err).Bool("on", on).Msg("power enable failed")
		return
	}
	d.powerKnown = true
	d.powerOn = on
}

// Close releases the underlying channel.
func (d *Device) Close() error { return d.ch.Close() }
