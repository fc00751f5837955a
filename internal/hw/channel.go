// Package hw is the hardware push boundary. A Channel accepts one packed
// LED frame at a time and returns immediately; the actual write happens on
// a dedicated goroutine and completion is reported through a callback.
// Strips that never hear the callback recover via their transmit-time
// estimate, so a Channel is allowed to stay silent.
package hw

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrBusy is returned by Submit while the previous frame is still being
// written. Callers treat it like any other transmit failure: keep the
// frame dirty and retry later.
var ErrBusy = errors.New("hw: previous frame still in flight")

// Channel is a non-blocking transmit path for packed LED frames.
type Channel interface {
	// Submit enqueues one packed frame and returns without waiting for
	// the write to finish. The slice is copied; callers may reuse it.
	Submit(frame []byte) error
	// OnComplete registers the completion callback. At most one callback
	// is active; registering replaces the previous one.
	OnComplete(f func(done time.Time))
	// SetPower drives the strip's power-enable line where the transport
	// has one; otherwise it is a no-op.
	SetPower(on bool) error
	Close() error
}

// Options selects and sizes a Channel.
type Options struct {
	// Device picks the transport: "spi", "serial", "console" or "fake"
	// (default).
	Device string
	// Port is the spireg name or serial device path; empty means the
	// first available.
	Port string
	// Pixels is the physical LED count of the frame.
	Pixels int
	// Channels is the driver channel count per LED (3 or 4).
	Channels int
	// DMA requests the deep hardware queue. One channel per process
	// should ask for it.
	DMA bool
	// EnablePin is the gpio name of the strip's supply enable line,
	// empty when the strip is always powered.
	EnablePin string
}

// QueueDepth returns the pending-frame queue depth: the DMA channel may
// hold one frame behind the in-flight one, plain ports reject while busy.
func (o Options) QueueDepth() int {
	if o.DMA {
		return 2
	}
	return 1
}

// Open builds the Channel named by o.Device.
func Open(o Options) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(o.Device)) {
	case "spi":
		return openSPI(o)
	case "serial":
		return openSerial(o)
	case "console":
		return openConsole(o)
	case "", "fake":
		return NewFake(o.Pixels * o.Channels), nil
	}
	return nil, errors.Errorf("unknown device %q", o.Device)
}
