package pattern

import (
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("STATUS", func() Pattern { return statusPattern{} }) }

// LinkState summarizes upstream connectivity for the STATUS pattern.
type LinkState int

const (
	// LinkConnecting means the network link is still coming up.
	LinkConnecting LinkState = iota
	// LinkUpBrokerConnecting means the link is up but the broker session
	// is not established yet.
	LinkUpBrokerConnecting
	// LinkReady means everything upstream is connected.
	LinkReady
	// LinkBrokerError means the broker session failed.
	LinkBrokerError
)

var linkStateProvider = func() LinkState { return LinkReady }

// SetLinkStateProvider installs the callback STATUS polls each tick.
// Connectivity lives outside this engine, so the owner of that state
// wires it in here; nil restores the always-ready default.
func SetLinkStateProvider(p func() LinkState) {
	if p == nil {
		p = func() LinkState { return LinkReady }
	}
	linkStateProvider = p
}

// statusPattern paints the whole strip in a dim color keyed to the
// current link state.
type statusPattern struct{}

func (statusPattern) Name() string                 { return "STATUS" }
func (statusPattern) ApplyKnobs(Knobs)             {}
func (statusPattern) Reset(strip.Strip, time.Time) {}

func (statusPattern) Update(s strip.Strip, _ time.Time) {
	if s.HasEnablePin() {
		s.SetPowerEnabled(true)
	}
	var r, g, b uint8
	switch linkStateProvider() {
	case LinkConnecting:
		b = 64
	case LinkUpBrokerConnecting:
		g, b = 64, 64
	case LinkReady:
		g = 64
	case LinkBrokerError:
		r = 64
	}
	for i := 0; i < s.Len(); i++ {
		s.SetPixel(i, r, g, b, 0)
	}
}
