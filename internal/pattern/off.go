package pattern

import (
	"time"

	"github.com/glowshed/stripctl/internal/strip"
)

func init() { Register("OFF", func() Pattern { return offPattern{} }) }

// offPattern blanks the strip and drops the supply enable line. It keeps
// clearing every tick so stray writes from a mid-swap transition cannot
// stick.
type offPattern struct{}

func (offPattern) Name() string                     { return "OFF" }
func (offPattern) ApplyKnobs(Knobs)                 {}
func (offPattern) Reset(s strip.Strip, _ time.Time) { s.Clear() }

func (offPattern) Update(s strip.Strip, _ time.Time) {
	if s.HasEnablePin() {
		s.SetPowerEnabled(false)
	}
	s.Clear()
}
