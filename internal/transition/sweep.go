package transition

import (
	"time"

	"github.com/glowshed/stripctl/internal/pattern"
	"github.com/glowshed/stripctl/internal/strip"
)

// sweepTransition hands pixels to the incoming pattern from the highest
// index downward.
type sweepTransition struct {
	base
}

func (t *sweepTransition) Name() string { return "SWEEP" }

func (t *sweepTransition) Update(s strip.Strip, from, to pattern.Pattern, now time.Time) bool {
	return t.run(s, from, to, now, func(i int, p float64) bool {
		boundary := t.length - int(p*float64(t.length))
		return i >= boundary
	})
}

// backsweepTransition hands pixels over from index zero upward.
type backsweepTransition struct {
	base
}

func (t *backsweepTransition) Name() string { return "BACKSWEEP" }

func (t *backsweepTransition) Update(s strip.Strip, from, to pattern.Pattern, now time.Time) bool {
	return t.run(s, from, to, now, func(i int, p float64) bool {
		return i < int(p*float64(t.length))
	})
}
