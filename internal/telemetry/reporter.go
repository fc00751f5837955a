// Package telemetry fans engine measurements out to structured logs and
// live websocket subscribers. Reporters never block the render loop.
package telemetry

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Reporter receives metrics and events from the engine.
type Reporter interface {
	// Metric records one sampled value with optional tags.
	Metric(name string, value float64, tags map[string]string)
	// Event records a one-off occurrence with structured fields.
	Event(name string, fields map[string]any)
}

// component tags every emission so downstream consumers can filter.
const component = "leds"

type logReporter struct {
	log zerolog.Logger
}

// NewLogReporter returns a Reporter that writes zerolog lines: metrics at
// debug, events at info.
func NewLogReporter() Reporter {
	return &logReporter{log: log.With().Str("component", component).Logger()}
}

func (l *logReporter) Metric(name string, value float64, tags map[string]string) {
	ev := l.log.Debug().Float64("value", value)
	for k, v := range tags {
		ev = ev.Str(k, v)
	}
	ev.Msg(name)
}

func (l *logReporter) Event(name string, fields map[string]any) {
	l.log.Info().Fields(fields).Msg(name)
}

type nop struct{}

func (nop) Metric(string, float64, map[string]string) {}
func (nop) Event(string, map[string]any)              {}

// Nop returns a Reporter that discards everything.
func Nop() Reporter { return nop{} }

type multi []Reporter

// Multi fans every metric and event out to all given reporters.
func Multi(rs ...Reporter) Reporter { return multi(rs) }

func (m multi) Metric(name string, value float64, tags map[string]string) {
	for _, r := range m {
		r.Metric(name, value, tags)
	}
}

func (m multi) Event(name string, fields map[string]any) {
	for _, r := range m {
		r.Event(name, fields)
	}
}
