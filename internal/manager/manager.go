// Package manager owns the strip roster. It builds strips from
// configuration, schedules every pattern update on one render
// goroutine, animates pattern swaps and accounts transmitted frames.
package manager

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/glowshed/stripctl/internal/config"
	"github.com/glowshed/stripctl/internal/hw"
	"github.com/glowshed/stripctl/internal/pattern"
	"github.com/glowshed/stripctl/internal/strip"
	"github.com/glowshed/stripctl/internal/telemetry"
	"github.com/glowshed/stripctl/internal/transition"
)

// StatusSink receives the manager's roster snapshots, one after every
// reconcile and every telemetry window.
type StatusSink interface {
	SetStatus(v any)
}

// Options configure a Manager. Zero values select production defaults.
type Options struct {
	// Reporter receives metrics and events; nil discards them.
	Reporter telemetry.Reporter
	// Status receives roster snapshots; nil disables publishing.
	Status StatusSink
	// Tick is the render loop period, default 5ms.
	Tick time.Duration
	// Window is the telemetry flush period, default one minute.
	Window time.Duration
	// OpenChannel builds hardware channels, default hw.Open. Tests
	// substitute fakes here.
	OpenChannel func(hw.Options) (hw.Channel, error)
}

// entry is one live strip with its running pattern.
type entry struct {
	cfg     config.StripConfig
	ch      hw.Channel
	strip   *strip.Device
	pattern pattern.Pattern

	// A swap in flight; next lands as the running pattern when trans
	// reports completion.
	next  pattern.Pattern
	trans transition.Transition

	frames int // transmits since the last telemetry window
	total  int // transmits since the entry was built
}

// Manager reconciles configuration snapshots into live strips and
// drives them. All roster mutation happens on the Run goroutine, or
// before Run starts.
type Manager struct {
	log      zerolog.Logger
	reporter telemetry.Reporter
	status   StatusSink
	open     func(hw.Options) (hw.Channel, error)
	tick     time.Duration
	window   time.Duration

	entries []*entry
	// applied is the last snapshot acted on, kept position for position
	// so reconciliation can diff the next one against it. It includes
	// strips whose build failed, which keeps rejected entries from
	// being retried until their configuration actually moves.
	applied []config.StripConfig
	dmaName string
	lastGen uint64
}

// New builds a Manager; it drives nothing until Run.
func New(o Options) *Manager {
	m := &Manager{
		log:      log.With().Str("component", "manager").Logger(),
		reporter: o.Reporter,
		status:   o.Status,
		open:     o.OpenChannel,
		tick:     o.Tick,
		window:   o.Window,
	}
	if m.reporter == nil {
		m.reporter = telemetry.Nop()
	}
	if m.open == nil {
		m.open = hw.Open
	}
	if m.tick <= 0 {
		m.tick = 5 * time.Millisecond
	}
	if m.window <= 0 {
		m.window = time.Minute
	}
	return m
}

// Apply reconciles the roster against one configuration snapshot. A
// change to the strip count or to any strip's hardware identity tears
// the whole roster down and rebuilds it; anything else lands as
// in-place pattern and knob updates that keep run state alive.
func (m *Manager) Apply(cfg *config.Config, now time.Time) {
	strips := cfg.Strips
	if m.shapeChanged(strips) {
		m.log.Info().Int("strips", len(strips)).Msg("hardware roster changed, rebuilding")
		m.rebuild(strips, now)
	} else {
		m.reconcile(strips, now)
	}
	m.applied = append(m.applied[:0], strips...)
	m.publishStatus(now)
}

func (m *Manager) shapeChanged(next []config.StripConfig) bool {
	if len(m.applied) != len(next) {
		return true
	}
	for i := range next {
		if !next[i].SameHardware(m.applied[i]) {
			return true
		}
	}
	return false
}

// chooseDMA picks the strip that gets the single deep hardware queue:
// the first explicit request, else the longest strip. Returns -1 for an
// empty roster.
func chooseDMA(cfgs []config.StripConfig, logger zerolog.Logger) int {
	chosen := -1
	for i := range cfgs {
		if !cfgs[i].WantsDMA() {
			continue
		}
		if chosen < 0 {
			chosen = i
			continue
		}
		logger.Warn().Str("strip", cfgs[i].Name).Str("winner", cfgs[chosen].Name).
			Msg("multiple strips request dma, only one deep queue exists")
	}
	if chosen >= 0 {
		return chosen
	}
	for i := range cfgs {
		if chosen < 0 || cfgs[i].Length > cfgs[chosen].Length {
			chosen = i
		}
	}
	return chosen
}

func (m *Manager) rebuild(cfgs []config.StripConfig, now time.Time) {
	m.teardown()
	m.dmaName = ""

	dma := chooseDMA(cfgs, m.log)
	if dma >= 0 {
		m.dmaName = cfgs[dma].Name
	}

	// The DMA strip opens first so the deep queue is claimed before any
	// other channel initializes, and it sits first in the roster.
	order := make([]int, 0, len(cfgs))
	if dma >= 0 {
		order = append(order, dma)
	}
	for i := range cfgs {
		if i != dma {
			order = append(order, i)
		}
	}

	seen := make(map[string]bool, len(cfgs))
	for _, i := range order {
		cfg := cfgs[i]
		if seen[cfg.Name] {
			m.log.Error().Str("strip", cfg.Name).Msg("duplicate strip name, entry skipped")
			continue
		}
		seen[cfg.Name] = true
		e, err := m.buildEntry(cfg, i == dma, now)
		if err != nil {
			m.log.Error().Err(err).Str("strip", cfg.Name).Msg("strip rejected")
			continue
		}
		m.entries = append(m.entries, e)
	}
}

// buildEntry resolves one strip entry's names, opens its channel and
// paints the first frame. Errors reject only this entry; the rest of
// the roster is unaffected.
func (m *Manager) buildEntry(cfg config.StripConfig, dma bool, now time.Time) (*entry, error) {
	chip, err := strip.ParseChip(cfg.Chip)
	if err != nil {
		return nil, err
	}
	layout, err := strip.ParseLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}
	p, err := pattern.New(cfg.Pattern)
	if err != nil {
		return nil, err
	}

	opts := hw.Options{
		Device:   cfg.Device,
		Port:     cfg.Port,
		Pixels:   chip.PhysicalLen(cfg.Length),
		Channels: chip.BytesPerLED(),
		DMA:      dma,
	}
	if cfg.EnablePin != nil {
		opts.EnablePin = strconv.Itoa(*cfg.EnablePin)
	}
	ch, err := m.open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open channel")
	}

	dev := strip.NewDevice(ch, strip.DeviceOpts{
		Pin:         cfg.Pin,
		Length:      cfg.Length,
		Chip:        chip,
		Rows:        cfg.Rows,
		Cols:        cfg.Cols,
		Layout:      layout,
		SegmentRows: cfg.SegmentRows,
		DMA:         dma,
		EnablePin:   cfg.EnablePin != nil,
	})

	m.wireReporter(p, cfg.Name)
	p.ApplyKnobs(knobsFor(cfg))
	p.Reset(dev, now)
	p.Update(dev, now)

	m.log.Info().Str("strip", cfg.Name).Str("chip", chip.String()).
		Int("length", cfg.Length).Bool("dma", dma).
		Str("pattern", p.Name()).Msg("strip ready")

	return &entry{cfg: cfg, ch: ch, strip: dev, pattern: p}, nil
}

func (m *Manager) wireReporter(p pattern.Pattern, name string) {
	if ra, ok := p.(pattern.ReporterAware); ok {
		ra.SetReporter(telemetry.Tagged(m.reporter, "strip", name))
	}
}

// knobsFor flattens one entry's knob fields, filling the documented
// defaults for everything unset.
func knobsFor(cfg config.StripConfig) pattern.Knobs {
	k := pattern.DefaultKnobs()
	k.SpeedPercent = cfg.EffectiveSpeed()
	k.BrightnessPercent = cfg.EffectiveBrightness()
	k.Restart = cfg.EffectiveRestart()
	k.Start = cfg.Start
	if cfg.HasColor() {
		r, g, b, w := cfg.Color()
		k.Color = pattern.RGBW{R: r, G: g, B: b, W: w}
		k.ColorSet = true
	}
	return k
}

// reconcile lands a same-shape snapshot without touching hardware.
// Strips whose entry was rejected earlier get one rebuild attempt when
// their configuration moves.
func (m *Manager) reconcile(cfgs []config.StripConfig, now time.Time) {
	for i := range cfgs {
		next := cfgs[i]
		if next.Equal(m.applied[i]) {
			continue
		}
		e := m.findEntry(next.Name)
		if e == nil {
			rebuilt, err := m.buildEntry(next, next.Name == m.dmaName, now)
			if err != nil {
				m.log.Error().Err(err).Str("strip", next.Name).Msg("strip rejected")
				continue
			}
			m.entries = append(m.entries, rebuilt)
			continue
		}
		m.updateEntry(e, next, now)
	}
}

// updateEntry pushes pattern and knob changes into a live entry. A
// pattern name change swaps instances, animated when the entry
// configures a transition; a knob-only change reaches the running
// instance directly so state like a LIFE board survives.
func (m *Manager) updateEntry(e *entry, next config.StripConfig, now time.Time) {
	knobs := knobsFor(next)

	if e.trans != nil {
		// A new snapshot arrived mid-swap. Land the incoming pattern
		// now and reconcile from there.
		e.pattern, e.next, e.trans = e.next, nil, nil
	}

	if pattern.Canonical(next.Pattern) == e.pattern.Name() {
		e.pattern.ApplyKnobs(knobs)
		e.cfg = next
		return
	}

	incoming, err := pattern.New(next.Pattern)
	if err != nil {
		m.log.Error().Err(err).Str("strip", next.Name).Msg("unknown pattern, keeping current")
		e.pattern.ApplyKnobs(knobs)
		e.cfg = next
		return
	}
	m.wireReporter(incoming, next.Name)
	incoming.ApplyKnobs(knobs)

	if strings.TrimSpace(next.Transition) != "" {
		tr := transition.New(next.Transition)
		tr.SetSpeed(next.EffectiveSpeed())
		tr.Start(e.strip, e.pattern, incoming, now)
		e.next = incoming
		e.trans = tr
		m.log.Info().Str("strip", next.Name).Str("from", e.pattern.Name()).
			Str("to", incoming.Name()).Str("transition", tr.Name()).
			Msg("pattern swap animating")
	} else {
		e.pattern = incoming
		e.pattern.Reset(e.strip, now)
		e.pattern.Update(e.strip, now)
		m.log.Info().Str("strip", next.Name).Str("pattern", incoming.Name()).
			Msg("pattern swapped")
	}
	e.cfg = next
}

func (m *Manager) findEntry(name string) *entry {
	for _, e := range m.entries {
		if e.cfg.Name == name {
			return e
		}
	}
	return nil
}

func (m *Manager) teardown() {
	for _, e := range m.entries {
		if err := e.ch.Close(); err != nil {
			m.log.Warn().Err(err).Str("strip", e.cfg.Name).Msg("channel close failed")
		}
	}
	m.entries = nil
}
