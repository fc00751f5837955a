package manager

import (
	"context"
	"time"

	"github.com/glowshed/stripctl/internal/config"
)

// StripStatus is one roster line of the published snapshot.
type StripStatus struct {
	Name          string `json:"name"`
	Pattern       string `json:"pattern"`
	Transitioning bool   `json:"transitioning,omitempty"`
	Transmitting  bool   `json:"transmitting,omitempty"`
	DMA           bool   `json:"dma,omitempty"`
	Length        int    `json:"length"`
	Frames        int    `json:"frames"`
}

// Status is the snapshot handed to the status sink. Frames counts
// transmits over the entry's whole lifetime; the windowed rate goes out
// as the frames_transmitted metric instead.
type Status struct {
	Updated time.Time     `json:"updated"`
	Strips  []StripStatus `json:"strips"`
}

// Run drives the render loop until ctx ends. Configuration snapshots
// arriving on snaps reconcile between ticks; rendering, flushing and
// reconciliation all happen on this one goroutine.
func (m *Manager) Run(ctx context.Context, snaps <-chan config.Snapshot) error {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()
	windows := time.NewTicker(m.window)
	defer windows.Stop()

	m.log.Info().Dur("tick", m.tick).Dur("window", m.window).Msg("render loop running")
	for {
		select {
		case <-ctx.Done():
			m.flushTelemetry(time.Now())
			m.teardown()
			m.log.Info().Msg("render loop stopped")
			return ctx.Err()
		case snap, ok := <-snaps:
			if !ok {
				snaps = nil
				continue
			}
			if snap.Generation != 0 && snap.Generation == m.lastGen {
				continue
			}
			m.lastGen = snap.Generation
			m.Apply(snap.Config, time.Now())
		case now := <-ticker.C:
			m.step(now)
		case now := <-windows.C:
			m.flushTelemetry(now)
		}
	}
}

// step advances every strip one tick. A strip mid-transmit skips its
// pattern work entirely; the flush call still runs so stuck transmits
// self-heal and quiescent refreshes go out.
func (m *Manager) step(now time.Time) {
	for _, e := range m.entries {
		switch {
		case e.strip.Transmitting():
		case e.trans != nil:
			if e.trans.Update(e.strip, e.pattern, e.next, now) {
				m.log.Debug().Str("strip", e.cfg.Name).Str("pattern", e.next.Name()).
					Msg("transition complete")
				e.pattern = e.next
				e.next = nil
				e.trans = nil
			}
		default:
			e.pattern.Update(e.strip, now)
		}
		if e.strip.FlushIfDirty(now, 0) {
			e.frames++
			e.total++
		}
	}
}

// flushTelemetry emits the per-window transmit counters and resets them.
func (m *Manager) flushTelemetry(now time.Time) {
	for _, e := range m.entries {
		m.reporter.Metric("frames_transmitted", float64(e.frames),
			map[string]string{"strip": e.cfg.Name})
		m.log.Info().Str("strip", e.cfg.Name).Int("frames", e.frames).Msg("transmit window")
		e.frames = 0
	}
	m.publishStatus(now)
}

func (m *Manager) publishStatus(now time.Time) {
	if m.status == nil {
		return
	}
	st := Status{Updated: now, Strips: make([]StripStatus, 0, len(m.entries))}
	for _, e := range m.entries {
		name := e.pattern.Name()
		if e.next != nil {
			name = e.next.Name()
		}
		st.Strips = append(st.Strips, StripStatus{
			Name:          e.cfg.Name,
			Pattern:       name,
			Transitioning: e.next != nil,
			Transmitting:  e.strip.Transmitting(),
			DMA:           e.strip.UsesDMA(),
			Length:        e.strip.Len(),
			Frames:        e.total,
		})
	}
	m.status.SetStatus(st)
}
