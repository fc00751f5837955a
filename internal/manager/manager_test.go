package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/glowshed/stripctl/internal/config"
	"github.com/glowshed/stripctl/internal/hw"
	"github.com/glowshed/stripctl/internal/telemetry"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

// closeTracking wraps a Fake so tests can tell teardown really closed
// the channel.
type closeTracking struct {
	*hw.Fake
	closed bool
}

func (c *closeTracking) Close() error {
	c.closed = true
	return c.Fake.Close()
}

// channelLog records every channel the manager opens, in open order.
type channelLog struct {
	auto  time.Duration
	opts  []hw.Options
	chans []*closeTracking
}

func (c *channelLog) open(o hw.Options) (hw.Channel, error) {
	f := hw.NewFake(o.Pixels * o.Channels)
	f.AutoComplete = c.auto
	ch := &closeTracking{Fake: f}
	c.opts = append(c.opts, o)
	c.chans = append(c.chans, ch)
	return ch, nil
}

type statusSink struct {
	mu sync.Mutex
	v  any
}

func (s *statusSink) SetStatus(v any) {
	s.mu.Lock()
	s.v = v
	s.mu.Unlock()
}

func (s *statusSink) last() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

func stripCfg(name string, length int, pat string) config.StripConfig {
	return config.StripConfig{
		Name:    name,
		Length:  length,
		Chip:    "ws2812",
		Device:  "fake",
		Pattern: pat,
	}
}

func oneStrip(s config.StripConfig) *config.Config {
	return &config.Config{Strips: []config.StripConfig{s}}
}

var base = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func TestChooseDMA(t *testing.T) {
	mk := func(name string, length int, dma *bool) config.StripConfig {
		return config.StripConfig{Name: name, Length: length, DMA: dma}
	}
	tests := []struct {
		name string
		cfgs []config.StripConfig
		want int
	}{
		{"empty roster", nil, -1},
		{"longest wins", []config.StripConfig{mk("a", 5, nil), mk("b", 9, nil), mk("c", 7, nil)}, 1},
		{"tie keeps first", []config.StripConfig{mk("a", 9, nil), mk("b", 9, nil)}, 0},
		{"explicit beats longest", []config.StripConfig{mk("a", 5, boolp(true)), mk("b", 9, nil)}, 0},
		{"first explicit wins conflict", []config.StripConfig{mk("a", 5, nil), mk("b", 6, boolp(true)), mk("c", 7, boolp(true))}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, chooseDMA(tc.cfgs, zerolog.Nop()))
		})
	}
}

func TestApplyBuildsRosterDMAFirst(t *testing.T) {
	chl := &channelLog{}
	sink := &statusSink{}
	m := New(Options{OpenChannel: chl.open, Status: sink})

	m.Apply(&config.Config{Strips: []config.StripConfig{
		stripCfg("desk", 10, "SOLID"),
		stripCfg("shelf", 30, "SOLID"),
		stripCfg("window", 20, "SOLID"),
	}}, base)

	if len(m.entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(m.entries))
	}
	// The longest strip takes the deep queue, opens first and leads the
	// roster.
	assert.Equal(t, "shelf", m.entries[0].cfg.Name)
	assert.True(t, m.entries[0].strip.UsesDMA())
	assert.False(t, m.entries[1].strip.UsesDMA())
	assert.False(t, m.entries[2].strip.UsesDMA())
	assert.True(t, chl.opts[0].DMA)
	assert.Equal(t, 30, chl.opts[0].Pixels)
	assert.Equal(t, 3, chl.opts[0].Channels)

	st, ok := sink.last().(Status)
	if !ok {
		t.Fatalf("status not published: %T", sink.last())
	}
	names := make([]string, 0, len(st.Strips))
	for _, s := range st.Strips {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"shelf", "desk", "window"}, names)
	assert.True(t, st.Strips[0].DMA)
}

func TestDuplicateNameSkipsSecondEntry(t *testing.T) {
	chl := &channelLog{}
	m := New(Options{OpenChannel: chl.open})

	m.Apply(&config.Config{Strips: []config.StripConfig{
		stripCfg("desk", 10, "SOLID"),
		stripCfg("desk", 20, "CHASE"),
	}}, base)

	assert.Len(t, m.entries, 1)
}

func TestKnobPushKeepsPatternInstance(t *testing.T) {
	chl := &channelLog{}
	m := New(Options{OpenChannel: chl.open})

	cfg := stripCfg("desk", 10, "SOLID")
	cfg.R = intp(255)
	m.Apply(oneStrip(cfg), base)
	p := m.entries[0].pattern
	opened := len(chl.opts)

	next := cfg
	next.Brightness = intp(40)
	m.Apply(oneStrip(next), base.Add(time.Second))

	assert.Same(t, p, m.entries[0].pattern)
	assert.Equal(t, opened, len(chl.opts), "knob change must not touch hardware")
	assert.Equal(t, 40, *m.entries[0].cfg.Brightness)
}

func TestPatternSwapWithoutTransition(t *testing.T) {
	chl := &channelLog{}
	m := New(Options{OpenChannel: chl.open})

	cfg := stripCfg("desk", 10, "SOLID")
	cfg.R = intp(255)
	m.Apply(oneStrip(cfg), base)
	old := m.entries[0].pattern

	next := cfg
	next.Pattern = "chase"
	m.Apply(oneStrip(next), base.Add(time.Second))

	e := m.entries[0]
	assert.Equal(t, "CHASE", e.pattern.Name())
	assert.NotSame(t, old, e.pattern)
	assert.Nil(t, e.trans)
	assert.Equal(t, 1, len(chl.opts))
}

func TestAnimatedSwapLandsIncoming(t *testing.T) {
	chl := &channelLog{}
	sink := &statusSink{}
	m := New(Options{OpenChannel: chl.open, Status: sink})

	cfg := stripCfg("desk", 10, "SOLID")
	cfg.R = intp(255)
	m.Apply(oneStrip(cfg), base)
	m.step(base)
	chl.chans[0].Complete(base)

	next := cfg
	next.Pattern = "FADE"
	next.Transition = "sweep"
	t1 := base.Add(time.Second)
	m.Apply(oneStrip(next), t1)

	e := m.entries[0]
	if e.trans == nil {
		t.Fatal("transition not armed")
	}
	assert.Equal(t, "SOLID", e.pattern.Name(), "outgoing keeps running until done")
	st := sink.last().(Status)
	assert.Equal(t, "FADE", st.Strips[0].Pattern)
	assert.True(t, st.Strips[0].Transitioning)

	// Halfway: the low half still shows the outgoing solid red, the high
	// half already shows the incoming white fade.
	half := t1.Add(e.trans.Duration() / 2)
	m.step(half)
	frame := chl.chans[0].Last()
	if len(frame) != 30 {
		t.Fatalf("frame = %d bytes, want 30", len(frame))
	}
	assert.Equal(t, byte(255), frame[0], "pixel 0 red channel")
	assert.Zero(t, frame[1], "pixel 0 green channel")
	assert.NotZero(t, frame[9*3+1], "pixel 9 green channel carries the fade")
	assert.Equal(t, frame[9*3], frame[9*3+1], "fade renders white")
	chl.chans[0].Complete(half)

	m.step(t1.Add(e.trans.Duration()))
	assert.Nil(t, e.trans)
	assert.Nil(t, e.next)
	assert.Equal(t, "FADE", e.pattern.Name())
}

func TestSnapshotDuringSwapLandsIncomingFirst(t *testing.T) {
	chl := &channelLog{}
	m := New(Options{OpenChannel: chl.open})

	cfg := stripCfg("desk", 10, "SOLID")
	cfg.R = intp(255)
	m.Apply(oneStrip(cfg), base)

	swap := cfg
	swap.Pattern = "FADE"
	swap.Transition = "expand"
	m.Apply(oneStrip(swap), base.Add(time.Second))
	incoming := m.entries[0].next
	if incoming == nil {
		t.Fatal("transition not armed")
	}

	// A knob tweak mid-swap cuts the animation short rather than
	// stacking transitions.
	tweak := swap
	tweak.Brightness = intp(30)
	m.Apply(oneStrip(tweak), base.Add(1100*time.Millisecond))

	e := m.entries[0]
	assert.Nil(t, e.trans)
	assert.Nil(t, e.next)
	assert.Same(t, incoming, e.pattern)
}

func TestTransmitBackpressureSkipsPatternWork(t *testing.T) {
	chl := &channelLog{}
	m := New(Options{OpenChannel: chl.open})

	cfg := stripCfg("desk", 10, "CHASE")
	cfg.Speed = intp(100) // 30ms per step
	m.Apply(oneStrip(cfg), base)

	m.step(base)
	fake := chl.chans[0]
	assert.Len(t, fake.Frames(), 1)
	assert.True(t, m.entries[0].strip.Transmitting())

	// No completion callback arrived; the chase wants to advance but the
	// strip still reads as on the wire, so the tick does nothing.
	m.step(base.Add(30 * time.Millisecond))
	assert.Len(t, fake.Frames(), 1)

	// The previous tick self-healed the stale flag; this one advances.
	m.step(base.Add(60 * time.Millisecond))
	frames := fake.Frames()
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(frames))
	}
	last := frames[1]
	assert.Zero(t, last[0], "pixel 0 released")
	assert.NotZero(t, last[2*3], "pixel 2 lit")
	assert.Equal(t, 2, m.entries[0].frames)
	assert.Equal(t, 2, m.entries[0].total)
}

func TestShapeChangeRebuildsAndMovesDMA(t *testing.T) {
	chl := &channelLog{}
	m := New(Options{OpenChannel: chl.open})

	a := stripCfg("desk", 10, "SOLID")
	b := stripCfg("shelf", 30, "SOLID")
	m.Apply(&config.Config{Strips: []config.StripConfig{a, b}}, base)
	assert.Equal(t, "shelf", m.dmaName)

	c := stripCfg("window", 50, "SOLID")
	m.Apply(&config.Config{Strips: []config.StripConfig{a, b, c}}, base.Add(time.Second))

	assert.True(t, chl.chans[0].closed, "old dma channel closed")
	assert.True(t, chl.chans[1].closed, "old plain channel closed")
	assert.Len(t, chl.opts, 5)
	assert.Equal(t, "window", m.dmaName)
	assert.Equal(t, "window", m.entries[0].cfg.Name)
	assert.True(t, m.entries[0].strip.UsesDMA())
}

func TestBrokenStripRepairedOnNextSnapshot(t *testing.T) {
	chl := &channelLog{}
	m := New(Options{OpenChannel: chl.open})

	bad := stripCfg("tall", 30, "NOPE")
	ok := stripCfg("desk", 10, "SOLID")
	m.Apply(&config.Config{Strips: []config.StripConfig{bad, ok}}, base)

	assert.Len(t, m.entries, 1, "unknown pattern rejects only its strip")
	assert.Equal(t, "desk", m.entries[0].cfg.Name)
	// The broken strip still holds the dma designation; nobody usurps it.
	assert.Equal(t, "tall", m.dmaName)
	assert.False(t, m.entries[0].strip.UsesDMA())

	fixed := bad
	fixed.Pattern = "SOLID"
	m.Apply(&config.Config{Strips: []config.StripConfig{fixed, ok}}, base.Add(time.Second))

	e := m.findEntry("tall")
	if e == nil {
		t.Fatal("repaired strip not rebuilt")
	}
	assert.True(t, e.strip.UsesDMA())
	assert.Len(t, m.entries, 2)
}

func TestWindowMetricsFlushAndReset(t *testing.T) {
	chl := &channelLog{}
	rec := telemetry.NewRecorder()
	sink := &statusSink{}
	m := New(Options{OpenChannel: chl.open, Reporter: rec, Status: sink})

	cfg := stripCfg("desk", 10, "SOLID")
	cfg.R = intp(255)
	cfg.Speed = intp(0)
	m.Apply(oneStrip(cfg), base)
	m.step(base)

	m.flushTelemetry(base.Add(time.Minute))
	ms := rec.Metrics()
	if len(ms) == 0 {
		t.Fatal("no metrics recorded")
	}
	got := ms[len(ms)-1]
	assert.Equal(t, "frames_transmitted", got.Name)
	assert.Equal(t, 1.0, got.Value)
	assert.Equal(t, "desk", got.Tags["strip"])

	// Nothing changed in the second window; the counter starts over.
	m.flushTelemetry(base.Add(2 * time.Minute))
	ms = rec.Metrics()
	assert.Equal(t, 0.0, ms[len(ms)-1].Value)

	st := sink.last().(Status)
	assert.Equal(t, 1, st.Strips[0].Frames, "lifetime count survives the window reset")
}

func TestSolidDutyOnWire(t *testing.T) {
	chl := &channelLog{}
	m := New(Options{OpenChannel: chl.open})

	cfg := stripCfg("desk", 10, "SOLID")
	cfg.R = intp(255)
	cfg.Brightness = intp(50)
	cfg.Speed = intp(0)
	m.Apply(oneStrip(cfg), base)
	m.step(base)

	frame := chl.chans[0].Last()
	if len(frame) != 30 {
		t.Fatalf("frame = %d bytes, want 30", len(frame))
	}
	for i := 0; i < 10; i++ {
		want := byte(0)
		if i%2 == 1 {
			want = 255
		}
		assert.Equal(t, want, frame[3*i], "pixel %d red channel", i)
		assert.Zero(t, frame[3*i+1], "pixel %d green channel", i)
		assert.Zero(t, frame[3*i+2], "pixel %d blue channel", i)
	}
}

func TestEnablePinFollowsPattern(t *testing.T) {
	chl := &channelLog{}
	m := New(Options{OpenChannel: chl.open})

	cfg := stripCfg("desk", 10, "SOLID")
	cfg.R = intp(255)
	cfg.EnablePin = intp(18)
	m.Apply(oneStrip(cfg), base)

	assert.Equal(t, "18", chl.opts[0].EnablePin)
	on, ops := chl.chans[0].Power()
	assert.True(t, on, "first frame asserts the supply")
	assert.Equal(t, 1, ops)

	next := cfg
	next.Pattern = "OFF"
	m.Apply(oneStrip(next), base.Add(time.Second))

	on, _ = chl.chans[0].Power()
	assert.False(t, on, "off pattern drops the supply")
}

func TestRunLoopLifecycle(t *testing.T) {
	chl := &channelLog{auto: time.Millisecond}
	rec := telemetry.NewRecorder()
	sink := &statusSink{}
	m := New(Options{
		OpenChannel: chl.open,
		Reporter:    rec,
		Status:      sink,
		Tick:        time.Millisecond,
		Window:      10 * time.Millisecond,
	})

	cfg := stripCfg("desk", 10, "SOLID")
	cfg.R = intp(255)
	snaps := make(chan config.Snapshot, 1)
	snaps <- config.Snapshot{Generation: 1, Config: oneStrip(cfg)}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- m.Run(ctx, snaps) }()

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.Metrics()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no telemetry window observed")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}

	for _, ch := range chl.chans {
		assert.True(t, ch.closed, "teardown closes every channel")
	}
	st, ok := sink.last().(Status)
	if !ok {
		t.Fatalf("status not published: %T", sink.last())
	}
	assert.Len(t, st.Strips, 1)
	assert.Equal(t, "SOLID", st.Strips[0].Pattern)
}
