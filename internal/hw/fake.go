package hw

import (
	"sync"
	"time"
)

// Fake is an in-memory Channel for tests and development hosts. Frames
// are recorded; completion is driven manually with Complete, or
// automatically when AutoComplete is set.
type Fake struct {
	mu        sync.Mutex
	frames    [][]byte
	last      []byte
	onDone    func(time.Time)
	submitErr error
	power     bool
	powerOps  int
	closed    bool

	// AutoComplete, when non-zero, fires the completion callback this
	// long after each Submit.
	AutoComplete time.Duration
}

// NewFake returns a Fake sized for frames of frameLen bytes. The length
// is informational only; Submit accepts any size.
func NewFake(frameLen int) *Fake {
	return &Fake{last: make([]byte, 0, frameLen)}
}

func (f *Fake) Submit(frame []byte) error {
	f.mu.Lock()
	if f.submitErr != nil {
		err := f.submitErr
		f.mu.Unlock()
		return err
	}
	cp := append([]byte(nil), frame...)
	f.frames = append(f.frames, cp)
	f.last = cp
	auto := f.AutoComplete
	done := f.onDone
	f.mu.Unlock()

	if auto > 0 && done != nil {
		time.AfterFunc(auto, func() { done(time.Now()) })
	}
	return nil
}

func (f *Fake) OnComplete(fn func(done time.Time)) {
	f.mu.Lock()
	f.onDone = fn
	f.mu.Unlock()
}

func (f *Fake) SetPower(on bool) error {
	f.mu.Lock()
	f.power = on
	f.powerOps++
	f.mu.Unlock()
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Complete fires the registered completion callback at the given time.
func (f *Fake) Complete(at time.Time) {
	f.mu.Lock()
	done := f.onDone
	f.mu.Unlock()
	if done != nil {
		done(at)
	}
}

// FailNext makes every following Submit return err until cleared with nil.
func (f *Fake) FailNext(err error) {
	f.mu.Lock()
	f.submitErr = err
	f.mu.Unlock()
}

// Frames returns a copy of every submitted frame, in order.
func (f *Fake) Frames() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.frames))
	copy(out, f.frames)
	return out
}

// Last returns the most recently submitted frame, or nil.
func (f *Fake) Last() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		return nil
	}
	return append([]byte(nil), f.last...)
}

// Power reports the last SetPower state and how many times it was set.
func (f *Fake) Power() (on bool, ops int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.power, f.powerOps
}
