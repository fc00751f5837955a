package hw

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// pump serializes frame writes onto one goroutine so Submit never blocks
// the render loop. A failed write still fires the completion callback;
// the pixels survive upstream and go out again on the next flush.
type pump struct {
	queue chan []byte
	wg    sync.WaitGroup

	mu     sync.Mutex
	onDone func(time.Time)
}

func newPump(depth int, dev string, write func([]byte) error) *pump {
	if depth < 1 {
		depth = 1
	}
	p := &pump{queue: make(chan []byte, depth)}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for frame := range p.queue {
			if err := write(frame); err != nil {
				log.Warn().Err(err).Str("device", dev).Msg("frame write failed")
			}
			p.complete(time.Now())
		}
	}()
	return p
}

func (p *pump) Submit(frame []byte) error {
	cp := append([]byte(nil), frame...)
	select {
	case p.queue <- cp:
		return nil
	default:
		return ErrBusy
	}
}

func (p *pump) OnComplete(f func(time.Time)) {
	p.mu.Lock()
	p.onDone = f
	p.mu.Unlock()
}

func (p *pump) complete(at time.Time) {
	p.mu.Lock()
	f := p.onDone
	p.mu.Unlock()
	if f != nil {
		f(at)
	}
}

// drain closes the queue and waits for the writer to finish the
// frames already accepted.
func (p *pump) drain() {
	close(p.queue)
	p.wg.Wait()
}
