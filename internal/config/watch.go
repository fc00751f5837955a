package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Snapshot is one delivered configuration state. Generation increases by
// one per successful reload so consumers can skip work when nothing new
// arrived.
type Snapshot struct {
	Generation uint64
	Config     *Config
}

// Watch loads path immediately and then polls its mtime every interval,
// delivering reloads over the returned channel. The channel buffers only
// the newest snapshot; a slow consumer skips the backlog, never blocks
// the poller. A reload that fails to parse keeps the previous snapshot
// and logs a warning. The channel closes when ctx ends.
func Watch(ctx context.Context, path string, interval time.Duration) (<-chan Snapshot, error) {
	first, err := Load(path)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = time.Second
	}

	ch := make(chan Snapshot, 1)
	ch <- Snapshot{Generation: 1, Config: first}

	var lastMod time.Time
	if st, err := os.Stat(path); err == nil {
		lastMod = st.ModTime()
	}

	go func() {
		defer close(ch)
		gen := uint64(1)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}

			st, err := os.Stat(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("config stat failed, keeping previous")
				continue
			}
			if st.ModTime().Equal(lastMod) {
				continue
			}
			lastMod = st.ModTime()

			next, err := Load(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("config reload failed, keeping previous")
				continue
			}
			gen++
			// Replace any undelivered snapshot with the newer one.
			select {
			case <-ch:
			default:
			}
			ch <- Snapshot{Generation: gen, Config: next}
			log.Info().Uint64("generation", gen).Int("strips", len(next.Strips)).Msg("config reloaded")
		}
	}()
	return ch, nil
}
