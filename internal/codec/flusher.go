package codec

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sadopc/kidstimer/internal/state"
	"github.com/sadopc/kidstimer/internal/store"
)

// Flusher writes snapshots to the slot from a single background goroutine.
// Callers never block on the durable write: Flush serializes the store
// immediately (so later mutations cannot leak into the snapshot) and hands
// the bytes over. Pending writes to the same key coalesce; only the newest
// is written. A failed write is logged and otherwise ignored.
type Flusher struct {
	slot   Slot
	logger *log.Logger

	mu      sync.Mutex
	pending map[string]string
	closed  bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func NewFlusher(slot Slot, logger *log.Logger) *Flusher {
	f := &Flusher{
		slot:    slot,
		logger:  logger,
		pending: make(map[string]string),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	f.wg.Add(1)
	go f.run()
	return f
}

// Flush queues the whole store for writing.
func (f *Flusher) Flush(s *state.Store) {
	b, err := Encode(s)
	if err != nil {
		f.logger.Error("encode store for flush", "err", err)
		return
	}
	f.Queue(store.KeyData, string(b))
}

// Queue schedules value to be written under key.
func (f *Flusher) Queue(key, value string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		f.logger.Warn("flush after close dropped", "key", key)
		return
	}
	f.pending[key] = value
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Close writes whatever is pending and stops the goroutine.
func (f *Flusher) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.mu.Unlock()

	close(f.done)
	f.wg.Wait()
}

func (f *Flusher) run() {
	defer f.wg.Done()
	for {
		select {
		case <-f.wake:
			f.drain()
		case <-f.done:
			f.drain()
			return
		}
	}
}

func (f *Flusher) drain() {
	f.mu.Lock()
	batch := f.pending
	f.pending = make(map[string]string)
	f.mu.Unlock()

	for key, value := range batch {
		if err := f.slot.Set(key, value); err != nil {
			f.logger.Error("flush slot", "key", key, "err", err)
		}
	}
}
