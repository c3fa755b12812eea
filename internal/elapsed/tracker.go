// Package elapsed counts whole seconds spent in an active contest view.
package elapsed

import (
	"fmt"
	"sync"
	"time"

	"github.com/mcoot/circle-go/internal/dependencies/clock"
)

// Interval is the tick period; one tick adds one unit
const Interval = time.Second

// Tracker is an ascending counter fed by a ticker. It never gates anything.
type Tracker struct {
	clock clock.Clock

	mu      sync.Mutex
	count   int
	ticker  clock.Ticker
	stop    chan struct{}
	stopped chan struct{}
	onTick  func(int)
}

// New creates a stopped Tracker
func New(clk clock.Clock) *Tracker {
	return &Tracker{clock: clk}
}

// OnTick sets a callback invoked with the new count after every tick
func (t *Tracker) OnTick(fn func(count int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTick = fn
}

// Start resets the counter to zero and begins ticking. Starting a running
// tracker is a no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ticker != nil {
		return
	}

	t.count = 0
	t.ticker = t.clock.NewTicker(Interval)
	t.stop = make(chan struct{})
	t.stopped = make(chan struct{})

	go t.run(t.ticker, t.stop, t.stopped)
}

// Stop halts the ticker and waits for the tick loop to exit. The count is
// kept until the next Start. Safe to call repeatedly.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if t.ticker == nil {
		t.mu.Unlock()
		return
	}
	t.ticker.Stop()
	close(t.stop)
	stopped := t.stopped
	t.ticker = nil
	t.mu.Unlock()

	<-stopped
}

// Elapsed returns the number of ticks since the last Start
func (t *Tracker) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

func (t *Tracker) run(ticker clock.Ticker, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			t.mu.Lock()
			// A tick racing with Stop must not count.
			select {
			case <-stop:
				t.mu.Unlock()
				return
			default:
			}
			t.count++
			count, onTick := t.count, t.onTick
			t.mu.Unlock()

			if onTick != nil {
				onTick(count)
			}
		}
	}
}

// Format renders seconds as HH:MM:SS
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
