// Package coarsetime is a cheap, low-resolution clock for statistics
// timestamps. The clock starts on first use and advances every 50ms.
package coarsetime

import (
	"sync"
	"sync/atomic"
	"time"
)

const tick = 50 * time.Millisecond

var (
	now   atomic.Int64
	start sync.Once
)

func run() {
	now.Store(time.Now().UnixNano())

	ticker := time.NewTicker(tick)
	go func() {
		for t := range ticker.C {
			now.Store(t.UnixNano())
		}
	}()
}

// Now returns the current time, at most one tick old.
func Now() time.Time {
	start.Do(run)
	return time.Unix(0, now.Load())
}
