// Package perf writes optional timing lines for the frame loop and the
// renderer. Set RATRAK_PERF=1 to enable; output goes to ratrak-perf.log
// in the runtime dir.
package perf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/b/ratrak/pkg/paths"
)

var (
	mu      sync.Mutex
	out     io.Writer
	enabled bool
)

func init() {
	if os.Getenv("RATRAK_PERF") != "1" {
		return
	}
	f, err := os.OpenFile(filepath.Join(paths.RuntimeDir(), "ratrak-perf.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	SetOutput(f)
}

// SetOutput redirects perf lines to w. nil disables logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	enabled = w != nil
}

// IsEnabled returns whether performance logging is enabled
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Timer tracks elapsed time for a named operation
type Timer struct {
	name  string
	start time.Time
}

// Start begins timing an operation
func Start(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop ends timing and logs the result
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Log("%s: %v", t.name, elapsed)
	return elapsed
}

// Track times fn.
func Track(name string, fn func()) time.Duration {
	t := Start(name)
	fn()
	return t.Stop()
}

// Log writes a custom message to the perf log
func Log(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// Frames aggregates per-frame durations and logs a summary every Every
// samples, so a 60fps loop does not write sixty lines a second.
type Frames struct {
	Name  string
	Every int

	n     int
	total time.Duration
	worst time.Duration
}

// Add records one sample and reports whether a summary was flushed.
func (f *Frames) Add(d time.Duration) bool {
	f.n++
	f.total += d
	if d > f.worst {
		f.worst = d
	}
	every := f.Every
	if every <= 0 {
		every = 60
	}
	if f.n < every {
		return false
	}
	Log("%s: %d frames avg=%v worst=%v", f.Name, f.n, f.total/time.Duration(f.n), f.worst)
	f.n, f.total, f.worst = 0, 0, 0
	return true
}
