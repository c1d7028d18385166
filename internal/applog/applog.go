// Package applog centralizes structured logging for the pipeline. The
// teacher (doismellburning-samoyed) tags every log line with a one-word
// subsystem prefix via its hand-rolled text_color_set/dw_printf pair
// ("DNS-SD: ...", "PTT: ..."); this package keeps that one-subsystem-one-
// logger shape but backs it with github.com/charmbracelet/log so levels,
// timestamps and color are handled by a real library instead of by hand.
package applog

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.Mutex
	root   = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	output io.Writer = os.Stderr
)

// Configure sets the process-wide log level and output. Called once from
// cmd/magicstomp/main.go before any component logger is used.
func Configure(level log.Level, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		output = w
	}
	root = log.NewWithOptions(output, log.Options{ReportTimestamp: true})
	root.SetLevel(level)
}

// For returns a logger tagged with the given component name, e.g.
// applog.For("audioengine"). Mirrors the teacher's per-subsystem prefix
// convention as a structured field instead of a string prefix.
func For(component string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return root.With("component", component)
}
