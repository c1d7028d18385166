//go:build linux

package audioengine

import (
	"github.com/warthog618/go-gpiocdev"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

// StatusLine drives a single GPIO output line used as a status indicator
// (e.g. an LED lit while the optimizer is actively sending tweaks, or a
// footswitch input to trigger a run). Generalizes the teacher's PTT GPIO
// keying (src/ptt.go) from "key the transmitter" to "signal optimizer
// activity", using go-gpiocdev's character-device API instead of the
// teacher's /sys/class/gpio sysfs writes.
type StatusLine struct {
	line *gpiocdev.Line
}

// OpenStatusLine requests offset as an output line on chip (e.g. "gpiochip0"),
// initially off.
func OpenStatusLine(chip string, offset int) (*StatusLine, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, apperr.Newf(apperr.KindConfigureFailed, "audioengine.OpenStatusLine", "request %s:%d: %v", chip, offset, err)
	}
	return &StatusLine{line: line}, nil
}

// Set drives the line high (on) or low (off).
func (s *StatusLine) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	return s.line.SetValue(v)
}

// Close releases the line.
func (s *StatusLine) Close() error {
	return s.line.Close()
}
