package devicelink

import (
	"github.com/pkg/term"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

// knownBauds mirrors the teacher's serial_port_open fallback table
// (src/serial_port.go), generalized from packet-radio TNC bitrates to the
// set a USB-MIDI-to-serial bridge is likely to expose.
var knownBauds = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true,
	19200: true, 38400: true, 57600: true, 115200: true, 31250: true, // 31250 = classic MIDI baud
}

// OpenSerial opens a raw serial port as a Transport, for Magicstomps
// reached through a USB-MIDI-to-serial bridge rather than a native MIDI
// API binding. Generalizes the teacher's serial_port_open.
func OpenSerial(devicename string, baud int) (ReplyTransport, error) {
	t, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, apperr.Newf(apperr.KindPortOpen, "devicelink.OpenSerial", "open %s: %v", devicename, err)
	}

	switch {
	case baud == 0:
		// leave the port's current speed alone
	case knownBauds[baud]:
		if err := t.SetSpeed(baud); err != nil {
			_ = t.Close()
			return nil, apperr.Newf(apperr.KindPortOpen, "devicelink.OpenSerial", "set speed %d on %s: %v", baud, devicename, err)
		}
	default:
		_ = t.Close()
		return nil, apperr.Newf(apperr.KindPortOpen, "devicelink.OpenSerial", "unsupported baud rate %d", baud)
	}

	return t, nil
}
