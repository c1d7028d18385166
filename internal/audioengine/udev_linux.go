//go:build linux

package audioengine

import (
	"strings"

	"github.com/jochenvg/go-udev"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

// listDevicesUdev enumerates ALSA sound-card subsystem nodes directly
// through udev, giving stable device identification (by udev properties
// rather than portaudio's renumbered indices) across hot-plug events.
// Generalizes the teacher's reliance on /sys/class/gpio-style udev
// attribute lookups (src/ptt.go) to sound-card enumeration.
func listDevicesUdev() ([]DeviceInfo, error) {
	u := udev.Udev{}
	enumerate := u.NewEnumerate()
	if err := enumerate.AddMatchSubsystem("sound"); err != nil {
		return nil, apperr.Newf(apperr.KindConfigureFailed, "audioengine.listDevicesUdev", "match subsystem: %v", err)
	}

	devices, err := enumerate.Devices()
	if err != nil {
		return nil, apperr.Newf(apperr.KindConfigureFailed, "audioengine.listDevicesUdev", "enumerate: %v", err)
	}

	var out []DeviceInfo
	seen := map[string]bool{}
	for i, d := range devices {
		name := d.PropertyValue("ID_MODEL")
		if name == "" {
			name = d.Sysname()
		}
		if strings.Contains(d.Sysname(), "controlC") {
			continue // control nodes aren't capture/playback endpoints
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, DeviceInfo{
			Index: i,
			Name:  name,
			Via:   "udev",
		})
	}
	if len(out) == 0 {
		return nil, apperr.Newf(apperr.KindConfigureFailed, "audioengine.listDevicesUdev", "no sound devices found via udev")
	}
	return out, nil
}
