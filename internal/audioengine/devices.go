package audioengine

import (
	"strings"

	"github.com/gordonklaus/portaudio"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

// ListDevicesPortAudio enumerates devices through portaudio's own host
// API, the cross-platform default (spec.md §4.4/§6 --via=portaudio).
func ListDevicesPortAudio() ([]DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, apperr.Newf(apperr.KindConfigureFailed, "audioengine.ListDevicesPortAudio", "enumerate: %v", err)
	}
	out := make([]DeviceInfo, 0, len(devices))
	for i, d := range devices {
		out = append(out, DeviceInfo{
			Index:             i,
			Name:              d.Name,
			MaxInputs:         d.MaxInputChannels,
			MaxOutputs:        d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			Via:               "portaudio",
		})
	}
	return out, nil
}

// ListDevices enumerates devices using the backend named by via
// ("portaudio", "udev", or "auto"). "auto" prefers the udev backend when
// it's compiled in (Linux) and falls back to portaudio otherwise.
func ListDevices(via string) ([]DeviceInfo, error) {
	switch via {
	case "", "portaudio":
		return ListDevicesPortAudio()
	case "udev":
		return listDevicesUdev()
	case "auto":
		if devs, err := listDevicesUdev(); err == nil {
			return devs, nil
		}
		return ListDevicesPortAudio()
	default:
		return nil, apperr.Newf(apperr.KindConfigureFailed, "audioengine.ListDevices", "unknown enumeration backend %q", via)
	}
}

// SelectDeviceByName finds the first enumerated device whose name
// contains substr (case-insensitive), matching the original HIL loader's
// set_input_device(device_name=...) substring match.
func SelectDeviceByName(via, substr string) (DeviceInfo, error) {
	devices, err := ListDevices(via)
	if err != nil {
		return DeviceInfo{}, err
	}
	needle := strings.ToLower(substr)
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d, nil
		}
	}
	return DeviceInfo{}, apperr.Newf(apperr.KindConfigureFailed, "audioengine.SelectDeviceByName", "no device matching %q", substr)
}
