//go:build !linux

package audioengine

import "github.com/wboxxx/magicstomp-autotune/internal/apperr"

// listDevicesUdev has no implementation outside Linux; ListDevices'
// "auto" backend falls back to portaudio when this errors.
func listDevicesUdev() ([]DeviceInfo, error) {
	return nil, apperr.Newf(apperr.KindConfigureFailed, "audioengine.listDevicesUdev", "udev enumeration is only available on linux")
}
