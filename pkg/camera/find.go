package camera

import (
	"strings"

	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var (
	ErrNoDevicesAvailable = xerror.New("no capture devices available")
	ErrDeviceNotFound     = xerror.New("capture device not found")
)

// Find selects a device by exact name when one is given, otherwise by its
// 1-based position in devices.
func Find(devices []videoframe.Device, number int, name string) (videoframe.Device, error) {
	if len(devices) == 0 {
		return videoframe.Device{}, ErrNoDevicesAvailable
	}

	if name = TrimName(name); len(name) > 0 {
		for _, d := range devices {
			if d.Name == name {
				return d, nil
			}
		}
		return videoframe.Device{}, xerror.Errorf("%w: no device named %q", ErrDeviceNotFound, name)
	}

	if number < 1 || number > len(devices) {
		return videoframe.Device{}, xerror.Errorf(
			"%w: device number %d out of range 1-%d", ErrDeviceNotFound, number, len(devices),
		)
	}
	return devices[number-1], nil
}

// TrimName strips surrounding whitespace and one pair of quotes.
func TrimName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 2 {
		if (name[0] == '"' && name[len(name)-1] == '"') || (name[0] == '\'' && name[len(name)-1] == '\'') {
			name = name[1 : len(name)-1]
		}
	}
	return name
}
