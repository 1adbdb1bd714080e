package camera_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragoneye/pkg/camera"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

func TestFind(t *testing.T) {
	tests := []struct {
		title    string
		devices  []videoframe.Device
		number   int
		name     string
		expected videoframe.Device
		err      error
	}{
		{title: "first by number", devices: twoCameras, number: 1, expected: twoCameras[0]},
		{title: "second by number", devices: twoCameras, number: 2, expected: twoCameras[1]},
		{title: "number too large", devices: twoCameras, number: 3, err: camera.ErrDeviceNotFound},
		{title: "number zero", devices: twoCameras, number: 0, err: camera.ErrDeviceNotFound},
		{title: "name wins over number", devices: twoCameras, number: 1, name: "USB Camera", expected: twoCameras[1]},
		{title: "quoted name", devices: twoCameras, name: `"Integrated Camera"`, expected: twoCameras[0]},
		{title: "unknown name", devices: twoCameras, number: 1, name: "Webcam", err: camera.ErrDeviceNotFound},
		{title: "no devices", number: 1, err: camera.ErrNoDevicesAvailable},
		{title: "no devices by name", name: "USB Camera", err: camera.ErrNoDevicesAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			is := is.New(t)
			device, err := camera.Find(tt.devices, tt.number, tt.name)
			if tt.err != nil {
				is.True(errors.Is(err, tt.err))
				return
			}
			is.NoErr(err)
			is.Equal(device, tt.expected)
		})
	}
}

func TestFindErrorMessages(t *testing.T) {
	is := is.New(t)
	_, err := camera.Find(twoCameras, 5, "")
	is.Equal(err.Error(), "capture device not found: device number 5 out of range 1-2")

	_, err = camera.Find(twoCameras, 1, "Webcam")
	is.Equal(err.Error(), `capture device not found: no device named "Webcam"`)
}

func TestTrimName(t *testing.T) {
	is := is.New(t)
	is.Equal(camera.TrimName(`  "USB Camera" `), "USB Camera")
	is.Equal(camera.TrimName(`'USB Camera'`), "USB Camera")
	is.Equal(camera.TrimName(`"`), `"`)
	is.Equal(camera.TrimName(`USB "HD" Camera`), `USB "HD" Camera`)
}
