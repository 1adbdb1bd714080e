package videobackend

import (
	"context"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

var fs = afero.NewOsFs()

const EnvKey = "DRAGONEYE_VIDEO_BACKEND"

type Connection interface {
	UUID() string
	Format() videoframe.Format
	Read(*videoframe.Sample) error
	IsOpen() bool
	Close() error
}

// Preview displays processed frames. Show must not retain data.
type Preview interface {
	Show(videoframe.Format, []byte) error
	Close() error
}

type Backend interface {
	Devices() ([]videoframe.Device, error)
	Connect(context.Context, videoframe.Device, videoframe.Format) (Connection, error)
	NewPreview(title string) Preview
}

func Default() Backend {
	return OpenCV()
}

func OpenCV() Backend {
	return &openCVBackend{}
}

func Mock() Backend {
	return &mockVideoBackend{}
}

func Resolve(t string) Backend {
	switch t {
	case "mock":
		return Mock()
	case "v4l2":
		return V4L2()
	default:
		return Default()
	}
}

func Known(t string) bool {
	switch t {
	case "", "opencv", "mock", "v4l2":
		return true
	}
	return false
}
