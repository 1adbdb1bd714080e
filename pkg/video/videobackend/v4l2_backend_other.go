//go:build !linux
// +build !linux

package videobackend

import (
	"context"

	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var errV4L2Unsupported = xerror.New("v4l2 video backend is only available on linux")

func V4L2() Backend {
	return &v4l2Backend{}
}

type v4l2Backend struct{}

func (b *v4l2Backend) Devices() ([]videoframe.Device, error) {
	return nil, errV4L2Unsupported
}

func (b *v4l2Backend) Connect(context.Context, videoframe.Device, videoframe.Format) (Connection, error) {
	return nil, errV4L2Unsupported
}

func (b *v4l2Backend) NewPreview(title string) Preview {
	return &openCVPreview{title: title}
}
