package process

import (
	"github.com/tauraamui/dragoneye/pkg/camera"
	"github.com/tauraamui/dragoneye/pkg/video/videobackend"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

func Stream(cam camera.Connection, buffers Buffers, samples chan *videoframe.Sample) error {
	return stream(cam, buffers, samples)
}

func Transform(proc FrameProcessor, buffers Buffers, in *videoframe.Sample, format videoframe.Format, preview videobackend.Preview) {
	transform(proc, buffers, in, format, preview)
}
