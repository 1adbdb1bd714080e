//go:build linux
// +build linux

package videobackend

import (
	"context"
	"sync"
	"time"

	"github.com/blackjack/webcam"
	"github.com/google/uuid"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// V4L2 pixel format fourcc for packed YUYV 4:2:2.
const pixelFormatYUYV webcam.PixelFormat = 'Y' | 'U'<<8 | 'Y'<<16 | 'V'<<24

const v4l2FrameTimeoutSeconds = 2

func V4L2() Backend {
	return &v4l2Backend{}
}

type v4l2Backend struct{}

func (b *v4l2Backend) Devices() ([]videoframe.Device, error) {
	return listV4L2Devices(fs)
}

func (b *v4l2Backend) Connect(cancel context.Context, device videoframe.Device, format videoframe.Format) (Connection, error) {
	if err := cancel.Err(); err != nil {
		return nil, xerror.New("connection cancelled")
	}

	cam, err := openWebcam(device.Address)
	if err != nil {
		return nil, xerror.Errorf("unable to open device %s: %w", device.Address, err)
	}

	pf, w, h, err := cam.SetImageFormat(pixelFormatYUYV, uint32(format.Width), uint32(format.Height))
	if err != nil {
		cam.Close()
		return nil, xerror.Errorf("unable to set image format on %s: %w", device.Address, err)
	}
	if pf != pixelFormatYUYV {
		cam.Close()
		return nil, xerror.Errorf("device %s does not support YUYV capture", device.Address)
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, xerror.Errorf("unable to start streaming from %s: %w", device.Address, err)
	}

	return &v4l2Connection{
		cam:     cam,
		format:  videoframe.RGB24(int(w), int(h), videoframe.TopDown),
		started: time.Now(),
		isOpen:  true,
	}, nil
}

func (b *v4l2Backend) NewPreview(title string) Preview {
	return &openCVPreview{title: title}
}

type webcamDevice interface {
	SetImageFormat(webcam.PixelFormat, uint32, uint32) (webcam.PixelFormat, uint32, uint32, error)
	StartStreaming() error
	WaitForFrame(uint32) error
	ReadFrame() ([]byte, error)
	StopStreaming() error
	Close() error
}

var openWebcam = func(path string) (webcamDevice, error) {
	return webcam.Open(path)
}

type v4l2Connection struct {
	uuid    string
	mu      sync.Mutex
	cam     webcamDevice
	format  videoframe.Format
	started time.Time
	isOpen  bool
}

func (c *v4l2Connection) UUID() string {
	if len(c.uuid) == 0 {
		c.uuid = uuid.NewString()
	}
	return c.uuid
}

func (c *v4l2Connection) Format() videoframe.Format {
	return c.format
}

func (c *v4l2Connection) Read(sample *videoframe.Sample) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isOpen {
		return xerror.New("unable to read from closed video connection")
	}

	err := c.cam.WaitForFrame(v4l2FrameTimeoutSeconds)
	switch err.(type) {
	case nil:
	case *webcam.Timeout:
		return xerror.Errorf("timed out waiting for frame: %w", err)
	default:
		return xerror.Errorf("frame wait failed: %w", err)
	}

	frame, err := c.cam.ReadFrame()
	if err != nil {
		return xerror.Errorf("unable to read frame: %w", err)
	}
	if len(frame) < c.format.Width*c.format.Height*2 {
		return xerror.Errorf("short YUYV frame: %d bytes for %s", len(frame), c.format)
	}

	sample.ActualLength = yuyvToBGR(sample.Data, frame)
	sample.Timestamp = time.Since(c.started)
	return nil
}

func (c *v4l2Connection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

func (c *v4l2Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return nil
	}
	c.isOpen = false
	if err := c.cam.StopStreaming(); err != nil {
		c.cam.Close()
		return xerror.Errorf("unable to stop streaming: %w", err)
	}
	return c.cam.Close()
}
