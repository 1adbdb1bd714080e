package videobackend

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// maxScannedDevices bounds how many capture indices are tried when listing.
const maxScannedDevices = 10

type openCVBackend struct{}

func (b *openCVBackend) Devices() ([]videoframe.Device, error) {
	devices := []videoframe.Device{}
	for i := 0; i < maxScannedDevices; i++ {
		vc, err := openVideoCapture(i)
		if err != nil {
			continue
		}
		opened := vc.IsOpened()
		vc.Close()
		if !opened {
			continue
		}
		devices = append(devices, videoframe.Device{
			Index:   len(devices) + 1,
			Name:    fmt.Sprintf("OpenCV capture device %d", i),
			Address: strconv.Itoa(i),
		})
	}
	return devices, nil
}

func (b *openCVBackend) Connect(cancel context.Context, device videoframe.Device, format videoframe.Format) (Connection, error) {
	conn := openCVConnection{}
	if err := conn.connect(cancel, device, format); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (b *openCVBackend) NewPreview(title string) Preview {
	return &openCVPreview{title: title}
}

type openCVConnection struct {
	uuid    string
	mu      sync.Mutex
	isOpen  bool
	vc      *gocv.VideoCapture
	mat     gocv.Mat
	format  videoframe.Format
	started time.Time
}

func (c *openCVConnection) connect(cancel context.Context, device videoframe.Device, format videoframe.Format) error {
	index, err := strconv.Atoi(device.Address)
	if err != nil {
		return xerror.Errorf("invalid OpenCV device address %q: %w", device.Address, err)
	}

	connAndError := make(chan openVideoStreamResult, 1)
	go openVideoStream(index, connAndError)
	select {
	case r := <-connAndError:
		if r.err != nil {
			return r.err
		}
		c.vc = r.vc
	case <-cancel.Done():
		go func() {
			if r := <-connAndError; r.vc != nil {
				r.vc.Close()
			}
		}()
		return xerror.New("connection cancelled")
	}

	setCaptureDimensions(c.vc, format.Width, format.Height)
	w, h := captureDimensions(c.vc)
	if w <= 0 || h <= 0 {
		w, h = format.Width, format.Height
	}
	if w != format.Width || h != format.Height {
		log.Warn("Device %s delivers %dx%d instead of requested %dx%d", device.Name, w, h, format.Width, format.Height)
	}

	c.format = videoframe.RGB24(w, h, videoframe.TopDown)
	c.mat = gocv.NewMat()
	c.started = time.Now()
	c.isOpen = true
	return nil
}

type openVideoStreamResult struct {
	vc  *gocv.VideoCapture
	err error
}

func openVideoStream(index int, d chan openVideoStreamResult) {
	vc, err := openVideoCapture(index)
	d <- openVideoStreamResult{vc: vc, err: err}
}

var openVideoCapture = func(index int) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(index)
}

var setCaptureDimensions = func(vc *gocv.VideoCapture, w, h int) {
	vc.Set(gocv.VideoCaptureFrameWidth, float64(w))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(h))
}

var captureDimensions = func(vc *gocv.VideoCapture) (int, int) {
	return int(vc.Get(gocv.VideoCaptureFrameWidth)), int(vc.Get(gocv.VideoCaptureFrameHeight))
}

var readFromVideoConnection = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

func (c *openCVConnection) UUID() string {
	if len(c.uuid) == 0 {
		c.uuid = uuid.NewString()
	}
	return c.uuid
}

func (c *openCVConnection) Format() videoframe.Format {
	return c.format
}

func (c *openCVConnection) Read(sample *videoframe.Sample) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !readFromVideoConnection(c.vc, &c.mat) {
		return xerror.New("unable to read from video connection")
	}
	if c.mat.Cols() != c.format.Width || c.mat.Rows() != c.format.Height || c.mat.Type() != gocv.MatTypeCV8UC3 {
		return xerror.Errorf(
			"unexpected frame %dx%d type %d from video connection, want %s",
			c.mat.Cols(), c.mat.Rows(), c.mat.Type(), c.format,
		)
	}

	sample.ActualLength = copy(sample.Data, c.mat.ToBytes())
	sample.Timestamp = time.Since(c.started)
	return nil
}

func (c *openCVConnection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isOpen {
		return c.vc.IsOpened()
	}
	return false
}

func (c *openCVConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return nil
	}
	c.isOpen = false
	c.mat.Close()
	return c.vc.Close()
}

type openCVPreview struct {
	title  string
	window *gocv.Window
}

var newWindow = func(title string) *gocv.Window {
	return gocv.NewWindow(title)
}

func (p *openCVPreview) Show(format videoframe.Format, data []byte) error {
	if len(data) < format.FrameSize() {
		return xerror.Errorf("preview frame too short: %d bytes, %s needs %d", len(data), format, format.FrameSize())
	}
	mat, err := gocv.NewMatFromBytes(format.Height, format.Width, gocv.MatTypeCV8UC3, data[:format.FrameSize()])
	if err != nil {
		return xerror.Errorf("unable to load frame for preview: %w", err)
	}
	defer mat.Close()

	if format.Orientation == videoframe.BottomUp {
		gocv.Flip(mat, &mat, 0)
	}

	if p.window == nil {
		p.window = newWindow(p.title)
	}
	p.window.IMShow(mat)
	p.window.WaitKey(1)
	return nil
}

func (p *openCVPreview) Close() error {
	if p.window == nil {
		return nil
	}
	err := p.window.Close()
	p.window = nil
	return err
}
