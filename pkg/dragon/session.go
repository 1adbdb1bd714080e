package dragon

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/camera"
	"github.com/tauraamui/dragoneye/pkg/capture"
	"github.com/tauraamui/dragoneye/pkg/dragon/process"
	"github.com/tauraamui/dragoneye/pkg/hook"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/pixel"
	"github.com/tauraamui/dragoneye/pkg/sink"
	"github.com/tauraamui/dragoneye/pkg/video/videobackend"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

const DefaultPollInterval = 5 * time.Millisecond

// Catalogue records sessions and the snapshots they save.
type Catalogue interface {
	SessionStarted(sessionUUID, deviceName string, format videoframe.Format, transform string, at time.Time) error
	SnapshotSaved(sessionUUID string, saved sink.Saved) error
	SessionFinished(sessionUUID string, framesSaved int) error
	Close() error
}

type Settings struct {
	Backend      videobackend.Backend
	DeviceNumber int
	DeviceName   string
	Width        int
	Height       int
	Mode         pixel.Mode
	Fs           afero.Fs
	PostSave     hook.Runner
	LockTimeout  time.Duration
	Schedule     capture.Options
	ShowPreview  bool
	Catalogue    Catalogue
	PollInterval time.Duration
	Clock        func() time.Time
}

// Session owns every resource of one capture run. Setup acquires them,
// Run drives the capture and Teardown releases whatever was acquired.
type Session struct {
	UUID                string
	Device              videoframe.Device
	DeviceFormat        videoframe.Format
	StartTime           time.Time
	RequestedFrameCount int

	settings  Settings
	clock     func() time.Time
	scheduler *capture.Scheduler
	conn      camera.Connection
	sink      *sink.FrameSink
	allocator *sink.PoolAllocator
	preview   videobackend.Preview
	pipeline  process.Pipeline
	started   bool
	teardown  sync.Once
}

func NewSession(settings Settings) (*Session, error) {
	if settings.Backend == nil {
		return nil, xerror.New("video backend must be provided")
	}
	scheduler, err := capture.New(settings.Schedule)
	if err != nil {
		return nil, xerror.Errorf("invalid capture schedule: %w", err)
	}
	if settings.Width <= 0 || settings.Height <= 0 {
		settings.Width, settings.Height = sink.DefaultWidth, sink.DefaultHeight
	}
	if settings.PollInterval <= 0 {
		settings.PollInterval = DefaultPollInterval
	}
	clock := settings.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Session{
		UUID:                uuid.NewString(),
		RequestedFrameCount: settings.Schedule.FrameCount,
		settings:            settings,
		clock:               clock,
		scheduler:           scheduler,
	}, nil
}

// Setup connects to the selected device and negotiates the pipeline. On
// failure everything acquired so far is released before returning.
func (s *Session) Setup(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			s.Teardown()
		}
	}()

	log.Info("Connecting to capture device...")
	conn, err := camera.Open(ctx, camera.Settings{
		Number: s.settings.DeviceNumber,
		Name:   s.settings.DeviceName,
		Format: videoframe.RGB24(s.settings.Width, s.settings.Height, videoframe.BottomUp),
	}, s.settings.Backend)
	if err != nil {
		return err
	}
	s.conn = conn
	s.Device = conn.Device()
	s.DeviceFormat = conn.Format()
	log.Info("Connected successfully to camera: [%s]", conn.Title())

	s.sink = sink.New(sink.Settings{
		Width:       s.settings.Width,
		Height:      s.settings.Height,
		Mode:        s.settings.Mode,
		Fs:          s.settings.Fs,
		PostSave:    s.settings.PostSave,
		LockTimeout: s.settings.LockTimeout,
		OnSaved:     s.onSaved,
	})
	if err := s.negotiate(); err != nil {
		return err
	}

	if s.settings.ShowPreview {
		s.preview = s.settings.Backend.NewPreview(fmt.Sprintf("dragoneye - %s", conn.Title()))
	}

	s.pipeline = process.NewCoreProcess(conn, s.sink, s.allocator, s.preview)
	s.pipeline.Setup()
	return nil
}

func (s *Session) negotiate() error {
	if err := s.sink.ProposeInputFormat(s.DeviceFormat); err != nil {
		return err
	}
	out, err := s.sink.PreferredOutputFormat()
	if err != nil {
		return err
	}
	if err := s.sink.SetOutputFormat(out); err != nil {
		return err
	}

	s.allocator = &sink.PoolAllocator{}
	props, err := s.sink.DecideBufferSize(s.allocator, sink.AllocatorProperties{})
	if err != nil {
		return err
	}
	log.Debug("Negotiated %s with %d byte buffers", out, props.BufferSize)
	return nil
}

func (s *Session) onSaved(saved sink.Saved) {
	if s.settings.Catalogue == nil {
		return
	}
	if err := s.settings.Catalogue.SnapshotSaved(s.UUID, saved); err != nil {
		log.Error(xerror.Errorf("unable to catalogue snapshot %s: %w", saved.Path, err).Error())
	}
}

// Run streams frames and polls the scheduler until the requested frame
// count is reached, ctx is cancelled or the pipeline fails.
func (s *Session) Run(ctx context.Context) error {
	if s.pipeline == nil {
		return xerror.New("capture session has not been set up")
	}

	s.StartTime = s.clock()
	s.scheduler.Start(s.StartTime)
	if s.settings.Catalogue != nil {
		err := s.settings.Catalogue.SessionStarted(s.UUID, s.Device.Name, s.DeviceFormat, s.settings.Mode.String(), s.StartTime)
		if err != nil {
			log.Error(xerror.Errorf("unable to catalogue session: %w", err).Error())
		}
	}

	s.pipeline.Start()
	s.started = true

	poll := time.NewTicker(s.settings.PollInterval)
	defer poll.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Capture stopped after %d frames", s.FramesSaved())
			return nil
		case err := <-s.pipeline.Errors():
			return xerror.Errorf("capture pipeline failed: %w", err)
		default:
		}

		now := s.clock()
		d := s.scheduler.Tick(now, s.sink.FramesSaved(), s.sink.Saving())
		switch d.Action {
		case capture.Stop:
			log.Info("Captured %d of %d requested frames", s.FramesSaved(), s.RequestedFrameCount)
			return nil
		case capture.Request:
			log.Debug("Requesting frame save to %s", d.Path)
			s.sink.RequestSave(d.Path)
		}

		select {
		case <-ctx.Done():
		case <-poll.C:
		}
	}
}

func (s *Session) FramesSaved() int {
	if s.sink == nil {
		return 0
	}
	return s.sink.FramesSaved()
}

func (s *Session) LastCaptureTime() time.Time {
	return s.scheduler.LastCapture()
}

// Teardown releases the session's resources. It is safe to call more
// than once and after a failed Setup.
func (s *Session) Teardown() {
	s.teardown.Do(s.shutdown)
}

func (s *Session) shutdown() {
	if s.pipeline != nil && s.started {
		s.pipeline.Stop()
		s.pipeline.Wait()
	}

	if s.preview != nil {
		if err := s.preview.Close(); err != nil {
			log.Error(xerror.Errorf("unable to close preview: %w", err).Error())
		}
	}

	if s.sink != nil {
		s.sink.Disconnect()
	}

	if s.conn != nil {
		log.Warn("Closing camera connection: [%s]...", s.conn.Title())
		if err := s.conn.Close(); err != nil {
			log.Error(xerror.Errorf("unable to close camera connection: %w", err).Error())
		}
	}

	if c := s.settings.Catalogue; c != nil {
		if s.started {
			if err := c.SessionFinished(s.UUID, s.FramesSaved()); err != nil {
				log.Error(xerror.Errorf("unable to catalogue session result: %w", err).Error())
			}
		}
		if err := c.Close(); err != nil {
			log.Error(xerror.Errorf("unable to close catalogue: %w", err).Error())
		}
	}
}

// ListDevices writes the backend's capture devices to w, numbered as
// --device-number expects them. Finding none is reported, not an error.
func ListDevices(backend videobackend.Backend, w io.Writer) error {
	devices, err := backend.Devices()
	if err != nil {
		return xerror.Errorf("unable to list capture devices: %w", err)
	}
	if len(devices) == 0 {
		fmt.Fprintln(w, "No devices found")
		return nil
	}

	fmt.Fprintln(w, "Available capture devices:")
	for _, d := range devices {
		fmt.Fprintf(w, "  %s\n", d)
	}
	return nil
}
