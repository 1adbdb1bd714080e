package sink

import (
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/hook"
	"github.com/tauraamui/dragoneye/pkg/pixel"
	"github.com/tauraamui/dragoneye/pkg/video/snapshot"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

const (
	DefaultWidth             = 640
	DefaultHeight            = 480
	DefaultLockTimeout       = 2 * time.Second
	DefaultLockRetryInterval = 10 * time.Millisecond
)

type State int

const (
	Unconnected State = iota
	Negotiating
	Connected
)

func (s State) String() string {
	switch s {
	case Negotiating:
		return "negotiating"
	case Connected:
		return "connected"
	default:
		return "unconnected"
	}
}

// Saved describes a completed snapshot save.
type Saved struct {
	Path     string
	Kind     snapshot.Kind
	Sequence int
	Format   videoframe.Format
	At       time.Time
}

type Settings struct {
	Width             int
	Height            int
	Mode              pixel.Mode
	Fs                afero.Fs
	PostSave          hook.Runner
	LockTimeout       time.Duration
	LockRetryInterval time.Duration
	OnSaved           func(Saved)
}

type saveRequest struct {
	path    string
	pending bool
}

// FrameSink is the transform stage of a capture pipeline. It owns the
// negotiated geometry, the single outstanding save request and the
// count of frames saved so far.
type FrameSink struct {
	width, height     int
	mode              pixel.Mode
	fs                afero.Fs
	postSave          hook.Runner
	lockTimeout       time.Duration
	lockRetryInterval time.Duration
	onSaved           func(Saved)

	mu          sync.Mutex
	state       State
	input       videoframe.Format
	output      videoframe.Format
	request     saveRequest
	saving      bool
	framesSaved int
}

func New(settings Settings) *FrameSink {
	s := FrameSink{
		width:             settings.Width,
		height:            settings.Height,
		mode:              settings.Mode,
		fs:                settings.Fs,
		postSave:          settings.PostSave,
		lockTimeout:       settings.LockTimeout,
		lockRetryInterval: settings.LockRetryInterval,
		onSaved:           settings.OnSaved,
	}
	if s.width <= 0 || s.height <= 0 {
		s.width, s.height = DefaultWidth, DefaultHeight
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.lockTimeout <= 0 {
		s.lockTimeout = DefaultLockTimeout
	}
	if s.lockRetryInterval <= 0 {
		s.lockRetryInterval = DefaultLockRetryInterval
	}
	return &s
}

func (s *FrameSink) Mode() pixel.Mode {
	return s.mode
}

func (s *FrameSink) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RequestSave asks for the next processed frame to be saved to path.
// An unconsumed earlier request is replaced.
func (s *FrameSink) RequestSave(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.request = saveRequest{path: path, pending: true}
}

func (s *FrameSink) Pending() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.request.path, s.request.pending
}

// Saving reports whether a taken save request is still being written.
func (s *FrameSink) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

func (s *FrameSink) FramesSaved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.framesSaved
}

var timestamp = func() time.Time {
	return time.Now()
}

func (s *FrameSink) Width() int {
	return s.width
}

func (s *FrameSink) Height() int {
	return s.height
}
