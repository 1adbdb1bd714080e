package capture

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/tauraamui/dragoneye/pkg/video/snapshot"
	"github.com/tauraamui/xerror"
)

// Unbounded disables the frame count target.
const Unbounded = -1

type Action int

const (
	None Action = iota
	Request
	Stop
)

func (a Action) String() string {
	switch a {
	case Request:
		return "request"
	case Stop:
		return "stop"
	default:
		return "none"
	}
}

// Decision is the outcome of a single scheduler tick. Path is only set
// when Action is Request.
type Decision struct {
	Action Action
	Path   string
}

// Options configure the capture scheduler.
type Options struct {
	StartDelay    time.Duration
	Period        time.Duration
	FrameCount    int
	NumberedFiles bool
	Dir           string
	BaseName      string
	Format        snapshot.Kind
}

// Scheduler decides when the sink should be asked for another frame.
// It never blocks and holds no locks; one goroutine owns it.
type Scheduler struct {
	opts     Options
	start    time.Time
	last     time.Time
	captured bool
	issued   int
}

// New validates options and returns a scheduler instance.
func New(opts Options) (*Scheduler, error) {
	if opts.Period <= 0 {
		return nil, xerror.New("period must be positive")
	}
	if opts.StartDelay < 0 {
		return nil, xerror.New("start delay must not be negative")
	}
	if opts.BaseName == "" {
		return nil, xerror.New("file base name must not be empty")
	}
	return &Scheduler{opts: opts}, nil
}

// Start marks the beginning of the session which the start delay counts from.
func (s *Scheduler) Start(now time.Time) {
	s.start = now
	s.last = time.Time{}
	s.captured = false
	s.issued = 0
}

func (s *Scheduler) Bounded() bool {
	return s.opts.FrameCount >= 0
}

func (s *Scheduler) Issued() int {
	return s.issued
}

func (s *Scheduler) LastCapture() time.Time {
	return s.last
}

// Tick is polled by the capture loop. saving reports a save the sink has
// taken but not yet finished; it counts towards the target so a bounded run
// never asks for more frames than it needs, and it keeps numbered file
// names from colliding with the file being written.
func (s *Scheduler) Tick(now time.Time, framesSaved int, saving bool) Decision {
	if s.Bounded() && framesSaved >= s.opts.FrameCount {
		return Decision{Action: Stop}
	}
	if now.Before(s.start.Add(s.opts.StartDelay)) {
		return Decision{Action: None}
	}
	if s.captured && now.Before(s.last.Add(s.opts.Period)) {
		return Decision{Action: None}
	}

	next := framesSaved + 1
	if saving {
		next++
	}
	if s.Bounded() && next > s.opts.FrameCount {
		return Decision{Action: None}
	}

	s.issued++
	s.last = now
	s.captured = true
	return Decision{Action: Request, Path: s.filename(next)}
}

func (s *Scheduler) filename(seq int) string {
	name := s.opts.BaseName
	if s.opts.NumberedFiles {
		name = fmt.Sprintf("%s%06d", name, seq)
	}
	return filepath.Join(s.opts.Dir, name+s.opts.Format.Ext())
}
