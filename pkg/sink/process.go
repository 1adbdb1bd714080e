package sink

import (
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/pixel"
	"github.com/tauraamui/dragoneye/pkg/video/snapshot"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// ProcessFrame transforms in into out and, if a save was requested, writes
// the transformed frame to disk. Save failures are logged and the request
// is consumed either way. Neither sample is retained after return.
func (s *FrameSink) ProcessFrame(in, out *videoframe.Sample) (int, error) {
	s.mu.Lock()
	if s.state == Unconnected {
		s.mu.Unlock()
		return 0, ErrNotConnected
	}
	format := s.input
	req := s.request
	s.request = saveRequest{}
	s.saving = req.pending
	s.mu.Unlock()

	n := in.ActualLength
	if n > len(in.Data) {
		n = len(in.Data)
	}
	pixel.Transform(s.mode, in.Data[:n], out.Data)

	out.SyncPoint = true
	out.ActualLength = in.ActualLength
	out.Timestamp = in.Timestamp

	if req.pending {
		s.save(req.path, format, out.Bytes())
	}

	return out.ActualLength, nil
}

func (s *FrameSink) save(path string, format videoframe.Format, data []byte) {
	if err := s.write(path, format, data); err != nil {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
		log.Error(xerror.Errorf("unable to save frame to %s: %w", path, err).AsKind(FileWriteError).Error())
		return
	}

	s.mu.Lock()
	s.saving = false
	s.framesSaved++
	seq := s.framesSaved
	s.mu.Unlock()

	log.Info("Saved frame %d to %s", seq, path)

	if s.onSaved != nil {
		kind, _ := snapshot.KindFromPath(path)
		s.onSaved(Saved{Path: path, Kind: kind, Sequence: seq, Format: format, At: timestamp()})
	}

	if s.postSave != nil {
		if err := s.postSave.Run(path); err != nil {
			log.Error(err.Error())
		}
	}
}

func (s *FrameSink) write(path string, format videoframe.Format, data []byte) error {
	kind, err := snapshot.KindFromPath(path)
	if err != nil {
		return err
	}

	if err := snapshot.WaitUnlocked(s.fs, path, s.lockTimeout, s.lockRetryInterval); err != nil {
		return err
	}

	return snapshot.Write(s.fs, path, kind, format, data)
}
