package sink

import (
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// ProposeInputFormat accepts only the configured geometry as uncompressed
// single plane 24 bit frames. Once connected, a proposal must repeat the
// established geometry exactly.
func (s *FrameSink) ProposeInputFormat(f videoframe.Format) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Connected {
		if !f.SameGeometry(s.input) {
			return xerror.Errorf("%w: %s differs from established %s", ErrFormatRejected, f, s.input)
		}
		return nil
	}

	s.state = Negotiating
	if err := s.checkInputType(f); err != nil {
		s.state = Unconnected
		s.input = videoframe.Format{}
		return err
	}

	s.input = f
	log.Debug("Sink accepted input format: %s", f)
	return nil
}

func (s *FrameSink) checkInputType(f videoframe.Format) error {
	if f.Width != s.width ||
		f.Height != s.height ||
		f.BitsPerPixel != 24 ||
		f.Planes != 1 ||
		f.Compression != videoframe.CompressionNone {
		return xerror.Errorf(
			"%w: %s, want %dx%d 24bpp single plane uncompressed", ErrFormatRejected, f, s.width, s.height,
		)
	}
	return nil
}

// PreferredOutputFormat mirrors the connected input geometry.
func (s *FrameSink) PreferredOutputFormat() (videoframe.Format, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Unconnected {
		return videoframe.Format{}, ErrNotConnected
	}

	out := s.input
	out.Planes = 1
	out.BitsPerPixel = 24
	out.Compression = videoframe.CompressionNone
	out.Width = s.width
	out.Height = s.height
	return out, nil
}

// ValidateTransformPair rejects any pairing which would need cropping,
// scaling or a change of pixel format.
func (s *FrameSink) ValidateTransformPair(in, out videoframe.Format) error {
	if out.Planes != 1 ||
		out.BitsPerPixel != 24 ||
		out.Compression != videoframe.CompressionNone ||
		out.Width != in.Width ||
		out.Height != in.Height {
		return xerror.Errorf("%w: in %s, out %s", ErrFormatMismatch, in, out)
	}

	full := videoframe.FullFrame(in.Width, in.Height)
	if (!in.Source.IsEmpty() && !in.Source.Equal(full)) ||
		(!out.Target.IsEmpty() && !out.Target.Equal(full)) {
		return xerror.Errorf("%w: source and target must cover the full %dx%d frame", ErrFormatMismatch, in.Width, in.Height)
	}
	return nil
}

// SetOutputFormat completes negotiation.
func (s *FrameSink) SetOutputFormat(out videoframe.Format) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Unconnected {
		return ErrNotConnected
	}
	if err := s.ValidateTransformPair(s.input, out); err != nil {
		return err
	}

	s.output = out
	s.state = Connected
	return nil
}

func (s *FrameSink) OutputFormat() (videoframe.Format, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Connected {
		return videoframe.Format{}, ErrNotConnected
	}
	return s.output, nil
}

// RequiredBufferSize leaves room for two frames.
func RequiredBufferSize(out videoframe.Format) int {
	return out.FrameSize() * 2
}

// DecideBufferSize asks alloc for buffers big enough for the negotiated
// output and fails if it grants less than that.
func (s *FrameSink) DecideBufferSize(alloc Allocator, req AllocatorProperties) (AllocatorProperties, error) {
	out, err := s.OutputFormat()
	if err != nil {
		return AllocatorProperties{}, err
	}

	req.BufferSize = RequiredBufferSize(out)
	if req.Align == 0 {
		req.Align = 1
	}
	if req.Buffers == 0 {
		req.Buffers = 1
	}

	actual, err := alloc.SetProperties(req)
	if err != nil {
		return AllocatorProperties{}, xerror.Errorf("unable to set allocator properties: %w", err)
	}

	if req.BufferSize > actual.BufferSize {
		return actual, xerror.Errorf(
			"%w: requested %d bytes, granted %d", ErrAllocationInsufficient, req.BufferSize, actual.BufferSize,
		)
	}
	return actual, nil
}

func (s *FrameSink) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Unconnected
	s.input = videoframe.Format{}
	s.output = videoframe.Format{}
}
