package videoframe

import (
	"fmt"
	"time"
)

type Compression int

const (
	CompressionNone Compression = 0x0
	CompressionRLE8 Compression = 0x1
	CompressionRLE4 Compression = 0x2
)

type Layout int

const (
	PackedBGR Layout = iota
	PackedRGB
)

type Orientation int

const (
	BottomUp Orientation = iota
	TopDown
)

func (o Orientation) String() string {
	if o == TopDown {
		return "top-down"
	}
	return "bottom-up"
}

type Dimensions struct {
	W, H int
}

type Rect struct {
	Left, Top, Right, Bottom int
}

func FullFrame(w, h int) Rect {
	return Rect{Right: w, Bottom: h}
}

func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

func (r Rect) Equal(o Rect) bool {
	return r == o
}

// Format describes the geometry and pixel layout of one frame.
type Format struct {
	Width        int
	Height       int
	BitsPerPixel int
	Planes       int
	Compression  Compression
	Layout       Layout
	Orientation  Orientation
	Source       Rect
	Target       Rect
}

// RGB24 returns an uncompressed single plane 24 bit format of the given size.
func RGB24(w, h int, orientation Orientation) Format {
	return Format{
		Width:        w,
		Height:       h,
		BitsPerPixel: 24,
		Planes:       1,
		Compression:  CompressionNone,
		Layout:       PackedBGR,
		Orientation:  orientation,
	}
}

func (f Format) Dimensions() Dimensions {
	return Dimensions{W: f.Width, H: f.Height}
}

// Stride is the count of bytes per packed row. Frame buffers carry no row
// padding, file encoders add any alignment their format needs.
func (f Format) Stride() int {
	return f.Width * f.BitsPerPixel / 8
}

func (f Format) FrameSize() int {
	return f.Stride() * f.Height
}

func (f Format) SameGeometry(o Format) bool {
	return f.Width == o.Width &&
		f.Height == o.Height &&
		f.BitsPerPixel == o.BitsPerPixel &&
		f.Planes == o.Planes &&
		f.Compression == o.Compression
}

func (f Format) String() string {
	return fmt.Sprintf("%dx%d %dbpp planes=%d compression=%d %s", f.Width, f.Height, f.BitsPerPixel, f.Planes, f.Compression, f.Orientation)
}

// Sample is a borrowed frame buffer handed through the pipeline. Holders
// must not retain Data past the call it was passed to.
type Sample struct {
	Data         []byte
	ActualLength int
	SyncPoint    bool
	Timestamp    time.Duration
}

func (s *Sample) Bytes() []byte {
	if s.ActualLength > len(s.Data) {
		return s.Data
	}
	return s.Data[:s.ActualLength]
}

type Device struct {
	Index   int
	Name    string
	Address string
}

func (d Device) String() string {
	return fmt.Sprintf("%d. %s", d.Index, d.Name)
}
