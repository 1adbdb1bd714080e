package snapshot

import (
	"bufio"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/bmp"
)

type Kind int

const (
	PGM Kind = iota
	BMP
)

const pgmComment = "Frame captured by dragoneye"

var (
	ErrUnsupportedFormat = xerror.New("unsupported snapshot format")
	ErrFileLocked        = xerror.New("snapshot target still locked")
)

func (k Kind) Ext() string {
	if k == BMP {
		return ".bmp"
	}
	return ".pgm"
}

func (k Kind) String() string {
	return strings.TrimPrefix(k.Ext(), ".")
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "pgm":
		return PGM, nil
	case "bmp":
		return BMP, nil
	}
	return PGM, xerror.Errorf("%w: %s", ErrUnsupportedFormat, s)
}

func KindFromPath(path string) (Kind, error) {
	ext := filepath.Ext(path)
	if len(ext) == 0 {
		return PGM, xerror.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseKind(ext)
}

// Encode writes data, laid out as described by format, to w in the given kind.
func Encode(w io.Writer, kind Kind, format videoframe.Format, data []byte) error {
	if need := format.FrameSize(); len(data) < need {
		return xerror.Errorf("frame data too short: %d bytes, %s needs %d", len(data), format, need)
	}
	switch kind {
	case BMP:
		return bmp.Encode(w, toRGBA(format, data))
	default:
		return encodePGM(w, format, data)
	}
}

func encodePGM(w io.Writer, format videoframe.Format, data []byte) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("P2\n# " + pgmComment + "\n")
	bw.WriteString(strconv.Itoa(format.Width) + " " + strconv.Itoa(format.Height) + "\n255\n")

	stride := format.Stride()
	for y := 0; y < format.Height; y++ {
		row := data[rowOffset(format, y, stride):]
		for x := 0; x < format.Width; x++ {
			if x > 0 {
				bw.WriteByte(' ')
			}
			px := row[3*x : 3*x+3]
			bw.WriteString(strconv.Itoa((int(px[0]) + int(px[1]) + int(px[2])) / 3))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// rowOffset resolves the buffer offset of picture row y, counted from the top.
func rowOffset(format videoframe.Format, y, stride int) int {
	if format.Orientation == videoframe.BottomUp {
		return (format.Height - 1 - y) * stride
	}
	return y * stride
}

func toRGBA(format videoframe.Format, data []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, format.Width, format.Height))
	stride := format.Stride()
	for y := 0; y < format.Height; y++ {
		row := data[rowOffset(format, y, stride):]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < format.Width; x++ {
			b0, b1, b2 := row[3*x], row[3*x+1], row[3*x+2]
			if format.Layout == videoframe.PackedBGR {
				b0, b2 = b2, b0
			}
			dst[4*x], dst[4*x+1], dst[4*x+2], dst[4*x+3] = b0, b1, b2, 0xff
		}
	}
	return img
}

// Write encodes the frame into a new file at path, creating parent
// directories as needed.
func Write(fs afero.Fs, path string, kind Kind, format videoframe.Format, data []byte) error {
	if err := ensureDirectoryPathExists(fs, filepath.Dir(path)); err != nil {
		return xerror.Errorf("unable to create snapshot directory: %w", err)
	}

	file, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return xerror.Errorf("unable to open file %s for writing: %w", path, err)
	}

	if err := Encode(file, kind, format, data); err != nil {
		file.Close()
		return xerror.Errorf("unable to encode snapshot %s: %w", path, err)
	}
	return file.Close()
}

func ensureDirectoryPathExists(fs afero.Fs, path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}

// WaitUnlocked tests the target by renaming it onto itself until the rename
// succeeds, which fails while another process holds the file open on some
// platforms. A missing target counts as unlocked.
func WaitUnlocked(fs afero.Fs, path string, timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := fs.Rename(path, path)
		if err == nil || os.IsNotExist(err) {
			return nil
		}
		if !time.Now().Before(deadline) {
			return xerror.Errorf("%w: %s after %s: %v", ErrFileLocked, path, timeout, err)
		}
		sleep(interval)
	}
}

var sleep = time.Sleep
