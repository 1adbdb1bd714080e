package videobackend

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const mockDeviceName = "Dragoneye Test Card"

type mockVideoBackend struct{}

func (b *mockVideoBackend) Devices() ([]videoframe.Device, error) {
	return []videoframe.Device{{Index: 1, Name: mockDeviceName, Address: "mock://0"}}, nil
}

func (b *mockVideoBackend) Connect(cancel context.Context, device videoframe.Device, format videoframe.Format) (Connection, error) {
	if err := cancel.Err(); err != nil {
		return nil, xerror.New("connection cancelled")
	}
	w, h := format.Width, format.Height
	if w <= 0 || h <= 0 {
		w, h = 640, 480
	}
	return &mockVideoConnection{
		cameraTitle: device.Name,
		format:      videoframe.RGB24(w, h, videoframe.TopDown),
		started:     Timestamp(),
		isOpen:      true,
	}, nil
}

func (b *mockVideoBackend) NewPreview(string) Preview {
	return &mockPreview{}
}

// Timestamp is stamped onto every test card frame.
var Timestamp = func() time.Time {
	return time.Now()
}

type mockVideoConnection struct {
	uuid            string
	cameraTitle     string
	format          videoframe.Format
	started         time.Time
	mu              sync.Mutex
	isOpen          bool
	baseFrameCanvas image.Image
}

func (mvc *mockVideoConnection) UUID() string {
	if len(mvc.uuid) == 0 {
		mvc.uuid = uuid.NewString()
	}
	return mvc.uuid
}

func (mvc *mockVideoConnection) Format() videoframe.Format {
	return mvc.format
}

func (mvc *mockVideoConnection) Read(sample *videoframe.Sample) error {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()

	if !mvc.isOpen {
		return xerror.New("unable to read from closed mock connection")
	}

	if mvc.baseFrameCanvas == nil {
		mvc.baseFrameCanvas = renderBaseFrameCanvas(mvc.format.Width, mvc.format.Height)
	}

	now := Timestamp()
	img, err := drawTextLayerOntoBaseFrameClone(mvc.baseFrameCanvas, mvc.cameraTitle, now)
	if err != nil {
		return err
	}

	sample.ActualLength = writeBGR(sample.Data, img)
	sample.Timestamp = now.Sub(mvc.started)
	return nil
}

func (mvc *mockVideoConnection) IsOpen() bool {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	return mvc.isOpen
}

// Close the video capture instance
func (mvc *mockVideoConnection) Close() error {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	mvc.isOpen = false
	mvc.baseFrameCanvas = nil
	return nil
}

// writeBGR packs img top row first into dst and returns the bytes written.
func writeBGR(dst []byte, img *image.RGBA) int {
	b := img.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if n+3 > len(dst) {
				return n
			}
			dst[n], dst[n+1], dst[n+2] = row[4*x+2], row[4*x+1], row[4*x]
			n += 3
		}
	}
	return n
}

type mockPreview struct {
	mu    sync.Mutex
	shown int
}

func (p *mockPreview) Show(videoframe.Format, []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown++
	return nil
}

func (p *mockPreview) Close() error { return nil }

func drawTextLayerOntoBaseFrameClone(base image.Image, title string, at time.Time) (*image.RGBA, error) {
	baseClone := cloneImage(base)
	h := baseClone.Bounds().Dy()
	err := drawText(baseClone, 5, h/8, "DRAGONEYE_TEST_CARD")
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for test card: %w", err)
	}

	err = drawText(baseClone, 5, h*3/8, title)
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for test card: %w", err) //nolint
	}
	err = drawText(baseClone, 5, h*5/8, at.Format("2006-01-02 15:04:05.000"))
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for test card: %w", err) //nolint
	}
	return baseClone, nil
}

func renderBaseFrameCanvas(w, h int) image.Image {
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := float64(h) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), float64(h) * 3 / 4}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), float64(h) * 3 / 4}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), float64(h) * 3 / 4}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

var (
	parsedFont    *truetype.Font
	parsedFontErr error
	parseFontOnce sync.Once
)

func testCardFont() (*truetype.Font, error) {
	parseFontOnce.Do(func() {
		parsedFont, parsedFontErr = freetype.ParseFont(goregular.TTF)
	})
	return parsedFont, parsedFontErr
}

func drawText(canvas *image.RGBA, x, y int, text string) error {
	fontFace, err := testCardFont()
	if err != nil {
		return err
	}
	fontSize := float64(canvas.Bounds().Dy()) / 10
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(fontFace, &truetype.Options{
			Size:    fontSize,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := textBounds.Max.Y - textBounds.Min.Y
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y) + textHeight,
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
