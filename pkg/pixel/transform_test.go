package pixel_test

import (
	"math/rand"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragoneye/pkg/pixel"
)

func randomFrame(r *rand.Rand, pixels int) []byte {
	buf := make([]byte, pixels*3)
	r.Read(buf)
	return buf
}

func TestGrayscaleAveragesEachTripletWithTruncation(t *testing.T) {
	is := is.New(t)
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		in := randomFrame(r, 64)
		out := make([]byte, len(in))
		pixel.Transform(pixel.Grayscale, in, out)

		for k := 0; k < len(in)/3; k++ {
			v := byte((int(in[3*k]) + int(in[3*k+1]) + int(in[3*k+2])) / 3)
			is.Equal(out[3*k], v)
			is.Equal(out[3*k+1], v)
			is.Equal(out[3*k+2], v)
		}
	}
}

func TestGrayscaleTruncatesRatherThanRounds(t *testing.T) {
	is := is.New(t)
	in := []byte{1, 1, 0, 255, 255, 254}
	out := make([]byte, len(in))
	pixel.Transform(pixel.Grayscale, in, out)
	is.Equal(out, []byte{0, 0, 0, 254, 254, 254})
}

func TestInvertIsAnInvolution(t *testing.T) {
	is := is.New(t)
	r := rand.New(rand.NewSource(11))

	for i := 0; i < 20; i++ {
		in := randomFrame(r, 32)
		once := make([]byte, len(in))
		twice := make([]byte, len(in))
		pixel.Transform(pixel.Invert, in, once)
		pixel.Transform(pixel.Invert, once, twice)
		is.Equal(twice, in)
	}
}

func TestInvertMapsEachChannel(t *testing.T) {
	is := is.New(t)
	out := make([]byte, 3)
	pixel.Transform(pixel.Invert, []byte{0, 128, 255}, out)
	is.Equal(out, []byte{255, 127, 0})
}

func TestCopyIsIdentity(t *testing.T) {
	is := is.New(t)
	r := rand.New(rand.NewSource(3))
	in := randomFrame(r, 100)
	out := make([]byte, len(in))
	pixel.Transform(pixel.Copy, in, out)
	is.Equal(out, in)
}

func TestTransformOnlyWritesWholeTripletsPresentInBoth(t *testing.T) {
	is := is.New(t)
	in := []byte{10, 20, 30, 40, 50}
	out := []byte{9, 9, 9, 9, 9}
	pixel.Transform(pixel.Copy, in, out)
	is.Equal(out, []byte{10, 20, 30, 9, 9})
}

func TestParseMode(t *testing.T) {
	is := is.New(t)

	m, err := pixel.ParseMode("Grayscale")
	is.NoErr(err)
	is.Equal(m, pixel.Grayscale)

	m, err = pixel.ParseMode("invert")
	is.NoErr(err)
	is.Equal(m, pixel.Invert)

	m, err = pixel.ParseMode("")
	is.NoErr(err)
	is.Equal(m, pixel.Copy)

	_, err = pixel.ParseMode("sepia")
	is.Equal(err.Error(), "unknown pixel transform: sepia")
}

func BenchmarkGrayscaleVGAFrame(b *testing.B) {
	in := make([]byte, 640*480*3)
	out := make([]byte, len(in))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pixel.Transform(pixel.Grayscale, in, out)
	}
}
