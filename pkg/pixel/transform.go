package pixel

import (
	"strings"

	"github.com/tauraamui/xerror"
)

type Mode int

const (
	Copy Mode = iota
	Grayscale
	Invert
)

func (m Mode) String() string {
	switch m {
	case Grayscale:
		return "grayscale"
	case Invert:
		return "invert"
	default:
		return "copy"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy", "":
		return Copy, nil
	case "grayscale", "greyscale", "gray", "grey":
		return Grayscale, nil
	case "invert":
		return Invert, nil
	}
	return Copy, xerror.Errorf("unknown pixel transform: %s", s)
}

// Transform maps the packed 24 bit pixels of in onto out. Only whole
// triplets present in both buffers are written.
func Transform(mode Mode, in, out []byte) {
	n := len(in)
	if len(out) < n {
		n = len(out)
	}
	n -= n % 3

	switch mode {
	case Grayscale:
		grayscale(in[:n], out[:n])
	case Invert:
		invert(in[:n], out[:n])
	default:
		copy(out[:n], in[:n])
	}
}

func grayscale(in, out []byte) {
	for i := 0; i < len(in); i += 3 {
		v := byte((int(in[i]) + int(in[i+1]) + int(in[i+2])) / 3)
		out[i], out[i+1], out[i+2] = v, v, v
	}
}

func invert(in, out []byte) {
	for i := range in {
		out[i] = 255 - in[i]
	}
}
