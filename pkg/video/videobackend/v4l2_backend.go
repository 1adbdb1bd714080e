package videobackend

import (
	"image/color"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

const (
	v4l2DevicePattern = "/dev/video*"
	v4l2SysfsRoot     = "/sys/class/video4linux"
)

// listV4L2Devices numbers every /dev/videoN node in ascending N order,
// naming it after the card name the kernel exposes through sysfs.
func listV4L2Devices(fs afero.Fs) ([]videoframe.Device, error) {
	paths, err := afero.Glob(fs, v4l2DevicePattern)
	if err != nil {
		return nil, err
	}

	type node struct {
		n    int
		path string
	}
	nodes := []node{}
	for _, p := range paths {
		n, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(p), "video"))
		if err != nil {
			continue
		}
		nodes = append(nodes, node{n: n, path: p})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].n < nodes[j].n })

	devices := make([]videoframe.Device, 0, len(nodes))
	for i, nd := range nodes {
		name := filepath.Base(nd.path)
		if b, err := afero.ReadFile(fs, filepath.Join(v4l2SysfsRoot, name, "name")); err == nil {
			if trimmed := strings.TrimSpace(string(b)); len(trimmed) > 0 {
				name = trimmed
			}
		}
		devices = append(devices, videoframe.Device{Index: i + 1, Name: name, Address: nd.path})
	}
	return devices, nil
}

// yuyvToBGR converts packed YUYV 4:2:2 into packed BGR and returns the
// number of bytes written to dst.
func yuyvToBGR(dst, src []byte) int {
	n := 0
	for i := 0; i+4 <= len(src) && n+6 <= len(dst); i += 4 {
		y0, u, y1, v := src[i], src[i+1], src[i+2], src[i+3]
		r, g, b := color.YCbCrToRGB(y0, u, v)
		dst[n], dst[n+1], dst[n+2] = b, g, r
		r, g, b = color.YCbCrToRGB(y1, u, v)
		dst[n+3], dst[n+4], dst[n+5] = b, g, r
		n += 6
	}
	return n
}
