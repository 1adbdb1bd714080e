package videobackend

import (
	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

func YUYVToBGR(dst, src []byte) int {
	return yuyvToBGR(dst, src)
}

func ListV4L2Devices(fs afero.Fs) ([]videoframe.Device, error) {
	return listV4L2Devices(fs)
}

func MockPreviewShown(p Preview) int {
	mp := p.(*mockPreview)
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.shown
}
