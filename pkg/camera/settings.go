package camera

import "github.com/tauraamui/dragoneye/pkg/video/videoframe"

type Settings struct {
	Number int
	Name   string
	Format videoframe.Format
}
