package config

import (
	"github.com/tauraamui/dragoneye/pkg/capture"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/sink"
)

type defaultSettingKey uint

const (
	LOGLEVEL      defaultSettingKey = 0x0
	VIDEOBACKEND  defaultSettingKey = 0x1
	WIDTH         defaultSettingKey = 0x2
	HEIGHT        defaultSettingKey = 0x3
	TRANSFORM     defaultSettingKey = 0x4
	OUTPUTDIR     defaultSettingKey = 0x5
	FILEBASENAME  defaultSettingKey = 0x6
	FORMAT        defaultSettingKey = 0x7
	PERIODMS      defaultSettingKey = 0x8
	FRAMECOUNT    defaultSettingKey = 0x9
	LOCKTIMEOUTMS defaultSettingKey = 0xA
	DEVICENUMBER  defaultSettingKey = 0xB
)

var defaultSettings = map[defaultSettingKey]interface{}{
	LOGLEVEL:      "info",
	VIDEOBACKEND:  "opencv",
	WIDTH:         sink.DefaultWidth,
	HEIGHT:        sink.DefaultHeight,
	TRANSFORM:     "copy",
	OUTPUTDIR:     ".",
	FILEBASENAME:  "frame",
	FORMAT:        "pgm",
	PERIODMS:      1000,
	FRAMECOUNT:    capture.Unbounded,
	LOCKTIMEOUTMS: int(sink.DefaultLockTimeout.Milliseconds()),
	DEVICENUMBER:  1,
}

func defaultValues() configdef.Values {
	return configdef.Values{
		LogLevel:      defaultSettings[LOGLEVEL].(string),
		VideoBackend:  defaultSettings[VIDEOBACKEND].(string),
		DeviceNumber:  defaultSettings[DEVICENUMBER].(int),
		Width:         defaultSettings[WIDTH].(int),
		Height:        defaultSettings[HEIGHT].(int),
		Transform:     defaultSettings[TRANSFORM].(string),
		OutputDir:     defaultSettings[OUTPUTDIR].(string),
		FileBaseName:  defaultSettings[FILEBASENAME].(string),
		Format:        defaultSettings[FORMAT].(string),
		PeriodMS:      defaultSettings[PERIODMS].(int),
		FrameCount:    defaultSettings[FRAMECOUNT].(int),
		LockTimeoutMS: defaultSettings[LOCKTIMEOUTMS].(int),
	}
}
