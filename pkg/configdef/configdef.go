package configdef

import (
	"time"

	"github.com/tauraamui/dragoneye/pkg/pixel"
	"github.com/tauraamui/dragoneye/pkg/video/snapshot"
	"github.com/tauraamui/dragoneye/pkg/video/videobackend"
	"github.com/tauraamui/xerror"
	"gopkg.in/dealancer/validate.v2"
)

type Values struct {
	Debug           bool   `json:"debug"`
	LogLevel        string `json:"log_level"`
	VideoBackend    string `json:"video_backend"`
	DeviceNumber    int    `json:"device_number" validate:"gte=1"`
	DeviceName      string `json:"device_name"`
	Width           int    `json:"width" validate:"gte=1"`
	Height          int    `json:"height" validate:"gte=1"`
	Transform       string `json:"transform"`
	OutputDir       string `json:"output_dir"`
	FileBaseName    string `json:"file_base_name" validate:"empty=false"`
	Format          string `json:"format"`
	StartDelayMS    int    `json:"start_delay_ms" validate:"gte=0"`
	PeriodMS        int    `json:"period_ms" validate:"gte=1"`
	FrameCount      int    `json:"frame_count"`
	NumberedFiles   bool   `json:"numbered_files"`
	PostSaveCommand string `json:"post_save_command"`
	LockTimeoutMS   int    `json:"lock_timeout_ms" validate:"gte=0"`
	ShowPreview     bool   `json:"show_preview"`
	Catalogue       bool   `json:"catalogue"`
}

func (v Values) RunValidate() error {
	return validate.Validate(&v)
}

// Validate covers the fields whose accepted values are owned by other packages.
func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if _, err := pixel.ParseMode(v.Transform); err != nil {
		return xerror.Errorf(validationErrorHeader, err)
	}
	if _, err := snapshot.ParseKind(v.Format); err != nil {
		return xerror.Errorf(validationErrorHeader, err)
	}
	if !videobackend.Known(v.VideoBackend) {
		return xerror.Errorf(validationErrorHeader, xerror.Errorf("unknown video backend: %s", v.VideoBackend))
	}
	return nil
}

func (v Values) Mode() pixel.Mode {
	m, _ := pixel.ParseMode(v.Transform)
	return m
}

func (v Values) Kind() snapshot.Kind {
	k, _ := snapshot.ParseKind(v.Format)
	return k
}

func (v Values) StartDelay() time.Duration {
	return time.Duration(v.StartDelayMS) * time.Millisecond
}

func (v Values) Period() time.Duration {
	return time.Duration(v.PeriodMS) * time.Millisecond
}

func (v Values) LockTimeout() time.Duration {
	return time.Duration(v.LockTimeoutMS) * time.Millisecond
}
