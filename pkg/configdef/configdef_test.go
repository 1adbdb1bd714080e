package configdef_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/pixel"
	"github.com/tauraamui/dragoneye/pkg/video/snapshot"
)

const populatedConfig = `{
	"debug": false,
	"log_level": "info",
	"video_backend": "mock",
	"device_number": 1,
	"width": 640,
	"height": 480,
	"transform": "grayscale",
	"output_dir": "/captures",
	"file_base_name": "frame",
	"format": "bmp",
	"start_delay_ms": 500,
	"period_ms": 1000,
	"frame_count": 3,
	"numbered_files": true,
	"lock_timeout_ms": 2000
}`

func loadValues(t *testing.T, body string) configdef.Values {
	t.Helper()
	config := configdef.Values{}
	if err := json.Unmarshal([]byte(body), &config); err != nil {
		t.Fatalf("unable to unmarshal test config: %v", err)
	}
	return config
}

func withField(t *testing.T, key string, value interface{}) configdef.Values {
	t.Helper()
	raw := map[string]interface{}{}
	if err := json.Unmarshal([]byte(populatedConfig), &raw); err != nil {
		t.Fatalf("unable to unmarshal test config: %v", err)
	}
	raw[key] = value
	body, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("unable to marshal test config: %v", err)
	}
	return loadValues(t, string(body))
}

func TestValidatePopulatedConfigPassesValidation(t *testing.T) {
	is := is.New(t)
	config := loadValues(t, populatedConfig)
	is.NoErr(config.RunValidate())
}

func TestValidateFailsForNonPositiveWidth(t *testing.T) {
	is := is.New(t)
	config := withField(t, "width", 0)
	is.Equal(config.RunValidate().Error(), `Validation error in field "Width" of type "int" using validator "gte=1"`)
}

func TestValidateFailsForDeviceNumberBelowOne(t *testing.T) {
	is := is.New(t)
	config := withField(t, "device_number", 0)
	is.Equal(config.RunValidate().Error(), `Validation error in field "DeviceNumber" of type "int" using validator "gte=1"`)
}

func TestValidateFailsForNonPositivePeriod(t *testing.T) {
	is := is.New(t)
	config := withField(t, "period_ms", 0)
	is.Equal(config.RunValidate().Error(), `Validation error in field "PeriodMS" of type "int" using validator "gte=1"`)
}

func TestValidateFailsForNegativeStartDelay(t *testing.T) {
	is := is.New(t)
	config := withField(t, "start_delay_ms", -20)
	is.Equal(config.RunValidate().Error(), `Validation error in field "StartDelayMS" of type "int" using validator "gte=0"`)
}

func TestValidateFailsForEmptyFileBaseName(t *testing.T) {
	is := is.New(t)
	config := withField(t, "file_base_name", "")
	is.Equal(config.RunValidate().Error(), `Validation error in field "FileBaseName" of type "string" using validator "empty=false"`)
}

func TestValidateAllowsUnboundedFrameCount(t *testing.T) {
	is := is.New(t)
	config := withField(t, "frame_count", -1)
	is.NoErr(config.RunValidate())
}

func TestValidateFailsForUnknownTransform(t *testing.T) {
	is := is.New(t)
	config := withField(t, "transform", "sepia")
	is.Equal(config.RunValidate().Error(), "validation failed: unknown pixel transform: sepia")
}

func TestValidateFailsForUnknownFormat(t *testing.T) {
	is := is.New(t)
	config := withField(t, "format", "png")
	is.Equal(config.RunValidate().Error(), "validation failed: unsupported snapshot format: png")
}

func TestValidateFailsForUnknownVideoBackend(t *testing.T) {
	is := is.New(t)
	config := withField(t, "video_backend", "rtsp")
	is.Equal(config.RunValidate().Error(), "validation failed: unknown video backend: rtsp")
}

func TestValuesConversions(t *testing.T) {
	is := is.New(t)
	config := loadValues(t, populatedConfig)

	is.Equal(config.Mode(), pixel.Grayscale)
	is.Equal(config.Kind(), snapshot.BMP)
	is.Equal(config.StartDelay(), 500*time.Millisecond)
	is.Equal(config.Period(), time.Second)
	is.Equal(config.LockTimeout(), 2*time.Second)
}
