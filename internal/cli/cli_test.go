package cli_test

import (
	"errors"
	"flag"
	"io/ioutil"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragoneye/internal/cli"
	"github.com/tauraamui/dragoneye/pkg/configdef"
)

func parse(args ...string) (cli.Options, error) {
	return cli.Parse(args, ioutil.Discard)
}

func TestParseDefaults(t *testing.T) {
	is := is.New(t)
	opts, err := parse()
	is.NoErr(err)

	is.Equal(opts.DeviceNumber, 1)
	is.Equal(opts.PeriodMS, 1000)
	is.Equal(opts.FrameCount, -1)
	is.Equal(opts.Format, "pgm")
	is.Equal(opts.Transform, "copy")
	is.True(!opts.ListDevices)
	is.True(!opts.IsSet("period"))
}

func TestParseAcceptsDoubleDashFlags(t *testing.T) {
	is := is.New(t)
	opts, err := parse(
		"--device-list",
		"--device-number", "2",
		"--start-delay", "250",
		"--period", "100",
		"--frame-count", "3",
		"--numbered-files",
		"--format", "bmp",
		"--post-save-command", "echo saved",
		"--show-preview",
	)
	is.NoErr(err)

	is.True(opts.ListDevices)
	is.Equal(opts.DeviceNumber, 2)
	is.Equal(opts.StartDelayMS, 250)
	is.Equal(opts.PeriodMS, 100)
	is.Equal(opts.FrameCount, 3)
	is.True(opts.NumberedFiles)
	is.Equal(opts.Format, "bmp")
	is.Equal(opts.PostSaveCommand, "echo saved")
	is.True(opts.ShowPreview)
	is.True(opts.IsSet("period"))
}

func TestParseTrimsQuotesFromDeviceName(t *testing.T) {
	is := is.New(t)
	opts, err := parse("--device-name", `"Integrated Camera"`)
	is.NoErr(err)
	is.Equal(opts.DeviceName, "Integrated Camera")
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		title    string
		args     []string
		expected string
	}{
		{
			title:    "device number below one",
			args:     []string{"--device-number", "0"},
			expected: "--device-number must be at least 1, got 0",
		},
		{
			title:    "negative start delay",
			args:     []string{"--start-delay", "-5"},
			expected: "--start-delay must not be negative, got -5",
		},
		{
			title:    "zero period",
			args:     []string{"--period", "0"},
			expected: "--period must be positive, got 0",
		},
		{
			title:    "unknown format",
			args:     []string{"--format", "png"},
			expected: "--format: unsupported snapshot format: png",
		},
		{
			title:    "unknown transform",
			args:     []string{"--transform", "sepia"},
			expected: "--transform: unknown pixel transform: sepia",
		},
		{
			title:    "empty file base name",
			args:     []string{"--file-base-name", " "},
			expected: "--file-base-name must not be empty",
		},
		{
			title:    "stray positional argument",
			args:     []string{"--period", "10", "extra"},
			expected: "unexpected argument: extra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			is := is.New(t)
			_, err := parse(tt.args...)
			is.True(err != nil)
			is.Equal(err.Error(), tt.expected)
		})
	}
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	is := is.New(t)
	_, err := parse("--frames", "3")
	is.True(err != nil)
	is.Equal(err.Error(), "flag provided but not defined: -frames")
}

func TestParseReturnsHelpError(t *testing.T) {
	is := is.New(t)
	_, err := parse("--help")
	is.True(errors.Is(err, flag.ErrHelp))
}

func TestApplyOnlyOverridesGivenFlags(t *testing.T) {
	is := is.New(t)
	values := configdef.Values{
		DeviceNumber: 1,
		Width:        640,
		Height:       480,
		Transform:    "grayscale",
		OutputDir:    "/captures",
		FileBaseName: "frame",
		Format:       "pgm",
		PeriodMS:     1000,
		FrameCount:   -1,
	}

	opts, err := parse("--period", "250", "--format", "bmp", "--device-name", "'USB Camera'", "--catalogue")
	is.NoErr(err)

	applied := opts.Apply(values)
	is.Equal(applied.PeriodMS, 250)
	is.Equal(applied.Format, "bmp")
	is.Equal(applied.DeviceName, "USB Camera")
	is.True(applied.Catalogue)

	is.Equal(applied.Transform, "grayscale")
	is.Equal(applied.OutputDir, "/captures")
	is.Equal(applied.FrameCount, -1)
	is.Equal(applied.DeviceNumber, 1)
	is.Equal(applied.Width, 640)
}
