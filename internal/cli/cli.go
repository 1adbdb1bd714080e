package cli

import (
	"flag"
	"io"
	"strings"

	"github.com/tauraamui/dragoneye/pkg/camera"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/pixel"
	"github.com/tauraamui/dragoneye/pkg/video/snapshot"
	"github.com/tauraamui/xerror"
)

const name = "dragoneye"

// Options holds the parsed command line. Only flags the user actually
// passed are applied over the loaded config.
type Options struct {
	ListDevices     bool
	DeviceNumber    int
	DeviceName      string
	StartDelayMS    int
	PeriodMS        int
	FrameCount      int
	NumberedFiles   bool
	Format          string
	PostSaveCommand string
	ShowPreview     bool
	Transform       string
	OutputDir       string
	FileBaseName    string
	ConfigPath      string
	LogLevel        string
	VideoBackend    string
	Catalogue       bool

	set map[string]bool
}

// Parse reads args, not including the program name. flag.ErrHelp is returned
// as is when usage was requested.
func Parse(args []string, output io.Writer) (Options, error) {
	opts := Options{set: map[string]bool{}}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)
	flags.BoolVar(&opts.ListDevices, "device-list", false, "list the available capture devices and exit")
	flags.IntVar(&opts.DeviceNumber, "device-number", 1, "capture from the Nth listed device, starting at 1")
	flags.StringVar(&opts.DeviceName, "device-name", "", "capture from the device with this exact name")
	flags.IntVar(&opts.StartDelayMS, "start-delay", 0, "milliseconds to wait before the first capture")
	flags.IntVar(&opts.PeriodMS, "period", 1000, "milliseconds between captures")
	flags.IntVar(&opts.FrameCount, "frame-count", -1, "number of frames to save, negative for no limit")
	flags.BoolVar(&opts.NumberedFiles, "numbered-files", false, "append a six digit sequence number to each file name")
	flags.StringVar(&opts.Format, "format", "pgm", "snapshot format, pgm or bmp")
	flags.StringVar(&opts.PostSaveCommand, "post-save-command", "", "command run after each save with the file path as its last argument")
	flags.BoolVar(&opts.ShowPreview, "show-preview", false, "show processed frames in a preview window")
	flags.StringVar(&opts.Transform, "transform", "copy", "pixel transform, copy, grayscale or invert")
	flags.StringVar(&opts.OutputDir, "output-dir", ".", "directory snapshots are written to")
	flags.StringVar(&opts.FileBaseName, "file-base-name", "frame", "snapshot file name without extension")
	flags.StringVar(&opts.ConfigPath, "config", "", "path to the config file")
	flags.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn, error or silent")
	flags.StringVar(&opts.VideoBackend, "video-backend", "", "opencv, v4l2 or mock")
	flags.BoolVar(&opts.Catalogue, "catalogue", false, "record sessions and snapshots in the catalogue database")

	if err := flags.Parse(args); err != nil {
		return Options{}, err
	}
	if flags.NArg() > 0 {
		return Options{}, xerror.Errorf("unexpected argument: %s", flags.Arg(0))
	}

	flags.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	opts.DeviceName = camera.TrimName(opts.DeviceName)

	if err := opts.validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (o Options) validate() error {
	if o.DeviceNumber < 1 {
		return xerror.Errorf("--device-number must be at least 1, got %d", o.DeviceNumber)
	}
	if o.StartDelayMS < 0 {
		return xerror.Errorf("--start-delay must not be negative, got %d", o.StartDelayMS)
	}
	if o.PeriodMS <= 0 {
		return xerror.Errorf("--period must be positive, got %d", o.PeriodMS)
	}
	if _, err := snapshot.ParseKind(o.Format); err != nil {
		return xerror.Errorf("--format: %w", err)
	}
	if _, err := pixel.ParseMode(o.Transform); err != nil {
		return xerror.Errorf("--transform: %w", err)
	}
	if strings.TrimSpace(o.FileBaseName) == "" {
		return xerror.New("--file-base-name must not be empty")
	}
	return nil
}

func (o Options) IsSet(flagName string) bool {
	return o.set[flagName]
}

// Apply overrides values with every flag given on the command line.
func (o Options) Apply(values configdef.Values) configdef.Values {
	if o.IsSet("device-number") {
		values.DeviceNumber = o.DeviceNumber
	}
	if o.IsSet("device-name") {
		values.DeviceName = o.DeviceName
	}
	if o.IsSet("start-delay") {
		values.StartDelayMS = o.StartDelayMS
	}
	if o.IsSet("period") {
		values.PeriodMS = o.PeriodMS
	}
	if o.IsSet("frame-count") {
		values.FrameCount = o.FrameCount
	}
	if o.IsSet("numbered-files") {
		values.NumberedFiles = o.NumberedFiles
	}
	if o.IsSet("format") {
		values.Format = o.Format
	}
	if o.IsSet("post-save-command") {
		values.PostSaveCommand = o.PostSaveCommand
	}
	if o.IsSet("show-preview") {
		values.ShowPreview = o.ShowPreview
	}
	if o.IsSet("transform") {
		values.Transform = o.Transform
	}
	if o.IsSet("output-dir") {
		values.OutputDir = o.OutputDir
	}
	if o.IsSet("file-base-name") {
		values.FileBaseName = o.FileBaseName
	}
	if o.IsSet("log-level") {
		values.LogLevel = o.LogLevel
	}
	if o.IsSet("video-backend") {
		values.VideoBackend = o.VideoBackend
	}
	if o.IsSet("catalogue") {
		values.Catalogue = o.Catalogue
	}
	return values
}
