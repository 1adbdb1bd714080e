package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	sddaemon "github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/afero"
	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/dragoneye/internal/cli"
	"github.com/tauraamui/dragoneye/pkg/capture"
	"github.com/tauraamui/dragoneye/pkg/config"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	db "github.com/tauraamui/dragoneye/pkg/database"
	"github.com/tauraamui/dragoneye/pkg/dragon"
	"github.com/tauraamui/dragoneye/pkg/hook"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/video/videobackend"
	"gocv.io/x/gocv"
)

const (
	name        = "dragoneye"
	description = "Dragon eye capture service which periodically saves camera frames to disk"
)

type Service struct {
	daemon.Daemon
}

// Setup writes the default config and creates the catalogue database
func (service *Service) Setup() (string, error) {
	log.Info("Setting up dragoneye service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	err = db.Setup()
	if err != nil {
		if !errors.Is(err, db.ErrDBAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for dragoneye service...")
	err := db.Destroy()
	if err != nil {
		log.Error("unable to delete database file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: dragoneye setup | remove-setup | install | remove | start | stop | status | [flags]"

	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, errors.New("unknown command: " + command)
		}
	}

	return runCapture(os.Args[1:])
}

func runCapture(args []string) (string, error) {
	opts, err := cli.Parse(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return "", nil
		}
		return "", err
	}

	if len(opts.ConfigPath) > 0 {
		os.Setenv(config.EnvKey, opts.ConfigPath)
	}

	values, err := config.DefaultResolver().Resolve()
	if err != nil {
		return "", err
	}
	values = opts.Apply(values)
	if err := values.RunValidate(); err != nil {
		return "", err
	}

	level := values.LogLevel
	if values.Debug {
		level = "debug"
	}
	log.Setup(level, os.Stderr)

	backendType := values.VideoBackend
	if env := os.Getenv(videobackend.EnvKey); len(env) > 0 {
		backendType = env
	}
	backend := videobackend.Resolve(backendType)

	if opts.ListDevices {
		return "", dragon.ListDevices(backend, os.Stdout)
	}

	settings := dragon.Settings{
		Backend:      backend,
		DeviceNumber: values.DeviceNumber,
		DeviceName:   values.DeviceName,
		Width:        values.Width,
		Height:       values.Height,
		Mode:         values.Mode(),
		Fs:           afero.NewOsFs(),
		PostSave:     hook.Command{Template: values.PostSaveCommand},
		LockTimeout:  values.LockTimeout(),
		ShowPreview:  values.ShowPreview,
		Schedule: capture.Options{
			StartDelay:    values.StartDelay(),
			Period:        values.Period(),
			FrameCount:    values.FrameCount,
			NumberedFiles: values.NumberedFiles,
			Dir:           values.OutputDir,
			BaseName:      values.FileBaseName,
			Format:        values.Kind(),
		},
	}

	if values.Catalogue {
		catalogue, err := db.OpenCatalogue()
		if err != nil {
			return "", err
		}
		settings.Catalogue = catalogue
	}

	session, err := dragon.NewSession(settings)
	if err != nil {
		if settings.Catalogue != nil {
			settings.Catalogue.Close()
		}
		return "", err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case killSignal := <-interrupt:
			fmt.Print("\r")
			log.Warn("Received signal: %s", killSignal)
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info("Starting dragon eye...")
	if err := session.Setup(ctx); err != nil {
		return "", err
	}
	defer session.Teardown()
	notifyServiceManager(sddaemon.SdNotifyReady)
	defer notifyServiceManager(sddaemon.SdNotifyStopping)

	if err := session.Run(ctx); err != nil {
		return "", err
	}
	log.Debug("Open mats at shutdown: %d", gocv.MatProfile.Count())

	return fmt.Sprintf("Saved %d frames... BYE! 👋", session.FramesSaved()), nil
}

// notifyServiceManager is a no-op unless started by systemd with Type=notify.
func notifyServiceManager(state string) {
	if _, err := sddaemon.SdNotify(false, state); err != nil {
		log.Debug("unable to notify service manager of %s: %v", state, err)
	}
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	if len(status) > 0 {
		logging.Info(status) //nolint
	}
}
