package process

import (
	"fmt"
	"sync"

	"github.com/tauraamui/dragoneye/pkg/camera"
	"github.com/tauraamui/dragoneye/pkg/video/videobackend"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

// Pipeline is a Process which also reports fatal stream failures.
type Pipeline interface {
	Process
	Errors() <-chan error
}

func NewCoreProcess(cam camera.Connection, proc FrameProcessor, buffers Buffers, preview videobackend.Preview) Pipeline {
	return &captureFromCamera{
		cam:     cam,
		proc:    proc,
		buffers: buffers,
		preview: preview,
		samples: make(chan *videoframe.Sample, 1),
		errs:    make(chan error, 1),
	}
}

type captureFromCamera struct {
	cam              camera.Connection
	proc             FrameProcessor
	buffers          Buffers
	preview          videobackend.Preview
	samples          chan *videoframe.Sample
	errs             chan error
	streamProcess    Process
	transformProcess Process
}

func (proc *captureFromCamera) Setup() Process {
	transformProcess := Settings{
		WaitForShutdownMsg: fmt.Sprintf("Stopping processing frames from [%s] video stream...", proc.cam.Title()),
		Process:            TransformProcess(proc.proc, proc.buffers, proc.samples, proc.cam.Format(), proc.preview),
	}
	proc.transformProcess = New(transformProcess)

	streamProcess := Settings{
		WaitForShutdownMsg: fmt.Sprintf("Closing camera [%s] video stream...", proc.cam.Title()),
		Process:            StreamProcess(proc.cam, proc.buffers, proc.samples, proc.errs),
	}
	proc.streamProcess = New(streamProcess)
	return proc
}

func (proc *captureFromCamera) Start() {
	proc.transformProcess.Start()
	proc.streamProcess.Start()
}

func (proc *captureFromCamera) Stop() {
	proc.streamProcess.Stop()
	proc.transformProcess.Stop()
}

func (proc *captureFromCamera) Wait() {
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func(wg *sync.WaitGroup) {
		proc.streamProcess.Wait()
		wg.Done()
	}(&wg)
	go func(wg *sync.WaitGroup) {
		proc.transformProcess.Wait()
		wg.Done()
	}(&wg)
	wg.Wait()
}

func (proc *captureFromCamera) Errors() <-chan error {
	return proc.errs
}
