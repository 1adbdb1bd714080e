package process

import (
	"context"
	"fmt"

	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/video/videobackend"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

// FrameProcessor is the transform stage samples are handed to.
type FrameProcessor interface {
	ProcessFrame(in, out *videoframe.Sample) (int, error)
}

// TransformProcess feeds each streamed sample through proc one at a time,
// which keeps delivery to the sink serialised.
func TransformProcess(
	proc FrameProcessor, buffers Buffers, samples chan *videoframe.Sample, format videoframe.Format, preview videobackend.Preview,
) Routine {
	return func(cancel context.Context) []chan interface{} {
		var stopSignals []chan interface{}
		stopping := make(chan interface{})
		go func(samples chan *videoframe.Sample, stopping chan interface{}) {
		procLoop:
			for {
				select {
				case <-cancel.Done():
					close(stopping)
					break procLoop
				case in := <-samples:
					transform(proc, buffers, in, format, preview)
				}
			}
		}(samples, stopping)
		stopSignals = append(stopSignals, stopping)
		return stopSignals
	}
}

func transform(proc FrameProcessor, buffers Buffers, in *videoframe.Sample, format videoframe.Format, preview videobackend.Preview) {
	out := videoframe.Sample{Data: buffers.Get()}
	defer func() {
		buffers.Put(in.Data)
		buffers.Put(out.Data)
	}()

	n, err := proc.ProcessFrame(in, &out)
	if err != nil {
		log.Error(fmt.Errorf("Unable to process frame: %w", err).Error())
		return
	}

	if preview != nil {
		if err := preview.Show(format, out.Data[:n]); err != nil {
			log.Error(fmt.Errorf("Unable to show preview: %w", err).Error())
		}
	}
}
