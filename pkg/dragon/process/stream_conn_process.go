package process

import (
	"context"
	"fmt"
	"time"

	"github.com/tauraamui/dragoneye/pkg/camera"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

// MaxConsecutiveReadFailures is how many reads in a row may fail before the
// stream gives up and reports the last error.
const MaxConsecutiveReadFailures = 10

// Buffers hands out and takes back sample buffers.
type Buffers interface {
	Get() []byte
	Put([]byte)
}

func StreamProcess(
	cam camera.Connection, buffers Buffers, samples chan *videoframe.Sample, errs chan error,
) Routine {
	return func(cancel context.Context) []chan interface{} {
		var stopSignals []chan interface{}
		log.Info("Streaming video from camera [%s]", cam.Title())
		stopping := make(chan interface{})
		go func(cancel context.Context, cam camera.Connection, stopping chan interface{}) {
			failures := 0
		procLoop:
			for {
				time.Sleep(1 * time.Microsecond)
				select {
				case <-cancel.Done():
					close(stopping)
					break procLoop
				default:
					if err := stream(cam, buffers, samples); err != nil {
						failures++
						log.Error(fmt.Errorf("Unable to retrieve frame: %w", err).Error())
						if failures >= MaxConsecutiveReadFailures {
							report(errs, fmt.Errorf("camera [%s] failed %d reads in a row: %w", cam.Title(), failures, err))
							<-cancel.Done()
							close(stopping)
							break procLoop
						}
						continue
					}
					failures = 0
				}
			}
		}(cancel, cam, stopping)
		stopSignals = append(stopSignals, stopping)
		return stopSignals
	}
}

// stream reads one sample from cam and offers it to samples, handing the
// buffer straight back when the consumer is still busy.
func stream(cam camera.Connection, buffers Buffers, samples chan *videoframe.Sample) error {
	if !cam.IsOpen() {
		return nil
	}

	log.Debug("Reading frame from vid stream for camera [%s]", cam.Title())
	sample := videoframe.Sample{Data: buffers.Get()}
	if err := cam.Read(&sample); err != nil {
		buffers.Put(sample.Data)
		return err
	}

	select {
	case samples <- &sample:
		log.Debug("Sending frame from cam to buffer...")
	default:
		buffers.Put(sample.Data)
		log.Debug("Buffer full...")
	}
	return nil
}

func report(errs chan error, err error) {
	select {
	case errs <- err:
	default:
		log.Error(err.Error())
	}
}
