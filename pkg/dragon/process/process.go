package process

import (
	"context"
	"sync"

	"github.com/tauraamui/dragoneye/pkg/log"
)

// Process is a cancellable background stage of the capture pipeline.
type Process interface {
	Setup() Process
	Start()
	Stop()
	Wait()
}

// Routine launches a stage's goroutines and returns one channel per
// goroutine, each closed once that goroutine has exited after ctx ends.
type Routine func(ctx context.Context) []chan interface{}

type Settings struct {
	WaitForShutdownMsg string
	Process            Routine
}

func New(settings Settings) Process {
	return &routineProcess{
		routine:     settings.Process,
		shutdownMsg: settings.WaitForShutdownMsg,
	}
}

// routineProcess runs its routine at most once. Stop is safe to call
// repeatedly or before Start, and Wait returns immediately when the
// routine was never started.
type routineProcess struct {
	routine     Routine
	shutdownMsg string

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	exited  []chan interface{}
	stop    sync.Once
}

func (p *routineProcess) Setup() Process { return p }

func (p *routineProcess) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.exited = p.routine(ctx)
}

func (p *routineProcess) Stop() {
	p.stop.Do(func() {
		if len(p.shutdownMsg) > 0 {
			log.Info(p.shutdownMsg)
		}

		p.mu.Lock()
		// a later Start must not launch the routine after a stop
		p.started = true
		cancel := p.cancel
		p.mu.Unlock()

		if cancel != nil {
			cancel()
		}
	})
}

func (p *routineProcess) Wait() {
	p.mu.Lock()
	exited := p.exited
	p.mu.Unlock()

	for _, done := range exited {
		<-done
	}
}
