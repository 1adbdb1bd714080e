package process_test

import (
	"sync"

	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

type mockCameraConn struct {
	mu        sync.Mutex
	title     string
	format    videoframe.Format
	fill      byte
	reads     int
	readErr   error
	isOpen    bool
	isClosing bool
}

func (m *mockCameraConn) UUID() string { return "mock-cam" }

func (m *mockCameraConn) Title() string { return m.title }

func (m *mockCameraConn) Device() videoframe.Device {
	return videoframe.Device{Index: 1, Name: m.title}
}

func (m *mockCameraConn) Format() videoframe.Format { return m.format }

func (m *mockCameraConn) Read(sample *videoframe.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.readErr != nil {
		return m.readErr
	}
	n := m.format.FrameSize()
	if n > len(sample.Data) {
		n = len(sample.Data)
	}
	for i := 0; i < n; i++ {
		sample.Data[i] = m.fill
	}
	sample.ActualLength = n
	return nil
}

func (m *mockCameraConn) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *mockCameraConn) IsOpen() bool { return m.isOpen }

func (m *mockCameraConn) IsClosing() bool { return m.isClosing }

func (m *mockCameraConn) Close() error {
	m.isOpen = false
	m.isClosing = true
	return nil
}

type countingBuffers struct {
	mu   sync.Mutex
	size int
	gets int
	puts int
}

func (b *countingBuffers) Get() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gets++
	return make([]byte, b.size)
}

func (b *countingBuffers) Put([]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.puts++
}

func (b *countingBuffers) counts() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gets, b.puts
}

type recordingProcessor struct {
	mu   sync.Mutex
	seen [][]byte
	err  error
}

func (p *recordingProcessor) ProcessFrame(in, out *videoframe.Sample) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	n := copy(out.Data, in.Bytes())
	out.ActualLength = n
	p.seen = append(p.seen, append([]byte{}, out.Data[:n]...))
	return n, nil
}

func (p *recordingProcessor) frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

type recordingPreview struct {
	mu     sync.Mutex
	shown  [][]byte
	format videoframe.Format
	err    error
}

func (p *recordingPreview) Show(format videoframe.Format, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.format = format
	p.shown = append(p.shown, append([]byte{}, data...))
	return p.err
}

func (p *recordingPreview) Close() error { return nil }
