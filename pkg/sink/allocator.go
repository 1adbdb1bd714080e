package sink

import (
	"sync"

	"github.com/tauraamui/xerror"
)

type AllocatorProperties struct {
	BufferSize int
	Align      int
	Buffers    int
}

type Allocator interface {
	SetProperties(req AllocatorProperties) (AllocatorProperties, error)
}

// PoolAllocator hands out reusable sample buffers of the negotiated size.
// A zero MaxBufferSize grants whatever is asked for.
type PoolAllocator struct {
	MaxBufferSize int

	mu    sync.Mutex
	props AllocatorProperties
	pool  sync.Pool // stores *[]byte
}

func (a *PoolAllocator) SetProperties(req AllocatorProperties) (AllocatorProperties, error) {
	if req.BufferSize <= 0 {
		return AllocatorProperties{}, xerror.Errorf("invalid buffer size requested: %d", req.BufferSize)
	}

	actual := req
	if actual.Align <= 0 {
		actual.Align = 1
	}
	if actual.Buffers <= 0 {
		actual.Buffers = 1
	}
	actual.BufferSize = roundUp(actual.BufferSize, actual.Align)
	if a.MaxBufferSize > 0 && actual.BufferSize > a.MaxBufferSize {
		actual.BufferSize = a.MaxBufferSize - a.MaxBufferSize%actual.Align
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.props = actual
	return actual, nil
}

func (a *PoolAllocator) Properties() AllocatorProperties {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.props
}

// Get returns a buffer of exactly the granted size.
func (a *PoolAllocator) Get() []byte {
	size := a.Properties().BufferSize
	if v := a.pool.Get(); v != nil {
		if b := *(v.(*[]byte)); cap(b) >= size {
			return b[:size]
		}
	}
	return make([]byte, size)
}

// Put recycles b. The caller must not touch b afterwards.
func (a *PoolAllocator) Put(b []byte) {
	if b == nil || cap(b) < a.Properties().BufferSize {
		return
	}
	a.pool.Put(&b)
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
