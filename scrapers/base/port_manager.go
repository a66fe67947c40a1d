package base

import (
	"fmt"
	"sync"
)

// PortPool hands out chromedriver ports so concurrent scrapes do not collide.
type PortPool struct {
	mu    sync.Mutex
	first int
	inUse []bool
}

func NewPortPool(first, size int) *PortPool {
	return &PortPool{first: first, inUse: make([]bool, size)}
}

// Acquire reserves the lowest free port.
func (p *PortPool) Acquire() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, busy := range p.inUse {
		if !busy {
			p.inUse[i] = true
			return p.first + i, nil
		}
	}
	return 0, fmt.Errorf("no available ports in range %d-%d", p.first, p.first+len(p.inUse)-1)
}

// Release frees a port returned by Acquire. Ports outside the pool are ignored.
func (p *PortPool) Release(port int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := port - p.first; i >= 0 && i < len(p.inUse) {
		p.inUse[i] = false
	}
}

// InUse counts reserved ports.
func (p *PortPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, busy := range p.inUse {
		if busy {
			n++
		}
	}
	return n
}
