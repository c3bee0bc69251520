package bus

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when publishing on a closed bus.
var ErrClosed = errors.New("bus closed")

const defaultMemoryBuffer = 256

// Memory implements Bus as an in-process fan-out over buffered channels.
// It mirrors the topic's real semantics: no persistence, no replay, and a
// slow subscriber whose buffer is full simply misses messages.
type Memory struct {
	mu          sync.RWMutex
	subscribers []chan []byte
	bufferSize  int
	closed      bool
}

// MemoryOption applies a configuration option to the Memory bus.
type MemoryOption func(*Memory)

// WithBufferSize sets the per-subscriber channel buffer.
func WithBufferSize(size int) MemoryOption {
	return func(m *Memory) {
		if size > 0 {
			m.bufferSize = size
		}
	}
}

// NewMemory creates an in-process bus.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{bufferSize: defaultMemoryBuffer}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Publish delivers payload to every current subscriber without blocking.
func (m *Memory) Publish(_ context.Context, payload []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}
	for _, sub := range m.subscribers {
		select {
		case sub <- payload:
		default:
			// Subscriber buffer full: the message is lost for that
			// subscriber, matching the transport's non-durable contract.
		}
	}
	return nil
}

// Subscribe registers a new subscriber channel.
func (m *Memory) Subscribe(_ context.Context) (<-chan []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	ch := make(chan []byte, m.bufferSize)
	m.subscribers = append(m.subscribers, ch)
	return ch, nil
}

// Close shuts down the bus and closes all subscriber channels.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	return nil
}
