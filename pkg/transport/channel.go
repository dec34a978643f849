package transport

import (
	"sync"
	"sync/atomic"
)

// ChannelTransport is an in-process transport backed by Go channels, used
// when the pipeline is embedded as a library. No serialization overhead on
// the output side beyond what the caller already did.
type ChannelTransport struct {
	inputCh      chan Inbound
	outputCh     chan []byte
	doneCh       chan struct{}
	ready        atomic.Bool
	closeOnce    sync.Once
	endInputOnce sync.Once
}

// NewChannelTransport creates an in-process transport. bufferSize controls
// the capacity of both directions.
func NewChannelTransport(bufferSize int) *ChannelTransport {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	t := &ChannelTransport{
		inputCh:  make(chan Inbound, bufferSize),
		outputCh: make(chan []byte, bufferSize),
		doneCh:   make(chan struct{}),
	}
	t.ready.Store(true)
	return t
}

// Write hands one serialized protocol object to the consumer side.
func (t *ChannelTransport) Write(data []byte) error {
	if !t.ready.Load() {
		return ErrTransportClosed
	}
	select {
	case t.outputCh <- data:
		return nil
	case <-t.doneCh:
		return ErrTransportClosed
	}
}

// Output returns the consumer-side channel of written objects.
func (t *ChannelTransport) Output() <-chan []byte { return t.outputCh }

// Send injects consumer input into the pipeline side.
func (t *ChannelTransport) Send(in Inbound) error {
	if !t.ready.Load() {
		return ErrTransportClosed
	}
	select {
	case t.inputCh <- in:
		return nil
	case <-t.doneCh:
		return ErrTransportClosed
	}
}

// Close shuts down both directions. Safe to call multiple times.
func (t *ChannelTransport) Close() error {
	t.closeOnce.Do(func() {
		t.ready.Store(false)
		close(t.doneCh)
		t.endInputOnce.Do(func() { close(t.inputCh) })
	})
	return nil
}

// IsReady reports whether the transport is accepting writes.
func (t *ChannelTransport) IsReady() bool { return t.ready.Load() }

// Read returns the channel of injected consumer input.
func (t *ChannelTransport) Read() <-chan Inbound { return t.inputCh }

// EndInput closes the input channel so readers see EOF.
func (t *ChannelTransport) EndInput() {
	t.endInputOnce.Do(func() { close(t.inputCh) })
}
