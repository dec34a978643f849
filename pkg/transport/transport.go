// Package transport provides the sinks the pipeline hands finished protocol
// objects to: line-delimited stdio, an in-process channel for embedding, and
// WebSocket for live UIs. Writes preserve emission order; reads surface
// consumer input back to the caller.
package transport

import (
	"encoding/json"
	"errors"

	"github.com/jg-phare/loom/pkg/types"
)

// ErrTransportClosed is returned when operations are attempted on a closed
// transport.
var ErrTransportClosed = errors.New("transport closed")

// InboundKind identifies what an inbound message carries.
type InboundKind string

const (
	InboundLine  InboundKind = "line"  // one raw consumer line / frame
	InboundError InboundKind = "error" // read-side failure
)

// Inbound is one unit of consumer input.
type Inbound struct {
	Kind InboundKind
	Data json.RawMessage // raw payload for InboundLine
	Err  error           // non-nil for InboundError
}

// Transport moves protocol objects between the pipeline and one consumer.
type Transport interface {
	// Write sends one serialized protocol object to the consumer;
	// implementations append the line delimiter where the medium needs one.
	Write(data []byte) error

	// Close shuts the transport down. Safe to call multiple times.
	Close() error

	// IsReady reports whether the transport is accepting writes.
	IsReady() bool

	// Read returns the channel of consumer input. It is closed when no more
	// input will arrive.
	Read() <-chan Inbound

	// EndInput signals that the consumer will send nothing further.
	EndInput()
}

// WriteMessage serializes one protocol object and writes it as a single
// unit, per the one-object-per-line contract.
func WriteMessage(t Transport, msg types.SDKMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return t.Write(data)
}
