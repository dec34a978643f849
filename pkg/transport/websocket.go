package transport

import (
	"context"
	"sync"
	"sync/atomic"

	"nhooyr.io/websocket"
)

// WebSocketTransport streams protocol objects over a WebSocket connection
// as text frames, one object per frame. Used by live-rendering UIs.
type WebSocketTransport struct {
	conn *websocket.Conn
	ctx  context.Context

	inputCh   chan Inbound
	doneCh    chan struct{}
	ready     atomic.Bool
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// NewWebSocketTransport wraps an existing WebSocket connection. ctx scopes
// all reads and writes on the connection.
func NewWebSocketTransport(ctx context.Context, conn *websocket.Conn) *WebSocketTransport {
	t := &WebSocketTransport{
		conn:    conn,
		ctx:     ctx,
		inputCh: make(chan Inbound, 64),
		doneCh:  make(chan struct{}),
	}
	t.ready.Store(true)

	go t.readLoop()

	return t
}

func (t *WebSocketTransport) readLoop() {
	defer close(t.inputCh)

	for {
		_, data, err := t.conn.Read(t.ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			select {
			case t.inputCh <- Inbound{Kind: InboundError, Err: err}:
			case <-t.doneCh:
			}
			return
		}

		select {
		case t.inputCh <- Inbound{Kind: InboundLine, Data: data}:
		case <-t.doneCh:
			return
		}
	}
}

// Write sends one protocol object as a text frame.
func (t *WebSocketTransport) Write(data []byte) error {
	if !t.ready.Load() {
		return ErrTransportClosed
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.conn.Write(t.ctx, websocket.MessageText, data); err != nil {
		return err
	}
	return nil
}

// Close performs a normal WebSocket closure. Safe to call multiple times.
func (t *WebSocketTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.ready.Store(false)
		close(t.doneCh)
		err = t.conn.Close(websocket.StatusNormalClosure, "transport closed")
	})
	return err
}

// IsReady reports whether the transport is accepting writes.
func (t *WebSocketTransport) IsReady() bool { return t.ready.Load() }

// Read returns the channel of consumer frames.
func (t *WebSocketTransport) Read() <-chan Inbound { return t.inputCh }

// EndInput is a no-op; the peer ends input by closing the connection.
func (t *WebSocketTransport) EndInput() {}
