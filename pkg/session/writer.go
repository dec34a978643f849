package session

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/jg-phare/loom/pkg/types"
)

const (
	writerBufferSize = 256
	flushIdleTimeout = 100 * time.Millisecond
	lockTimeout      = 5 * time.Second
)

// writeOp is a single append request for the background writer.
type writeOp struct {
	data []byte
	err  chan error // nil if the caller doesn't need confirmation
}

// Writer appends protocol messages to one session's JSONL file from a
// background goroutine, batching bursts into single flushes. A per-file
// advisory lock keeps concurrent CLI processes from interleaving lines.
type Writer struct {
	path string

	ch   chan writeOp
	done chan struct{}

	sendMu sync.Mutex // guards ch sends and closed
	closed bool

	fileMu sync.Mutex // guards file
	file   *os.File
}

// NewWriter creates the session file writer for sessionID under baseDir.
func NewWriter(baseDir, sessionID string) (*Writer, error) {
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}

	w := &Writer{
		path: SessionFile(baseDir, sessionID),
		ch:   make(chan writeOp, writerBufferSize),
		done: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Append enqueues one message as a JSONL line. The write happens
// asynchronously; Close flushes everything still pending.
func (w *Writer) Append(msg types.SDKMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	w.sendMu.Lock()
	defer w.sendMu.Unlock()
	if w.closed {
		return ErrWriterClosed
	}

	w.ch <- writeOp{data: append(data, '\n')}
	return nil
}

// AppendSync enqueues one message and waits for it to reach the file.
func (w *Writer) AppendSync(msg types.SDKMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	w.sendMu.Lock()
	if w.closed {
		w.sendMu.Unlock()
		return ErrWriterClosed
	}
	w.ch <- writeOp{data: append(data, '\n'), err: errCh}
	w.sendMu.Unlock()

	return <-errCh
}

func (w *Writer) run() {
	defer close(w.done)

	timer := time.NewTimer(flushIdleTimeout)
	defer timer.Stop()

	var pending []writeOp

	for {
		select {
		case op, ok := <-w.ch:
			if !ok {
				w.flush(pending)
				return
			}
			pending = append(pending, op)

			// drain whatever else is immediately available
		drain:
			for {
				select {
				case op2, ok2 := <-w.ch:
					if !ok2 {
						w.flush(pending)
						return
					}
					pending = append(pending, op2)
				default:
					break drain
				}
			}
			w.flush(pending)
			pending = pending[:0]
			timer.Reset(flushIdleTimeout)

		case <-timer.C:
			if len(pending) > 0 {
				w.flush(pending)
				pending = pending[:0]
			}
			timer.Reset(flushIdleTimeout)
		}
	}
}

func (w *Writer) flush(ops []writeOp) {
	for _, op := range ops {
		err := w.write(op.data)
		if op.err != nil {
			op.err <- err
		}
	}
}

func (w *Writer) write(data []byte) error {
	w.fileMu.Lock()
	f := w.file
	if f == nil {
		var err error
		f, err = os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			w.fileMu.Unlock()
			return err
		}
		w.file = f
	}
	w.fileMu.Unlock()

	fl := flock.New(w.path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil || !locked {
		return ErrLockTimeout
	}
	defer fl.Unlock()

	_, err = f.Write(data)
	return err
}

// Close flushes pending writes and releases the file handle. Safe to call
// once; Append after Close returns ErrWriterClosed.
func (w *Writer) Close() error {
	w.sendMu.Lock()
	if w.closed {
		w.sendMu.Unlock()
		return nil
	}
	w.closed = true
	w.sendMu.Unlock()

	close(w.ch)
	<-w.done

	w.fileMu.Lock()
	defer w.fileMu.Unlock()
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
