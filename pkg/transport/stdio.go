package transport

import (
	"bufio"
	"io"
	"sync"
	"sync/atomic"
)

const (
	// maxScannerBuffer caps a single inbound line (10 MB).
	maxScannerBuffer = 10 * 1024 * 1024
	// initialScannerBuffer is the scanner's starting buffer (64 KB).
	initialScannerBuffer = 64 * 1024
)

// StdioTransport moves JSONL over an io.Reader/io.Writer pair, stdout and
// stdin in the CLI. Every Write becomes exactly one line; every non-empty
// inbound line becomes one Inbound.
type StdioTransport struct {
	reader io.Reader
	writer io.Writer

	inputCh   chan Inbound
	doneCh    chan struct{}
	ready     atomic.Bool
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// NewStdioTransport creates a JSONL transport over reader and writer.
// Call Close when done to release the read loop.
func NewStdioTransport(reader io.Reader, writer io.Writer) *StdioTransport {
	t := &StdioTransport{
		reader:  reader,
		writer:  writer,
		inputCh: make(chan Inbound, 64),
		doneCh:  make(chan struct{}),
	}
	t.ready.Store(true)

	go t.readLoop()

	return t
}

func (t *StdioTransport) readLoop() {
	defer close(t.inputCh)

	scanner := bufio.NewScanner(t.reader)
	scanner.Buffer(make([]byte, initialScannerBuffer), maxScannerBuffer)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		// the scanner reuses its buffer; each Inbound needs its own copy
		data := make([]byte, len(line))
		copy(data, line)

		select {
		case t.inputCh <- Inbound{Kind: InboundLine, Data: data}:
		case <-t.doneCh:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case t.inputCh <- Inbound{Kind: InboundError, Err: err}:
		case <-t.doneCh:
		}
	}
}

// Write sends data as a single newline-terminated line.
func (t *StdioTransport) Write(data []byte) error {
	if !t.ready.Load() {
		return ErrTransportClosed
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.writer.Write(data); err != nil {
		return err
	}
	_, err := t.writer.Write([]byte{'\n'})
	return err
}

// Close stops accepting writes and unblocks the read loop.
func (t *StdioTransport) Close() error {
	t.closeOnce.Do(func() {
		t.ready.Store(false)
		close(t.doneCh)
	})
	return nil
}

// IsReady reports whether the transport is accepting writes.
func (t *StdioTransport) IsReady() bool { return t.ready.Load() }

// Read returns the channel of consumer input lines.
func (t *StdioTransport) Read() <-chan Inbound { return t.inputCh }

// EndInput is a no-op for stdio; EOF on the reader ends input naturally.
func (t *StdioTransport) EndInput() {}
