package transport

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg-phare/loom/pkg/types"
)

func TestStdioWriteProducesOneLine(t *testing.T) {
	var out bytes.Buffer
	tr := NewStdioTransport(strings.NewReader(""), &out)
	defer tr.Close()

	require.NoError(t, tr.Write([]byte(`{"a":1}`)))
	require.NoError(t, tr.Write([]byte(`{"b":2}`)))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, lines)
}

func TestStdioReadLinesAndEOF(t *testing.T) {
	input := "{\"x\":1}\n\n{\"y\":2}\n"
	tr := NewStdioTransport(strings.NewReader(input), &bytes.Buffer{})
	defer tr.Close()

	var got []string
	for in := range tr.Read() {
		require.Equal(t, InboundLine, in.Kind)
		got = append(got, string(in.Data))
	}
	// the blank line is skipped, the channel closes on EOF
	assert.Equal(t, []string{`{"x":1}`, `{"y":2}`}, got)
}

func TestStdioWriteAfterClose(t *testing.T) {
	tr := NewStdioTransport(strings.NewReader(""), &bytes.Buffer{})
	require.True(t, tr.IsReady())

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	assert.False(t, tr.IsReady())
	assert.ErrorIs(t, tr.Write([]byte("x")), ErrTransportClosed)
}

func TestWriteMessageSerializesProtocolObject(t *testing.T) {
	var out bytes.Buffer
	tr := NewStdioTransport(strings.NewReader(""), &out)
	defer tr.Close()

	msg := types.NewUserMessage("hello", "s1")
	require.NoError(t, WriteMessage(tr, msg))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "user", decoded["type"])
	assert.Equal(t, "s1", decoded["session_id"])
}

func TestChannelTransportRoundTrip(t *testing.T) {
	tr := NewChannelTransport(4)
	defer tr.Close()

	require.NoError(t, tr.Write([]byte("out")))
	select {
	case data := <-tr.Output():
		assert.Equal(t, "out", string(data))
	case <-time.After(time.Second):
		t.Fatal("no output received")
	}

	require.NoError(t, tr.Send(Inbound{Kind: InboundLine, Data: []byte("in")}))
	select {
	case in := <-tr.Read():
		assert.Equal(t, "in", string(in.Data))
	case <-time.After(time.Second):
		t.Fatal("no input received")
	}
}

func TestChannelTransportEndInput(t *testing.T) {
	tr := NewChannelTransport(1)
	defer tr.Close()

	tr.EndInput()
	_, open := <-tr.Read()
	assert.False(t, open, "input channel should be closed after EndInput")
}

func TestChannelTransportClosedOperations(t *testing.T) {
	tr := NewChannelTransport(1)
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())

	assert.ErrorIs(t, tr.Write([]byte("x")), ErrTransportClosed)
	assert.ErrorIs(t, tr.Send(Inbound{Kind: InboundLine}), ErrTransportClosed)
	assert.False(t, tr.IsReady())
}
