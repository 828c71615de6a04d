package espat

import (
	"context"
	"io"
	"strings"
	"sync"
)

// TestTransport is a test helper that simulates a blocking transport using channels.
// This is needed because the Loop's scanner goroutine continuously reads from the transport,
// and we need reads to block until data is available (like a real serial port would).
//
// When Responder is set, every write is handed to it and whatever it returns
// is queued as module output, which lets tests script the module's side of
// a conversation.
type TestTransport struct {
	mu       sync.Mutex
	readChan chan []byte
	closed   bool
	written  []string

	// Responder receives each command line without its CRLF, or raw data
	// verbatim, and returns the module's reply ("" for none).
	Responder func(cmd string) string
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		readChan: make(chan []byte, 64),
	}
}

// NewOKTransport returns a transport that answers the initialization
// sequence with OK and hands every other command to responder.
func NewOKTransport(responder func(cmd string) string) *TestTransport {
	t := NewTestTransport()
	t.Responder = func(cmd string) string {
		switch cmd {
		case "AT", "ATE0", "AT+SYSLOG=1":
			return "\r\nOK\r\n"
		}
		if responder == nil {
			return "\r\nOK\r\n"
		}
		return responder(cmd)
	}
	return t
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	cmd := strings.TrimSuffix(string(p), "\r\n")

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	t.written = append(t.written, cmd)
	responder := t.Responder
	t.mu.Unlock()

	if responder != nil {
		if reply := responder(cmd); reply != "" {
			t.SendData(reply)
		}
	}
	return len(p), nil
}

func (t *TestTransport) Read(p []byte) (n int, err error) {
	data, ok := <-t.readChan
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// SendData queues data to be read by the transport.
// This simulates receiving data from the module.
func (t *TestTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}

// Written returns the commands written so far.
func (t *TestTransport) Written() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.written...)
}

// TestDialer hands out a fixed Transport.
type TestDialer struct {
	Transport Transport
}

func (d TestDialer) Dial(context.Context) (Transport, error) {
	return d.Transport, nil
}
