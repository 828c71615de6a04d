package wifi_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"i4.energy/across/wifictl/espat"
	"i4.energy/across/wifictl/wifi"
)

type dialFunc func(ctx context.Context) (espat.Transport, error)

func (f dialFunc) Dial(ctx context.Context) (espat.Transport, error) {
	return f(ctx)
}

// module scripts an ESP-AT module behind a real espat.Device. Every dial
// hands out a fresh transport, as reopening the serial port would.
type module struct {
	// joinReply is sent for AT+CWJAP
	joinReply string
	// connected is the station state reported by AT+CIPSTA?
	connected atomic.Bool

	mu         sync.Mutex
	transports []*espat.TestTransport
}

func (m *module) respond(cmd string) string {
	switch {
	case cmd == "AT+CIPSTA?":
		if m.connected.Load() {
			return "+CIPSTA:ip:\"10.0.0.2\"\r\n+CIPSTA:gateway:\"10.0.0.1\"\r\n+CIPSTA:netmask:\"255.255.255.0\"\r\n\r\nOK\r\n"
		}
		return "+CIPSTA:ip:\"0.0.0.0\"\r\n+CIPSTA:gateway:\"0.0.0.0\"\r\n+CIPSTA:netmask:\"0.0.0.0\"\r\n\r\nOK\r\n"
	case cmd == "AT+CWMODE?":
		return "+CWMODE:1\r\n\r\nOK\r\n"
	case cmd == "AT+CWQAP":
		m.connected.Store(false)
		return "\r\nOK\r\nWIFI DISCONNECT\r\n"
	case strings.HasPrefix(cmd, "AT+CWJAP="):
		m.connected.Store(true)
		return m.joinReply
	}
	return "\r\nOK\r\n"
}

func (m *module) dial(context.Context) (espat.Transport, error) {
	t := espat.NewOKTransport(m.respond)
	m.mu.Lock()
	m.transports = append(m.transports, t)
	m.mu.Unlock()
	return t, nil
}

// written returns the commands sent over the latest transport.
func (m *module) written() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transports[len(m.transports)-1].Written()
}

// newDeviceManager returns a turned off Manager driving a real espat.Device
// over mod.
func newDeviceManager(t *testing.T, mod *module) *wifi.Manager {
	t.Helper()

	deviceConfig, err := espat.NewConfigBuilder().
		WithDialer(dialFunc(mod.dial)).
		WithATTimeout(time.Second).
		WithLogger(slog.New(slog.DiscardHandler)).
		Build()
	if err != nil {
		t.Fatalf("unexpected error from Build(): %v", err)
	}

	var loops sync.WaitGroup
	m, err := wifi.NewManager(wifi.Config{
		Open: func(ctx context.Context) (wifi.Driver, error) {
			d, err := espat.New(ctx, deviceConfig)
			if err != nil {
				return nil, err
			}
			loops.Add(1)
			go func() {
				defer loops.Done()
				err := d.Loop(context.Background())
				if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
					t.Errorf("device loop stopped: %v", err)
				}
			}()
			return d, nil
		},
		SemaphoreWait: time.Second,
		DNSServers:    []string{},
		Logger:        slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("unexpected error from NewManager(): %v", err)
	}

	t.Cleanup(func() {
		m.Off(context.Background())
		loops.Wait()
	})
	return m
}

func TestManagerOverDevice(t *testing.T) {
	ctx := context.Background()

	t.Run("Join that re-associates", func(t *testing.T) {
		mod := &module{joinReply: "WIFI DISCONNECT\r\nWIFI CONNECTED\r\nWIFI GOT IP\r\n\r\nOK\r\n"}
		m := newDeviceManager(t, mod)
		if err := m.On(ctx); err != nil {
			t.Fatalf("unexpected error from On(): %v", err)
		}

		params := &wifi.NetworkParams{SSID: "home", Password: "pw", Security: wifi.SecurityWPA2}
		for i := range 20 {
			if err := m.ConnectAP(ctx, params); err != nil {
				t.Fatalf("connect %d: unexpected error: %v", i, err)
			}
			if !m.IsConnected(ctx) {
				t.Fatalf("connect %d: expected to be connected", i)
			}
		}
		if m.DisconnectAlert() {
			t.Error("re-association during a join must not raise the alert")
		}
	})

	t.Run("On with a request context", func(t *testing.T) {
		mod := &module{}
		m := newDeviceManager(t, mod)

		for i := range 2 {
			reqCtx, cancel := context.WithCancel(ctx)
			if err := m.On(reqCtx); err != nil {
				t.Fatalf("cycle %d: unexpected error from On(): %v", i, err)
			}
			cancel()

			mode, err := m.GetMode(ctx)
			if err != nil {
				t.Fatalf("cycle %d: unexpected error after the request ended: %v", i, err)
			}
			if mode != wifi.ModeStation {
				t.Errorf("cycle %d: expected station mode, got %v", i, mode)
			}

			if err := m.Off(ctx); err != nil {
				t.Fatalf("cycle %d: unexpected error from Off(): %v", i, err)
			}
		}
	})

	t.Run("Module already connected at startup", func(t *testing.T) {
		mod := &module{}
		mod.connected.Store(true)
		m := newDeviceManager(t, mod)
		if err := m.On(ctx); err != nil {
			t.Fatalf("unexpected error from On(): %v", err)
		}

		if !m.IsConnected(ctx) {
			t.Fatal("expected a module holding an address to be connected")
		}
		if err := m.Disconnect(ctx); err != nil {
			t.Fatalf("unexpected error from Disconnect(): %v", err)
		}
		if !slices.Contains(mod.written(), "AT+CWQAP") {
			t.Errorf("expected AT+CWQAP to be sent, got: %q", mod.written())
		}
		if m.IsConnected(ctx) {
			t.Error("expected to be disconnected")
		}
		if m.DisconnectAlert() {
			t.Error("requested disconnect must not raise the alert")
		}
	})
}
