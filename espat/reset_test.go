package espat_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"i4.energy/across/wifictl/espat"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// resetPin boots the module whenever EN is released.
type resetPin struct {
	*gpiotest.Pin
	transport *espat.TestTransport

	mu     sync.Mutex
	levels []gpio.Level
}

func (p *resetPin) Out(l gpio.Level) error {
	p.mu.Lock()
	p.levels = append(p.levels, l)
	p.mu.Unlock()
	if l == gpio.High {
		p.transport.SendData("\r\nready\r\n")
	}
	return nil
}

func TestReset(t *testing.T) {
	t.Run("AT+RST waits for ready", func(t *testing.T) {
		transport := espat.NewOKTransport(func(cmd string) string {
			if cmd == "AT+RST" {
				return "\r\nOK\r\n\r\nready\r\n"
			}
			return "\r\nOK\r\n"
		})
		d := startDevice(t, transport)

		if err := d.Reset(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		written := transport.Written()
		if got := written[len(written)-2:]; !slices.Equal(got, []string{"AT+RST", "ATE0"}) {
			t.Errorf("unexpected commands: %q", got)
		}
		if d.HasIP() {
			t.Error("expected no IP after reset")
		}
	})

	t.Run("Timeout without ready", func(t *testing.T) {
		d := startDevice(t, espat.NewOKTransport(nil))

		if err := d.Reset(context.Background()); !errors.Is(err, espat.ErrResetTimeout) {
			t.Errorf("expected ErrResetTimeout, got: %v", err)
		}
	})

	t.Run("Pulses the reset pin", func(t *testing.T) {
		transport := espat.NewOKTransport(nil)
		pin := &resetPin{Pin: &gpiotest.Pin{N: "GPIO17"}, transport: transport}
		d := startDevice(t, transport, func(b *espat.ConfigBuilder) {
			b.WithResetPin(pin)
		})

		if err := d.Reset(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		pin.mu.Lock()
		defer pin.mu.Unlock()
		if !slices.Equal(pin.levels, []gpio.Level{gpio.Low, gpio.High}) {
			t.Errorf("unexpected pin levels: %v", pin.levels)
		}
		if slices.Contains(transport.Written(), "AT+RST") {
			t.Error("AT+RST must not be sent when a reset pin is configured")
		}
	})
}
