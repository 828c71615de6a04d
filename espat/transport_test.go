package espat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.bug.st/serial"
	"go.uber.org/mock/gomock"
)

func TestSerialDialer(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		dialer  SerialDialer
		ctx     context.Context
		wantErr string
		wantIs  error
	}{
		{
			name:    "Missing port name",
			dialer:  SerialDialer{},
			ctx:     context.Background(),
			wantErr: "espat: serial port name is required",
		},
		{
			name:    "Nil context",
			dialer:  SerialDialer{PortName: "/dev/ttyUSB0"},
			ctx:     nil,
			wantErr: "espat: context is nil",
		},
		{
			name:   "Canceled before opening",
			dialer: SerialDialer{PortName: "/dev/nonexistent-esp"},
			ctx:    canceled,
			wantIs: context.Canceled,
		},
		{
			name:    "Port missing, default mode",
			dialer:  SerialDialer{PortName: "/dev/nonexistent-esp"},
			ctx:     context.Background(),
			wantErr: "espat: open /dev/nonexistent-esp",
		},
		{
			name: "Port missing, custom mode",
			dialer: SerialDialer{
				PortName: "/dev/nonexistent-esp",
				Mode:     &serial.Mode{BaudRate: 921600, DataBits: 8},
			},
			ctx:     context.Background(),
			wantErr: "espat: open /dev/nonexistent-esp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport, err := tt.dialer.Dial(tt.ctx)
			if err == nil {
				t.Fatal("expected an error")
			}
			if transport != nil {
				t.Error("expected nil transport on error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("expected %v, got: %v", tt.wantIs, err)
			}
			if tt.wantErr != "" && !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Errorf("expected error starting with %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultMode(t *testing.T) {
	if DefaultMode.BaudRate != 115200 || DefaultMode.DataBits != 8 {
		t.Errorf("unexpected default mode: %+v", DefaultMode)
	}
	if DefaultMode.Parity != serial.NoParity || DefaultMode.StopBits != serial.OneStopBit {
		t.Errorf("unexpected default framing: %+v", DefaultMode)
	}
}

// New must release the port when the module does not answer.
func TestNewClosesTransportOnInitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	transport := NewMockTransport(ctrl)
	dialer := NewMockDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any()).Return(transport, nil)
	transport.EXPECT().Write([]byte("AT\r\n")).Return(0, errors.New("write failed"))
	transport.EXPECT().Close().Return(nil)

	config, err := NewConfigBuilder().WithDialer(dialer).Build()
	if err != nil {
		t.Fatalf("unexpected error from Build(): %v", err)
	}

	if _, err := New(context.Background(), config); err == nil {
		t.Fatal("expected an error from New()")
	}
}
