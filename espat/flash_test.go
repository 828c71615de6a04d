package espat_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"i4.energy/across/wifictl/espat"
)

func TestWriteFlash(t *testing.T) {
	t.Run("Prompt then data", func(t *testing.T) {
		transport := espat.NewOKTransport(func(cmd string) string {
			switch cmd {
			case `AT+SYSFLASH=1,"client_ca",0,5`:
				return "\r\nOK\r\n\r\n>"
			case "hello":
				return "\r\nOK\r\n"
			}
			return "\r\nERROR\r\n"
		})
		d := startDevice(t, transport)

		if err := d.WriteFlash(context.Background(), espat.SectionClientCA, 0, []byte("hello")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		written := transport.Written()
		if !slices.Contains(written, "hello") {
			t.Errorf("data not written, got: %q", written)
		}
	})

	t.Run("Rejected by module", func(t *testing.T) {
		transport := espat.NewOKTransport(func(cmd string) string {
			return "\r\nERROR\r\n"
		})
		d := startDevice(t, transport)

		err := d.WriteFlash(context.Background(), espat.SectionClientKey, 0, []byte("key"))
		var cmdErr *espat.CommandError
		if !errors.As(err, &cmdErr) {
			t.Errorf("expected CommandError, got: %v", err)
		}
	})

	t.Run("Empty data", func(t *testing.T) {
		d := startDevice(t, espat.NewOKTransport(nil))
		err := d.WriteFlash(context.Background(), espat.SectionClientCert, 0, nil)
		if !errors.Is(err, espat.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got: %v", err)
		}
	})
}

func TestEraseFlash(t *testing.T) {
	transport := espat.NewOKTransport(nil)
	d := startDevice(t, transport)

	if err := d.EraseFlash(context.Background(), espat.SectionClientCert, 0, espat.FlashSectorSize); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	written := transport.Written()
	if got := written[len(written)-1]; got != `AT+SYSFLASH=0,"client_cert",0,4096` {
		t.Errorf("unexpected command: %q", got)
	}

	if err := d.EraseFlash(context.Background(), espat.SectionClientCert, 100, espat.FlashSectorSize); !errors.Is(err, espat.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unaligned offset, got: %v", err)
	}
	if err := d.EraseFlash(context.Background(), espat.SectionClientCert, 0, 0); !errors.Is(err, espat.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty erase, got: %v", err)
	}
}
