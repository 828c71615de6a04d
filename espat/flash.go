package espat

import (
	"context"
	"fmt"
	"strings"

	"i4.energy/across/wifictl/at"
)

// Flash sections holding the credentials of offloaded TLS connections.
const (
	SectionClientCA   = "client_ca"
	SectionClientCert = "client_cert"
	SectionClientKey  = "client_key"
)

// FlashSectorSize is the erase granularity of the user partitions.
const FlashSectorSize = 4096

// EraseFlash erases length bytes of a user partition starting at offset.
// Both must be multiples of FlashSectorSize.
func (d *Device) EraseFlash(ctx context.Context, section string, offset, length int) error {
	if offset%FlashSectorSize != 0 || length%FlashSectorSize != 0 || length <= 0 {
		return fmt.Errorf("%w: erase %d+%d is not sector aligned", ErrInvalidArgument, offset, length)
	}
	cmd := fmt.Sprintf(at.CmdEraseSect, at.Quote(section), offset, length)
	if _, err := d.execTimeout(ctx, cmd, d.config.joinTimeout); err != nil {
		return fmt.Errorf("AT+SYSFLASH erase failed: %w", err)
	}
	return nil
}

// WriteFlash writes data into a user partition at offset.
//
// The module answers the command with a ">" prompt; only then the raw
// bytes are sent, and the module confirms them with OK.
func (d *Device) WriteFlash(ctx context.Context, section string, offset int, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: no data", ErrInvalidArgument)
	}

	resp, err := d.execPrompt(ctx, fmt.Sprintf(at.CmdWriteSect, at.Quote(section), offset, len(data)))
	if err != nil {
		return fmt.Errorf("AT+SYSFLASH write failed: %w", err)
	}
	if !strings.HasSuffix(resp, at.Prompt) {
		return fmt.Errorf("%w, got: %q", ErrNoPrompt, resp)
	}

	resp, err = d.execRaw(ctx, "AT+SYSFLASH data", data)
	if err != nil {
		return fmt.Errorf("flash data write failed: %w", err)
	}
	if !strings.Contains(resp, at.OK) {
		return fmt.Errorf("unexpected flash write response: %s", resp)
	}

	return nil
}
