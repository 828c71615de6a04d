package espat

import (
	"context"
	"fmt"
	"time"

	"i4.energy/across/wifictl/at"
	"periph.io/x/conn/v3/gpio"
)

// resetPulse is how long EN is held low for a hardware reset.
const resetPulse = 20 * time.Millisecond

// Reset restarts the module and waits for it to report "ready". With a
// reset pin configured the EN line is pulsed, otherwise AT+RST is sent.
// The firmware comes back with echo enabled, so echo is turned off again.
func (d *Device) Reset(ctx context.Context) error {
	// Forget a stale "ready" so the wait below sees the new boot.
	select {
	case <-d.ready:
	default:
	}

	if d.config.resetPin != nil {
		if err := d.pulseReset(ctx); err != nil {
			return err
		}
	} else if _, err := d.exec(ctx, at.CmdReset); err != nil {
		return fmt.Errorf("AT+RST failed: %w", err)
	}
	d.hasIP.Store(false)

	timer := time.NewTimer(d.config.resetTimeout)
	defer timer.Stop()
	select {
	case <-d.ready:
	case <-timer.C:
		return ErrResetTimeout
	case <-ctx.Done():
		return ctx.Err()
	}

	if _, err := d.exec(ctx, at.CmdEchoOff); err != nil {
		return fmt.Errorf("could not disable echo: %w", err)
	}
	return nil
}

func (d *Device) pulseReset(ctx context.Context) error {
	pin := d.config.resetPin
	if err := pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("reset pin low: %w", err)
	}
	select {
	case <-time.After(resetPulse):
	case <-ctx.Done():
		// Never leave the module held in reset.
		_ = pin.Out(gpio.High)
		return ctx.Err()
	}
	if err := pin.Out(gpio.High); err != nil {
		return fmt.Errorf("reset pin high: %w", err)
	}
	d.logger.Debug("hardware reset pulsed", "pin", pin.Name())
	return nil
}
