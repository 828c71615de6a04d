package espat_test

import (
	"errors"
	"testing"

	"i4.energy/across/wifictl/espat"
)

func TestConfig(t *testing.T) {
	t.Run("ErrNoDialer when no dialer provided", func(t *testing.T) {
		_, err := espat.NewConfigBuilder().Build()

		if err != espat.ErrNoDialer {
			t.Errorf("expected ErrNoDialer, got: %v", err)
		}
	})

	t.Run("Negative event buffer rejected", func(t *testing.T) {
		_, err := espat.NewConfigBuilder().
			WithDialer(espat.TestDialer{}).
			WithEventBuffer(-1).
			Build()

		if !errors.Is(err, espat.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got: %v", err)
		}
	})

	t.Run("Valid configuration", func(t *testing.T) {
		_, err := espat.NewConfigBuilder().
			WithDialer(espat.TestDialer{}).
			WithEventBuffer(4).
			Build()

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
