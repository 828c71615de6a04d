package espat

import (
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Config holds the settings of a Device. Build it with NewConfigBuilder.
type Config struct {
	dialer       Dialer
	atTimeout    time.Duration
	joinTimeout  time.Duration
	initTimeout  time.Duration
	resetTimeout time.Duration
	eventBuffer  int
	resetPin     gpio.PinOut
	logger       *slog.Logger
}

func (c *Config) validate() error {
	if c.dialer == nil {
		return ErrNoDialer
	}
	if c.eventBuffer < 0 {
		return ErrInvalidArgument
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.atTimeout == 0 {
		c.atTimeout = 5 * time.Second
	}
	if c.joinTimeout == 0 {
		c.joinTimeout = 20 * time.Second
	}
	if c.initTimeout == 0 {
		c.initTimeout = 10 * time.Second
	}
	if c.resetTimeout == 0 {
		c.resetTimeout = 5 * time.Second
	}
	if c.eventBuffer == 0 {
		c.eventBuffer = 32
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
}

// ConfigBuilder assembles a Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder returns a builder with no settings applied.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithDialer sets how the module connection is opened. Required.
func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.dialer = d
	return b
}

// WithATTimeout sets the default response timeout of a command.
func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	b.config.atTimeout = d
	return b
}

// WithJoinTimeout sets the timeout of slow commands: joining an access
// point, scanning and pinging.
func (b *ConfigBuilder) WithJoinTimeout(d time.Duration) *ConfigBuilder {
	b.config.joinTimeout = d
	return b
}

// WithInitTimeout bounds the whole initialization sequence run by New.
func (b *ConfigBuilder) WithInitTimeout(d time.Duration) *ConfigBuilder {
	b.config.initTimeout = d
	return b
}

// WithResetTimeout bounds the wait for "ready" after a reset.
func (b *ConfigBuilder) WithResetTimeout(d time.Duration) *ConfigBuilder {
	b.config.resetTimeout = d
	return b
}

// WithEventBuffer sets the capacity of the Events channel.
func (b *ConfigBuilder) WithEventBuffer(n int) *ConfigBuilder {
	b.config.eventBuffer = n
	return b
}

// WithResetPin wires the module's EN/RST line. Reset then pulses the pin
// low instead of sending AT+RST.
func (b *ConfigBuilder) WithResetPin(p gpio.PinOut) *ConfigBuilder {
	b.config.resetPin = p
	return b
}

// WithLogger sets the logger. Defaults to slog.Default().
func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.logger = l
	return b
}

// Build validates the settings and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
