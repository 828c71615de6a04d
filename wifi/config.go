package wifi

import (
	"context"
	"log/slog"
	"time"
)

// DefaultDNSServers are configured after every successful connect unless
// Config.DNSServers says otherwise.
var DefaultDNSServers = []string{"8.8.8.8", "222.222.67.208"}

// Config holds the settings of a Manager.
type Config struct {
	// Open connects to the module and returns a running driver. Required.
	Open func(ctx context.Context) (Driver, error)

	// Profiles backs NetworkAdd, NetworkGet and NetworkDelete. Without it
	// those operations are not supported.
	Profiles ProfileStore

	// SemaphoreWait bounds both the wait for the radio and the wait for
	// a connect/disconnect report. Defaults to 60s.
	SemaphoreWait time.Duration

	// BootDelay is waited after a reset on top of the driver's own wait
	// for the module to boot.
	BootDelay time.Duration

	// MaxScanResults caps Scan. Defaults to 100.
	MaxScanResults int

	// DNSServers are set after connecting. nil selects DefaultDNSServers,
	// an empty slice leaves the module's DNS alone.
	DNSServers []string

	// SNTPServer enables the module's SNTP client after connecting.
	SNTPServer   string
	SNTPTimezone int

	Logger *slog.Logger
}

func (c *Config) setDefaults() {
	if c.SemaphoreWait == 0 {
		c.SemaphoreWait = 60 * time.Second
	}
	if c.MaxScanResults == 0 {
		c.MaxScanResults = 100
	}
	if c.DNSServers == nil {
		c.DNSServers = DefaultDNSServers
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
