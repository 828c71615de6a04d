package main

import (
	"flag"
	"slices"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		c, err := LoadConfig(WithDefaults())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.BindAddress != "0.0.0.0:8080" || c.SerialPort != "/dev/ttyUSB0" || c.BaudRate != 115200 {
			t.Errorf("unexpected defaults: %+v", c)
		}
		if c.SemaphoreWait != time.Minute {
			t.Errorf("expected 1m semaphore wait, got %v", c.SemaphoreWait)
		}
		if c.DNSServers != nil {
			t.Errorf("expected built-in DNS servers, got %v", c.DNSServers)
		}
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("SERIAL_PORT", "/dev/ttyAMA0")
		t.Setenv("BAUD_RATE", "921600")
		t.Setenv("DNS_SERVERS", "1.1.1.1, 9.9.9.9")
		t.Setenv("SEMAPHORE_WAIT", "15s")
		t.Setenv("SNTP_TIMEZONE", "-5")
		t.Setenv("AUTO_CONNECT_SSID", "home")

		c, err := LoadConfig(WithDefaults(), WithEnv())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.SerialPort != "/dev/ttyAMA0" || c.BaudRate != 921600 {
			t.Errorf("unexpected serial settings: %s %d", c.SerialPort, c.BaudRate)
		}
		if !slices.Equal(c.DNSServers, []string{"1.1.1.1", "9.9.9.9"}) {
			t.Errorf("unexpected DNS servers: %q", c.DNSServers)
		}
		if c.SemaphoreWait != 15*time.Second || c.SNTPTimezone != -5 || c.AutoConnectSSID != "home" {
			t.Errorf("unexpected config: %+v", c)
		}
	})

	t.Run("Invalid numbers keep the previous value", func(t *testing.T) {
		t.Setenv("BAUD_RATE", "fast")
		t.Setenv("SEMAPHORE_WAIT", "soon")

		c, err := LoadConfig(WithDefaults(), WithEnv())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.BaudRate != 115200 || c.SemaphoreWait != time.Minute {
			t.Errorf("unexpected config: %+v", c)
		}
	})

	t.Run("Flags override environment", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "warn")
		t.Setenv("BIND_ADDRESS", "127.0.0.1:9000")

		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.String("log-level", "info", "")
		fs.String("dns-servers", "", "")
		fs.String("reset-pin", "", "")
		if err := fs.Parse([]string{"-log-level", "debug", "-dns-servers", "none", "-reset-pin", "GPIO17"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		c, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(fs))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.LogLevel != "debug" {
			t.Errorf("expected flag to win, got %q", c.LogLevel)
		}
		if c.BindAddress != "127.0.0.1:9000" {
			t.Errorf("expected env value for unset flag, got %q", c.BindAddress)
		}
		if c.DNSServers == nil || len(c.DNSServers) != 0 {
			t.Errorf("expected DNS disabled, got %v", c.DNSServers)
		}
		if c.ResetPin != "GPIO17" {
			t.Errorf("unexpected reset pin: %q", c.ResetPin)
		}
	})
}
