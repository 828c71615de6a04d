package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the server listens on (e.g. "0.0.0.0:8080")
	BindAddress string
	// SerialPort is the path to the Wi-Fi module's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string
	// BaudRate is the baud rate for serial communication with the module (e.g. 115200)
	BaudRate int
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// LogFile, when set, receives the logs instead of stderr and is rotated
	LogFile string
	// ResetPin is the GPIO wired to the module's EN line (e.g. "GPIO17"); empty uses AT+RST
	ResetPin string
	// ProfilesFile is the YAML file holding saved networks; empty disables profiles
	ProfilesFile string
	// JWTSecret enables HS256 bearer authentication on the HTTP API
	JWTSecret string
	// DNSServers are configured after connecting; nil keeps the built-in servers
	DNSServers []string
	// SNTPServer enables the module's SNTP client after connecting
	SNTPServer string
	// SNTPTimezone is the UTC offset in hours used by the SNTP client
	SNTPTimezone int
	// SemaphoreWait bounds the wait for the radio and for connect/disconnect reports
	SemaphoreWait time.Duration
	// AutoConnectSSID is joined at startup when set
	AutoConnectSSID string
	// AutoConnectPassword is the password of AutoConnectSSID
	AutoConnectPassword string
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = "0.0.0.0:8080"
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.SemaphoreWait = 60 * time.Second
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
			c.BindAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if file := os.Getenv("LOG_FILE"); file != "" {
			c.LogFile = file
		}

		if pin := os.Getenv("RESET_PIN"); pin != "" {
			c.ResetPin = pin
		}

		if profiles := os.Getenv("PROFILES_FILE"); profiles != "" {
			c.ProfilesFile = profiles
		}

		if secret := os.Getenv("JWT_SECRET"); secret != "" {
			c.JWTSecret = secret
		}

		if dns := os.Getenv("DNS_SERVERS"); dns != "" {
			c.DNSServers = parseList(dns)
		}

		if sntp := os.Getenv("SNTP_SERVER"); sntp != "" {
			c.SNTPServer = sntp
		}

		if tz := os.Getenv("SNTP_TIMEZONE"); tz != "" {
			if z, err := strconv.Atoi(tz); err == nil {
				c.SNTPTimezone = z
			}
		}

		if wait := os.Getenv("SEMAPHORE_WAIT"); wait != "" {
			if d, err := time.ParseDuration(wait); err == nil {
				c.SemaphoreWait = d
			}
		}

		if ssid := os.Getenv("AUTO_CONNECT_SSID"); ssid != "" {
			c.AutoConnectSSID = ssid
		}

		if password := os.Getenv("AUTO_CONNECT_PASSWORD"); password != "" {
			c.AutoConnectPassword = password
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bind-address":
				c.BindAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "log-file":
				c.LogFile = f.Value.String()
			case "reset-pin":
				c.ResetPin = f.Value.String()
			case "profiles-file":
				c.ProfilesFile = f.Value.String()
			case "jwt-secret":
				c.JWTSecret = f.Value.String()
			case "dns-servers":
				c.DNSServers = parseList(f.Value.String())
			case "sntp-server":
				c.SNTPServer = f.Value.String()
			case "sntp-timezone":
				if z, err := strconv.Atoi(f.Value.String()); err == nil {
					c.SNTPTimezone = z
				}
			case "semaphore-wait":
				if d, err := time.ParseDuration(f.Value.String()); err == nil {
					c.SemaphoreWait = d
				}
			case "auto-connect-ssid":
				c.AutoConnectSSID = f.Value.String()
			case "auto-connect-password":
				c.AutoConnectPassword = f.Value.String()
			}

		})
		return nil
	}

}

// parseList splits a comma separated list. "none" yields an empty, non-nil
// list.
func parseList(s string) []string {
	list := []string{}
	if strings.EqualFold(strings.TrimSpace(s), "none") {
		return list
	}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
