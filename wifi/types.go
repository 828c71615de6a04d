package wifi

import (
	"fmt"
	"net"
	"strings"

	"i4.energy/across/wifictl/espat"
)

// Security is the security scheme of a network.
type Security int

const (
	SecurityOpen Security = iota
	SecurityWEP
	SecurityWPA
	SecurityWPA2
	SecurityWPA2Enterprise
	SecurityWPA3
	SecurityNotSupported
)

var securityNames = map[Security]string{
	SecurityOpen:           "open",
	SecurityWEP:            "wep",
	SecurityWPA:            "wpa",
	SecurityWPA2:           "wpa2",
	SecurityWPA2Enterprise: "wpa2-enterprise",
	SecurityWPA3:           "wpa3",
	SecurityNotSupported:   "not-supported",
}

func (s Security) String() string {
	if name, ok := securityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("security(%d)", int(s))
}

// ParseSecurity is the inverse of Security.String. The empty string is
// treated as open.
func ParseSecurity(s string) (Security, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SecurityOpen, nil
	}
	for sec, name := range securityNames {
		if name == s {
			return sec, nil
		}
	}
	return SecurityNotSupported, fmt.Errorf("unknown security %q", s)
}

func securityFromEncryption(enc espat.Encryption) Security {
	switch enc {
	case espat.EncryptionOpen:
		return SecurityOpen
	case espat.EncryptionWEP:
		return SecurityWEP
	case espat.EncryptionWPAPSK:
		return SecurityWPA
	case espat.EncryptionWPA2PSK, espat.EncryptionWPAWPA2PSK:
		return SecurityWPA2
	case espat.EncryptionWPA2Enterprise:
		return SecurityWPA2Enterprise
	case espat.EncryptionWPA3PSK, espat.EncryptionWPA2WPA3PSK:
		return SecurityWPA3
	default:
		return SecurityNotSupported
	}
}

// apEncryption maps a security scheme to what the soft-AP can offer.
func apEncryption(s Security) (espat.Encryption, bool) {
	switch s {
	case SecurityOpen:
		return espat.EncryptionOpen, true
	case SecurityWPA:
		return espat.EncryptionWPAPSK, true
	case SecurityWPA2:
		return espat.EncryptionWPA2PSK, true
	default:
		return 0, false
	}
}

// NetworkParams describes the network to join or to offer as soft-AP.
type NetworkParams struct {
	SSID     string
	Password string
	Security Security
	// Channel is only used by the soft-AP; 0 picks channel 1.
	Channel int
}

// NetworkProfile is a saved network.
type NetworkProfile struct {
	SSID     string
	Password string
	Security Security
}

// ScanResult is one network found by Scan.
type ScanResult struct {
	SSID     string
	BSSID    net.HardwareAddr
	RSSI     int
	Security Security
	Channel  int
}

// DeviceMode is the role of the radio.
type DeviceMode int

const (
	ModeStation DeviceMode = iota
	ModeAP
	// ModeP2P runs station and soft-AP at the same time.
	ModeP2P
	ModeNotSupported
)

func (m DeviceMode) String() string {
	switch m {
	case ModeStation:
		return "station"
	case ModeAP:
		return "ap"
	case ModeP2P:
		return "p2p"
	default:
		return "not-supported"
	}
}

// ParseDeviceMode is the inverse of DeviceMode.String.
func ParseDeviceMode(s string) DeviceMode {
	switch strings.ToLower(s) {
	case "station":
		return ModeStation
	case "ap":
		return ModeAP
	case "p2p":
		return ModeP2P
	default:
		return ModeNotSupported
	}
}

func (m DeviceMode) driverMode() (espat.Mode, bool) {
	switch m {
	case ModeStation:
		return espat.ModeStation, true
	case ModeAP:
		return espat.ModeSoftAP, true
	case ModeP2P:
		return espat.ModeStationSoftAP, true
	default:
		return 0, false
	}
}

func deviceMode(m espat.Mode) DeviceMode {
	switch m {
	case espat.ModeStation:
		return ModeStation
	case espat.ModeSoftAP:
		return ModeAP
	case espat.ModeStationSoftAP:
		return ModeP2P
	default:
		return ModeNotSupported
	}
}

// PMMode is the power management mode of the radio.
type PMMode int

const (
	PMNormal PMMode = iota
	PMLowPower
	PMAlwaysOn
	PMNotSupported
)

func (p PMMode) String() string {
	switch p {
	case PMNormal:
		return "normal"
	case PMLowPower:
		return "low-power"
	case PMAlwaysOn:
		return "always-on"
	default:
		return "not-supported"
	}
}

// ParsePMMode is the inverse of PMMode.String.
func ParsePMMode(s string) PMMode {
	switch strings.ToLower(s) {
	case "normal":
		return PMNormal
	case "low-power":
		return PMLowPower
	case "always-on":
		return PMAlwaysOn
	default:
		return PMNotSupported
	}
}

func (p PMMode) sleepMode() (espat.SleepMode, bool) {
	switch p {
	case PMNormal:
		return espat.SleepModem, true
	case PMLowPower:
		return espat.SleepLight, true
	case PMAlwaysOn:
		return espat.SleepDisabled, true
	default:
		return 0, false
	}
}

func pmMode(s espat.SleepMode) PMMode {
	switch s {
	case espat.SleepModem:
		return PMNormal
	case espat.SleepLight:
		return PMLowPower
	case espat.SleepDisabled:
		return PMAlwaysOn
	default:
		return PMNotSupported
	}
}

// NetworkState is passed to state change callbacks.
type NetworkState int

const (
	StateUnknown NetworkState = iota
	StateDisabled
	StateEnabled
)

func (s NetworkState) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabled:
		return "enabled"
	default:
		return "unknown"
	}
}

// StateCallback is invoked when the station connects or disconnects.
type StateCallback func(state NetworkState)

// CertType selects the credential slot of offloaded TLS connections.
type CertType int

const (
	CertClientCA CertType = iota + 1
	CertClientCert
	CertClientKey
)

func (c CertType) section() (string, bool) {
	switch c {
	case CertClientCA:
		return espat.SectionClientCA, true
	case CertClientCert:
		return espat.SectionClientCert, true
	case CertClientKey:
		return espat.SectionClientKey, true
	default:
		return "", false
	}
}

// Notification is the value of the one-slot connect/disconnect signal.
type Notification int

const (
	NotifyConnected Notification = iota + 1
	NotifyDisconnected
)

func (n Notification) String() string {
	switch n {
	case NotifyConnected:
		return "connected"
	case NotifyDisconnected:
		return "disconnected"
	default:
		return "none"
	}
}
