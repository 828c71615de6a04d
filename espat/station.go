package espat

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"i4.energy/across/wifictl/at"
)

// Mode is the Wi-Fi operating mode as numbered by AT+CWMODE.
type Mode int

const (
	ModeOff Mode = iota
	ModeStation
	ModeSoftAP
	ModeStationSoftAP
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeStation:
		return "station"
	case ModeSoftAP:
		return "softap"
	case ModeStationSoftAP:
		return "station+softap"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Encryption is the AP security scheme as numbered by AT+CWLAP and AT+CWSAP.
type Encryption int

const (
	EncryptionOpen Encryption = iota
	EncryptionWEP
	EncryptionWPAPSK
	EncryptionWPA2PSK
	EncryptionWPAWPA2PSK
	EncryptionWPA2Enterprise
	EncryptionWPA3PSK
	EncryptionWPA2WPA3PSK
)

// SleepMode is the power-save mode as numbered by AT+SLEEP.
type SleepMode int

const (
	SleepDisabled SleepMode = iota
	SleepModem
	SleepLight
)

// AccessPoint is one network found by ListAP.
type AccessPoint struct {
	SSID       string
	BSSID      net.HardwareAddr
	RSSI       int
	Encryption Encryption
	Channel    int
}

// IPInfo is the station's IPv4 configuration.
type IPInfo struct {
	IP      net.IP
	Gateway net.IP
	Netmask net.IP
}

// JoinError reports why AT+CWJAP failed.
type JoinError struct {
	SSID   string
	Reason int
	Err    error
}

func (e *JoinError) Error() string {
	var reason string
	switch e.Reason {
	case 1:
		reason = "connection timeout"
	case 2:
		reason = "wrong password"
	case 3:
		reason = "access point not found"
	case 4:
		reason = "connection failed"
	default:
		reason = "unknown reason"
	}
	return fmt.Sprintf("join %q: %s", e.SSID, reason)
}

func (e *JoinError) Unwrap() error { return e.Err }

// Quit disconnects the station from its access point. The module reports
// WIFI DISCONNECT afterwards if it was connected.
func (d *Device) Quit(ctx context.Context) error {
	if _, err := d.exec(ctx, at.CmdQuitAP); err != nil {
		return fmt.Errorf("AT+CWQAP failed: %w", err)
	}
	return nil
}

// SetMode selects the Wi-Fi operating mode.
func (d *Device) SetMode(ctx context.Context, mode Mode) error {
	if mode < ModeOff || mode > ModeStationSoftAP {
		return fmt.Errorf("%w: mode %d", ErrInvalidArgument, mode)
	}
	if _, err := d.exec(ctx, fmt.Sprintf(at.CmdSetMode, int(mode))); err != nil {
		return fmt.Errorf("AT+CWMODE failed: %w", err)
	}
	return nil
}

// Mode queries the Wi-Fi operating mode.
func (d *Device) Mode(ctx context.Context) (Mode, error) {
	resp, err := d.exec(ctx, at.CmdGetMode)
	if err != nil {
		return 0, fmt.Errorf("AT+CWMODE? failed: %w", err)
	}
	line, ok := findLine(resp, at.RespMode)
	if !ok {
		return 0, fmt.Errorf("no mode in response: %q", resp)
	}
	m, err := at.ParseMode(line)
	if err != nil {
		return 0, err
	}
	return Mode(m), nil
}

// Join connects the station to an access point. It returns when the
// module answers; the WIFI CONNECTED and WIFI GOT IP reports arrive on the
// Events channel, usually before Join returns.
func (d *Device) Join(ctx context.Context, ssid, password string) error {
	if ssid == "" {
		return fmt.Errorf("%w: empty SSID", ErrInvalidArgument)
	}
	cmd := fmt.Sprintf(at.CmdJoinAP, at.Quote(ssid), at.Quote(password))
	resp, err := d.execTimeout(ctx, cmd, d.config.joinTimeout)
	if err != nil {
		if line, ok := findLine(resp, at.RespJoinErr); ok {
			reason, _ := at.ParseJoinError(line)
			return &JoinError{SSID: ssid, Reason: reason, Err: err}
		}
		return fmt.Errorf("AT+CWJAP failed: %w", err)
	}
	return nil
}

// ListAP scans for access points and returns at most limit of them. limit <= 0
// returns every network found.
func (d *Device) ListAP(ctx context.Context, limit int) ([]AccessPoint, error) {
	resp, err := d.execTimeout(ctx, at.CmdListAP, d.config.joinTimeout)
	if err != nil {
		return nil, fmt.Errorf("AT+CWLAP failed: %w", err)
	}

	var aps []AccessPoint
	for _, line := range strings.Split(resp, "\n") {
		if !strings.HasPrefix(line, at.RespListAP) {
			continue
		}
		ap, err := at.ParseAccessPoint(line)
		if err != nil {
			d.logger.Warn("skipping access point", "line", line, "error", err)
			continue
		}
		aps = append(aps, AccessPoint{
			SSID:       ap.SSID,
			BSSID:      ap.MAC,
			RSSI:       ap.RSSI,
			Encryption: Encryption(ap.Encryption),
			Channel:    ap.Channel,
		})
		if limit > 0 && len(aps) == limit {
			break
		}
	}
	return aps, nil
}

// StationIP returns the station's IP configuration.
func (d *Device) StationIP(ctx context.Context) (IPInfo, error) {
	resp, err := d.exec(ctx, at.CmdStaIP)
	if err != nil {
		return IPInfo{}, fmt.Errorf("AT+CIPSTA? failed: %w", err)
	}

	var info IPInfo
	for _, line := range strings.Split(resp, "\n") {
		if !strings.HasPrefix(line, "+CIPSTA") {
			continue
		}
		key, ip, err := at.ParseStationIP(line)
		if err != nil {
			return IPInfo{}, err
		}
		switch key {
		case "ip":
			info.IP = ip
		case "gateway":
			info.Gateway = ip
		case "netmask":
			info.Netmask = ip
		}
	}
	if info.IP == nil {
		return IPInfo{}, fmt.Errorf("no address in response: %q", resp)
	}
	return info, nil
}

// StationMAC returns the station interface's MAC address.
func (d *Device) StationMAC(ctx context.Context) (net.HardwareAddr, error) {
	resp, err := d.exec(ctx, at.CmdStaMAC)
	if err != nil {
		return nil, fmt.Errorf("AT+CIPSTAMAC? failed: %w", err)
	}
	line, ok := findLine(resp, at.RespStaMAC)
	if !ok {
		return nil, fmt.Errorf("no MAC in response: %q", resp)
	}
	return at.ParseMAC(line)
}

// GetHostByName resolves host through the module's DNS client.
func (d *Device) GetHostByName(ctx context.Context, host string) (net.IP, error) {
	if host == "" {
		return nil, fmt.Errorf("%w: empty host", ErrInvalidArgument)
	}
	resp, err := d.execTimeout(ctx, fmt.Sprintf(at.CmdDomain, at.Quote(host)), d.config.joinTimeout)
	if err != nil {
		return nil, fmt.Errorf("AT+CIPDOMAIN failed: %w", err)
	}
	line, ok := findLine(resp, at.RespDomain)
	if !ok {
		return nil, fmt.Errorf("no address in response: %q", resp)
	}
	return at.ParseDomain(line)
}

// Ping sends one echo request to host and returns the round trip time.
func (d *Device) Ping(ctx context.Context, host string) (time.Duration, error) {
	if host == "" {
		return 0, fmt.Errorf("%w: empty host", ErrInvalidArgument)
	}
	resp, err := d.execTimeout(ctx, fmt.Sprintf(at.CmdPing, at.Quote(host)), d.config.joinTimeout)
	if err != nil {
		if line, ok := findLine(resp, at.RespPing); ok {
			if _, perr := at.ParsePing(line); perr != nil {
				return 0, fmt.Errorf("ping %s: %w", host, perr)
			}
		}
		return 0, fmt.Errorf("AT+PING failed: %w", err)
	}
	line, ok := findLine(resp, at.RespPing)
	if !ok {
		return 0, fmt.Errorf("no ping time in response: %q", resp)
	}
	return at.ParsePing(line)
}

// SetDNS enables user-defined DNS servers (at most three).
func (d *Device) SetDNS(ctx context.Context, servers ...string) error {
	if len(servers) == 0 || len(servers) > 3 {
		return fmt.Errorf("%w: %d DNS servers", ErrInvalidArgument, len(servers))
	}
	if _, err := d.exec(ctx, fmt.Sprintf(at.CmdSetDNS, quoteAll(servers))); err != nil {
		return fmt.Errorf("AT+CIPDNS failed: %w", err)
	}
	return nil
}

// ConfigureSNTP enables the module's SNTP client with a timezone offset in
// hours and up to three servers.
func (d *Device) ConfigureSNTP(ctx context.Context, timezone int, servers ...string) error {
	if len(servers) == 0 || len(servers) > 3 {
		return fmt.Errorf("%w: %d SNTP servers", ErrInvalidArgument, len(servers))
	}
	if timezone < -12 || timezone > 14 {
		return fmt.Errorf("%w: timezone %d", ErrInvalidArgument, timezone)
	}
	if _, err := d.exec(ctx, fmt.Sprintf(at.CmdSetSNTP, timezone, quoteAll(servers))); err != nil {
		return fmt.Errorf("AT+CIPSNTPCFG failed: %w", err)
	}
	return nil
}

// ConfigureAP sets the soft-AP parameters. The soft-AP must be enabled
// with SetMode for the settings to be accepted.
func (d *Device) ConfigureAP(ctx context.Context, ssid, password string, channel int, enc Encryption) error {
	if ssid == "" {
		return fmt.Errorf("%w: empty SSID", ErrInvalidArgument)
	}
	if channel < 1 || channel > 14 {
		return fmt.Errorf("%w: channel %d", ErrInvalidArgument, channel)
	}
	cmd := fmt.Sprintf(at.CmdConfAP, at.Quote(ssid), at.Quote(password), channel, int(enc))
	if _, err := d.exec(ctx, cmd); err != nil {
		return fmt.Errorf("AT+CWSAP failed: %w", err)
	}
	return nil
}

// SetSleep selects the power-save mode.
func (d *Device) SetSleep(ctx context.Context, mode SleepMode) error {
	if mode < SleepDisabled || mode > SleepLight {
		return fmt.Errorf("%w: sleep mode %d", ErrInvalidArgument, mode)
	}
	if _, err := d.exec(ctx, fmt.Sprintf(at.CmdSetSleep, int(mode))); err != nil {
		return fmt.Errorf("AT+SLEEP failed: %w", err)
	}
	return nil
}

// Sleep queries the power-save mode.
func (d *Device) Sleep(ctx context.Context) (SleepMode, error) {
	resp, err := d.exec(ctx, at.CmdGetSleep)
	if err != nil {
		return 0, fmt.Errorf("AT+SLEEP? failed: %w", err)
	}
	line, ok := findLine(resp, at.RespSleep)
	if !ok {
		return 0, fmt.Errorf("no sleep mode in response: %q", resp)
	}
	m, err := at.ParseSleep(line)
	if err != nil {
		return 0, err
	}
	return SleepMode(m), nil
}

func findLine(resp, prefix string) (string, bool) {
	for _, line := range strings.Split(resp, "\n") {
		if strings.HasPrefix(line, prefix) {
			return line, true
		}
	}
	return "", false
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = at.Quote(v)
	}
	return strings.Join(quoted, ",")
}
