package at

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformed is returned when a response line does not have the
	// shape expected for its prefix.
	ErrMalformed = errors.New("malformed response")

	// ErrPingTimeout is returned by ParsePing when the module reports
	// that the remote host did not answer.
	ErrPingTimeout = errors.New("ping timeout")
)

// AccessPoint is one entry of an AT+CWLAP listing.
type AccessPoint struct {
	Encryption int
	SSID       string
	RSSI       int
	MAC        net.HardwareAddr
	Channel    int
}

// Quote returns s as an AT string parameter. Commas, double quotes and
// backslashes are escaped with a backslash as the ESP-AT firmware expects.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', ',', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}

// splitFields splits a comma separated parameter list. Quoted fields are
// returned without their quotes and with escapes removed.
func splitFields(s string) []string {
	var (
		fields  []string
		cur     strings.Builder
		quoted  bool
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == '\\' && quoted:
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// ParseAccessPoint parses a single +CWLAP line, for example
//
//	+CWLAP:(3,"home",-45,"aa:bb:cc:dd:ee:ff",6,-1,-1,4,4,7,0)
func ParseAccessPoint(line string) (AccessPoint, error) {
	body, ok := strings.CutPrefix(line, RespListAP)
	if !ok {
		return AccessPoint{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "(")
	body = strings.TrimSuffix(body, ")")

	f := splitFields(body)
	if len(f) < 5 {
		return AccessPoint{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}

	var (
		ap  AccessPoint
		err error
	)
	if ap.Encryption, err = strconv.Atoi(f[0]); err != nil {
		return AccessPoint{}, fmt.Errorf("%w: encryption %q", ErrMalformed, f[0])
	}
	ap.SSID = f[1]
	if ap.RSSI, err = strconv.Atoi(f[2]); err != nil {
		return AccessPoint{}, fmt.Errorf("%w: rssi %q", ErrMalformed, f[2])
	}
	if ap.MAC, err = net.ParseMAC(f[3]); err != nil {
		return AccessPoint{}, fmt.Errorf("%w: mac %q", ErrMalformed, f[3])
	}
	if ap.Channel, err = strconv.Atoi(f[4]); err != nil {
		return AccessPoint{}, fmt.Errorf("%w: channel %q", ErrMalformed, f[4])
	}
	return ap, nil
}

// ParseStationIP parses one line of the AT+CIPSTA? reply and returns its
// key ("ip", "gateway" or "netmask") with the address.
func ParseStationIP(line string) (string, net.IP, error) {
	body, ok := strings.CutPrefix(line, RespStaIP)
	if !ok {
		// Firmware before 2.0 answers with the _CUR suffix.
		body, ok = strings.CutPrefix(line, "+CIPSTA_CUR:")
	}
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	key, value, ok := strings.Cut(body, ":")
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	ip := net.ParseIP(unquote(value))
	if ip == nil {
		return "", nil, fmt.Errorf("%w: address %q", ErrMalformed, value)
	}
	return key, ip, nil
}

// ParseMAC parses the +CIPSTAMAC reply.
func ParseMAC(line string) (net.HardwareAddr, error) {
	body, ok := strings.CutPrefix(line, RespStaMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	mac, err := net.ParseMAC(unquote(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return mac, nil
}

// ParseDomain parses the +CIPDOMAIN reply. Older firmware leaves the
// address unquoted.
func ParseDomain(line string) (net.IP, error) {
	body, ok := strings.CutPrefix(line, RespDomain)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	ip := net.ParseIP(unquote(body))
	if ip == nil {
		return nil, fmt.Errorf("%w: address %q", ErrMalformed, body)
	}
	return ip, nil
}

// ParsePing parses the +PING reply into a round trip time.
func ParsePing(line string) (time.Duration, error) {
	body, ok := strings.CutPrefix(line, RespPing)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	body = strings.TrimSpace(body)
	if body == "TIMEOUT" {
		return 0, ErrPingTimeout
	}
	ms, err := strconv.Atoi(body)
	if err != nil {
		return 0, fmt.Errorf("%w: ping %q", ErrMalformed, body)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// ParseMode parses the +CWMODE reply.
func ParseMode(line string) (int, error) {
	return parseInt(line, RespMode)
}

// ParseSleep parses the +SLEEP reply.
func ParseSleep(line string) (int, error) {
	return parseInt(line, RespSleep)
}

func parseInt(line, prefix string) (int, error) {
	body, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	// +CWMODE may carry a second auto-connect field on newer firmware.
	first, _, _ := strings.Cut(strings.TrimSpace(body), ",")
	v, err := strconv.Atoi(first)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	return v, nil
}

// ParseJoinError extracts the reason code of a failed AT+CWJAP
// (+CWJAP:<code>). Codes: 1 timeout, 2 wrong password, 3 AP not found,
// 4 connection failed.
func ParseJoinError(line string) (int, bool) {
	v, err := parseInt(line, RespJoinErr)
	if err != nil {
		return 0, false
	}
	return v, true
}
