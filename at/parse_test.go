package at_test

import (
	"errors"
	"testing"
	"time"

	"i4.energy/across/wifictl/at"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "home", want: `"home"`},
		{in: `a,b`, want: `"a\,b"`},
		{in: `say "hi"`, want: `"say \"hi\""`},
		{in: `back\slash`, want: `"back\\slash"`},
		{in: "", want: `""`},
	}
	for _, tt := range tests {
		if got := at.Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseAccessPoint(t *testing.T) {
	t.Run("Full record", func(t *testing.T) {
		ap, err := at.ParseAccessPoint(`+CWLAP:(3,"home",-45,"aa:bb:cc:dd:ee:ff",6,-1,-1,4,4,7,0)`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ap.Encryption != 3 || ap.SSID != "home" || ap.RSSI != -45 || ap.Channel != 6 {
			t.Errorf("unexpected access point: %+v", ap)
		}
		if ap.MAC.String() != "aa:bb:cc:dd:ee:ff" {
			t.Errorf("unexpected MAC: %s", ap.MAC)
		}
	})

	t.Run("SSID with escaped comma and quote", func(t *testing.T) {
		ap, err := at.ParseAccessPoint(`+CWLAP:(0,"a\,b\"c",-70,"11:22:33:44:55:66",1)`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ap.SSID != `a,b"c` {
			t.Errorf("expected SSID %q, got %q", `a,b"c`, ap.SSID)
		}
	})

	t.Run("Too few fields", func(t *testing.T) {
		_, err := at.ParseAccessPoint(`+CWLAP:(3,"home")`)
		if !errors.Is(err, at.ErrMalformed) {
			t.Errorf("expected ErrMalformed, got: %v", err)
		}
	})

	t.Run("Wrong prefix", func(t *testing.T) {
		_, err := at.ParseAccessPoint(`+CWMODE:1`)
		if !errors.Is(err, at.ErrMalformed) {
			t.Errorf("expected ErrMalformed, got: %v", err)
		}
	})
}

func TestParseStationIP(t *testing.T) {
	key, ip, err := at.ParseStationIP(`+CIPSTA:ip:"192.168.1.10"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "ip" || ip.String() != "192.168.1.10" {
		t.Errorf("unexpected result: %s %s", key, ip)
	}

	key, ip, err = at.ParseStationIP(`+CIPSTA_CUR:netmask:"255.255.255.0"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "netmask" || ip.String() != "255.255.255.0" {
		t.Errorf("unexpected result: %s %s", key, ip)
	}

	if _, _, err := at.ParseStationIP(`+CIPSTA:ip:"not-an-ip"`); !errors.Is(err, at.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got: %v", err)
	}
}

func TestParseMAC(t *testing.T) {
	mac, err := at.ParseMAC(`+CIPSTAMAC:"18:fe:34:a1:b2:c3"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mac.String() != "18:fe:34:a1:b2:c3" {
		t.Errorf("unexpected MAC: %s", mac)
	}
}

func TestParseDomain(t *testing.T) {
	for _, line := range []string{`+CIPDOMAIN:"93.184.216.34"`, `+CIPDOMAIN:93.184.216.34`} {
		ip, err := at.ParseDomain(line)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", line, err)
		}
		if ip.String() != "93.184.216.34" {
			t.Errorf("unexpected address for %q: %s", line, ip)
		}
	}
}

func TestParsePing(t *testing.T) {
	d, err := at.ParsePing("+PING:12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 12*time.Millisecond {
		t.Errorf("expected 12ms, got %v", d)
	}

	if _, err := at.ParsePing("+PING:TIMEOUT"); !errors.Is(err, at.ErrPingTimeout) {
		t.Errorf("expected ErrPingTimeout, got: %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for line, want := range map[string]int{"+CWMODE:1": 1, "+CWMODE:3,1": 3} {
		got, err := at.ParseMode(line)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", line, err)
		}
		if got != want {
			t.Errorf("ParseMode(%q) = %d, want %d", line, got, want)
		}
	}
}

func TestParseJoinError(t *testing.T) {
	code, ok := at.ParseJoinError("+CWJAP:2")
	if !ok || code != 2 {
		t.Errorf("expected reason 2, got %d (ok=%v)", code, ok)
	}
	if _, ok := at.ParseJoinError("FAIL"); ok {
		t.Error("expected no reason for FAIL")
	}
}
