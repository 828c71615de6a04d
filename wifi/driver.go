package wifi

//go:generate go tool mockgen -source=driver.go -destination=mock_driver.go -package=wifi

import (
	"context"
	"net"
	"time"

	"i4.energy/across/wifictl/espat"
)

// Driver is the AT-command module driver the Manager forwards to.
// *espat.Device implements it.
type Driver interface {
	// Events delivers the module's asynchronous reports.
	Events() <-chan espat.Event
	// HasIP reports whether the station holds an address.
	HasIP() bool
	Close() error

	Quit(ctx context.Context) error
	SetMode(ctx context.Context, mode espat.Mode) error
	Mode(ctx context.Context) (espat.Mode, error)
	Join(ctx context.Context, ssid, password string) error
	ListAP(ctx context.Context, limit int) ([]espat.AccessPoint, error)
	StationIP(ctx context.Context) (espat.IPInfo, error)
	StationMAC(ctx context.Context) (net.HardwareAddr, error)
	GetHostByName(ctx context.Context, host string) (net.IP, error)
	Ping(ctx context.Context, host string) (time.Duration, error)
	SetDNS(ctx context.Context, servers ...string) error
	ConfigureSNTP(ctx context.Context, timezone int, servers ...string) error
	Reset(ctx context.Context) error
	ConfigureAP(ctx context.Context, ssid, password string, channel int, enc espat.Encryption) error
	SetSleep(ctx context.Context, mode espat.SleepMode) error
	Sleep(ctx context.Context) (espat.SleepMode, error)
	EraseFlash(ctx context.Context, section string, offset, length int) error
	WriteFlash(ctx context.Context, section string, offset int, data []byte) error
}

var _ Driver = (*espat.Device)(nil)

// ProfileStore keeps saved networks for NetworkAdd, NetworkGet and
// NetworkDelete.
type ProfileStore interface {
	Add(p NetworkProfile) (int, error)
	Get(index int) (NetworkProfile, error)
	Delete(index int) error
}
