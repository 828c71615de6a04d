package wifi

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"i4.energy/across/wifictl/espat"
)

// certMaxSize is the size of a credential flash section.
const certMaxSize = 2 * espat.FlashSectorSize

// Manager is the vendor-neutral Wi-Fi API over a single module. Every
// operation that talks to the module first takes exclusive ownership of
// it; operations that wait for the module to (dis)connect are completed
// by the event dispatcher through a one-slot notification.
type Manager struct {
	config Config
	logger *slog.Logger

	// sem guards the driver and the radio; held by at most one caller.
	sem *semaphore.Weighted
	// notify holds the latest connect/disconnect report; a newer one
	// overwrites an unread one.
	notify chan Notification

	// Owned by the semaphore holder
	driver       Driver
	apParams     *NetworkParams
	apRunning    bool
	stopDispatch context.CancelFunc
	dispatchDone chan struct{}

	initialized     atomic.Bool
	disconnectWant  atomic.Bool
	disconnectAlert atomic.Bool
	state           atomic.Int32

	mu         sync.Mutex
	lastParams NetworkParams
	callbacks  []StateCallback
}

// NewManager returns a Manager that is turned off.
func NewManager(config Config) (*Manager, error) {
	if config.Open == nil {
		return nil, ErrNoOpener
	}
	config.setDefaults()

	return &Manager{
		config: config,
		logger: config.Logger.With("component", "wifi"),
		sem:    semaphore.NewWeighted(1),
		notify: make(chan Notification, 1),
	}, nil
}

// acquire takes the radio within the semaphore wait.
func (m *Manager) acquire(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.config.SemaphoreWait)
	defer cancel()
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: radio busy: %w", ErrTimeout, err)
	}
	return nil
}

func (m *Manager) release() {
	m.sem.Release(1)
}

// lock acquires the radio and returns the driver. The caller must release.
func (m *Manager) lock(ctx context.Context) (Driver, error) {
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	if m.driver == nil {
		m.release()
		return nil, fmt.Errorf("%w: wifi is off", ErrFailure)
	}
	return m.driver, nil
}

// On connects to the module. Calling On again is a no-op.
func (m *Manager) On(ctx context.Context) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	if m.initialized.Load() {
		return nil
	}

	d, err := m.config.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: open driver: %w", ErrFailure, err)
	}

	dispatchCtx, cancel := context.WithCancel(context.Background())
	m.driver = d
	m.stopDispatch = cancel
	m.dispatchDone = make(chan struct{})
	go m.dispatch(dispatchCtx, d.Events(), m.dispatchDone)

	m.initialized.Store(true)
	m.logger.Info("wifi on")
	return nil
}

// Off disconnects from the module and releases it. Off on a manager that
// is not on succeeds.
func (m *Manager) Off(ctx context.Context) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	if !m.initialized.Load() {
		return nil
	}

	m.stopDispatch()
	<-m.dispatchDone

	err := m.driver.Close()
	m.driver = nil
	m.apRunning = false
	m.initialized.Store(false)
	m.setState(StateDisabled)
	m.logger.Info("wifi off")

	if err != nil {
		return fmt.Errorf("%w: close driver: %w", ErrFailure, err)
	}
	return nil
}

// Initialized reports whether On succeeded and Off has not been called
// since.
func (m *Manager) Initialized() bool {
	return m.initialized.Load()
}

// ConnectAP joins the network described by params. The parameters are
// remembered even when the connect fails, see LastParams.
func (m *Manager) ConnectAP(ctx context.Context, params *NetworkParams) error {
	if params == nil || params.SSID == "" {
		return fmt.Errorf("%w: SSID is required", ErrFailure)
	}

	m.mu.Lock()
	m.lastParams = *params
	m.mu.Unlock()

	d, err := m.lock(ctx)
	if err != nil {
		return err
	}
	err = m.connect(ctx, d, params)
	m.release()
	if err != nil {
		m.logger.Warn("connect failed", "ssid", params.SSID, "error", err)
		return err
	}

	ip, err := m.GetIP(ctx)
	if err != nil {
		m.logger.Warn("connected without address", "ssid", params.SSID, "error", err)
		return nil
	}
	m.logger.Info("connected", "ssid", params.SSID, "ip", ip)
	return nil
}

func (m *Manager) connect(ctx context.Context, d Driver, params *NetworkParams) error {
	if d.HasIP() {
		if err := m.leave(ctx, d); err != nil {
			m.logger.Warn("leaving current network", "error", err)
		}
	}

	mode := espat.ModeStation
	if m.apRunning {
		mode = espat.ModeStationSoftAP
	}
	if err := d.SetMode(ctx, mode); err != nil {
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}

	// A join may drop the current association before connecting; that
	// disconnect is expected.
	m.disconnectWant.Store(true)
	m.drain()
	err := d.Join(ctx, params.SSID, params.Password)
	if err == nil {
		err = m.await(ctx, NotifyConnected)
	} else {
		err = fmt.Errorf("%w: %w", ErrFailure, err)
	}
	m.disconnectWant.Store(false)
	if err != nil {
		return err
	}

	if len(m.config.DNSServers) > 0 {
		if err := d.SetDNS(ctx, m.config.DNSServers...); err != nil {
			m.logger.Warn("configure DNS", "servers", m.config.DNSServers, "error", err)
		}
	}
	if m.config.SNTPServer != "" {
		if err := d.ConfigureSNTP(ctx, m.config.SNTPTimezone, m.config.SNTPServer); err != nil {
			m.logger.Warn("configure SNTP", "server", m.config.SNTPServer, "error", err)
		}
	}
	return nil
}

// leave disconnects on purpose and waits for the module to confirm.
func (m *Manager) leave(ctx context.Context, d Driver) error {
	m.disconnectWant.Store(true)
	m.drain()
	if err := d.Quit(ctx); err != nil {
		m.disconnectWant.Store(false)
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return m.await(ctx, NotifyDisconnected)
}

// Reconnect joins the network of the last ConnectAP call.
func (m *Manager) Reconnect(ctx context.Context) error {
	params := m.LastParams()
	if params.SSID == "" {
		return fmt.Errorf("%w: no previous network", ErrFailure)
	}
	return m.ConnectAP(ctx, &params)
}

// LastParams returns the parameters of the last ConnectAP call.
func (m *Manager) LastParams() NetworkParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastParams
}

// Disconnect leaves the current network. It succeeds immediately when the
// station is not connected.
func (m *Manager) Disconnect(ctx context.Context) error {
	d, err := m.lock(ctx)
	if err != nil {
		return err
	}
	defer m.release()

	if !d.HasIP() {
		return nil
	}
	return m.leave(ctx, d)
}

// Reset restarts the module.
func (m *Manager) Reset(ctx context.Context) error {
	d, err := m.lock(ctx)
	if err != nil {
		return err
	}
	m.disconnectWant.Store(true)
	err = d.Reset(ctx)
	m.apRunning = false
	m.release()

	if m.config.BootDelay > 0 {
		select {
		case <-time.After(m.config.BootDelay):
		case <-ctx.Done():
		}
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return nil
}

// Scan lists up to limit nearby networks, never more than were found.
func (m *Manager) Scan(ctx context.Context, limit int) ([]ScanResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: scan limit must be positive", ErrFailure)
	}
	limit = min(limit, m.config.MaxScanResults)

	d, err := m.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer m.release()

	aps, err := d.ListAP(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailure, err)
	}

	results := make([]ScanResult, 0, min(len(aps), limit))
	for _, ap := range aps[:min(len(aps), limit)] {
		results = append(results, ScanResult{
			SSID:     ap.SSID,
			BSSID:    ap.BSSID,
			RSSI:     ap.RSSI,
			Security: securityFromEncryption(ap.Encryption),
			Channel:  ap.Channel,
		})
	}
	return results, nil
}

// SetMode switches the role of the radio. Modes the module has no
// equivalent for return ErrNotSupported without touching the module.
func (m *Manager) SetMode(ctx context.Context, mode DeviceMode) error {
	dm, ok := mode.driverMode()
	if !ok {
		return fmt.Errorf("%w: mode %v", ErrNotSupported, mode)
	}

	d, err := m.lock(ctx)
	if err != nil {
		return err
	}
	defer m.release()

	if err := d.SetMode(ctx, dm); err != nil {
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}
	m.apRunning = mode != ModeStation
	return nil
}

// GetMode queries the role of the radio.
func (m *Manager) GetMode(ctx context.Context) (DeviceMode, error) {
	d, err := m.lock(ctx)
	if err != nil {
		return ModeNotSupported, err
	}
	defer m.release()

	dm, err := d.Mode(ctx)
	if err != nil {
		return ModeNotSupported, fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return deviceMode(dm), nil
}

// Ping sends count echo requests to ip, interval apart, and returns the
// round trip times. The first unanswered request ends the run.
func (m *Manager) Ping(ctx context.Context, ip net.IP, count int, interval time.Duration) ([]time.Duration, error) {
	if ip == nil || count <= 0 {
		return nil, fmt.Errorf("%w: address and count are required", ErrFailure)
	}

	d, err := m.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer m.release()

	rtts := make([]time.Duration, 0, count)
	for i := range count {
		if i > 0 && interval > 0 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return rtts, fmt.Errorf("%w: %w", ErrFailure, ctx.Err())
			}
		}
		rtt, err := d.Ping(ctx, ip.String())
		if err != nil {
			return rtts, fmt.Errorf("%w: %w", ErrFailure, err)
		}
		rtts = append(rtts, rtt)
	}
	return rtts, nil
}

// GetIP returns the station address.
func (m *Manager) GetIP(ctx context.Context) (net.IP, error) {
	d, err := m.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer m.release()

	info, err := d.StationIP(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return info.IP, nil
}

// GetMAC returns the station MAC address.
func (m *Manager) GetMAC(ctx context.Context) (net.HardwareAddr, error) {
	d, err := m.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer m.release()

	mac, err := d.StationMAC(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return mac, nil
}

// GetHostIP resolves host with the module's resolver.
func (m *Manager) GetHostIP(ctx context.Context, host string) (net.IP, error) {
	if host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrFailure)
	}

	d, err := m.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer m.release()

	ip, err := d.GetHostByName(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return ip, nil
}

// IsConnected reports whether the station holds an address. It reports
// false when the radio cannot be acquired.
func (m *Manager) IsConnected(ctx context.Context) bool {
	d, err := m.lock(ctx)
	if err != nil {
		return false
	}
	defer m.release()
	return d.HasIP()
}

// NetworkAdd saves a profile and returns its index.
func (m *Manager) NetworkAdd(p NetworkProfile) (int, error) {
	if m.config.Profiles == nil {
		return 0, ErrNotSupported
	}
	if p.SSID == "" {
		return 0, fmt.Errorf("%w: SSID is required", ErrFailure)
	}
	i, err := m.config.Profiles.Add(p)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return i, nil
}

// NetworkGet returns the profile saved at index.
func (m *Manager) NetworkGet(index int) (NetworkProfile, error) {
	if m.config.Profiles == nil {
		return NetworkProfile{}, ErrNotSupported
	}
	p, err := m.config.Profiles.Get(index)
	if err != nil {
		return NetworkProfile{}, fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return p, nil
}

// NetworkDelete removes the profile saved at index.
func (m *Manager) NetworkDelete(index int) error {
	if m.config.Profiles == nil {
		return ErrNotSupported
	}
	if err := m.config.Profiles.Delete(index); err != nil {
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return nil
}

// ConfigureAP sets the soft-AP parameters. They take effect immediately
// when the soft-AP is running, otherwise on StartAP.
func (m *Manager) ConfigureAP(ctx context.Context, params *NetworkParams) error {
	if params == nil || params.SSID == "" {
		return fmt.Errorf("%w: SSID is required", ErrFailure)
	}
	if _, ok := apEncryption(params.Security); !ok {
		return fmt.Errorf("%w: soft-AP security %v", ErrNotSupported, params.Security)
	}
	if params.Security != SecurityOpen && len(params.Password) < 8 {
		return fmt.Errorf("%w: soft-AP password needs at least 8 characters", ErrFailure)
	}

	d, err := m.lock(ctx)
	if err != nil {
		return err
	}
	defer m.release()

	p := *params
	m.apParams = &p
	if !m.apRunning {
		return nil
	}
	return m.applyAP(ctx, d)
}

func (m *Manager) applyAP(ctx context.Context, d Driver) error {
	p := m.apParams
	enc, _ := apEncryption(p.Security)
	channel := p.Channel
	if channel == 0 {
		channel = 1
	}
	if err := d.ConfigureAP(ctx, p.SSID, p.Password, channel, enc); err != nil {
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return nil
}

// StartAP enables the soft-AP next to the station.
func (m *Manager) StartAP(ctx context.Context) error {
	d, err := m.lock(ctx)
	if err != nil {
		return err
	}
	defer m.release()

	if err := d.SetMode(ctx, espat.ModeStationSoftAP); err != nil {
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}
	m.apRunning = true
	if m.apParams == nil {
		return nil
	}
	return m.applyAP(ctx, d)
}

// StopAP disables the soft-AP.
func (m *Manager) StopAP(ctx context.Context) error {
	d, err := m.lock(ctx)
	if err != nil {
		return err
	}
	defer m.release()

	if err := d.SetMode(ctx, espat.ModeStation); err != nil {
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}
	m.apRunning = false
	return nil
}

// SetPMMode selects the power management mode.
func (m *Manager) SetPMMode(ctx context.Context, mode PMMode) error {
	sm, ok := mode.sleepMode()
	if !ok {
		return fmt.Errorf("%w: power mode %v", ErrNotSupported, mode)
	}

	d, err := m.lock(ctx)
	if err != nil {
		return err
	}
	defer m.release()

	if err := d.SetSleep(ctx, sm); err != nil {
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return nil
}

// GetPMMode queries the power management mode.
func (m *Manager) GetPMMode(ctx context.Context) (PMMode, error) {
	d, err := m.lock(ctx)
	if err != nil {
		return PMNotSupported, err
	}
	defer m.release()

	sm, err := d.Sleep(ctx)
	if err != nil {
		return PMNotSupported, fmt.Errorf("%w: %w", ErrFailure, err)
	}
	return pmMode(sm), nil
}

// StoreCert replaces a credential used by offloaded TLS connections.
func (m *Manager) StoreCert(ctx context.Context, typ CertType, data []byte) error {
	section, ok := typ.section()
	if !ok {
		return fmt.Errorf("%w: certificate type %d", ErrFailure, typ)
	}
	if len(data) == 0 || len(data) > certMaxSize {
		return fmt.Errorf("%w: certificate size %d", ErrFailure, len(data))
	}

	d, err := m.lock(ctx)
	if err != nil {
		return err
	}
	defer m.release()

	if err := d.EraseFlash(ctx, section, 0, certMaxSize); err != nil {
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}
	if err := d.WriteFlash(ctx, section, 0, data); err != nil {
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}
	m.logger.Info("certificate stored", "section", section, "bytes", len(data))
	return nil
}

// DisconnectAlert reports whether the module lost its network without
// being asked to since the last ClearDisconnectAlert.
func (m *Manager) DisconnectAlert() bool {
	return m.disconnectAlert.Load()
}

func (m *Manager) ClearDisconnectAlert() {
	m.disconnectAlert.Store(false)
}

// drain empties the notification slot before a command whose completion
// is awaited.
func (m *Manager) drain() {
	select {
	case <-m.notify:
	default:
	}
}

// post stores n in the notification slot, replacing an unread value.
func (m *Manager) post(n Notification) {
	for {
		select {
		case m.notify <- n:
			return
		default:
		}
		select {
		case <-m.notify:
		default:
		}
	}
}

// await waits until the module reports want. Reports of the other kind
// are skipped: the dispatcher runs behind the driver, so a join that
// re-associates posts Disconnected before Connected.
func (m *Manager) await(ctx context.Context, want Notification) error {
	timer := time.NewTimer(m.config.SemaphoreWait)
	defer timer.Stop()

	for {
		select {
		case got := <-m.notify:
			if got == want {
				return nil
			}
			m.logger.Debug("skipping notification", "want", want, "got", got)
		case <-timer.C:
			return fmt.Errorf("%w: module did not report %v", ErrTimeout, want)
		case <-ctx.Done():
			return fmt.Errorf("%w: waiting for %v: %w", ErrTimeout, want, ctx.Err())
		}
	}
}
