package espat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"i4.energy/across/wifictl/at"
)

// Device represents an ESP8266/ESP32 Wi-Fi module running the ESP-AT
// firmware. It provides thread-safe access to the module through a
// centralized event loop that handles all transport I/O.
type Device struct {
	// transport provides the physical connection to the module (serial, TCP, etc.)
	transport Transport
	// config contains the device configuration settings
	config Config
	logger *slog.Logger

	closed      atomic.Bool
	loopRunning atomic.Bool
	// hasIP follows the WIFI GOT IP / WIFI DISCONNECT reports
	hasIP atomic.Bool

	// events receives parsed asynchronous reports from the module
	events chan Event
	// ready is signalled on every "ready" report
	ready chan struct{}
	// commands queues AT command requests for the Loop to process
	commands chan *commandRequest

	loopCtx    context.Context
	loopCancel context.CancelFunc
}

// commandRequest represents an AT command request to be executed by the Loop.
type commandRequest struct {
	// cmd is the AT command line to send to the module
	cmd string
	// raw, when set, is written verbatim instead of cmd plus CRLF
	raw []byte
	// expectPrompt keeps the command open past OK until the ">" prompt
	expectPrompt bool
	// respChan receives the command response from the Loop
	respChan chan commandResponse
	// ctx provides timeout and cancellation control for the command
	ctx context.Context
}

// commandResponse contains the result of an AT command execution.
type commandResponse struct {
	// response contains the intermediate and final lines, newline separated
	response string
	err      error
}

// New creates a new Device with the given configuration.
// It establishes the transport connection and runs the initialization
// sequence directly on the transport. Loop must be started before any
// other operation.
//
// Returns an error if the transport connection or module initialization
// fails.
func New(ctx context.Context, config Config) (*Device, error) {
	if config.dialer == nil {
		return nil, ErrNoDialer
	}
	config.setDefaults()

	transport, err := config.dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}

	d := &Device{
		config:    config,
		logger:    config.logger.With("component", "espat"),
		transport: transport,
		events:    make(chan Event, config.eventBuffer),
		ready:     make(chan struct{}, 1),
		// No queue for commands
		commands: make(chan *commandRequest),
	}

	// ctx bounds dialing and init only; the loop lives until Close.
	d.loopCtx, d.loopCancel = context.WithCancel(context.WithoutCancel(ctx))

	initCtx, cancel := context.WithTimeout(ctx, config.initTimeout)
	defer cancel()

	if err := d.init(initCtx); err != nil {
		d.loopCancel()
		if d.transport != nil {
			transport.Close()
		}
		return nil, fmt.Errorf("initialize device: %w", err)
	}

	return d, nil
}

// Loop is the main event loop that handles all transport I/O operations.
// It must be called exactly once after New and before any other device
// operation:
//
// 1. Processes command requests from exec calls, one at a time
// 2. Writes AT commands to the transport
// 3. Reads and classifies lines from the transport
// 4. Dispatches asynchronous reports to the Events channel
// 5. Returns command responses to waiting exec calls
//
// The Loop runs until the provided context is cancelled, the device is
// closed or the transport fails. It's the ONLY goroutine that reads from the
// transport, so reports are never lost between commands.
//
// Usage:
//
//	dev, err := espat.New(ctx, config)
//	if err != nil { return err }
//	go dev.Loop(ctx)
func (d *Device) Loop(ctx context.Context) error {
	if !d.loopRunning.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer d.loopRunning.Store(false)

	if d.loopCtx != nil {
		var cancel context.CancelFunc
		ctx, cancel = mergeCancel(ctx, d.loopCtx)
		defer cancel()
	}

	scanner := bufio.NewScanner(d.transport)
	scanner.Split(at.Splitter)

	tokens := make(chan string, 10)
	scanErrs := make(chan error, 1)

	go func() {
		defer close(tokens)
		for scanner.Scan() {
			token := scanner.Text()
			if token != "" {
				select {
				case tokens <- token:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				err = ErrLineTooLong
			}
			select {
			case scanErrs <- err:
			case <-ctx.Done():
			}
		}
	}()

	var (
		current      *commandRequest
		currentLines []string
	)
	finish := func(resp commandResponse) {
		current.respChan <- resp
		current = nil
		currentLines = nil
	}

	for {
		// Only one command is in flight; stop accepting until it completes.
		commands := d.commands
		var cmdDone <-chan struct{}
		if current != nil {
			commands = nil
			cmdDone = current.ctx.Done()
		}

		select {
		case <-ctx.Done():
			if current != nil {
				finish(commandResponse{err: ctx.Err()})
			}
			return ctx.Err()

		case req := <-commands:
			if err := req.ctx.Err(); err != nil {
				req.respChan <- commandResponse{err: err}
				continue
			}
			current = req

			wire := req.raw
			if wire == nil {
				wire = []byte(strings.TrimSpace(req.cmd) + at.CRLF)
			}
			d.logger.Debug("write", "cmd", req.cmd, "bytes", len(wire))
			if _, err := d.transport.Write(wire); err != nil {
				finish(commandResponse{err: fmt.Errorf("write command %q: %w", req.cmd, err)})
			}

		case <-cmdDone:
			finish(commandResponse{
				response: strings.Join(currentLines, "\n"),
				err:      fmt.Errorf("command timeout: %w", current.ctx.Err()),
			})

		case token, ok := <-tokens:
			if !ok {
				if current != nil {
					finish(commandResponse{response: strings.Join(currentLines, "\n"), err: io.EOF})
				}
				return io.EOF
			}

			switch at.Classify(token) {
			case at.TypeURC:
				// Reports can arrive at any time, even during command execution
				d.dispatch(token)

			case at.TypeFinal:
				if current == nil {
					d.logger.Debug("orphaned result", "line", token)
					continue
				}
				if current.expectPrompt && at.IsSuccess(token) {
					// Some firmware acknowledges with OK before the prompt
					currentLines = append(currentLines, token)
					continue
				}
				response := strings.Join(append(currentLines, token), "\n")
				if at.IsSuccess(token) {
					finish(commandResponse{response: response})
				} else {
					finish(commandResponse{response: response, err: &CommandError{
						Command: current.cmd,
						Result:  token,
						Lines:   currentLines,
					}})
				}

			case at.TypeData:
				if current == nil {
					d.logger.Debug("orphaned data", "line", token)
					continue
				}
				currentLines = append(currentLines, token)

			case at.TypePrompt:
				// Data prompt - return immediately so the caller can send raw data
				if current != nil {
					finish(commandResponse{response: strings.Join(append(currentLines, token), "\n")})
				}
			}

		case err := <-scanErrs:
			if current != nil {
				finish(commandResponse{err: fmt.Errorf("read error: %w", err)})
			}
			return fmt.Errorf("scanner error: %w", err)
		}
	}
}

// dispatch records the state carried by a report and forwards it to the
// Events channel.
func (d *Device) dispatch(line string) {
	ev := parseEvent(line)
	switch ev.Type {
	case EventGotIP:
		d.hasIP.Store(true)
	case EventDisconnected:
		d.hasIP.Store(false)
	case EventReady:
		d.hasIP.Store(false)
		select {
		case d.ready <- struct{}{}:
		default:
		}
	}

	select {
	case d.events <- ev:
	default:
		d.logger.Warn("event dropped, channel full", "event", ev.Type, "line", line)
	}
}

// Events returns a read-only channel that receives asynchronous reports
// from the module (connect, disconnect, boot, soft-AP clients). The channel
// is buffered, but reports are dropped if it is not consumed fast enough.
func (d *Device) Events() <-chan Event {
	return d.events
}

// HasIP reports whether the station currently holds an IP address, as
// last reported by the module.
func (d *Device) HasIP() bool {
	return d.hasIP.Load()
}

// Close shuts down the device and releases all resources.
// It stops the event loop, closes the transport connection, and marks
// the device as closed. After calling Close(), the device cannot be reused.
func (d *Device) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrAlreadyClosed
	}

	if d.loopCancel != nil {
		d.loopCancel()
	}

	if d.transport != nil {
		return d.transport.Close()
	}

	return nil
}

// init performs the initial setup sequence for the module.
// This method is called during New() and must complete successfully
// before the device can be used.
func (d *Device) init(ctx context.Context) error {
	// 1. Wake-up / sanity check
	if err := d.expectOkDirect(ctx, at.CmdAt); err != nil {
		return fmt.Errorf("module not responding: %w", err)
	}

	// 2. Echo off, the splitter relies on it
	if err := d.expectOkDirect(ctx, at.CmdEchoOff); err != nil {
		return fmt.Errorf("could not disable echo: %w", err)
	}

	// 3. Verbose error codes; firmware before 2.0 does not know the command
	if err := d.expectOkDirect(ctx, at.CmdSysLog); err != nil {
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) {
			return fmt.Errorf("enable syslog: %w", err)
		}
		d.logger.Debug("syslog not supported", "error", err)
	}

	// 4. The module rejoins its saved network on boot, so it may already
	// hold an address before any report reaches us
	connected, err := d.stationConnectedDirect(ctx)
	if err != nil {
		return fmt.Errorf("query station address: %w", err)
	}
	d.hasIP.Store(connected)

	return nil
}

// stationConnectedDirect reports whether AT+CIPSTA? shows a non-zero
// station address. A rejected query counts as not connected.
func (d *Device) stationConnectedDirect(ctx context.Context) (bool, error) {
	resp, err := d.execDirect(ctx, at.CmdStaIP)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			d.logger.Debug("station address query rejected", "error", err)
			return false, nil
		}
		return false, err
	}
	for _, line := range strings.Split(resp, "\n") {
		key, ip, err := at.ParseStationIP(line)
		if err != nil || key != "ip" {
			continue
		}
		return !ip.IsUnspecified(), nil
	}
	return false, nil
}

// exec sends an AT command to the module and waits for the response.
// This method coordinates with the Loop() to ensure thread-safe command
// execution. The Loop() must be running before calling this method.
func (d *Device) exec(ctx context.Context, cmd string) (string, error) {
	return d.send(ctx, &commandRequest{cmd: cmd}, d.config.atTimeout)
}

// execTimeout is exec with a command specific default timeout.
func (d *Device) execTimeout(ctx context.Context, cmd string, timeout time.Duration) (string, error) {
	return d.send(ctx, &commandRequest{cmd: cmd}, timeout)
}

// execPrompt sends a command that the module answers with the ">" data
// prompt.
func (d *Device) execPrompt(ctx context.Context, cmd string) (string, error) {
	return d.send(ctx, &commandRequest{cmd: cmd, expectPrompt: true}, d.config.atTimeout)
}

// execRaw writes data verbatim and waits for the result code.
func (d *Device) execRaw(ctx context.Context, name string, data []byte) (string, error) {
	return d.send(ctx, &commandRequest{cmd: name, raw: data}, d.config.atTimeout)
}

func (d *Device) send(ctx context.Context, req *commandRequest, timeout time.Duration) (string, error) {
	if d.closed.Load() {
		return "", ErrAlreadyClosed
	}

	if d.transport == nil {
		return "", ErrNotInitialized
	}

	// Apply per-command timeout if context has none
	if _, ok := ctx.Deadline(); !ok && timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req.ctx = ctx
	req.respChan = make(chan commandResponse, 1) // Buffered to prevent blocking

	select {
	case d.commands <- req:
	case <-ctx.Done():
		return "", fmt.Errorf("command cancelled before sending: %w", ctx.Err())
	}

	select {
	case resp := <-req.respChan:
		return resp.response, resp.err
	case <-ctx.Done():
		return "", fmt.Errorf("command timeout: %w", ctx.Err())
	}
}

// execDirect executes an AT command directly on the transport without
// using the channel mechanism and handles the complete request-response
// cycle including timeout management. It is used during initialization
// when not yet accepting commands.
//
// WARNING: This method should only be used during initialization.
// Use exec() for normal operations.
func (d *Device) execDirect(ctx context.Context, cmd string) (string, error) {
	if d.closed.Load() {
		return "", ErrAlreadyClosed
	}
	if d.transport == nil {
		return "", ErrNotInitialized
	}

	if _, ok := ctx.Deadline(); !ok && d.config.atTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.atTimeout)
		defer cancel()
	}

	wire := strings.TrimSpace(cmd) + at.CRLF
	if _, err := d.transport.Write([]byte(wire)); err != nil {
		return "", fmt.Errorf("write command %q: %w", cmd, err)
	}

	scanner := bufio.NewScanner(d.transport)
	scanner.Split(at.Splitter)

	var lines []string

	for {
		select {
		case <-ctx.Done():
			return strings.Join(lines, "\n"), ctx.Err()
		default:
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return strings.Join(lines, "\n"), fmt.Errorf("read error: %w", err)
			}
			return strings.Join(lines, "\n"), io.EOF
		}

		token := scanner.Text()
		if token == "" || token == cmd {
			// empty line or command echo before ATE0 took effect
			continue
		}

		switch at.Classify(token) {
		case at.TypeFinal:
			if at.IsSuccess(token) {
				lines = append(lines, token)
				return strings.Join(lines, "\n"), nil
			}
			return strings.Join(append(lines, token), "\n"), &CommandError{Command: cmd, Result: token, Lines: lines}

		case at.TypeData:
			lines = append(lines, token)

		case at.TypeURC:
			// Boot reports may still trickle in; record them and go on
			d.dispatch(token)
			continue
		case at.TypePrompt:
			lines = append(lines, token)
			return strings.Join(lines, "\n"), nil
		}
	}
}

// expectOkDirect executes an AT command and validates that the response
// contains "OK". This is a convenience method for commands that should
// succeed with a simple OK response.
//
// Used during initialization for basic configuration commands.
func (d *Device) expectOkDirect(ctx context.Context, cmd string) error {
	resp, err := d.execDirect(ctx, cmd)
	if err != nil {
		return err
	}
	if !strings.Contains(resp, at.OK) {
		return fmt.Errorf("unexpected response: %q", resp)
	}
	return nil
}

// mergeCancel returns a context derived from a that is also cancelled when
// b is done.
func mergeCancel(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
