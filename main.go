package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"i4.energy/across/wifictl/espat"
	"i4.energy/across/wifictl/profile"
	"i4.energy/across/wifictl/wifi"
)

func main() {
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port to connect to the Wi-Fi module")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.String("log-file", "", "Write rotated logs to this file instead of stderr")
	flag.String("reset-pin", "", "GPIO wired to the module's EN line (e.g. GPIO17)")
	flag.String("profiles-file", "", "YAML file holding saved network profiles")
	flag.String("jwt-secret", "", "HS256 secret required on API bearer tokens")
	flag.String("dns-servers", "", "Comma separated DNS servers set after connecting, or \"none\"")
	flag.String("sntp-server", "", "SNTP server configured after connecting")
	flag.Int("sntp-timezone", 0, "UTC offset in hours for the SNTP client")
	flag.Duration("semaphore-wait", 60*time.Second, "Wait for the radio and for connect/disconnect reports")
	flag.String("auto-connect-ssid", "", "Network joined at startup")
	flag.String("auto-connect-password", "", "Password of the network joined at startup")
	listPorts := flag.Bool("list-ports", false, "List serial ports and exit")
	flag.Parse()

	if *listPorts {
		ports, err := espat.ListPorts()
		if err != nil {
			slog.Error("Failed to list serial ports", "error", err)
			os.Exit(1)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var logOut io.Writer = os.Stderr
	if config.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		defer rotator.Close()
		logOut = rotator
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: logLevel}))

	var resetPin gpio.PinOut
	if config.ResetPin != "" {
		if _, err := host.Init(); err != nil {
			logger.Error("Failed to initialize periph host", "error", err)
			os.Exit(1)
		}
		pin := gpioreg.ByName(config.ResetPin)
		if pin == nil {
			logger.Error("Reset pin not found", "pin", config.ResetPin)
			os.Exit(1)
		}
		resetPin = pin
	}

	mode := espat.DefaultMode
	mode.BaudRate = config.BaudRate

	builder := espat.NewConfigBuilder().
		WithATTimeout(5 * time.Second).
		WithJoinTimeout(30 * time.Second).
		WithInitTimeout(10 * time.Second).
		WithLogger(logger.With("component", "espat")).
		WithDialer(espat.SerialDialer{
			PortName: config.SerialPort,
			Mode:     &mode,
		})
	if resetPin != nil {
		builder = builder.WithResetPin(resetPin)
	}
	deviceConfig, err := builder.Build()
	if err != nil {
		logger.Error("Failed to create device config", "error", err)
		os.Exit(1)
	}

	wifiConfig := wifi.Config{
		Open:          openDevice(deviceConfig, logger),
		SemaphoreWait: config.SemaphoreWait,
		DNSServers:    config.DNSServers,
		SNTPServer:    config.SNTPServer,
		SNTPTimezone:  config.SNTPTimezone,
		Logger:        logger.With("component", "wifi"),
	}
	if config.ProfilesFile != "" {
		store, err := profile.Open(config.ProfilesFile, profile.DefaultCapacity)
		if err != nil {
			logger.Error("Failed to open profile store", "error", err)
			os.Exit(1)
		}
		wifiConfig.Profiles = store
	}

	manager, err := wifi.NewManager(wifiConfig)
	if err != nil {
		logger.Error("Failed to create Wi-Fi manager", "error", err)
		os.Exit(1)
	}

	if err := manager.On(context.Background()); err != nil {
		logger.Error("Failed to turn on Wi-Fi", "error", err)
		os.Exit(1)
	}

	logger.Info("Starting Wi-Fi controller", "port", config.SerialPort)

	if config.AutoConnectSSID != "" {
		params := &wifi.NetworkParams{
			SSID:     config.AutoConnectSSID,
			Password: config.AutoConnectPassword,
			Security: wifi.SecurityWPA2,
		}
		if params.Password == "" {
			params.Security = wifi.SecurityOpen
		}
		if err := manager.ConnectAP(context.Background(), params); err != nil {
			logger.Warn("Auto-connect failed", "ssid", params.SSID, "error", err)
		}
	}

	server := &Server{
		Logger: logger.With("component", "server"),
		WiFi:   manager,
	}
	if config.JWTSecret != "" {
		server.Auth = NewAuthenticator(config.JWTSecret)
	}

	httpServer := &http.Server{
		Addr:    config.BindAddress,
		Handler: server,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Closing HTTP server")
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to gracefully shutdown server", "error", err)
	}

	logger.Info("Turning off Wi-Fi")
	if err := manager.Off(ctx); err != nil {
		logger.Error("Failed to turn off Wi-Fi", "error", err)
		os.Exit(1)
	}
}

// openDevice returns a wifi.Config Open function that initializes the
// module and runs its loop until the device is closed.
func openDevice(config espat.Config, logger *slog.Logger) func(ctx context.Context) (wifi.Driver, error) {
	return func(ctx context.Context) (wifi.Driver, error) {
		dev, err := espat.New(ctx, config)
		if err != nil {
			return nil, err
		}
		go func() {
			err := dev.Loop(context.Background())
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
				logger.Error("Device loop stopped", "error", err)
			}
		}()
		return dev, nil
	}
}
