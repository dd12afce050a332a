package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"go.bug.st/serial"

	"github.com/vantage-iot/bearer-core/at"
	"github.com/vantage-iot/bearer-core/bearer"
	"github.com/vantage-iot/bearer-core/modem"
	"github.com/vantage-iot/bearer-core/port"
)

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if apnOpt := parser.FindOptionByLongName("apn"); apnOpt != nil {
		opts.HasAPN = apnOpt.IsSet()
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(opts.LogLevel)}))

	bearerConfig, err := opts.bearerConfig()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	flowControl, err := opts.flowControl()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	mode := &serial.Mode{BaudRate: opts.BaudRate}
	initSeq := []port.InitCommand{
		{Command: at.CmdEchoOff, Timeout: 2 * time.Second},
		{Command: at.CmdVerboseErrors, Timeout: 2 * time.Second},
	}
	primary := port.NewSerialPort(opts.SerialPort, mode, initSeq, logger.With("port", "primary"))

	var secondary port.Port
	if opts.SecondarySerialPort != "" {
		secondary = port.NewSerialPort(opts.SecondarySerialPort, mode, nil, logger.With("port", "secondary"))
	}

	threeGPP := opts.HasAPN
	m, err := modem.New(modem.Config{
		PrimaryPort:     primary,
		SecondaryPort:   secondary,
		Is3GPPCapable:   threeGPP,
		IsCDMACapable:   !threeGPP,
		DefaultIPFamily: bearer.IPFamilyIPv4,
		Logger:          logger.With("component", "modem"),
	})
	if err != nil {
		logger.Error("failed to construct modem facade", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	b := bearer.NewBearer(m, bearerConfig, flowControl, logger.With("component", "bearer"))

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = b.Init(initCtx)
	initCancel()
	if err != nil {
		logger.Error("bearer init gate failed", "error", err)
		os.Exit(1)
	}

	var publisher *StatusPublisher
	if opts.MQTTBroker != "" {
		publisher, err = NewStatusPublisher(opts.MQTTBroker, opts.MQTTClientID, opts.MQTTStatusTopic, logger.With("component", "status-publisher"))
		if err != nil {
			logger.Error("failed to start MQTT status publisher", "error", err)
			os.Exit(1)
		}
		b.AddStatusObserver(publisher.Publish)
		defer publisher.Close()
	}

	httpServer := &http.Server{
		Addr: opts.BindAddress,
		Handler: &Server{
			Logger: logger.With("component", "server"),
			Bearer: b,
		},
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	sig := <-sigChan
	logger.Info("received shutdown signal", "signal", sig)

	if b.ConnectionType() != bearer.ConnectionTypeNone {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := b.Disconnect(disconnectCtx); err != nil {
			logger.Error("failed to cleanly disconnect bearer on shutdown", "error", err)
		}
		disconnectCancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("closing HTTP server")
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to gracefully shutdown server", "error", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
