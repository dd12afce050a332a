// Package port implements the serial-port facade consumed by the bearer
// state machine: a ref-counted open/close, line-discipline (flow control)
// selection, TTY flash, full reopen, and the init-sequence-replay /
// connected-flag bookkeeping a bearer needs around a dial.
//
// A Port is shared: several collaborators (the AT command layer, a bearer
// holding the data port) may each have it open at once, and the device is
// only actually closed once every caller has released it.
package port

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jaracil/nagle"
	"github.com/nayarsystems/iotrace"
	"go.bug.st/serial"
)

// FlowControl selects the line discipline applied to a data port once a
// call has been dialed.
type FlowControl int

const (
	FlowControlNone FlowControl = iota
	FlowControlSoftware
	FlowControlHardware
)

func (f FlowControl) String() string {
	switch f {
	case FlowControlNone:
		return "none"
	case FlowControlSoftware:
		return "software (xon/xoff)"
	case FlowControlHardware:
		return "hardware (rts/cts)"
	default:
		return "unknown"
	}
}

// PortKind distinguishes the AT/primary port from a secondary port some
// modems expose for control traffic while the primary is in data mode.
type PortKind int

const (
	PortKindPrimary PortKind = iota
	PortKindSecondary
)

// InitCommand is one line of the AT sequence replayed against a port after
// it has been flashed and reopened following a disconnect.
type InitCommand struct {
	Command string
	Timeout time.Duration
}

// Port is the facade the bearer state machine drives: a single serial
// device, ref-counted across every caller that currently holds it open.
type Port interface {
	Open() error
	Close() error
	SetFlowControl(FlowControl) error
	Flash(ctx context.Context, duration time.Duration, ignoreErrors bool) error
	Reopen(ctx context.Context, delay time.Duration) error
	SetConnected(bool)
	GetConnected() bool
	GetDevice() string
	InitSequenceEnabled() bool
	SetInitSequenceEnabled(bool)
	RunInitSequence(ctx context.Context) error

	// Transport exposes the underlying byte stream once the port is open,
	// for use by the AT command layer (modem.ATCommandFull) or, after a
	// successful dial, for raw payload I/O. It returns nil while closed.
	Transport() io.ReadWriter
}

// ErrFlashFailed and ErrCarrierLost are the two flash-time error kinds the
// disconnect pipeline is expected to absorb as ordinary side effects of
// forcing a modem out of raw data mode, not as pipeline failures.
var (
	ErrFlashFailed = fmt.Errorf("port: flash failed")
	ErrCarrierLost = fmt.Errorf("port: carrier lost")
)

// SerialPort is the production Port backed by go.bug.st/serial.
//
// Opens are reference counted: Open increments the count and performs the
// underlying serial.Open only on the 0->1 transition; Close decrements it
// and only releases the device on the 1->0 transition. This lets the AT
// command layer and a bearer's dial both hold the port open independently.
type SerialPort struct {
	mu       sync.Mutex
	device   string
	mode     *serial.Mode
	refCount int
	raw      serial.Port
	rw       io.ReadWriter

	connected   bool
	initEnabled bool
	initSeq     []InitCommand

	logger *slog.Logger

	// newPort is overridable in tests to avoid touching real hardware.
	newPort func(device string, mode *serial.Mode) (serial.Port, error)
}

// NewSerialPort builds a facade for the named device. initSeq is the AT
// command sequence replayed by RunInitSequence, normally the same commands
// issued by the modem facade when it first brought the port up.
func NewSerialPort(device string, mode *serial.Mode, initSeq []InitCommand, logger *slog.Logger) *SerialPort {
	if logger == nil {
		logger = slog.Default()
	}
	return &SerialPort{
		device:      device,
		mode:        mode,
		initSeq:     initSeq,
		initEnabled: true,
		logger:      logger.With("device", device),
		newPort:     serial.Open,
	}
}

func (p *SerialPort) GetDevice() string { return p.device }

// Open increments the reference count, opening the underlying device on
// the first call. Every successful Open must be matched by a Close.
func (p *SerialPort) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.refCount > 0 {
		p.refCount++
		return nil
	}

	raw, err := p.newPort(p.device, p.mode)
	if err != nil {
		return fmt.Errorf("port: open %s: %w", p.device, err)
	}
	p.raw = raw
	p.rw = instrument(p.device, raw, p.logger)
	p.refCount = 1
	p.logger.Debug("port opened")
	return nil
}

// Close decrements the reference count, releasing the underlying device
// once the last holder has released it.
func (p *SerialPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.refCount == 0 {
		return fmt.Errorf("port: %s: close of unopened port", p.device)
	}
	p.refCount--
	if p.refCount > 0 {
		return nil
	}

	err := p.raw.Close()
	p.raw = nil
	p.rw = nil
	p.logger.Debug("port closed")
	if err != nil {
		return fmt.Errorf("port: close %s: %w", p.device, err)
	}
	return nil
}

func (p *SerialPort) Transport() io.ReadWriter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rw
}

// SetFlowControl applies the requested line discipline to the open port.
// Callers that want FlowControlNone need not call this at all; applying
// "none" explicitly is a no-op against the underlying driver.
func (p *SerialPort) SetFlowControl(fc FlowControl) error {
	p.mu.Lock()
	raw := p.raw
	p.mu.Unlock()

	if raw == nil {
		return fmt.Errorf("port: %s: set flow control on closed port", p.device)
	}
	if fc == FlowControlNone {
		return nil
	}

	var mode serial.Mode
	if p.mode != nil {
		mode = *p.mode
	}
	switch fc {
	case FlowControlSoftware:
		mode.InitialStatusBits = nil
	case FlowControlHardware:
		mode.InitialStatusBits = &serial.ModemOutputBits{RTS: true, DTR: true}
	}
	if err := raw.SetMode(&mode); err != nil {
		return fmt.Errorf("port: %s: set flow control %s: %w", p.device, fc, err)
	}
	p.logger.Debug("flow control applied", "mode", fc)
	return nil
}

// Flash drops DTR for duration to force the modem out of raw data mode.
// When ignoreErrors is true, ErrFlashFailed/ErrCarrierLost-class failures
// from the underlying driver are swallowed, matching the disconnect
// pipeline's tolerance for those as expected side effects.
func (p *SerialPort) Flash(ctx context.Context, duration time.Duration, ignoreErrors bool) error {
	p.mu.Lock()
	raw := p.raw
	p.mu.Unlock()

	if raw == nil {
		return fmt.Errorf("port: %s: flash on closed port", p.device)
	}

	if err := raw.SetDTR(false); err != nil {
		if ignoreErrors {
			p.logger.Debug("flash drop-DTR failed, ignoring", "error", err)
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrFlashFailed, p.device, err)
	}

	select {
	case <-time.After(duration):
	case <-ctx.Done():
		_ = raw.SetDTR(true)
		return ctx.Err()
	}

	if err := raw.SetDTR(true); err != nil && !ignoreErrors {
		return fmt.Errorf("%w: %s: %v", ErrFlashFailed, p.device, err)
	}
	p.logger.Debug("port flashed", "duration", duration)
	return nil
}

// Reopen fully closes and reopens the underlying device after delay,
// independent of the reference count seen by other holders. This is used
// after a dial because the device's open-count in raw data mode can drift
// from what this facade tracked while in command mode.
func (p *SerialPort) Reopen(ctx context.Context, delay time.Duration) error {
	p.mu.Lock()
	wasOpen := p.refCount > 0
	p.mu.Unlock()

	if wasOpen {
		if err := p.Close(); err != nil {
			return fmt.Errorf("port: reopen %s: close: %w", p.device, err)
		}
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if wasOpen {
		if err := p.Open(); err != nil {
			return fmt.Errorf("port: reopen %s: open: %w", p.device, err)
		}
	}
	p.logger.Debug("port reopened", "delay", delay)
	return nil
}

func (p *SerialPort) SetConnected(c bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = c
}

func (p *SerialPort) GetConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *SerialPort) InitSequenceEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initEnabled
}

func (p *SerialPort) SetInitSequenceEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initEnabled = enabled
}

// RunInitSequence replays the port's saved AT init commands directly over
// the transport, bypassing the modem command queue: it runs while the
// port is being brought back into command mode, before the modem facade
// would consider it available again.
func (p *SerialPort) RunInitSequence(ctx context.Context) error {
	p.mu.Lock()
	rw := p.rw
	seq := p.initSeq
	enabled := p.initEnabled
	p.mu.Unlock()

	if !enabled || len(seq) == 0 {
		return nil
	}
	if rw == nil {
		return fmt.Errorf("port: %s: run init sequence on closed port", p.device)
	}

	for _, cmd := range seq {
		if _, err := io.WriteString(rw, cmd.Command+"\r"); err != nil {
			return fmt.Errorf("port: %s: init sequence %q: %w", p.device, cmd.Command, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	p.logger.Debug("init sequence replayed", "commands", len(seq))
	return nil
}

// instrument wraps the raw device with I/O tracing and write coalescing so
// every byte that crosses the wire is observable and short successive
// writes (AT command followed immediately by CR) go out as one frame.
func instrument(device string, raw serial.Port, logger *slog.Logger) io.ReadWriter {
	traced := iotrace.New(raw, iotrace.WithName(device), iotrace.WithLogger(func(dir string, data []byte) {
		logger.Debug("port i/o", "dir", dir, "bytes", len(data))
	}))
	return struct {
		io.Reader
		io.Writer
	}{
		Reader: traced,
		Writer: nagle.NewWriter(traced, 10*time.Millisecond),
	}
}
