package port

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// FakePort is an in-memory Port used by bearer-level scenario tests that
// want real ref-counting and flash/reopen bookkeeping without a serial
// device. It is not safe for concurrent use by goroutines other than the
// single bearer exercising it, mirroring the real port's single-owner
// usage pattern during a pipeline run.
type FakePort struct {
	mu sync.Mutex

	Device   string
	refCount int

	connected   bool
	initEnabled bool

	FlashErr  error
	ReopenErr error
	OpenErr   error

	FlashCalls  int
	ReopenCalls int
	InitCalls   int

	rw io.ReadWriter
}

// NewFakePort returns a FakePort backed by an in-memory pipe so AT traffic
// written by test code can be read back by anything holding the Port.
func NewFakePort(device string, rw io.ReadWriter) *FakePort {
	return &FakePort{Device: device, initEnabled: true, rw: rw}
}

func (f *FakePort) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.OpenErr != nil {
		return f.OpenErr
	}
	f.refCount++
	return nil
}

func (f *FakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refCount == 0 {
		return fmt.Errorf("port: %s: close of unopened port", f.Device)
	}
	f.refCount--
	return nil
}

func (f *FakePort) Transport() io.ReadWriter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rw
}

func (f *FakePort) SetFlowControl(FlowControl) error { return nil }

func (f *FakePort) Flash(ctx context.Context, duration time.Duration, ignoreErrors bool) error {
	f.mu.Lock()
	f.FlashCalls++
	err := f.FlashErr
	f.mu.Unlock()

	if err != nil && ignoreErrors {
		return nil
	}
	return err
}

func (f *FakePort) Reopen(ctx context.Context, delay time.Duration) error {
	f.mu.Lock()
	f.ReopenCalls++
	err := f.ReopenErr
	f.mu.Unlock()
	return err
}

func (f *FakePort) SetConnected(c bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = c
}

func (f *FakePort) GetConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *FakePort) GetDevice() string { return f.Device }

func (f *FakePort) InitSequenceEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initEnabled
}

func (f *FakePort) SetInitSequenceEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initEnabled = enabled
}

func (f *FakePort) RunInitSequence(ctx context.Context) error {
	f.mu.Lock()
	f.InitCalls++
	f.mu.Unlock()
	return nil
}

var _ Port = (*FakePort)(nil)
