package modem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vantage-iot/bearer-core/port"
)

// FakeResponse is one scripted answer to an AT command in a FakeModem.
type FakeResponse struct {
	Value string
	Err   error
}

// FakeModem is an in-memory Modem used by scenario-level bearer tests. It
// answers AT commands from a caller-supplied script keyed by exact command
// text and records every command issued, in order, so a test can assert on
// the wire sequence a pipeline produced.
type FakeModem struct {
	Primary, Secondary port.Port
	Data               []port.Port
	ThreeGPP, CDMA     bool
	Family             IPFamily

	mu       sync.Mutex
	Script   map[string]FakeResponse
	Commands []string
}

// NewFakeModem returns a FakeModem with an empty script; callers populate
// Script before exercising a pipeline.
func NewFakeModem() *FakeModem {
	return &FakeModem{Script: make(map[string]FakeResponse)}
}

func (m *FakeModem) Is3GPP() bool     { return m.ThreeGPP }
func (m *FakeModem) IsCDMA() bool     { return m.CDMA }
func (m *FakeModem) Is3GPPOnly() bool { return m.ThreeGPP && !m.CDMA }
func (m *FakeModem) IsCDMAOnly() bool { return m.CDMA && !m.ThreeGPP }

func (m *FakeModem) PeekPortPrimary() port.Port   { return m.Primary }
func (m *FakeModem) PeekPortSecondary() port.Port { return m.Secondary }

func (m *FakeModem) PeekBestATPort() port.Port {
	if m.Secondary != nil {
		return m.Secondary
	}
	return m.Primary
}

func (m *FakeModem) PeekBestDataPort(kind port.PortKind) port.Port {
	if len(m.Data) > 0 {
		return m.Data[0]
	}
	return m.Primary
}

func (m *FakeModem) DefaultIPFamily() IPFamily { return m.Family }

// ATCommandFull records cmd and returns the scripted response. A command
// with no script entry is treated as a test authoring error, not a modem
// failure, and panics with a descriptive message.
func (m *FakeModem) ATCommandFull(ctx context.Context, p port.Port, cmd string, timeout time.Duration, allowCached, raw bool) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	m.mu.Lock()
	m.Commands = append(m.Commands, cmd)
	resp, ok := m.Script[cmd]
	m.mu.Unlock()

	if !ok {
		panic(fmt.Sprintf("fake modem: no scripted response for %q", cmd))
	}
	return resp.Value, resp.Err
}

func (m *FakeModem) ATSequenceFull(ctx context.Context, p port.Port, cmds []SequenceCommand) (any, error) {
	responses := make([]string, 0, len(cmds))
	for _, c := range cmds {
		resp, err := m.ATCommandFull(ctx, p, c.Command, c.Timeout, c.AllowCached, c.Raw)
		responses = append(responses, resp)
		if err != nil {
			return responses, err
		}
	}
	return responses, nil
}

var _ interface {
	Is3GPP() bool
	IsCDMA() bool
} = (*FakeModem)(nil)
