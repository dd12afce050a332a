// Package modem implements the Modem facade consumed by the bearer state
// machine: capability predicates, non-owning port lookups, and AT command
// and sequence execution with per-port serialization, cancellation,
// timeouts, and caching of allow_cached queries.
package modem

import (
	"context"
	"fmt"
	"time"

	"github.com/vantage-iot/bearer-core/port"
)

// Modem is the facade a Bearer is constructed against. It never owns a
// Bearer and exposes only capability queries, port lookups, and AT
// execution — connection state lives entirely in the Bearer.
type Modem struct {
	config  Config
	workers map[port.Port]*portWorker
}

// New constructs a Modem over the ports and capability flags described by
// config. It does not open any port; callers open a port before issuing
// commands on it, same as the bearer pipelines do for their data port.
func New(config Config) (*Modem, error) {
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	m := &Modem{
		config:  config,
		workers: make(map[port.Port]*portWorker),
	}
	for _, p := range m.allPorts() {
		m.workers[p] = newPortWorker(p, config.CacheTTL)
	}
	return m, nil
}

// Close stops every port worker goroutine. It does not close the
// underlying ports themselves — those are owned by whoever opened them.
func (m *Modem) Close() {
	for _, w := range m.workers {
		w.close()
	}
}

func (m *Modem) allPorts() []port.Port {
	seen := make(map[port.Port]bool)
	var ports []port.Port
	add := func(p port.Port) {
		if p == nil || seen[p] {
			return
		}
		seen[p] = true
		ports = append(ports, p)
	}
	add(m.config.PrimaryPort)
	add(m.config.SecondaryPort)
	for _, p := range m.config.DataPorts {
		add(p)
	}
	return ports
}

func (m *Modem) Is3GPP() bool     { return m.config.Is3GPPCapable }
func (m *Modem) IsCDMA() bool     { return m.config.IsCDMACapable }
func (m *Modem) Is3GPPOnly() bool { return m.config.Is3GPPCapable && !m.config.IsCDMACapable }
func (m *Modem) IsCDMAOnly() bool { return m.config.IsCDMACapable && !m.config.Is3GPPCapable }

func (m *Modem) PeekPortPrimary() port.Port   { return m.config.PrimaryPort }
func (m *Modem) PeekPortSecondary() port.Port { return m.config.SecondaryPort }

// PeekBestATPort returns the port the modem prefers for AT control traffic
// that must not be the data port, falling back to the primary.
func (m *Modem) PeekBestATPort() port.Port {
	if m.config.SecondaryPort != nil {
		return m.config.SecondaryPort
	}
	return m.config.PrimaryPort
}

// PeekBestDataPort returns the preferred port for a pipeline's dial,
// regardless of kind — the modem's DataPorts list is already ordered by
// preference at construction time.
func (m *Modem) PeekBestDataPort(kind port.PortKind) port.Port {
	if len(m.config.DataPorts) > 0 {
		return m.config.DataPorts[0]
	}
	return m.config.PrimaryPort
}

func (m *Modem) DefaultIPFamily() IPFamily { return m.config.DefaultIPFamily }

// ATCommandFull issues a single AT command on p and returns the
// accumulated data-line response, or an error once p's worker observes a
// TypeFinal result other than OK. timeout of 0 uses the modem's configured
// default command timeout.
func (m *Modem) ATCommandFull(ctx context.Context, p port.Port, cmd string, timeout time.Duration, allowCached, raw bool) (string, error) {
	w, err := m.workerFor(p)
	if err != nil {
		return "", err
	}
	if timeout <= 0 {
		timeout = m.config.CommandTimeout
	}
	return w.run(ctx, cmd, timeout, allowCached, raw)
}

// ATSequenceFull runs cmds in order on p, stopping at the first error. The
// returned value is the slice of each command's response, matching the
// "result_variant" the original gives its sequence processor — callers
// that need richer per-step interpretation do so above this layer.
func (m *Modem) ATSequenceFull(ctx context.Context, p port.Port, cmds []SequenceCommand) (any, error) {
	w, err := m.workerFor(p)
	if err != nil {
		return nil, err
	}

	responses := make([]string, 0, len(cmds))
	for _, c := range cmds {
		select {
		case <-ctx.Done():
			return responses, ctx.Err()
		default:
		}
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = m.config.CommandTimeout
		}
		resp, err := w.run(ctx, c.Command, timeout, c.AllowCached, c.Raw)
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (m *Modem) workerFor(p port.Port) (*portWorker, error) {
	if p == nil {
		return nil, fmt.Errorf("modem: nil port")
	}
	w, ok := m.workers[p]
	if !ok {
		return nil, fmt.Errorf("modem: port %s is not configured on this modem", p.GetDevice())
	}
	return w, nil
}
