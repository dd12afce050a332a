package modem

import (
	"errors"
	"log/slog"
	"time"

	"github.com/vantage-iot/bearer-core/port"
)

// Config wires a Modem to the ports it owns and the capabilities of the
// physical device behind them. It is immutable once passed to New.
type Config struct {
	// PrimaryPort is the modem's main AT control port. Required.
	PrimaryPort port.Port

	// SecondaryPort is an optional second AT port, used as a fallback
	// target for +CGACT deactivation when the primary is in data mode.
	SecondaryPort port.Port

	// DataPorts are candidate ports for PeekBestDataPort, evaluated in
	// order; the first is preferred. If empty, PrimaryPort is used.
	DataPorts []port.Port

	Is3GPPCapable bool
	IsCDMACapable bool

	// DefaultIPFamily is substituted by the connect orchestrator when a
	// bearer's config requests IPFamilyNone or IPFamilyAny.
	DefaultIPFamily IPFamily

	// CommandTimeout is used by ATCommandFull callers that pass timeout=0.
	CommandTimeout time.Duration

	// CacheTTL bounds how long an allow_cached AT query's result is reused
	// by concurrent or rapidly repeated callers via singleflight.
	CacheTTL time.Duration

	Logger *slog.Logger
}

var ErrNoPrimaryPortConfigured = errors.New("modem: config requires a primary port")
var ErrNoCapability = errors.New("modem: config must mark the modem 3GPP- or CDMA-capable")

func (c *Config) validate() error {
	if c.PrimaryPort == nil {
		return ErrNoPrimaryPortConfigured
	}
	if !c.Is3GPPCapable && !c.IsCDMACapable {
		return ErrNoCapability
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.DefaultIPFamily == IPFamilyNone {
		c.DefaultIPFamily = IPFamilyIPv4
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = 5 * time.Second
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 2 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if len(c.DataPorts) == 0 && c.PrimaryPort != nil {
		c.DataPorts = []port.Port{c.PrimaryPort}
	}
}
