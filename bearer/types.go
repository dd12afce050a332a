// Package bearer implements the broadband bearer core: a state machine
// that brings up and tears down a single cellular packet-data session
// over a Modem facade's AT channel, negotiating either a 3GPP PDP context
// or a 3GPP2 (CDMA) data call and reporting back the IP configuration the
// host should apply.
package bearer

import (
	"context"
	"time"

	"github.com/vantage-iot/bearer-core/modem"
	"github.com/vantage-iot/bearer-core/port"
)

// Port, PortKind and FlowControl are re-exported from the port package so
// callers assembling a Bearer need not import it directly.
type (
	Port        = port.Port
	PortKind    = port.PortKind
	FlowControl = port.FlowControl
)

const (
	PortKindPrimary   = port.PortKindPrimary
	PortKindSecondary = port.PortKindSecondary

	FlowControlNone     = port.FlowControlNone
	FlowControlSoftware = port.FlowControlSoftware
	FlowControlHardware = port.FlowControlHardware
)

// IPFamily and SequenceCommand are re-exported from the modem package,
// which owns the AT execution surface a Bearer is built against.
type (
	IPFamily        = modem.IPFamily
	RMProtocol      = modem.RMProtocol
	SequenceCommand = modem.SequenceCommand
)

const (
	IPFamilyNone   = modem.IPFamilyNone
	IPFamilyIPv4   = modem.IPFamilyIPv4
	IPFamilyIPv6   = modem.IPFamilyIPv6
	IPFamilyIPv4v6 = modem.IPFamilyIPv4v6
	IPFamilyAny    = modem.IPFamilyAny

	RMProtocolUnknown       = modem.RMProtocolUnknown
	RMProtocolAsync         = modem.RMProtocolAsync
	RMProtocolPacketRelay   = modem.RMProtocolPacketRelay
	RMProtocolPacketNetwork = modem.RMProtocolPacketNetwork
)

// ConnectionType records which family of session, if any, a bearer is
// currently holding.
type ConnectionType int

const (
	ConnectionTypeNone ConnectionType = iota
	ConnectionType3GPP
	ConnectionTypeCDMA
)

func (c ConnectionType) String() string {
	switch c {
	case ConnectionTypeNone:
		return "none"
	case ConnectionType3GPP:
		return "3gpp"
	case ConnectionTypeCDMA:
		return "cdma"
	default:
		return "unknown"
	}
}

// IPMethod is how the host should configure the interface bound to a
// bearer's data port once connected.
type IPMethod int

const (
	IPMethodPPP IPMethod = iota
	IPMethodDHCP
	IPMethodStatic
)

func (m IPMethod) String() string {
	switch m {
	case IPMethodPPP:
		return "ppp"
	case IPMethodDHCP:
		return "dhcp"
	case IPMethodStatic:
		return "static"
	default:
		return "unknown"
	}
}

// IPConfig is the IP configuration a connect pipeline hands back for one
// address family. Address/Gateway/DNS are only populated when Method is
// Static and an IP-config extension point supplied them.
type IPConfig struct {
	Method  IPMethod
	Address string
	Prefix  int
	Gateway string
	DNS     []string
}

// ConnectResult is what a connect pipeline returns to the orchestrator on
// success.
type ConnectResult struct {
	DataPort Port
	IPv4     *IPConfig
	IPv6     *IPConfig
}

// ConnectionStatus is the tri-state outcome of a status query or an
// unsolicited report.
type ConnectionStatus int

const (
	ConnectionStatusUnknown ConnectionStatus = iota
	ConnectionStatusConnected
	ConnectionStatusDisconnected
)

func (s ConnectionStatus) String() string {
	switch s {
	case ConnectionStatusConnected:
		return "connected"
	case ConnectionStatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Modem is the facade a Bearer drives. It is satisfied by *modem.Modem in
// production and by modem.FakeModem in tests.
type Modem interface {
	Is3GPP() bool
	IsCDMA() bool
	Is3GPPOnly() bool
	IsCDMAOnly() bool
	PeekPortPrimary() Port
	PeekPortSecondary() Port
	PeekBestDataPort(kind PortKind) Port
	PeekBestATPort() Port
	ATCommandFull(ctx context.Context, p Port, cmd string, timeout time.Duration, allowCached, raw bool) (string, error)
	ATSequenceFull(ctx context.Context, p Port, cmds []SequenceCommand) (any, error)
	DefaultIPFamily() IPFamily
}
