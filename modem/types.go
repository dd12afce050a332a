package modem

import (
	"time"

	"github.com/vantage-iot/bearer-core/port"
)

// IPFamily is a bitmask of the IP protocol families a bearer may request
// or be granted. Zero means "unspecified"; the connect orchestrator
// substitutes the modem's DefaultIPFamily() in that case.
type IPFamily uint8

const (
	IPFamilyNone IPFamily = 0
	IPFamilyIPv4 IPFamily = 1 << 0
	IPFamilyIPv6 IPFamily = 1 << 1

	// ipFamilyWildcard marks a request as "let the modem pick," distinct
	// from an explicit dual-stack request carrying the same IPv4/IPv6
	// bits. Only IPFamilyAny sets it.
	ipFamilyWildcard IPFamily = 1 << 2
)

// IPFamilyIPv4v6 is an explicit dual-stack request: it maps to the single
// "IPV4V6" AT+CGDCONT PDP type. Unlike IPFamilyAny, it is never replaced
// by the modem's default.
const IPFamilyIPv4v6 = IPFamilyIPv4 | IPFamilyIPv6

// IPFamilyAny means "no preference, let the modem decide" and is resolved
// to the modem's DefaultIPFamily() before use, same as IPFamilyNone.
const IPFamilyAny = IPFamilyIPv4 | IPFamilyIPv6 | ipFamilyWildcard

func (f IPFamily) HasIPv4() bool { return f&IPFamilyIPv4 != 0 }
func (f IPFamily) HasIPv6() bool { return f&IPFamilyIPv6 != 0 }

// IsWildcard reports whether f is a request that must be substituted with
// a concrete family before it can be used to build an AT+CGDCONT PDP type
// (IPFamilyNone or IPFamilyAny).
func (f IPFamily) IsWildcard() bool { return f == IPFamilyNone || f == IPFamilyAny }

func (f IPFamily) String() string {
	switch f {
	case IPFamilyNone:
		return "none"
	case IPFamilyIPv4:
		return "ipv4"
	case IPFamilyIPv6:
		return "ipv6"
	case IPFamilyIPv4v6:
		return "ipv4v6"
	case IPFamilyAny:
		return "any"
	default:
		return "unknown"
	}
}

// PdpType maps an IP family to the 3GPP TS 27.007 PDP type string used in
// AT+CGDCONT, or an error if the family cannot be expressed as one. It must
// be called with a concrete family — IsWildcard() must be false, which
// resolveIPFamily guarantees for every caller in the connect pipeline.
func (f IPFamily) PdpType() (string, error) {
	switch f {
	case IPFamilyIPv4:
		return "IP", nil
	case IPFamilyIPv6:
		return "IPV6", nil
	case IPFamilyIPv4v6:
		return "IPV4V6", nil
	default:
		return "", errUnsupportedIPFamily
	}
}

// RMProtocol enumerates the CDMA Rm interface protocol indexes a modem can
// report or be asked to switch to via AT+CRM.
type RMProtocol int

const (
	RMProtocolUnknown RMProtocol = -1
	RMProtocolAsync   RMProtocol = 0
	RMProtocolPacketRelay RMProtocol = 1
	RMProtocolPacketNetwork RMProtocol = 2
)

func (r RMProtocol) String() string {
	switch r {
	case RMProtocolAsync:
		return "async"
	case RMProtocolPacketRelay:
		return "packet-relay"
	case RMProtocolPacketNetwork:
		return "packet-network"
	case RMProtocolUnknown:
		return "unknown"
	default:
		return "unrecognized"
	}
}

// SequenceCommand is one step of an AT command sequence executed through
// ATSequenceFull, each with its own timeout and cacheability.
type SequenceCommand struct {
	Command     string
	Timeout     time.Duration
	AllowCached bool
	Raw         bool
}

// PortKind distinguishes the AT/primary port from a secondary control port,
// re-exported from the port package so callers need not import it directly
// when only talking to a Modem.
type PortKind = port.PortKind

const (
	PortKindPrimary   = port.PortKindPrimary
	PortKindSecondary = port.PortKindSecondary
)
