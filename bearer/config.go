package bearer

// Config is a bearer's immutable session template, fixed at construction.
type Config struct {
	// APN is the 3GPP access point name, or nil if no APN was requested
	// at all (the CDMA path). A non-nil pointer to an empty string is a
	// valid, present APN — the connect orchestrator treats it as "use the
	// modem's default APN," not as "APN absent." Use NewConfig3GPP or
	// NewConfigCDMA to build a Config without handling this distinction
	// by hand.
	APN *string

	// IPFamily is the requested address family. IPFamilyNone or
	// IPFamilyAny are resolved to the modem's default by the 3GPP
	// pipeline's IP family resolution step.
	IPFamily IPFamily

	// RMProtocol is the preferred CDMA Rm interface protocol.
	// RMProtocolUnknown means "leave whatever the modem is currently set
	// to."
	RMProtocol RMProtocol

	// Number is the CDMA dial number. Empty means "#777", the standard
	// CDMA2000 packet data dial string.
	Number string
}

// NewConfig3GPP builds a Config that requests a 3GPP PDP context with the
// given APN (which may be empty, meaning "let the modem pick a default").
func NewConfig3GPP(apn string, family IPFamily) Config {
	return Config{APN: &apn, IPFamily: family}
}

// NewConfigCDMA builds a Config that requests a CDMA data call.
func NewConfigCDMA(number string, rm RMProtocol) Config {
	return Config{Number: number, RMProtocol: rm}
}

// hasAPN reports whether the config requested a 3GPP session at all, per
// §4.2's "an empty APN string is treated as present" rule.
func (c Config) hasAPN() bool { return c.APN != nil }

// apn returns the requested APN, defaulting to "" for a CDMA config where
// callers need a plain string (e.g. logging) rather than the presence
// distinction itself.
func (c Config) apn() string {
	if c.APN == nil {
		return ""
	}
	return *c.APN
}
