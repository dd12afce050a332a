package bearer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vantage-iot/bearer-core/at"
)

const (
	dialTimeout3GPP = 60 * time.Second
	ceerTimeout     = 3 * time.Second
)

// connect3GPP runs the four ordered steps of the 3GPP connect pipeline:
// IP family resolution, CID selection, dial, then IP configuration.
func (b *Bearer) connect3GPP(ctx context.Context, primary Port) (*ConnectResult, error) {
	family := resolveIPFamily(b.config.IPFamily, b.modem)

	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: ErrKindCancelled, Cause: err, Message: "cancelled before cid selection"}
	}

	cid, reuse, err := b.policy.CidSelection3GPP(ctx, b, primary)
	if err != nil {
		return nil, err
	}

	if !reuse {
		pdpType, err := family.PdpType()
		if err != nil {
			return nil, &Error{Kind: ErrKindInvalidArgs, Cause: err, Message: "unsupported IP family"}
		}
		if err := defineCid(ctx, b, primary, cid, pdpType, b.config.apn()); err != nil {
			return nil, err
		}
	}
	b.setCid(cid)

	if err := ctx.Err(); err != nil {
		b.setCid(0)
		return nil, &Error{Kind: ErrKindCancelled, Cause: err, Message: "cancelled before dial"}
	}

	dataPort, err := b.policy.Dial3GPP(ctx, b, primary, cid)
	if err != nil {
		b.setCid(0)
		return nil, err
	}

	secondary := b.modem.PeekPortSecondary()
	ipv4, ipv6, err := b.policy.GetIPConfig3GPP(ctx, b, primary, secondary, dataPort, cid, family)
	if err != nil {
		_ = dataPort.Close()
		b.setCid(0)
		return nil, err
	}

	return &ConnectResult{DataPort: dataPort, IPv4: ipv4, IPv6: ipv6}, nil
}

// dial3GPP is the default Dial3GPP policy: acquire a data port, issue
// ATD*99***<cid>#, and on success apply flow control and mark the port
// connected.
func dial3GPP(ctx context.Context, b *Bearer, primary Port, cid int) (Port, error) {
	dataPort := b.modem.PeekBestDataPort(PortKindPrimary)
	if dataPort == nil {
		dataPort = primary
	}
	if dataPort == nil {
		return nil, &Error{Kind: ErrKindPortUnavailable, Message: "no data port available for dial"}
	}
	if err := dataPort.Open(); err != nil {
		return nil, &Error{Kind: ErrKindPortUnavailable, Cause: err, Message: "open data port"}
	}

	cmd := fmt.Sprintf("%s%d#", at.DialPDPPrefix, cid)
	_, err := b.modem.ATCommandFull(ctx, dataPort, cmd, dialTimeout3GPP, false, false)
	if err != nil {
		msg := err.Error()
		if ceer, ceerErr := b.modem.ATCommandFull(ctx, primary, at.CmdExtendedError, ceerTimeout, false, false); ceerErr == nil {
			if reason := at.ParseExtendedError(splitLines(ceer)); reason != "" {
				msg = reason
			}
		}
		_ = dataPort.Close()
		return nil, &Error{Kind: ErrKindModemCommand, Cause: err, Message: msg}
	}

	// Past this point the TTY is in raw data mode; cancellation is no
	// longer honored for this dial, matching the original's explicit "do
	// not check for cancellable here."
	if b.flowControl != FlowControlNone {
		if err := dataPort.SetFlowControl(b.flowControl); err != nil {
			b.logger.Warn("failed to apply flow control after dial", "error", err)
		}
	}
	dataPort.SetConnected(true)

	return dataPort, nil
}

// getIPConfig3GPP is the default GetIPConfig3GPP policy: PPP if the data
// port is an AT port, DHCP otherwise, with no vendor extension point
// installed.
func getIPConfig3GPP(ctx context.Context, b *Bearer, primary, secondary, data Port, cid int, fam IPFamily) (*IPConfig, *IPConfig, error) {
	method := IPMethodPPP
	if isNetworkPort(data, primary, secondary) {
		method = IPMethodDHCP
	}

	var ipv4, ipv6 *IPConfig
	if fam.HasIPv4() {
		ipv4 = &IPConfig{Method: method}
	}
	if fam.HasIPv6() {
		ipv6 = &IPConfig{Method: method}
	}
	if ipv4 == nil && ipv6 == nil {
		return nil, nil, &Error{Kind: ErrKindInvalidArgs, Message: "resolved IP family yields no address family to configure"}
	}
	return ipv4, ipv6, nil
}

// isNetworkPort reports whether data is neither the primary nor the
// secondary AT port, i.e. a dedicated network interface rather than a TTY
// doing PPP.
func isNetworkPort(data, primary, secondary Port) bool {
	return data != primary && data != secondary && !strings.Contains(data.GetDevice(), "tty")
}
