package bearer

import (
	"fmt"

	"context"
	"time"

	"github.com/vantage-iot/bearer-core/at"
)

const dialTimeoutCDMA = 90 * time.Second

// connectCDMA delegates to the Policy table's single-function CDMA
// pipeline. Unlike 3GPP, CDMA has no cid negotiation or IP config step to
// decompose, so the policy function owns the whole sequence.
func (b *Bearer) connectCDMA(ctx context.Context, primary Port) (*ConnectResult, error) {
	return b.policy.ConnectCDMA(ctx, b, primary)
}

// connectCDMA is the default ConnectCDMA policy: negotiate the Rm
// interface protocol if requested, dial, and report an IPv4-only PPP
// config.
func connectCDMA(ctx context.Context, b *Bearer, primary Port) (*ConnectResult, error) {
	if b.config.RMProtocol != RMProtocolUnknown {
		if err := negotiateRMProtocol(ctx, b, primary, b.config.RMProtocol); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: ErrKindCancelled, Cause: err, Message: "cancelled before cdma dial"}
	}

	dataPort := b.modem.PeekBestDataPort(PortKindPrimary)
	if dataPort == nil {
		dataPort = primary
	}
	if err := dataPort.Open(); err != nil {
		return nil, &Error{Kind: ErrKindPortUnavailable, Cause: err, Message: "open data port"}
	}

	number := b.config.Number
	if number == "" {
		number = "#777"
	}
	cmd := at.DialCDMAHayes + number
	if _, err := b.modem.ATCommandFull(ctx, dataPort, cmd, dialTimeoutCDMA, false, false); err != nil {
		_ = dataPort.Close()
		return nil, &Error{Kind: ErrKindModemCommand, Cause: err, Message: "cdma dial failed"}
	}

	if b.flowControl != FlowControlNone {
		if err := dataPort.SetFlowControl(b.flowControl); err != nil {
			b.logger.Warn("failed to apply flow control after cdma dial", "error", err)
		}
	}
	dataPort.SetConnected(true)

	return &ConnectResult{
		DataPort: dataPort,
		IPv4:     &IPConfig{Method: IPMethodPPP},
	}, nil
}

// negotiateRMProtocol reads the modem's current Rm protocol index and, if
// it differs from the requested one, writes the requested index.
func negotiateRMProtocol(ctx context.Context, b *Bearer, primary Port, want RMProtocol) error {
	resp, err := b.modem.ATCommandFull(ctx, primary, at.CmdRmProtocolRead, 0, true, false)
	if err != nil {
		return &Error{Kind: ErrKindModemCommand, Cause: err, Message: "read Rm protocol"}
	}
	current, err := at.ParseRmProtocolCurrent(splitLines(resp))
	if err != nil {
		return &Error{Kind: ErrKindParse, Cause: err, Message: "parse Rm protocol response"}
	}
	if RMProtocol(current) == want {
		return nil
	}

	cmd := fmt.Sprintf("%s%d", at.CmdRmProtocolWrite, int(want))
	if _, err := b.modem.ATCommandFull(ctx, primary, cmd, 0, false, false); err != nil {
		return &Error{Kind: ErrKindModemCommand, Cause: err, Message: "set Rm protocol"}
	}
	return nil
}
