package bearer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vantage-iot/bearer-core/at"
	"github.com/vantage-iot/bearer-core/port"
)

const (
	reopenDelay  = 1 * time.Second
	flashDelay   = 1 * time.Second
	cgactTimeout = 10 * time.Second
)

// Disconnect tears down the bearer's current session. On success the
// bearer's state is reset to disconnected. On a fatal reversion error the
// state is left untouched so a caller can retry.
func (b *Bearer) Disconnect(ctx context.Context) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	if !b.isConnected() {
		return &Error{Kind: ErrKindNotConnected, Message: "bearer is not connected"}
	}

	primary := b.modem.PeekPortPrimary()
	secondary := b.modem.PeekPortSecondary()
	data := b.DataPort()
	cid := b.GetCid()

	var err error
	switch b.ConnectionType() {
	case ConnectionType3GPP:
		err = b.policy.Disconnect3GPP(ctx, b, primary, secondary, data, cid)
	case ConnectionTypeCDMA:
		err = b.policy.DisconnectCDMA(ctx, b, primary, data)
	default:
		err = &Error{Kind: ErrKindFatal, Message: "bearer reports connected with no known connection type"}
	}
	if err != nil {
		return err
	}

	b.reset()
	b.logger.Info("bearer disconnected")
	return nil
}

// disconnect3GPP is the default Disconnect3GPP policy: deactivate the PDP
// context on whichever AT port is free to talk, then run the common
// port-mode reversion sequence.
func disconnect3GPP(ctx context.Context, b *Bearer, primary, secondary, data Port, cid int) error {
	sent := false

	if candidate := pickFreePort(primary, data); candidate != nil {
		if err := deactivatePdp(ctx, b, candidate, cid); err != nil {
			b.logger.Warn("pdp deactivation failed, continuing with reversion", "error", err)
		} else {
			sent = true
		}
	} else if candidate := pickFreePort(secondary, data); candidate != nil {
		if err := deactivatePdp(ctx, b, candidate, cid); err != nil {
			b.logger.Warn("pdp deactivation failed, continuing with reversion", "error", err)
		} else {
			sent = true
		}
	}

	if err := revertPortMode(ctx, b, data); err != nil {
		return err
	}

	if !sent && primary != nil {
		if err := deactivatePdp(ctx, b, primary, cid); err != nil {
			b.logger.Warn("pdp deactivation failed after reversion", "error", err)
		}
	}
	return nil
}

// disconnectCDMA is the default DisconnectCDMA policy: CDMA has no
// equivalent of AT+CGACT, so disconnect is just the port-mode reversion.
func disconnectCDMA(ctx context.Context, b *Bearer, primary, data Port) error {
	return revertPortMode(ctx, b, data)
}

func pickFreePort(candidate, data Port) Port {
	if candidate == nil || candidate == data {
		return nil
	}
	if candidate.GetConnected() {
		return nil
	}
	return candidate
}

func deactivatePdp(ctx context.Context, b *Bearer, p Port, cid int) error {
	cmd := at.CmdPdpDeactivate
	if cid > 0 {
		cmd = fmt.Sprintf("%s,%d", cmd, cid)
	}
	if _, err := b.modem.ATCommandFull(ctx, p, cmd, cgactTimeout, false, false); err != nil {
		return &Error{Kind: ErrKindModemCommand, Cause: err, Message: "deactivate PDP context"}
	}
	return nil
}

// revertPortMode brings data out of raw/PPP mode and back into command
// mode: disable init-sequence replay, reopen the port, re-enable replay,
// flash DTR, drop flow control, close the reference the dial opened and
// held since connect, mark the port disconnected, then replay the init
// sequence.
func revertPortMode(ctx context.Context, b *Bearer, data Port) error {
	data.SetInitSequenceEnabled(false)

	if err := data.Reopen(ctx, reopenDelay); err != nil {
		return &Error{Kind: ErrKindFatal, Cause: err, Message: "reopen data port during disconnect"}
	}
	data.SetInitSequenceEnabled(true)

	if err := data.Flash(ctx, flashDelay, true); err != nil && !errors.Is(err, port.ErrFlashFailed) && !errors.Is(err, port.ErrCarrierLost) {
		return &Error{Kind: ErrKindFatal, Cause: err, Message: "flash data port during disconnect"}
	}

	if err := data.SetFlowControl(port.FlowControlNone); err != nil {
		b.logger.Warn("failed to reset flow control during disconnect", "error", err)
	}

	if err := data.Close(); err != nil {
		b.logger.Warn("failed to close data port reference during disconnect", "error", err)
	}
	data.SetConnected(false)

	if err := data.RunInitSequence(ctx); err != nil {
		b.logger.Warn("init sequence replay failed after disconnect", "error", err)
	}
	return nil
}
