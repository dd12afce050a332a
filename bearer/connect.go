package bearer

import "context"

// Connect brings up a packet-data session for the bearer, choosing the
// 3GPP or CDMA pipeline according to the bearer's config and the modem's
// capabilities. On success it returns the same ConnectResult returned by
// the chosen pipeline. On failure, the bearer's session state is
// untouched.
func (b *Bearer) Connect(ctx context.Context) (*ConnectResult, error) {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	if b.isConnected() {
		return nil, &Error{Kind: ErrKindAlreadyConnected, Message: "bearer is already connected"}
	}

	primary := b.modem.PeekPortPrimary()
	if primary == nil {
		return nil, &Error{Kind: ErrKindPortUnavailable, Message: "modem has no primary AT port"}
	}
	if primary.GetConnected() {
		return nil, &Error{Kind: ErrKindPortUnavailable, Message: "primary AT port is in data mode"}
	}

	threeGPP := b.config.hasAPN()
	switch {
	case b.modem.Is3GPPOnly() && !threeGPP:
		return nil, &Error{Kind: ErrKindInvalidArgs, Message: "modem is 3GPP-only but no APN was requested"}
	case b.modem.IsCDMAOnly() && threeGPP:
		return nil, &Error{Kind: ErrKindInvalidArgs, Message: "modem is CDMA-only but an APN was requested"}
	}

	var (
		result *ConnectResult
		err    error
	)
	switch {
	case b.modem.Is3GPP() && threeGPP:
		result, err = b.connect3GPP(ctx, primary)
	case b.modem.IsCDMA() && !threeGPP:
		result, err = b.connectCDMA(ctx, primary)
	default:
		return nil, &Error{Kind: ErrKindInvalidArgs, Message: "no connect path matches this modem's capabilities and config"}
	}
	if err != nil {
		return nil, err
	}

	connType := ConnectionType3GPP
	cid := 0
	if !threeGPP {
		connType = ConnectionTypeCDMA
	} else {
		cid = b.GetCid()
	}
	b.setConnected(result.DataPort, connType, cid)
	result.DataPort.SetConnected(true)

	b.logger.Info("bearer connected", "type", connType, "cid", cid, "device", result.DataPort.GetDevice())
	return result, nil
}
