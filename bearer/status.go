package bearer

import (
	"context"
	"fmt"

	"github.com/vantage-iot/bearer-core/at"
)

// LoadConnectionStatus polls the modem for the live activation state of
// the bearer's cid and returns the resulting status without mutating the
// bearer. It requires a connected 3GPP bearer; CDMA sessions have no
// AT+CGACT equivalent to poll and always report Unknown.
func (b *Bearer) LoadConnectionStatus(ctx context.Context) (ConnectionStatus, error) {
	if b.ConnectionType() == ConnectionTypeCDMA {
		return ConnectionStatusUnknown, nil
	}

	cid := b.GetCid()
	if cid == 0 {
		return ConnectionStatusUnknown, &Error{Kind: ErrKindNotConnected, Message: "bearer has no assigned cid"}
	}

	ctrl := b.modem.PeekBestATPort()
	if ctrl == nil {
		return ConnectionStatusUnknown, &Error{Kind: ErrKindPortUnavailable, Message: "no AT control port available"}
	}

	resp, err := b.modem.ATCommandFull(ctx, ctrl, at.CmdPdpActiveRead, 0, false, false)
	if err != nil {
		return ConnectionStatusUnknown, &Error{Kind: ErrKindModemCommand, Cause: err, Message: "query PDP activation state"}
	}

	for _, a := range at.ParsePdpActivations(splitLines(resp)) {
		if a.CID != cid {
			continue
		}
		if a.Active {
			return ConnectionStatusConnected, nil
		}
		return ConnectionStatusDisconnected, nil
	}

	return ConnectionStatusUnknown, &Error{Kind: ErrKindParse, Message: fmt.Sprintf("cid %d not reported by AT+CGACT?", cid)}
}

// StatusObserver is notified whenever ReportConnectionStatus processes a
// status. Implementations must not block.
type StatusObserver func(ConnectionStatus)

// ReportConnectionStatus feeds an externally observed status (e.g. from a
// URC-driven poller) into the bearer. A disconnected report resets the
// bearer's session state before the configured observers run, so the
// observers always see a bearer whose DataPort/ConnectionType already
// reflect the new status.
func (b *Bearer) ReportConnectionStatus(s ConnectionStatus) {
	if s == ConnectionStatusDisconnected {
		b.reset()
	}
	for _, obs := range b.observers {
		obs(s)
	}
}

// AddStatusObserver registers obs to be called by every subsequent
// ReportConnectionStatus. It is not safe to call concurrently with
// ReportConnectionStatus.
func (b *Bearer) AddStatusObserver(obs StatusObserver) {
	b.observers = append(b.observers, obs)
}
