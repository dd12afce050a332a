package bearer

import (
	"context"
	"fmt"

	"github.com/vantage-iot/bearer-core/at"
)

// Init performs the bearer's one-time capability check: if the bearer is
// configured to request a specific Rm interface protocol on a
// CDMA-capable modem, it verifies the modem actually supports that
// protocol index before the bearer is ever allowed to Connect. It is a
// no-op, and always safe to call again, once it has already succeeded.
func (b *Bearer) Init(ctx context.Context) error {
	b.mu.Lock()
	if b.initDone {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	primary := b.modem.PeekPortPrimary()
	if primary == nil {
		return &Error{Kind: ErrKindPortUnavailable, Message: "modem has no primary AT port"}
	}
	if err := primary.Open(); err != nil {
		return &Error{Kind: ErrKindPortUnavailable, Cause: err, Message: "open primary AT port"}
	}
	defer primary.Close()

	if b.modem.IsCDMA() && b.config.RMProtocol != RMProtocolUnknown {
		resp, err := b.modem.ATCommandFull(ctx, primary, at.CmdRmProtocolTest, 0, true, false)
		if err != nil {
			return &Error{Kind: ErrKindModemCommand, Cause: err, Message: "query supported Rm protocol range"}
		}
		min, max, err := at.ParseRmProtocolRange(splitLines(resp))
		if err != nil {
			return &Error{Kind: ErrKindParse, Cause: err, Message: "parse Rm protocol range"}
		}
		want := int(b.config.RMProtocol)
		if want < min || want > max {
			return &Error{Kind: ErrKindFatal, Message: fmt.Sprintf("modem supports Rm protocol %d-%d, configured %d is out of range", min, max, want)}
		}
	}

	b.mu.Lock()
	b.initDone = true
	b.mu.Unlock()
	return nil
}
