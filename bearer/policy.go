package bearer

import "context"

// Policy is the bearer's extension-point table: the virtual-method-style
// hooks the original implementation dispatches through a class vtable,
// expressed here as a plain struct of replaceable functions. NewBearer
// fills every field with the generic §4 implementation; a vendor build
// replaces individual fields before the bearer's first Connect.
type Policy struct {
	Dial3GPP         func(ctx context.Context, b *Bearer, primary Port, cid int) (Port, error)
	CidSelection3GPP func(ctx context.Context, b *Bearer, primary Port) (cid int, reuse bool, err error)
	GetIPConfig3GPP  func(ctx context.Context, b *Bearer, primary, secondary, data Port, cid int, fam IPFamily) (ipv4, ipv6 *IPConfig, err error)
	Disconnect3GPP   func(ctx context.Context, b *Bearer, primary, secondary, data Port, cid int) error
	ConnectCDMA      func(ctx context.Context, b *Bearer, primary Port) (*ConnectResult, error)
	DisconnectCDMA   func(ctx context.Context, b *Bearer, primary, data Port) error
}

func defaultPolicy() Policy {
	return Policy{
		Dial3GPP:         dial3GPP,
		CidSelection3GPP: cidSelection3GPP,
		GetIPConfig3GPP:  getIPConfig3GPP,
		Disconnect3GPP:   disconnect3GPP,
		ConnectCDMA:      connectCDMA,
		DisconnectCDMA:   disconnectCDMA,
	}
}
