package bearer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vantage-iot/bearer-core/at"
	"github.com/vantage-iot/bearer-core/modem"
)

// cidSelection3GPP is the default CidSelection3GPP policy: it chooses a
// cid to use with AT+CGDCONT and whether the existing context definition
// at that cid is reusable as-is.
func cidSelection3GPP(ctx context.Context, b *Bearer, primary Port) (cid int, reuse bool, err error) {
	pdpType, err := resolveIPFamily(b.config.IPFamily, b.modem).PdpType()
	if err != nil {
		return 0, false, &Error{Kind: ErrKindInvalidArgs, Cause: err, Message: "unsupported IP family"}
	}
	apn := b.config.apn()

	var contexts []at.PdpContext
	resp, err := b.modem.ATCommandFull(ctx, primary, at.CmdPdpContextRead, 0, false, false)
	switch {
	case isNotSupported(err):
		// skip step (1) silently, per §4.3(b).1
	case err != nil:
		// a generic failure also moves on to the range query
	default:
		contexts = at.ParsePdpContextList(splitLines(resp))
	}

	if err := ctx.Err(); err != nil {
		return 0, false, &Error{Kind: ErrKindCancelled, Cause: err, Message: "cancelled during cid selection"}
	}

	maxCid := 0
	candidateCid := 0
	haveCandidate := false
	for _, c := range contexts {
		if c.CID > maxCid {
			maxCid = c.CID
		}
		if c.PdpType != pdpType {
			continue
		}
		if c.APN != "" && at.APNEqual(c.APN, apn) {
			return c.CID, true, nil
		}
		if c.APN == "" && !haveCandidate {
			candidateCid = c.CID
			haveCandidate = true
		}
	}

	if haveCandidate {
		cid = candidateCid
	} else {
		rangeResp, err := b.modem.ATCommandFull(ctx, primary, at.CmdPdpContextTest, 0, false, false)
		if err == nil {
			ranges := at.ParseCidRange(splitLines(rangeResp))
			for _, r := range ranges {
				if r.PdpType != pdpType {
					continue
				}
				if r.MaxCID > maxCid {
					cid = maxCid + 1
				} else {
					cid = maxCid
				}
				break
			}
		}
		if cid == 0 {
			cid = 1
		}
	}

	if err := ctx.Err(); err != nil {
		return 0, false, &Error{Kind: ErrKindCancelled, Cause: err, Message: "cancelled during cid selection"}
	}

	return cid, false, nil
}

// defineCid issues AT+CGDCONT for a freshly selected (non-reused) cid.
func defineCid(ctx context.Context, b *Bearer, primary Port, cid int, pdpType, apn string) error {
	cmd := fmt.Sprintf(`%s%d,"%s","%s"`, at.CmdPdpContextWrite, cid, pdpType, apn)
	if _, err := b.modem.ATCommandFull(ctx, primary, cmd, 0, false, false); err != nil {
		return &Error{Kind: ErrKindModemCommand, Cause: err, Message: fmt.Sprintf("define PDP context %d", cid)}
	}
	return nil
}

func isNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr *modem.CommandError
	if errors.As(err, &cmdErr) {
		return strings.HasPrefix(cmdErr.Response, at.TagCmeNotSupported)
	}
	return false
}

// resolveIPFamily substitutes m's default IP family when requested is
// none or the wildcard "any," per §4.3(a). An explicit IPFamilyIPv4v6
// request is a concrete dual-stack choice, not a wildcard, and passes
// through unchanged.
func resolveIPFamily(requested IPFamily, m Modem) IPFamily {
	if requested.IsWildcard() {
		return m.DefaultIPFamily()
	}
	return requested
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}
