package at

import (
	"fmt"
	"strconv"
	"strings"
)

// PdpContext is one entry of a "+CGDCONT?" read response: an already
// defined PDP context on the modem.
type PdpContext struct {
	CID     int
	PdpType string
	APN     string
}

// ParsePdpContextList parses the data lines of an "AT+CGDCONT?" response.
//
// Each line has the form:
//
//	+CGDCONT: <cid>,"<PDP_type>","<APN>","<addr>",<d_comp>,<h_comp>
//
// Trailing fields beyond APN are ignored; modems are inconsistent about
// how many they report.
func ParsePdpContextList(lines []string) []PdpContext {
	var out []PdpContext
	for _, line := range lines {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, TagCGDCONT)
		if !ok {
			continue
		}
		fields := splitCSV(rest)
		if len(fields) < 3 {
			continue
		}
		cid, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			continue
		}
		out = append(out, PdpContext{
			CID:     cid,
			PdpType: unquote(fields[1]),
			APN:     unquote(fields[2]),
		})
	}
	return out
}

// CidRange describes one "+CGDCONT=?" test-response alternative: the
// range of context identifiers the modem accepts for a given PDP type.
type CidRange struct {
	PdpType string
	MinCID  int
	MaxCID  int
}

// ParseCidRange parses the data lines of an "AT+CGDCONT=?" response.
//
// Each line has the form:
//
//	+CGDCONT: (<min_cid>-<max_cid>),"<PDP_type>",,,(...),(...)
//
// or occasionally a single enumerated value instead of a range.
func ParseCidRange(lines []string) []CidRange {
	var out []CidRange
	for _, line := range lines {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, TagCGDCONT)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		cidField, remainder, ok := cutParenGroup(rest)
		if !ok {
			continue
		}
		fields := splitCSV(remainder)
		if len(fields) < 1 {
			continue
		}
		minCID, maxCID, err := parseIntRange(cidField)
		if err != nil {
			continue
		}
		out = append(out, CidRange{
			PdpType: unquote(fields[0]),
			MinCID:  minCID,
			MaxCID:  maxCID,
		})
	}
	return out
}

// PdpActivation is one entry of a "+CGACT?" read response.
type PdpActivation struct {
	CID    int
	Active bool
}

// ParsePdpActivations parses the data lines of an "AT+CGACT?" response.
//
// Each line has the form:
//
//	+CGACT: <cid>,<state>
func ParsePdpActivations(lines []string) []PdpActivation {
	var out []PdpActivation
	for _, line := range lines {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, TagCGACT)
		if !ok {
			continue
		}
		fields := splitCSV(rest)
		if len(fields) < 2 {
			continue
		}
		cid, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			continue
		}
		state, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		out = append(out, PdpActivation{CID: cid, Active: state != 0})
	}
	return out
}

// ParseRmProtocolRange parses the data line of an "AT+CRM=?" test response:
//
//	+CRM: (<min>-<max>)
//
// returning the accepted index range.
func ParseRmProtocolRange(lines []string) (min, max int, err error) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, TagCRM)
		if !ok {
			continue
		}
		group, _, ok := cutParenGroup(strings.TrimSpace(rest))
		if !ok {
			return 0, 0, fmt.Errorf("at: malformed +CRM=? response %q", line)
		}
		return parseIntRange(group)
	}
	return 0, 0, fmt.Errorf("at: no +CRM line in response")
}

// ParseRmProtocolCurrent parses the data line of an "AT+CRM?" read response:
//
//	+CRM: <index>
func ParseRmProtocolCurrent(lines []string) (int, error) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, TagCRM)
		if !ok {
			continue
		}
		return strconv.Atoi(strings.TrimSpace(rest))
	}
	return 0, fmt.Errorf("at: no +CRM line in response")
}

// ParseExtendedError parses the data line of an "AT+CEER" response and
// returns the free-text reason for the most recent call-control failure.
//
//	+CEER: <report>
func ParseExtendedError(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, TagCEER); ok {
			return strings.TrimSpace(unquote(strings.TrimSpace(rest)))
		}
	}
	return ""
}

// APNEqual reports whether two APN strings identify the same access point
// for the purpose of reusing an already defined PDP context.
//
// Modems report the APN back with inconsistent case and sometimes a
// trailing dot or an appended MNC/MCC realm suffix
// (".mncXXX.mccYYY.gprs"); none of that should prevent matching a context
// the caller itself requested.
func APNEqual(a, b string) bool {
	return normalizeAPN(a) == normalizeAPN(b)
}

func normalizeAPN(apn string) string {
	apn = strings.ToLower(strings.TrimSpace(apn))
	apn = strings.TrimSuffix(apn, ".")
	if idx := strings.Index(apn, ".mnc"); idx >= 0 && strings.Contains(apn[idx:], ".gprs") {
		apn = apn[:idx]
	}
	return apn
}

// splitCSV splits a comma-separated AT response field list while treating
// commas inside double quotes as literal characters.
func splitCSV(s string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// cutParenGroup extracts the contents of a leading "(...)" group, returning
// the contents and the remainder of the string after a following comma.
func cutParenGroup(s string) (group, remainder string, ok bool) {
	if !strings.HasPrefix(s, "(") {
		return "", "", false
	}
	end := strings.Index(s, ")")
	if end < 0 {
		return "", "", false
	}
	group = s[1:end]
	remainder = strings.TrimPrefix(s[end+1:], ",")
	return group, remainder, true
}

// parseIntRange parses "<min>-<max>" or a single "<value>" (in which case
// min == max).
func parseIntRange(s string) (min, max int, err error) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "-"); idx > 0 {
		min, err = strconv.Atoi(strings.TrimSpace(s[:idx]))
		if err != nil {
			return 0, 0, err
		}
		max, err = strconv.Atoi(strings.TrimSpace(s[idx+1:]))
		if err != nil {
			return 0, 0, err
		}
		return min, max, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, err
	}
	return v, v, nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
