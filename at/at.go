// Package at provides parsing and tokenization utilities for AT command protocol
// communication with GSM/CDMA modems.
//
// AT commands are the standard interface for controlling cellular modems,
// originally developed for Hayes-compatible modems. This package handles the
// text-based request-response protocol, including proper line termination,
// response classification, and the 3GPP TS 27.007 command subset used to
// bring up and tear down a packet-data session: PDP context management
// (+CGDCONT, +CGACT), RM protocol selection (+CRM), and extended error
// reporting (+CEER).
//
// # Protocol Overview
//
// AT commands follow a structured pattern:
//  1. Commands are sent with CRLF termination
//  2. Responses arrive as CRLF-terminated lines
//  3. Commands conclude with final result codes (OK, ERROR, etc.)
//  4. Intermediate data may be returned before the final result
//  5. Unsolicited Result Codes (URCs) can arrive asynchronously
//
// # No Echo Mode
//
// This package assumes "No Echo" mode (ATE0) where commands are not echoed
// back by the modem. The Splitter function is specifically designed for this
// mode and would require modification for echo mode operation.
//
// # Usage Example
//
//	// Tokenize modem responses
//	scanner := bufio.NewScanner(modemReader)
//	scanner.Split(at.Splitter)
//
//	for scanner.Scan() {
//		line := scanner.Text()
//		responseType := at.Classify(line)
//
//		switch responseType {
//		case at.TypeFinal:
//			// Command completed
//		case at.TypeData:
//			// Process intermediate data
//		case at.TypeURC:
//			// Handle asynchronous notification
//		}
//	}
//
// # Key Components
//
//   - Constants: Standard AT command strings and response codes
//   - Splitter: bufio.SplitFunc for tokenizing modem output
//   - Classify: Response type classification for proper handling
//   - ResponseType: Enum for different kinds of modem responses
package at

const (
	// Terminal Control
	CRLF = "\r\n"

	// Response Codes
	OK         = "OK"
	ERROR      = "ERROR"
	NoCarrier  = "NO CARRIER"
	NoDialtone = "NO DIALTONE"
	Busy       = "BUSY"
	NoAnswer   = "NO ANSWER"
	CmeError   = "+CME ERROR:"
	CmsError   = "+CMS ERROR:"

	// Commands
	CmdEchoOff       = "ATE0"
	CmdVerboseErrors = "AT+CMEE=2"

	// URCs (Unsolicited Result Codes)
	UrcPdpActivation = "+CGEV:"

	// 3GPP packet-data commands (3GPP TS 27.007)
	CmdPdpContextRead  = "AT+CGDCONT?"
	CmdPdpContextTest  = "AT+CGDCONT=?"
	CmdPdpContextWrite = "AT+CGDCONT=" // caller appends "<cid>,\"<type>\",\"<apn>\""
	CmdPdpActiveRead   = "AT+CGACT?"
	CmdPdpDeactivate   = "AT+CGACT=0" // caller appends ",<cid>" when cid is known
	CmdExtendedError   = "AT+CEER"
	DialPDPPrefix      = "ATD*99***" // caller appends "<cid>#"

	// 3GPP2 (CDMA) Rm interface protocol commands
	CmdRmProtocolRead  = "AT+CRM?"
	CmdRmProtocolTest  = "AT+CRM=?"
	CmdRmProtocolWrite = "AT+CRM=" // caller appends "<index>"
	DialCDMAHayes      = "ATDT"    // caller appends a dial number, e.g. "#777"

	// Response prefixes consumed by the parsers in parse.go
	TagCGDCONT         = "+CGDCONT:"
	TagCRM             = "+CRM:"
	TagCGACT           = "+CGACT:"
	TagCEER            = "+CEER:"
	TagCmeNotSupported = "+CME ERROR: 4" // operation not supported (3GPP TS 27.007 Annex G)
)

// ResponseType classifies the nature of AT command modem responses for parsing
// and flow control purposes.
//
// AT command communication follows a structured protocol where different response
// types require different handling strategies. This classification enables the
// command processor to determine appropriate next actions, such as continuing
// to read more data, processing intermediate results, or concluding command
// execution.
type ResponseType int

const (
	// TypeFinal indicates command completion responses that terminate AT command
	// execution. These responses signal that no additional output should be
	// expected for the current command.
	//
	// Examples: "OK", "ERROR", "+CME ERROR: 30", "NO CARRIER"
	TypeFinal ResponseType = iota

	// TypeURC represents Unsolicited Result Codes - asynchronous notifications
	// from the modem that are not direct responses to AT commands. These can
	// arrive at any time and should be processed separately from command flows.
	//
	// Example: "+CGEV: ME DEACT" (network-initiated PDP context deactivation)
	TypeURC

	// TypeData represents intermediate command output that provides requested
	// information but does not indicate command completion. Commands may return
	// multiple TypeData responses followed by a TypeFinal response.
	//
	// Example: "+CGDCONT: 1,\"IP\",\"internet\",\"\",0,0"
	TypeData
)
