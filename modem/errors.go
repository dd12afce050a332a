package modem

import "errors"

var (
	// ErrNilContext describes a nil context passed to a function that
	// requires a valid context. No function in this module returns it.
	ErrNilContext = errors.New("context is nil")

	errUnsupportedIPFamily = errors.New("modem: unsupported IP family")

	// ErrNoPrimaryPort describes a modem constructed without a primary AT
	// port. No function in this module returns it; New reports that case
	// as ErrNoPrimaryPortConfigured.
	ErrNoPrimaryPort = errors.New("modem: no primary AT port configured")

	// ErrNoDataPort describes the case of no AT or network port being
	// available as a connect pipeline's data port. No function in this
	// module returns it.
	ErrNoDataPort = errors.New("modem: no data port available")

	// ErrNoControlPort describes the case of no AT port being available for
	// the +CGACT? status query. No function in this module returns it; the
	// bearer's status monitor reports that case as its own PortUnavailable
	// error.
	ErrNoControlPort = errors.New("modem: no control port available for status query")
)

// CommandError wraps a failed AT command with the command text and the raw
// modem response line that failed it, so callers can inspect the original
// wire text without parsing Error().
type CommandError struct {
	Command  string
	Response string
}

func (e *CommandError) Error() string {
	return "modem: command " + e.Command + " failed: " + e.Response
}

// NotSupportedError marks an AT query the modem declared unsupported
// (e.g. a CME error "operation not supported" answering +CGDCONT?).
type NotSupportedError struct {
	Command string
}

func (e *NotSupportedError) Error() string {
	return "modem: " + e.Command + " not supported by modem"
}
