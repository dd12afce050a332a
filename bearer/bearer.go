package bearer

import (
	"log/slog"
	"sync"
)

// Bearer is a session handle for one cellular packet-data connection. Its
// session fields are mutated only by the connect, disconnect and reset
// paths; callers interact with it exclusively through Connect, Disconnect,
// LoadConnectionStatus and the read-only accessors below.
type Bearer struct {
	mu   sync.Mutex // guards the fields below
	opMu sync.Mutex // serializes Connect/Disconnect for this bearer

	config Config
	modem  Modem // weak reference; Bearer never closes it

	dataPort       Port
	connectionType ConnectionType
	cid            int
	flowControl    FlowControl

	policy    Policy
	logger    *slog.Logger
	observers []StatusObserver

	initDone bool
}

// NewBearer constructs a Bearer bound to modem with the given session
// config. The bearer is not usable until Init succeeds.
func NewBearer(m Modem, config Config, flowControl FlowControl, logger *slog.Logger) *Bearer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bearer{
		config:      config,
		modem:       m,
		flowControl: flowControl,
		policy:      defaultPolicy(),
		logger:      logger.With("apn", config.apn()),
	}
}

// SetPolicy replaces the bearer's extension-point table. It must be called
// before the bearer's first Connect; it is not safe to call concurrently
// with an in-flight Connect or Disconnect.
func (b *Bearer) SetPolicy(p Policy) { b.policy = p }

// GetCid returns the bearer's current 3GPP context id, or 0 if none is
// assigned.
func (b *Bearer) GetCid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cid
}

// FlowControl returns the flow-control policy the bearer was constructed
// with. It is immutable after construction.
func (b *Bearer) FlowControl() FlowControl { return b.flowControl }

// ConnectionType reports which session family, if any, the bearer
// currently holds.
func (b *Bearer) ConnectionType() ConnectionType {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connectionType
}

// DataPort returns the bearer's currently bound data port, or nil if not
// connected.
func (b *Bearer) DataPort() Port {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dataPort
}

func (b *Bearer) isConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dataPort != nil
}

// reset is the sole cleanup path: it clears the data port (marking it
// disconnected), the connection type, and the cid. Every disconnect
// success, every reported-disconnected status, and disposal goes through
// it.
func (b *Bearer) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.dataPort != nil {
		b.dataPort.SetConnected(false)
	}
	b.dataPort = nil
	b.connectionType = ConnectionTypeNone
	b.cid = 0
}

func (b *Bearer) setConnected(p Port, ct ConnectionType, cid int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dataPort = p
	b.connectionType = ct
	b.cid = cid
}

func (b *Bearer) setCid(cid int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cid = cid
}

// Close disposes of the bearer's session state. It does not issue any AT
// traffic — callers that want a clean disconnect on the wire must call
// Disconnect first.
func (b *Bearer) Close() {
	b.reset()
}
