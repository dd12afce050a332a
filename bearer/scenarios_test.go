package bearer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vantage-iot/bearer-core/at"
	"github.com/vantage-iot/bearer-core/bearer"
	"github.com/vantage-iot/bearer-core/modem"
	"github.com/vantage-iot/bearer-core/port"
)

// S5 — CDMA RM switch: the requested Rm protocol differs from the modem's
// current setting, so Connect must issue AT+CRM=<index> before it dials.
func TestScenario_CDMARMSwitch(t *testing.T) {
	m := modem.NewFakeModem()
	primary := port.NewFakePort("/dev/ttyUSB0", nil)
	m.Primary = primary
	m.Data = []port.Port{primary}
	m.CDMA = true
	m.Script = script(
		at.CmdRmProtocolRead, "+CRM: 1", // currently Relay
		at.CmdRmProtocolWrite+"2", "OK", // requested Packet(Network)
		at.DialCDMAHayes+"#777", "CONNECT",
	)

	cfg := bearer.NewConfigCDMA("", bearer.RMProtocolPacketNetwork)
	b := bearer.NewBearer(m, cfg, bearer.FlowControlHardware, testLogger())
	result, err := b.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if result.IPv4 == nil || result.IPv4.Method != bearer.IPMethodPPP {
		t.Fatalf("ipv4 = %+v, want PPP", result.IPv4)
	}

	var sawCrmWrite, sawDial, crmBeforeDial bool
	for _, cmd := range m.Commands {
		switch cmd {
		case at.CmdRmProtocolWrite + "2":
			sawCrmWrite = true
		case at.DialCDMAHayes + "#777":
			sawDial = true
			crmBeforeDial = sawCrmWrite
		}
	}
	if !sawCrmWrite {
		t.Fatalf("commands = %v, want AT+CRM=2 issued", m.Commands)
	}
	if !sawDial || !crmBeforeDial {
		t.Fatalf("commands = %v, want AT+CRM=2 to precede ATDT#777", m.Commands)
	}
}

// S6 — 3GPP disconnect with a separate data port: the dial ran on the data
// port, so the primary is free and AT+CGACT=0,<cid> is issued on it once,
// and the reversion sequence runs on the data port exactly once.
func TestScenario_3GPPDisconnectBothPortsFree(t *testing.T) {
	m := modem.NewFakeModem()
	primary := port.NewFakePort("/dev/ttyUSB0", nil)
	data := port.NewFakePort("/dev/ttyUSB1", nil)
	m.Primary = primary
	m.Data = []port.Port{data}
	m.ThreeGPP = true
	m.Script = script(
		"AT+CGDCONT?", `+CGDCONT: 2,"IP","internet","0.0.0.0",0,0`,
		at.DialPDPPrefix+"2#", "CONNECT",
		at.CmdPdpDeactivate+",2", "OK",
	)

	b := bearer.NewBearer(m, apnConfig("internet"), bearer.FlowControlNone, testLogger())
	if _, err := b.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := b.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}

	deactivations := 0
	for _, cmd := range m.Commands {
		if cmd == at.CmdPdpDeactivate+",2" {
			deactivations++
		}
	}
	if deactivations != 1 {
		t.Fatalf("deactivation count = %d, want exactly 1 (cgact_sent should suppress a second)", deactivations)
	}
	if data.ReopenCalls != 1 || data.FlashCalls != 1 || data.InitCalls != 1 {
		t.Fatalf("data port reversion calls = reopen:%d flash:%d init:%d, want 1 each",
			data.ReopenCalls, data.FlashCalls, data.InitCalls)
	}
}

// Universal invariant 5: disconnecting twice back to back yields one
// success and one not-connected error, and the second call touches
// nothing on the wire or the port.
func TestInvariant_DisconnectTwiceIsIdempotent(t *testing.T) {
	m := modem.NewFakeModem()
	primary := port.NewFakePort("/dev/ttyUSB0", nil)
	m.Primary = primary
	m.Data = []port.Port{primary}
	m.ThreeGPP = true
	m.Script = script(
		"AT+CGDCONT?", `+CGDCONT: 1,"IP","internet","0.0.0.0",0,0`,
		at.DialPDPPrefix+"1#", "CONNECT",
		at.CmdPdpDeactivate+",1", "OK",
	)

	b := bearer.NewBearer(m, apnConfig("internet"), bearer.FlowControlNone, testLogger())
	if _, err := b.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := b.Disconnect(context.Background()); err != nil {
		t.Fatalf("first Disconnect() error = %v", err)
	}

	reopensBefore := primary.ReopenCalls
	err := b.Disconnect(context.Background())
	var berr *bearer.Error
	if !errors.As(err, &berr) || berr.Kind != bearer.ErrKindNotConnected {
		t.Fatalf("second Disconnect() error = %v, want ErrKindNotConnected", err)
	}
	if primary.ReopenCalls != reopensBefore {
		t.Fatalf("second Disconnect() touched the port: reopen calls went from %d to %d", reopensBefore, primary.ReopenCalls)
	}
}

// Universal invariant 6: a context cancelled before the cid is selected
// must not reach the dial step.
func TestInvariant_CancellationBeforeDialProducesNoDial(t *testing.T) {
	m := modem.NewFakeModem()
	primary := port.NewFakePort("/dev/ttyUSB0", nil)
	m.Primary = primary
	m.Data = []port.Port{primary}
	m.ThreeGPP = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := bearer.NewBearer(m, apnConfig("internet"), bearer.FlowControlNone, testLogger())
	_, err := b.Connect(ctx)
	var berr *bearer.Error
	if !errors.As(err, &berr) || berr.Kind != bearer.ErrKindCancelled {
		t.Fatalf("error = %v, want ErrKindCancelled", err)
	}
	for _, cmd := range m.Commands {
		if cmd == at.DialPDPPrefix+"1#" {
			t.Fatalf("dial command issued despite pre-cancelled context: %v", m.Commands)
		}
	}
	if b.ConnectionType() != bearer.ConnectionTypeNone {
		t.Fatalf("connection type = %v after cancelled connect, want none", b.ConnectionType())
	}
}
