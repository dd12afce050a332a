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

func TestConnect_3GPP_Success(t *testing.T) {
	m := modem.NewFakeModem()
	primary := port.NewFakePort("/dev/ttyUSB0", nil)
	m.Primary = primary
	m.Data = []port.Port{primary}
	m.ThreeGPP = true
	m.Script = script(
		"AT+CGDCONT?", `+CGDCONT: 1,"IP","internet","0.0.0.0",0,0`,
		at.DialPDPPrefix+"1#", "CONNECT",
	)

	b := bearer.NewBearer(m, apnConfig("internet"), bearer.FlowControlNone, testLogger())
	result, err := b.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if result.DataPort != primary {
		t.Fatalf("data port = %v, want primary", result.DataPort)
	}
	if b.ConnectionType() != bearer.ConnectionType3GPP {
		t.Fatalf("connection type = %v, want 3gpp", b.ConnectionType())
	}
	if b.GetCid() != 1 {
		t.Fatalf("cid = %d, want 1", b.GetCid())
	}
	if !primary.GetConnected() {
		t.Fatalf("primary port not marked connected")
	}
}

func TestConnect_3GPP_DefinesNewContextWhenNoneReusable(t *testing.T) {
	m := modem.NewFakeModem()
	primary := port.NewFakePort("/dev/ttyUSB0", nil)
	m.Primary = primary
	m.Data = []port.Port{primary}
	m.ThreeGPP = true
	m.Script = script(
		"AT+CGDCONT?", "OK",
		"AT+CGDCONT=?", `+CGDCONT: (1-16),"IP",,,(0-2),(0-4)`,
		`AT+CGDCONT=1,"IP","internet"`, "OK",
		at.DialPDPPrefix+"1#", "CONNECT",
	)

	b := bearer.NewBearer(m, apnConfig("internet"), bearer.FlowControlNone, testLogger())
	if _, err := b.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if b.GetCid() != 1 {
		t.Fatalf("cid = %d, want 1", b.GetCid())
	}
}

func TestConnect_3GPP_DialFailureConsultsCEER(t *testing.T) {
	m := modem.NewFakeModem()
	primary := port.NewFakePort("/dev/ttyUSB0", nil)
	m.Primary = primary
	m.Data = []port.Port{primary}
	m.ThreeGPP = true
	m.Script = map[string]modem.FakeResponse{
		"AT+CGDCONT?": {Value: `+CGDCONT: 1,"IP","internet","0.0.0.0",0,0`},
		at.DialPDPPrefix + "1#": {Err: &modem.CommandError{Command: at.DialPDPPrefix + "1#", Response: "NO CARRIER"}},
		at.CmdExtendedError:     {Value: "+CEER: no service"},
	}

	b := bearer.NewBearer(m, apnConfig("internet"), bearer.FlowControlNone, testLogger())
	_, err := b.Connect(context.Background())
	if err == nil {
		t.Fatalf("Connect() error = nil, want failure")
	}
	var berr *bearer.Error
	if !errors.As(err, &berr) || berr.Kind != bearer.ErrKindModemCommand {
		t.Fatalf("error = %v, want ErrKindModemCommand", err)
	}
	if berr.Message != "no service" {
		t.Fatalf("message = %q, want +CEER text to be surfaced", berr.Message)
	}
	if b.ConnectionType() != bearer.ConnectionTypeNone {
		t.Fatalf("connection type = %v after failed connect, want none", b.ConnectionType())
	}
}

func TestConnect_AlreadyConnected(t *testing.T) {
	m := modem.NewFakeModem()
	primary := port.NewFakePort("/dev/ttyUSB0", nil)
	m.Primary = primary
	m.Data = []port.Port{primary}
	m.ThreeGPP = true
	m.Script = script(
		"AT+CGDCONT?", `+CGDCONT: 1,"IP","internet","0.0.0.0",0,0`,
		at.DialPDPPrefix+"1#", "CONNECT",
	)

	b := bearer.NewBearer(m, apnConfig("internet"), bearer.FlowControlNone, testLogger())
	if _, err := b.Connect(context.Background()); err != nil {
		t.Fatalf("first Connect() error = %v", err)
	}

	_, err := b.Connect(context.Background())
	var berr *bearer.Error
	if !errors.As(err, &berr) || berr.Kind != bearer.ErrKindAlreadyConnected {
		t.Fatalf("error = %v, want ErrKindAlreadyConnected", err)
	}
}

func TestConnect_CapabilityMismatch(t *testing.T) {
	m := modem.NewFakeModem()
	primary := port.NewFakePort("/dev/ttyUSB0", nil)
	m.Primary = primary
	m.CDMA = true // 3GPP-incapable

	b := bearer.NewBearer(m, apnConfig("internet"), bearer.FlowControlNone, testLogger())
	_, err := b.Connect(context.Background())
	var berr *bearer.Error
	if !errors.As(err, &berr) || berr.Kind != bearer.ErrKindInvalidArgs {
		t.Fatalf("error = %v, want ErrKindInvalidArgs", err)
	}
}

func TestConnect_CDMA_Success(t *testing.T) {
	m := modem.NewFakeModem()
	primary := port.NewFakePort("/dev/ttyUSB0", nil)
	m.Primary = primary
	m.Data = []port.Port{primary}
	m.CDMA = true
	m.Script = script(at.DialCDMAHayes+"#777", "CONNECT")

	b := bearer.NewBearer(m, cdmaConfig(), bearer.FlowControlNone, testLogger())
	result, err := b.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if result.IPv4 == nil || result.IPv4.Method != bearer.IPMethodPPP {
		t.Fatalf("ipv4 config = %+v, want PPP", result.IPv4)
	}
	if b.ConnectionType() != bearer.ConnectionTypeCDMA {
		t.Fatalf("connection type = %v, want cdma", b.ConnectionType())
	}
}

func TestConnect_PrimaryPortMissing(t *testing.T) {
	m := modem.NewFakeModem()
	m.ThreeGPP = true

	b := bearer.NewBearer(m, apnConfig("internet"), bearer.FlowControlNone, testLogger())
	_, err := b.Connect(context.Background())
	var berr *bearer.Error
	if !errors.As(err, &berr) || berr.Kind != bearer.ErrKindPortUnavailable {
		t.Fatalf("error = %v, want ErrKindPortUnavailable", err)
	}
}
