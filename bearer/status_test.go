package bearer_test

import (
	"context"
	"testing"

	"github.com/vantage-iot/bearer-core/at"
	"github.com/vantage-iot/bearer-core/bearer"
	"github.com/vantage-iot/bearer-core/modem"
	"github.com/vantage-iot/bearer-core/port"
)

func TestLoadConnectionStatus_Connected(t *testing.T) {
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
		t.Fatalf("Connect() error = %v", err)
	}

	m.Script[at.CmdPdpActiveRead] = modem.FakeResponse{Value: "+CGACT: 1,1"}
	status, err := b.LoadConnectionStatus(context.Background())
	if err != nil {
		t.Fatalf("LoadConnectionStatus() error = %v", err)
	}
	if status != bearer.ConnectionStatusConnected {
		t.Fatalf("status = %v, want connected", status)
	}
}

func TestLoadConnectionStatus_Disconnected(t *testing.T) {
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
		t.Fatalf("Connect() error = %v", err)
	}

	m.Script[at.CmdPdpActiveRead] = modem.FakeResponse{Value: "+CGACT: 1,0"}
	status, err := b.LoadConnectionStatus(context.Background())
	if err != nil {
		t.Fatalf("LoadConnectionStatus() error = %v", err)
	}
	if status != bearer.ConnectionStatusDisconnected {
		t.Fatalf("status = %v, want disconnected", status)
	}
}

func TestLoadConnectionStatus_NotConnectedYieldsError(t *testing.T) {
	m := modem.NewFakeModem()
	m.ThreeGPP = true
	b := bearer.NewBearer(m, apnConfig("internet"), bearer.FlowControlNone, testLogger())

	_, err := b.LoadConnectionStatus(context.Background())
	if err == nil {
		t.Fatalf("LoadConnectionStatus() error = nil, want error for unassigned cid")
	}
}

func TestReportConnectionStatus_DisconnectedResetsAndNotifies(t *testing.T) {
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
		t.Fatalf("Connect() error = %v", err)
	}

	var observed bearer.ConnectionStatus
	b.AddStatusObserver(func(s bearer.ConnectionStatus) { observed = s })

	b.ReportConnectionStatus(bearer.ConnectionStatusDisconnected)
	if b.ConnectionType() != bearer.ConnectionTypeNone {
		t.Fatalf("connection type = %v after disconnected report, want none", b.ConnectionType())
	}
	if observed != bearer.ConnectionStatusDisconnected {
		t.Fatalf("observer saw %v, want disconnected", observed)
	}
}
