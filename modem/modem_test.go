package modem

import (
	"testing"

	"github.com/vantage-iot/bearer-core/port"
)

func testModem(t *testing.T, cfg Config) *Modem {
	t.Helper()
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestNew_RequiresPrimaryPort(t *testing.T) {
	_, err := New(Config{Is3GPPCapable: true})
	if err == nil {
		t.Fatal("expected error when no primary port is configured")
	}
}

func TestNew_RequiresCapability(t *testing.T) {
	primary := port.NewFakePort("ttyAT0", nil)
	_, err := New(Config{PrimaryPort: primary})
	if err == nil {
		t.Fatal("expected error when neither 3GPP nor CDMA capability is set")
	}
}

func TestCapabilityPredicates(t *testing.T) {
	primary := port.NewFakePort("ttyAT0", nil)

	m := testModem(t, Config{PrimaryPort: primary, Is3GPPCapable: true})
	if !m.Is3GPP() || m.IsCDMA() {
		t.Fatal("expected 3GPP-only capability")
	}
	if !m.Is3GPPOnly() || m.IsCDMAOnly() {
		t.Fatal("expected Is3GPPOnly true, IsCDMAOnly false")
	}

	both := testModem(t, Config{PrimaryPort: primary, Is3GPPCapable: true, IsCDMACapable: true})
	if both.Is3GPPOnly() || both.IsCDMAOnly() {
		t.Fatal("expected neither -Only predicate true for a dual-mode modem")
	}
}

func TestPeekPorts(t *testing.T) {
	primary := port.NewFakePort("ttyAT0", nil)
	secondary := port.NewFakePort("ttyAT1", nil)
	data := port.NewFakePort("ttyUSB0", nil)

	m := testModem(t, Config{
		PrimaryPort:   primary,
		SecondaryPort: secondary,
		DataPorts:     []port.Port{data, primary},
		Is3GPPCapable: true,
	})

	if m.PeekPortPrimary() != primary {
		t.Error("expected PeekPortPrimary to return the configured primary port")
	}
	if m.PeekPortSecondary() != secondary {
		t.Error("expected PeekPortSecondary to return the configured secondary port")
	}
	if m.PeekBestATPort() != secondary {
		t.Error("expected PeekBestATPort to prefer the secondary port")
	}
	if m.PeekBestDataPort(port.PortKindPrimary) != data {
		t.Error("expected PeekBestDataPort to return the first configured data port")
	}
}

func TestPeekBestDataPort_FallsBackToPrimary(t *testing.T) {
	primary := port.NewFakePort("ttyAT0", nil)
	m := testModem(t, Config{PrimaryPort: primary, Is3GPPCapable: true})
	if m.PeekBestDataPort(port.PortKindPrimary) != primary {
		t.Error("expected PeekBestDataPort to fall back to the primary port")
	}
}

func TestDefaultIPFamily(t *testing.T) {
	primary := port.NewFakePort("ttyAT0", nil)
	m := testModem(t, Config{PrimaryPort: primary, Is3GPPCapable: true, DefaultIPFamily: IPFamilyIPv6})
	if m.DefaultIPFamily() != IPFamilyIPv6 {
		t.Errorf("expected configured default IP family to be preserved, got %v", m.DefaultIPFamily())
	}
}
