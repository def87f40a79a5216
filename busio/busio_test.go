package busio

import "testing"

type stubDevice struct{ atn, clk, data bool }

func (s stubDevice) DrivesATN() bool  { return s.atn }
func (s stubDevice) DrivesCLK() bool  { return s.clk }
func (s stubDevice) DrivesDATA() bool { return s.data }

func TestLineIsLowWhenAnyDeviceDrivesIt(t *testing.T) {
	b := NewIEC(stubDevice{clk: true}, stubDevice{})
	if b.ClockLine() {
		t.Fatalf("expected CLK low when one device drives it")
	}
	if !b.DataLine() {
		t.Fatalf("expected DATA high when no device drives it")
	}
}

func TestAddDeviceMarksDirtyAndRecomputePicksUpNewState(t *testing.T) {
	b := NewIEC()
	if !b.AtnLine() {
		t.Fatalf("expected ATN released with no devices")
	}
	b.AddDevice(stubDevice{atn: true})
	b.Recompute()
	if b.AtnLine() {
		t.Fatalf("expected ATN low after adding a device driving it")
	}
}
