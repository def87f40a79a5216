// Package busio implements the three-line IEC serial bus (ATN, CLK, DATA)
// connecting the host (CIA2) to one or more VC1541 drives (VIA1). Grounded
// structurally on the teacher's ChipBus dirty-write idiom (bus.ChipBus),
// the closest match in the pack being tia.ReadMemory()'s "has something
// changed, recompute lazily" shape (spec §4.6, SPEC_FULL.md §4.6).
package busio

// Device is one participant's view of the bus: it reports what it is
// currently driving (pulling low), since IEC lines are open-collector and
// the computed line value is the AND of every device's output.
type Device interface {
	DrivesATN() bool
	DrivesCLK() bool
	DrivesDATA() bool
}

// IEC is the shared bus state. Each side (the host's CIA2 and each
// attached drive's VIA1) calls MarkDirty when its own output pins change;
// the actual AND-of-all-outputs recompute is deferred to the next phi1
// (Recompute), matching spec §4.6's "dirty flag ... lazy recomputation in
// phi1 of the next cycle to break a cyclic update".
type IEC struct {
	devices []Device

	atn, clk, data bool // computed (AND of all outputs), true = line high/released
	dirty          bool
}

// NewIEC builds a bus over the given participants (host CIA2 adapter first,
// then one entry per attached drive's VIA1 adapter).
func NewIEC(devices ...Device) *IEC {
	b := &IEC{devices: devices}
	b.Recompute()
	return b
}

// MarkDirty flags the bus for recomputation on the next phi1, per spec
// §4.6. Any device's Poke handler calls this after changing its output
// pins.
func (b *IEC) MarkDirty() { b.dirty = true }

// Recompute is called once per phi1 (spec §4.1) if the dirty flag is set.
func (b *IEC) Recompute() {
	atn, clk, data := true, true, true
	for _, d := range b.devices {
		if d.DrivesATN() {
			atn = false
		}
		if d.DrivesCLK() {
			clk = false
		}
		if d.DrivesDATA() {
			data = false
		}
	}
	b.atn, b.clk, b.data = atn, clk, data
	b.dirty = false
}

// ClockLine, DataLine, AtnLine report the bus's computed lines. true means
// the line is released (high); false means at least one device is pulling
// it low.
func (b *IEC) ClockLine() bool { return b.clk }
func (b *IEC) DataLine() bool  { return b.data }
func (b *IEC) AtnLine() bool   { return b.atn }

// AddDevice attaches a drive (or the host) to the bus, e.g. when a drive is
// plugged in after construction.
func (b *IEC) AddDevice(d Device) {
	b.devices = append(b.devices, d)
	b.dirty = true
}
