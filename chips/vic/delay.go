package vic

// ringU16 is a fixed-depth shift ring of uint16 values, the concrete shape
// behind spec §3's `baLine: TimeDelayed<u16,4>` — a ring of the last 4
// values, queried "at offset 3" to mean "the value that was pushed 3 ticks
// ago" (used to test "BA pulled down for >=3 cycles").
type ringU16 struct {
	values [4]uint16
}

func (r *ringU16) push(v uint16) {
	copy(r.values[1:], r.values[:3])
	r.values[0] = v
}

// at returns the value pushed `offset` ticks ago (0 = this tick).
func (r *ringU16) at(offset int) uint16 { return r.values[offset] }

// ringU32 is the concrete shape behind spec §3's
// `gAccessResult: TimeDelayed<u32,3>`.
type ringU32 struct {
	values [3]uint32
}

func (r *ringU32) push(v uint32) {
	copy(r.values[1:], r.values[:2])
	r.values[0] = v
}

func (r *ringU32) at(offset int) uint32 { return r.values[offset] }

// delayedBool is a one-cycle-delayed boolean, the current/delayed pair
// idiom spec §3 describes for the frame flip-flops ("each with current and
// delayed copy") and §4.3's register delay masks ("selected fields
// propagate to `delayed` one cycle later").
type delayedBool struct {
	current, delayed bool
}

func (d *delayedBool) set(v bool)  { d.current = v }
func (d *delayedBool) advance()    { d.delayed = d.current }
func (d *delayedBool) get() bool   { return d.delayed }
