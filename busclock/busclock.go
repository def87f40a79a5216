// Package busclock tracks the system cycle counter and raster position
// shared by every chip in the arena. It is the two-level clock (frame/line,
// cycle-within-line) structurally modeled on the teacher's
// hardware/tia/tiaclock and hardware/tia/colorclock pairing: one small
// counter that wraps at a per-standard boundary, and a second counter that
// increments on wrap.
package busclock

// Standard identifies the video standard driving raster geometry and clock
// frequency.
type Standard int

const (
	PAL Standard = iota
	NTSC
)

// Geometry describes the raster dimensions and clock frequency for one
// video standard, per spec §3/§8 invariant 1 and §6 "Clock frequencies".
type Geometry struct {
	Standard          Standard
	CyclesPerLine     int     // 63 PAL, 65 NTSC
	RasterLines       int     // 312 PAL, 262 NTSC
	ClockHz           float64 // 985248 PAL, 1022727 NTSC
	RefreshHz         float64 // 50.125 PAL, 59.826 NTSC
	FirstVisibleLine  int
	LastVisibleLine   int
}

var geometries = map[Standard]Geometry{
	PAL: {
		Standard:      PAL,
		CyclesPerLine: 63,
		RasterLines:   312,
		ClockHz:       985248,
		RefreshHz:     50.125,
	},
	NTSC: {
		Standard:      NTSC,
		CyclesPerLine: 65,
		RasterLines:   262,
		ClockHz:       1022727,
		RefreshHz:     59.826,
	},
}

// GeometryFor returns the fixed raster geometry for a standard.
func GeometryFor(s Standard) Geometry {
	return geometries[s]
}

// CyclesPerFrame is cyclesPerRasterline * rasterlinesPerFrame, the quantity
// spec §8 testable property 1 requires to be exact.
func (g Geometry) CyclesPerFrame() int {
	return g.CyclesPerLine * g.RasterLines
}

// Clock is the monotonically increasing system cycle counter plus the
// derived raster position. Advance is called exactly once per system cycle
// by the bus arbiter.
type Clock struct {
	geometry Geometry

	// Cycle is the ground-truth monotonic cycle count (spec §3).
	Cycle uint64

	// Frame is the current frame number, incremented at the raster
	// boundary.
	Frame uint64

	// Line is the current raster line, 0..RasterLines-1.
	Line int

	// LineCycle is the current cycle within the raster line, 1-based to
	// match spec §3's "raster cycle (1 … 63 PAL / 65 NTSC)".
	LineCycle int
}

// NewClock creates a Clock for the given video standard, positioned at the
// start of line 0, cycle 1.
func NewClock(s Standard) *Clock {
	return &Clock{geometry: geometries[s], LineCycle: 1}
}

// Standard returns the video standard the clock was configured for.
func (c *Clock) Standard() Standard { return c.geometry.Standard }

// Geometry returns the raster geometry in effect.
func (c *Clock) Geometry() Geometry { return c.geometry }

// Reconfigure swaps the video standard. Used only at configure() time,
// never mid-frame; callers must Reset the clock afterwards.
func (c *Clock) Reconfigure(s Standard) {
	c.geometry = geometries[s]
}

// Reset returns the clock to line 0, cycle 1, keeping the frame counter
// (frame count is KEEP_ON_RESET in the snapshot sense - a reset is a warm
// restart, not a new session).
func (c *Clock) Reset() {
	c.Line = 0
	c.LineCycle = 1
}

// AdvanceCycle moves the clock forward one system cycle, wrapping the
// raster-cycle counter into the line counter and the line counter into the
// frame counter as needed. It reports whether this cycle was the last cycle
// of the frame (so the arbiter knows to run frame-boundary housekeeping).
func (c *Clock) AdvanceCycle() (endOfFrame bool) {
	c.Cycle++
	c.LineCycle++
	if c.LineCycle > c.geometry.CyclesPerLine {
		c.LineCycle = 1
		c.Line++
		if c.Line >= c.geometry.RasterLines {
			c.Line = 0
			c.Frame++
			return true
		}
	}
	return false
}
