package vic

import "github.com/bsvec/virtualc64/cerr"

// Revision identifies a VIC-II chip variant. Dropped from the distilled
// spec but present throughout original_source/Emulator/VICII/VICII.h's
// VICConfig; each variant differs in cycles-per-line, lines-per-frame and
// the g-access address glitch behavior during illegal display modes.
type Revision int

const (
	PAL6569 Revision = iota
	PALR6569R3
	NTSC6567
	NTSC6567R56A
	PALDrean
)

func (r Revision) String() string {
	switch r {
	case PAL6569:
		return "PAL6569"
	case PALR6569R3:
		return "PALR6569R3"
	case NTSC6567:
		return "NTSC6567"
	case NTSC6567R56A:
		return "NTSC6567R56A"
	case PALDrean:
		return "PALDrean"
	default:
		return "unknown"
	}
}

func (r Revision) valid() bool {
	return r >= PAL6569 && r <= PALDrean
}

// isNTSC reports whether the revision uses the 65-cycle NTSC line geometry.
func (r Revision) isNTSC() bool {
	return r == NTSC6567 || r == NTSC6567R56A
}

// cyclesPerLine is 63 for PAL variants, 65 for NTSC (spec §3 "raster cycle
// (1 … 63 PAL / 65 NTSC)").
func (r Revision) cyclesPerLine() int {
	if r.isNTSC() {
		return 65
	}
	return 63
}

// rasterLines is the total number of raster lines in one frame.
func (r Revision) rasterLines() int {
	switch r {
	case NTSC6567:
		return 263
	case NTSC6567R56A:
		return 262
	default:
		return 312
	}
}

// usesOldGAccessGlitch selects between the two g-access address variants
// spec §4.3 calls out ("preserve the two variants gAccessAddr65x vs
// gAccessAddr85x"): the 6567R56A/6569 use the older (65x) glitch, the
// revised chips use the 85x behavior.
func (r Revision) usesOldGAccessGlitch() bool {
	return r == NTSC6567R56A || r == PAL6569
}

// Configure validates a requested revision change, rejecting unknown
// revisions per spec §7 "Invalid configuration ... rejected at configure,
// returns false, no state mutated".
func (v *VIC) Configure(rev Revision) error {
	if !rev.valid() {
		return cerr.New(cerr.InvalidConfiguration, "vic: unknown revision %d", rev)
	}
	v.revision = rev
	v.buildRasterTable()
	return nil
}

func (v *VIC) Revision() Revision { return v.revision }
