package vic

// frameFlipFlop is the current/delayed pair spec §3 describes for the main
// and vertical border flip-flops: "writes to FFs are always delayed by one
// cycle ... except when the comparison fires on the same cycle as the
// write" (spec §4.3), the same idiom as tia/video/delaycounter.go's
// scheduled-value-takes-effect-next-tick shape.
type frameFlipFlop struct {
	current, delayed bool
}

func (f *frameFlipFlop) set(v bool) {
	f.current = v
	f.delayed = v // a comparison firing this cycle takes effect immediately
}

func (f *frameFlipFlop) schedule(v bool) {
	f.current = v
}

func (f *frameFlipFlop) advance() {
	f.delayed = f.current
}

// Canonical border comparison constants, spec §4.3 "the canonical border
// comparison constants {24,31},{344,335},{51,55},{251,247}".
const (
	leftComparisonCSEL0  = 31
	leftComparisonCSEL1  = 24
	rightComparisonCSEL0 = 335
	rightComparisonCSEL1 = 344
	upperComparisonRSEL0 = 55
	upperComparisonRSEL1 = 51
	lowerComparisonRSEL0 = 247
	lowerComparisonRSEL1 = 251
)

func (v *VIC) leftComparisonValue() uint16 {
	if v.csel() {
		return leftComparisonCSEL1
	}
	return leftComparisonCSEL0
}

func (v *VIC) rightComparisonValue() uint16 {
	if v.csel() {
		return rightComparisonCSEL1
	}
	return rightComparisonCSEL0
}

func (v *VIC) upperComparisonValue() int {
	if v.rsel() {
		return upperComparisonRSEL1
	}
	return upperComparisonRSEL0
}

func (v *VIC) lowerComparisonValue() int {
	if v.rsel() {
		return lowerComparisonRSEL1
	}
	return lowerComparisonRSEL0
}

// checkHorizontalBorder is invoked once per cycle at the X position where
// the left/right comparisons land (spec §4.3 "Main FF: set when X reaches
// rightComparisonValue(); reset at leftComparisonValue() iff vertical FF is
// cleared").
func (v *VIC) checkHorizontalBorder() {
	if v.xCounter == v.rightComparisonValue() {
		v.mainFF.schedule(true)
	}
	if v.xCounter == v.leftComparisonValue() && !v.verticalFF.current {
		v.mainFF.schedule(false)
	}
}

// checkVerticalBorder runs on the last cycle of each raster line (spec
// §4.3 "Vertical FF: set at lowerComparisonValue() (checked in the last
// cycle of the raster line); cleared at upperComparisonValue() iff DEN=1
// (also last cycle)").
func (v *VIC) checkVerticalBorder() {
	if v.rasterLine == v.lowerComparisonValue() {
		v.verticalFF.schedule(true)
	} else if v.rasterLine == v.upperComparisonValue() && v.den() {
		v.verticalFF.schedule(false)
	}
}

// borderActive reports whether the pixel currently being produced should be
// replaced by the frame (border) color.
func (v *VIC) borderActive() bool {
	return v.mainFF.delayed
}
