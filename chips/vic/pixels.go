package vic

// producePixels implements spec §4.3's per-cycle pixel pipeline (step
// 1..4): shift the graphics register, clock each active sprite's shift
// register, apply the border, then resolve collisions. Runs once per
// visible cycle (14..61), each call producing up to 8 pixels.
func (v *VIC) producePixels() {
	multicolor := v.mcm() && !v.bmm()
	canLoadThisCycle := v.lineCycle%2 == 0

	for i := 0; i < 8; i++ {
		bg := v.backgroundPixel(multicolor)

		var px pixelSources
		px.foregroundHere = bg.foreground

		color := bg.color
		for n := 7; n >= 0; n-- {
			s := &v.sprites[n]
			if !s.display {
				continue
			}
			bits, isMC := s.clockPixel(v.xExpansionBit(n), v.spriteMulticolorBit(n) && multicolor)
			if bits == 0 {
				continue
			}
			px.spriteBits |= 1 << n
			if !v.spriteDataPriorityBit(n) || !bg.foreground {
				color = v.spriteColor(n, bits, isMC)
			}
		}

		if v.borderActive() {
			color = uint32(v.reg.bc[0])
		}

		v.writePixel(color)
		v.updateCollisions(px)

		if i == 0 && canLoadThisCycle && v.displayState {
			v.gfx.canLoad = false
		}
		v.xCounter++
	}
}

type backgroundResult struct {
	color      uint32
	foreground bool
}

func (v *VIC) backgroundPixel(multicolor bool) backgroundResult {
	bits, isMC := v.gfx.shift(multicolor)
	switch {
	case v.ecm():
		idx := (v.gfx.latchedCharacter >> 6) & 0x3
		if bits != 0 {
			return backgroundResult{color: uint32(v.gfx.latchedColor), foreground: true}
		}
		return backgroundResult{color: uint32(v.reg.bc[idx])}
	case multicolor && isMC:
		switch bits {
		case 0:
			return backgroundResult{color: uint32(v.reg.bc[0])}
		case 1:
			return backgroundResult{color: uint32(v.reg.bc[1])}
		case 2:
			return backgroundResult{color: uint32(v.reg.bc[2])}
		default:
			return backgroundResult{color: uint32(v.gfx.latchedColor & 0x07), foreground: true}
		}
	default:
		if bits != 0 {
			return backgroundResult{color: uint32(v.gfx.latchedColor), foreground: true}
		}
		return backgroundResult{color: uint32(v.reg.bc[0])}
	}
}

func (v *VIC) spriteColor(n int, bits uint8, isMC bool) uint32 {
	if isMC {
		switch bits {
		case 1:
			return uint32(v.reg.mm0)
		case 2:
			return uint32(v.reg.spriteCol[n])
		case 3:
			return uint32(v.reg.mm1)
		}
		return 0
	}
	return uint32(v.reg.spriteCol[n])
}

func (v *VIC) writePixel(color uint32) {
	row := v.rasterLine
	if v.pixelBuffer == nil || row < 0 || row >= 284 {
		return
	}
	col := int(v.xCounter)
	if col < 0 || col >= 403 {
		return
	}
	v.pixelBuffer[row*403+col] = color
}
