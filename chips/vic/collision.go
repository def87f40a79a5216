package vic

// pixelSources is the per-pixel "who colored this" bitmap spec §3 calls
// `pixelSource[8]`: bits 0-7 mark which sprite(s) drew here, used by
// updateCollisions to detect sprite-sprite and sprite-background overlap.
type pixelSources struct {
	spriteBits     uint8
	foregroundHere bool
}

// updateCollisions implements spec §4.3 step 4: "union the active sources
// bitmap into spriteSpriteCollision (on >=2 sprite bits) and
// spriteBackgroundCollision (on sprite bit + foreground bit). Set IRQ
// source bits; on first transition 0->non-zero, also latch irr and
// possibly raise IRQ."
func (v *VIC) updateCollisions(px pixelSources) {
	if px.spriteBits == 0 {
		return
	}

	spriteBitsCount := 0
	for b := px.spriteBits; b != 0; b &= b - 1 {
		spriteBitsCount++
	}

	if spriteBitsCount >= 2 {
		before := v.spriteSpriteCollision
		v.spriteSpriteCollision |= px.spriteBits
		if before == 0 && v.spriteSpriteCollision != 0 {
			v.irr |= 0x04
			v.syncIRQLine()
		}
	}

	if px.foregroundHere {
		before := v.spriteBackgroundCollision
		v.spriteBackgroundCollision |= px.spriteBits
		if before == 0 && v.spriteBackgroundCollision != 0 {
			v.irr |= 0x02
			v.syncIRQLine()
		}
	}
}

// checkRasterIRQ implements the `irr|1` term of spec §4.3's IRQ
// aggregation formula, latched once per line at the cycle the raster
// counter matches the compare value.
func (v *VIC) checkRasterIRQ() {
	if uint16(v.yCounter) == v.rasterCompareValue() {
		if v.irr&0x01 == 0 {
			v.irr |= 0x01
			v.syncIRQLine()
		}
	}
}

// checkLightPen latches $D013/$D014 and irr bit 3 on a falling edge,
// gated to once per frame by lightPenIRQOccurredThisFrame (SPEC_FULL.md
// §4.3 "lightpen support").
func (v *VIC) checkLightPen() {
	if v.lightPen == nil || v.lightPenIRQOccurredThisFrame {
		return
	}
	x, y, ok := v.lightPen.Triggered()
	if !ok {
		return
	}
	v.reg.lpx = uint8(x / 2)
	v.reg.lpy = uint8(y)
	v.lightPenIRQOccurredThisFrame = true
	v.irr |= 0x08
	v.syncIRQLine()
}
