package cia

import "github.com/bsvec/virtualc64/cerr"

// Revision selects which silicon revision a CIA instance models. Named in
// VirtualC64's CIAConfig but dropped from the distilled spec; reinstated
// here since the two revisions differ in one observable way (the 8521's
// TOD divider runs from a fixed internal oscillator and ignores the CRA
// bit 7 50/60Hz selector).
type Revision int

const (
	MOS6526 Revision = iota
	MOS8521
)

func (r Revision) String() string {
	switch r {
	case MOS6526:
		return "MOS6526"
	case MOS8521:
		return "MOS8521"
	default:
		return "?"
	}
}

func (r Revision) valid() bool {
	return r == MOS6526 || r == MOS8521
}

// Configure applies a revision to an already-constructed CIA, rejecting an
// unrecognized value (spec §7 "reject invalid configuration").
func (c *CIA) Configure(rev Revision) error {
	if !rev.valid() {
		return cerr.New(cerr.InvalidConfiguration, "cia: unknown revision %d", rev)
	}
	c.revision = rev
	return nil
}

// Revision reports the CIA's configured silicon revision.
func (c *CIA) Revision() Revision { return c.revision }
