package busclock

import (
	"fmt"

	"github.com/bsvec/virtualc64/snapshot"
)

// Name, Tag, SerializeState and DeserializeState make Clock a
// snapshot.Component: the system cycle counter is the "ground truth of
// time" (spec §3) and must round-trip exactly (spec §8 testable property
// 12).
func (c *Clock) Name() string      { return "clock" }
func (c *Clock) Tag() snapshot.Tag { return snapshot.KeepOnReset }

func (c *Clock) SerializeState(w *snapshot.Writer) {
	w.WriteU64(c.Cycle)
	w.WriteU64(c.Frame)
	w.WriteU32(uint32(c.Line))
	w.WriteU32(uint32(c.LineCycle))
	w.WriteU8(uint8(c.geometry.Standard))
}

func (c *Clock) DeserializeState(r *snapshot.Reader) error {
	cycle, err := r.ReadU64()
	if err != nil {
		return fmt.Errorf("clock: %w", err)
	}
	frame, err := r.ReadU64()
	if err != nil {
		return fmt.Errorf("clock: %w", err)
	}
	line, err := r.ReadU32()
	if err != nil {
		return fmt.Errorf("clock: %w", err)
	}
	lineCycle, err := r.ReadU32()
	if err != nil {
		return fmt.Errorf("clock: %w", err)
	}
	standard, err := r.ReadU8()
	if err != nil {
		return fmt.Errorf("clock: %w", err)
	}

	c.Cycle = cycle
	c.Frame = frame
	c.Line = int(line)
	c.LineCycle = int(lineCycle)
	c.geometry = geometries[Standard(standard)]
	return nil
}
