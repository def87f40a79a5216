package machine

import (
	"fmt"

	"github.com/bsvec/virtualc64/snapshot"
)

// Name, Tag, SerializeState and DeserializeState make Memory a
// snapshot.Component: RAM, color RAM, and the processor-port latches are
// KeepOnReset state (spec §4.7, §8 testable property 12); ROM images are
// not captured since the host reinstalls the same image bytes it loaded
// originally (spec's Non-goals place ROM provenance out of scope).
func (m *Memory) Name() string      { return "memory" }
func (m *Memory) Tag() snapshot.Tag { return snapshot.KeepOnReset }

func (m *Memory) SerializeState(w *snapshot.Writer) {
	w.WriteBytes(m.ram[:])
	w.WriteBytes(m.colorRAM[:])
	w.WriteU8(m.ddr)
	w.WriteU8(m.port)
	w.WriteU16(m.bank)
}

func (m *Memory) DeserializeState(r *snapshot.Reader) error {
	ram, err := r.ReadBytes()
	if err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if len(ram) != len(m.ram) {
		return fmt.Errorf("memory: ram size mismatch (%d != %d)", len(ram), len(m.ram))
	}
	copy(m.ram[:], ram)

	colorRAM, err := r.ReadBytes()
	if err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if len(colorRAM) != len(m.colorRAM) {
		return fmt.Errorf("memory: color ram size mismatch (%d != %d)", len(colorRAM), len(m.colorRAM))
	}
	copy(m.colorRAM[:], colorRAM)

	if m.ddr, err = r.ReadU8(); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if m.port, err = r.ReadU8(); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if m.bank, err = r.ReadU16(); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	return nil
}
