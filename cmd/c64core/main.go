// cmd/c64core is a headless cycle-stepper: it drives a machine.Machine for
// a fixed number of frames with no CPU core attached (full 6510 emulation
// is out of scope; see emucollab.CPU) and reports raster, bad-line and
// interrupt figures to a raw-mode status line, in the spirit of the
// teacher's own headless.go -mode FPS driver.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"github.com/bsvec/virtualc64/busclock"
	"github.com/bsvec/virtualc64/chips/cia"
	"github.com/bsvec/virtualc64/chips/vic"
	"github.com/bsvec/virtualc64/diagnostics"
	"github.com/bsvec/virtualc64/machine"
	"github.com/bsvec/virtualc64/prefs"
)

// loadedPrefs bundles the small set of settings this CLI persists between
// runs, mirroring the teacher's hardware.Preferences usage of prefs.Disk:
// register every value, Load quietly (a first run has no file yet), let
// flag defaults fall back to whatever was loaded.
type loadedPrefs struct {
	disk *prefs.Disk
	ntsc *prefs.Bool
	warp *prefs.Bool
}

func openPrefs(path string) (*loadedPrefs, error) {
	disk, err := prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}
	lp := &loadedPrefs{disk: disk, ntsc: &prefs.Bool{}, warp: &prefs.Bool{}}
	lp.warp.Set(true)
	if err := disk.Add("ntsc", lp.ntsc); err != nil {
		return nil, err
	}
	if err := disk.Add("warp", lp.warp); err != nil {
		return nil, err
	}
	if err := disk.Load(true); err != nil {
		return nil, err
	}
	return lp, nil
}

// defaultPrefsPath is where settings persist between runs; it is not itself
// a flag since reading it would require parsing flags before the rest of
// them are declared with prefs-derived defaults.
const defaultPrefsPath = "c64core.prefs.json"

func main() {
	lp, err := openPrefs(defaultPrefsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var (
		ntsc         = flag.Bool("ntsc", lp.ntsc.Get(), "use NTSC timing instead of PAL")
		frames       = flag.Int("frames", 60, "number of frames to run")
		warp         = flag.Bool("warp", lp.warp.Get(), "disable frame-rate pacing")
		stats        = flag.Bool("stats", false, "serve a live stats dashboard while running")
		statsAddr    = flag.String("stats-addr", "localhost:8777", "statsview runtime-chart address")
		countersAddr = flag.String("counters-addr", "localhost:8778", "emulation counters JSON address")
	)
	flag.Parse()

	lp.ntsc.Set(*ntsc)
	lp.warp.Set(*warp)
	if err := lp.disk.Save(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not persist prefs:", err)
	}

	if err := run(*ntsc, *frames, *warp, *stats, *statsAddr, *countersAddr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// nullCPU is a stand-in for the host 6510 core (out of scope per
// emucollab.CPU's doc comment): it always succeeds and never asserts an
// interrupt line itself, just enough to let the arena's VIC and CIA chips
// run for real over many frames.
type nullCPU struct {
	cycles uint64
	balow  bool
}

func (c *nullCPU) ExecuteCycle() bool  { c.cycles++; return true }
func (c *nullCPU) PullDownIRQLine(int) {}
func (c *nullCPU) ReleaseIRQLine(int)  {}
func (c *nullCPU) PullDownNMILine(int) {}
func (c *nullCPU) ReleaseNMILine(int)  {}
func (c *nullCPU) SetOverflow()        {}
func (c *nullCPU) SetBALow(low bool)   { c.balow = low }

func run(ntsc bool, frames int, warp, withStats bool, statsAddr, countersAddr string) error {
	standard := busclock.PAL
	if ntsc {
		standard = busclock.NTSC
	}

	cpu := &nullCPU{}
	m := machine.New(machine.Config{
		Standard:    standard,
		VICRevision: vic.PAL6569,
		CIARevision: cia.MOS6526,
		CPU:         cpu,
	})
	m.AttachMemory(machine.NewMemory())
	m.SetWarp(warp)

	var dash *diagnostics.Dashboard
	if withStats {
		dash = diagnostics.New(statsAddr, countersAddr)
		dash.Start()
		fmt.Printf("runtime charts: http://%s/debug/statsview\ncounters:       http://%s/diagnostics/counters\n", statsAddr, countersAddr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = dash.Stop(ctx)
		}()
	}

	quit := watchForQuitKey()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	var badLines, irqCycles uint64
	for f := 0; f < frames; f++ {
		select {
		case <-sigCh:
			fmt.Print("\r\n")
			return nil
		case <-quit:
			fmt.Print("\r\n")
			return nil
		default:
		}

		if !m.RunFrame() {
			return fmt.Errorf("CPU reported an error at frame %d", f)
		}
		if m.VIC().BadLine() {
			badLines++
		}
		if m.CIA1().InterruptAsserted() {
			irqCycles++
		}
		if dash != nil {
			dash.Counters.Cycles.Store(cpu.cycles)
			dash.Counters.BadLines.Store(badLines)
			dash.Counters.IRQs.Store(irqCycles)
		}
		fmt.Printf("\rframe %5d/%d  cycle %10d  raster %3d  bad-lines %4d  irq %4d",
			f+1, frames, cpu.cycles, m.VIC().RasterLine(), badLines, irqCycles)
	}
	fmt.Print("\r\n")
	return nil
}

// watchForQuitKey puts stdin into raw mode, when it is a terminal, so a
// single unbuffered 'q' or Ctrl-C keypress can stop the run early without
// waiting for Enter; it restores cooked mode once the returned channel is
// read or the process exits. A non-terminal stdin (piped input, a CI
// runner) gets a channel that never fires.
func watchForQuitKey() <-chan struct{} {
	quit := make(chan struct{})
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return quit
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return quit
	}
	go func() {
		defer term.Restore(fd, state)
		buf := make([]byte, 1)
		for {
			if _, err := os.Stdin.Read(buf); err != nil {
				return
			}
			if buf[0] == 'q' || buf[0] == 0x03 {
				close(quit)
				return
			}
		}
	}()
	return quit
}
