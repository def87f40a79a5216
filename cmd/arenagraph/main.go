// cmd/arenagraph renders the machine.Machine arena's component graph as a
// Graphviz DOT file, using bradleyjkemp/memviz the way the teacher's own
// debugger/reflection tooling inspects live emulator state: a snapshot of
// what owns what, useful when checking that the "arena+indices" design (no
// chip holds a back-pointer to a sibling or to Machine itself) actually
// holds for a given build.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/bsvec/virtualc64/busclock"
	"github.com/bsvec/virtualc64/chips/cia"
	"github.com/bsvec/virtualc64/chips/vic"
	"github.com/bsvec/virtualc64/machine"
)

// nullCPU is enough to construct a Machine for graphing purposes; no CPU
// emulation is needed to inspect the arena's shape.
type nullCPU struct{}

func (nullCPU) ExecuteCycle() bool  { return true }
func (nullCPU) PullDownIRQLine(int) {}
func (nullCPU) ReleaseIRQLine(int)  {}
func (nullCPU) PullDownNMILine(int) {}
func (nullCPU) ReleaseNMILine(int)  {}
func (nullCPU) SetOverflow()        {}
func (nullCPU) SetBALow(bool)       {}

func main() {
	out := flag.String("o", "", "output .dot path (default: stdout)")
	withDrive := flag.Bool("drive", true, "attach a VC1541 at device 8 before graphing")
	flag.Parse()

	m := machine.New(machine.Config{
		Standard:    busclock.PAL,
		VICRevision: vic.PAL6569,
		CIARevision: cia.MOS6526,
		CPU:         nullCPU{},
	})
	m.AttachMemory(machine.NewMemory())
	if *withDrive {
		m.AttachDrive(0, nullCPU{})
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	memviz.Map(w, m)
}
