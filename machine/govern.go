package machine

// state tracks the broad condition of the run loop, grounded on the
// teacher's debugger/govern.State pattern (a small enum toggled under a
// lock and checked at a cycle boundary).
type state int

const (
	stateRunning state = iota
	stateSuspended
	stateEnding
)
