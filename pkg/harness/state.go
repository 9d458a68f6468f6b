package harness

// State is a phase of the run lifecycle. Transitions are linear:
// Idle → Validating → Acquiring → Ready → Running → Succeeded or Failed →
// ClosingSession → Terminated. Validation failures jump straight to
// ClosingSession since no session exists yet.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateAcquiring
	StateReady
	StateRunning
	StateSucceeded
	StateFailed
	StateClosingSession
	StateTerminated
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StateValidating:     "validating",
	StateAcquiring:      "acquiring",
	StateReady:          "ready",
	StateRunning:        "running",
	StateSucceeded:      "succeeded",
	StateFailed:         "failed",
	StateClosingSession: "closing-session",
	StateTerminated:     "terminated",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
