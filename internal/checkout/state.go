package checkout

type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StateSubmitting State = "SUBMITTING"
	StateSettled    State = "SETTLED"
	StateFailed     State = "FAILED"
)

// Refused attempts go back to IDLE. SETTLED and FAILED may start a new attempt.
var validNext = map[State]map[State]bool{
	StateIdle:       {StateValidating: true},
	StateValidating: {StateSubmitting: true, StateIdle: true},
	StateSubmitting: {StateSettled: true, StateFailed: true},
	StateSettled:    {StateValidating: true, StateIdle: true},
	StateFailed:     {StateValidating: true, StateIdle: true},
}

func CanTransition(from, to State) bool {
	return validNext[from][to]
}
