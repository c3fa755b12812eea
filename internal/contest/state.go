package contest

// State is the controller's lifecycle state. Exactly one holds at a time.
type State int

const (
	// StateAbsent: no contest is held
	StateAbsent State = iota
	// StateLoading: the active contest is being fetched
	StateLoading
	// StateActive: a contest is held and accepts actions
	StateActive
	// StateCompleting: a completion request is in flight
	StateCompleting
	// StateAbandoning: an abandon request is in flight
	StateAbandoning
	// StateTerminal: the contest was completed or abandoned and the view
	// has navigated away
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateCompleting:
		return "completing"
	case StateAbandoning:
		return "abandoning"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// HoldsContest reports whether a contest is held in this state
func (s State) HoldsContest() bool {
	return s == StateActive || s == StateCompleting || s == StateAbandoning
}
