package assembly

// State is a step of one assembly run.
type State int

const (
	StateIdle State = iota
	StateLibraryDiscovered
	StateExamChosen
	StateOverwriteConfirmed
	StateAborted
	StatePerLevel
	StateDone
)

var stateNames = map[State]string{
	StateIdle:               "idle",
	StateLibraryDiscovered:  "library-discovered",
	StateExamChosen:         "exam-chosen",
	StateOverwriteConfirmed: "overwrite-confirmed",
	StateAborted:            "aborted",
	StatePerLevel:           "per-level",
	StateDone:               "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
