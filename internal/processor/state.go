package processor

// State is the position of a project in its processing lifecycle.
type State int

const (
	// Unopened is the initial state before the project handle is acquired.
	Unopened State = iota
	// Opened indicates the project handle was acquired.
	Opened
	// Traversed indicates every map's layer tree has been repaired in memory.
	Traversed
	// Saved indicates the project was written back to disk.
	Saved
	// Failed indicates opening, traversal or saving failed.
	Failed
)

func (s State) String() string {
	switch s {
	case Unopened:
		return "unopened"
	case Opened:
		return "opened"
	case Traversed:
		return "traversed"
	case Saved:
		return "saved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
