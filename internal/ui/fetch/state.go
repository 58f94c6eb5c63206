// Package fetch models the control state of a view bound to remote data.
//
// Every tracked resource lives in a Slot holding exactly one of Idle,
// Loading, Error or Loaded. Slots belong to a Scope that represents the
// mounted view; results arriving after Unmount, or for a request that has
// been superseded, are discarded.
package fetch

// Phase is the tag of a State.
type Phase int

const (
	Idle Phase = iota
	Loading
	Failed
	Loaded
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Failed:
		return "error"
	case Loaded:
		return "loaded"
	default:
		return "idle"
	}
}

// State is the tagged variant stored in a Slot. The zero value is Idle.
type State[T any] struct {
	phase   Phase
	message string
	data    T
}

func (s State[T]) Phase() Phase {
	return s.phase
}

// Message is the error text; empty unless Phase is Failed.
func (s State[T]) Message() string {
	return s.message
}

// Data returns the loaded value and whether the state is Loaded.
func (s State[T]) Data() (T, bool) {
	return s.data, s.phase == Loaded
}
