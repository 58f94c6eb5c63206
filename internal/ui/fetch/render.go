package fetch

// Tracked is any slot whose phase participates in a render decision.
type Tracked interface {
	Status() (Phase, string)
}

// RenderKind is the mutually exclusive thing a view shows.
type RenderKind int

const (
	RenderWaiting RenderKind = iota
	RenderLoading
	RenderError
	RenderEmpty
	RenderPopulated
)

func (k RenderKind) String() string {
	switch k {
	case RenderWaiting:
		return "waiting"
	case RenderLoading:
		return "loading"
	case RenderError:
		return "error"
	case RenderEmpty:
		return "empty"
	default:
		return "populated"
	}
}

// Render is the outcome of Decide. Message carries the error text, the
// empty-state text or the prerequisite hint.
type Render struct {
	Kind    RenderKind
	Message string
}

// Copy shown by Decide for the states that are not view specific.
type Copy struct {
	Waiting string
	Empty   string
}

// Decide applies the rendering priority: a missing prerequisite, then any
// slot still loading (idle counts as loading), then the first error, then
// the empty state, then the populated view.
func Decide(prereqMissing, empty bool, text Copy, slots ...Tracked) Render {
	if prereqMissing {
		return Render{Kind: RenderWaiting, Message: text.Waiting}
	}
	for _, s := range slots {
		if p, _ := s.Status(); p == Loading || p == Idle {
			return Render{Kind: RenderLoading}
		}
	}
	for _, s := range slots {
		if p, msg := s.Status(); p == Failed {
			return Render{Kind: RenderError, Message: msg}
		}
	}
	if empty {
		return Render{Kind: RenderEmpty, Message: text.Empty}
	}
	return Render{Kind: RenderPopulated}
}
