package debt

// Status is the lifecycle state of a debt entry.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// transitions is the status whitelist: the set of states each status may
// move to. Any pair not listed here is rejected.
var transitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusReview, StatusResolved, StatusClosed},
	StatusInProgress: {StatusReview, StatusResolved, StatusOpen},
	StatusReview:     {StatusResolved, StatusInProgress, StatusOpen},
	StatusResolved:   {StatusClosed, StatusOpen},
	StatusClosed:     {StatusOpen},
}

// Valid reports whether s is a known status token.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
// A no-op transition (s == next) is not in the whitelist.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses s may move to, in whitelist order.
func (s Status) AllowedTransitions() []Status {
	return append([]Status(nil), transitions[s]...)
}

// Statuses lists all status tokens in lifecycle order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusReview, StatusResolved, StatusClosed}
}
