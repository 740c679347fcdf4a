package practicesession

// Status is the palette state of one question. It is a projection of three
// bits kept per question: visited, has-answer and marked.
type Status int

const (
	NotVisited Status = iota
	Visited
	Answered
	MarkedForReview
	AnsweredAndMarked
)

// Statuses lists every status in palette order.
var Statuses = []Status{NotVisited, Visited, Answered, MarkedForReview, AnsweredAndMarked}

func (s Status) String() string {
	switch s {
	case NotVisited:
		return "not visited"
	case Visited:
		return "not answered"
	case Answered:
		return "answered"
	case MarkedForReview:
		return "marked for review"
	case AnsweredAndMarked:
		return "answered & marked"
	default:
		return "unknown"
	}
}

// Marked reports whether the status carries the review flag.
func (s Status) Marked() bool { return s == MarkedForReview || s == AnsweredAndMarked }

func statusOf(visited, answered, marked bool) Status {
	switch {
	case marked && answered:
		return AnsweredAndMarked
	case marked:
		return MarkedForReview
	case answered:
		return Answered
	case visited:
		return Visited
	default:
		return NotVisited
	}
}
