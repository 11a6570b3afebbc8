package state

// Phase is the lifecycle of one asynchronous operation
type Phase int

const (
	Idle Phase = iota
	Pending
	Fulfilled
	Rejected
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}
