package chat

// Reason says why a session ended.
type Reason int

const (
	// LocalQuit: the local user sent the quit token.
	LocalQuit Reason = iota + 1
	// RemoteQuit: the peer's quit token was received and authenticated.
	RemoteQuit
	// InputClosed: the local input reached EOF.
	InputClosed
	// Cancelled: the context was cancelled or the session was closed.
	Cancelled
)

func (r Reason) String() string {
	switch r {
	case LocalQuit:
		return "local quit"
	case RemoteQuit:
		return "remote quit"
	case InputClosed:
		return "input closed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Termination is returned by Run in place of exiting the process; the caller
// decides how to shut down.
type Termination struct {
	Reason Reason
}

func (t Termination) String() string {
	return t.Reason.String()
}
