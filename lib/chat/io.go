package chat

// ChatPrefix precedes every message received from the peer.
const ChatPrefix = "chat: "

// LineReader yields one line of user input per call and blocks until it is
// available. io.EOF ends the session with InputClosed.
type LineReader interface {
	ReadLine() (string, error)
}

// Printer is the user-facing side of a session. Implementations must be safe
// for use from the receiver and sender goroutines at once.
type Printer interface {
	// Chat shows a message from the peer.
	Chat(text string)
	// Info shows session progress.
	Info(text string)
	// Warn shows a recoverable problem.
	Warn(text string)
}

// FormatChat renders a peer message the way it is shown to the user.
func FormatChat(text string) string {
	return ChatPrefix + text
}
