package domain

import "time"

// Message is one immutable chat message from the shared feed.
type Message struct {
	ID         MessageID
	SenderID   UserID
	ReceiverID UserID
	Text       string
	Timestamp  time.Time // zero when the server sent none; never "unknown"
}

// InConversation reports whether the message belongs to the conversation
// between the two participants, in either direction.
func (m Message) InConversation(a, b UserID) bool {
	return (m.SenderID.Matches(a) && m.ReceiverID.Matches(b)) ||
		(m.SenderID.Matches(b) && m.ReceiverID.Matches(a))
}
