package domain

// Sender is the author of an inbound message.
type Sender struct {
	UserID int
	Name   string // username, falling back to first name
	IsBot  bool
}

// ReplyMessage carries the parts of a replied-to message that matter
// for trigger creation: the payload and its media kind.
type ReplyMessage struct {
	Kind    MediaKind
	Payload string // text, caption, or media file id
}

// Message is one inbound chat message as delivered by the gateway.
type Message struct {
	ChatID  int64
	Sender  Sender
	Text    string
	ReplyTo *ReplyMessage // nil unless this message replies to another
}

// Member is a chat member (value object).
type Member struct {
	UserID int
	Name   string
}
