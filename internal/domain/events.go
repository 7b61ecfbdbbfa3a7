package domain

type Event string

// Inbound events.
const (
	EventJoin        Event = "join"
	EventRequeue     Event = "requeue"
	EventChatMessage Event = "chatMessage"
	EventMove        Event = "move"
	EventGameOver    Event = "gameOver"
)

// Outbound events.
const (
	EventMsg             Event = "msg"
	EventJoinSuccess     Event = "joinSuccess"
	EventMatchFound      Event = "matchFound"
	EventOpponentMove    Event = "opponentMove"
	EventOpponentLeft    Event = "opponentLeft"
	EventSessionComplete Event = "sessionComplete"
)

const (
	TextSearching     = "Searching for another user to play with..."
	TextDuplicateName = "That name is already in use. Please choose another."
	TextInvalidName   = "That name cannot be used. Please choose another."
	TextAlreadyJoined = "You have already joined."
	TextNotRequeuable = "You can only search again once your previous match has been cleared."
)

type JoinRequest struct {
	Name string `json:"name"`
}

type Message struct {
	Text string `json:"text"`
}

type MatchFound struct {
	SessionID SessionID `json:"sessionId"`
	Opponent  Name      `json:"opponent"`
}

type ChatMessage struct {
	Username Name   `json:"username,omitempty"`
	Message  string `json:"message"`
}

type SessionEnded struct {
	SessionID SessionID `json:"sessionId"`
}
